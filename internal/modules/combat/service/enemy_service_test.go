package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

type fakeEnemyRepo struct {
	enemies map[string]*entity.Enemy
	loot    map[string][]*entity.EnemyLootEntry
	err     error
}

func (f *fakeEnemyRepo) GetByID(ctx context.Context, enemyID string) (*entity.Enemy, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.enemies[enemyID], nil
}

func (f *fakeEnemyRepo) GetByCode(ctx context.Context, code string) (*entity.Enemy, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.enemies {
		if e.Code == code {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEnemyRepo) List(ctx context.Context, params interfaces.EnemyQueryParams) ([]*entity.Enemy, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var result []*entity.Enemy
	for _, e := range f.enemies {
		result = append(result, e)
	}
	return result, int64(len(result)), nil
}

func (f *fakeEnemyRepo) ListLoot(ctx context.Context, enemyID string) ([]*entity.EnemyLootEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.loot[enemyID], nil
}

func TestEnemyServiceGenerateScalesWithLevel(t *testing.T) {
	svc := NewEnemyService(&fakeEnemyRepo{}, newTestRNG(1))

	// 50 级 balanced：基准攻击 10，等级系数 1 + 49*0.04 = 2.96
	// ±12% 波动后应落在 [10*2.96*0.88, 10*2.96*1.12]
	enemy, err := svc.Generate(context.Background(), 50, GenerateOptions{
		Archetype: entity.ArchetypeBalanced,
	})
	require.NoError(t, err)

	expected := 10 * (1 + 49*0.04)
	assert.GreaterOrEqual(t, float64(enemy.Attack), math.Floor(expected*0.88))
	assert.LessOrEqual(t, float64(enemy.Attack), math.Ceil(expected*1.12))
	assert.Equal(t, 50, enemy.Level)
	assert.Empty(t, enemy.ID, "生成的敌人不应有图鉴 ID")
}

func TestEnemyServiceGenerateTierMultiplier(t *testing.T) {
	svc := NewEnemyService(&fakeEnemyRepo{}, newTestRNG(5))

	// boss 品阶 2.5 倍；1 级没有等级成长
	enemy, err := svc.Generate(context.Background(), 1, GenerateOptions{
		Archetype: entity.ArchetypeTank,
		Tier:      entity.EnemyTierBoss,
	})
	require.NoError(t, err)

	// 基准 100 HP * 2.5 = 250，±12%
	assert.GreaterOrEqual(t, enemy.MaxHP, 220)
	assert.LessOrEqual(t, enemy.MaxHP, 280)
	assert.True(t, strings.HasPrefix(enemy.Name, "首领·"))
}

func TestEnemyServiceGenerateEliteNamePrefix(t *testing.T) {
	svc := NewEnemyService(&fakeEnemyRepo{}, newTestRNG(2))

	enemy, err := svc.Generate(context.Background(), 3, GenerateOptions{
		Archetype: entity.ArchetypeGlassCannon,
		Tier:      entity.EnemyTierElite,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enemy.Name, "精英·"))
	assert.Equal(t, entity.EnemyTierElite, enemy.Tier)
}

func TestEnemyServiceGenerateDefaults(t *testing.T) {
	svc := NewEnemyService(&fakeEnemyRepo{}, newTestRNG(11))

	// 原型为空时随机，品阶为空时默认 common，等级下限为 1
	enemy, err := svc.Generate(context.Background(), 0, GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, entity.EnemyTierCommon, enemy.Tier)
	assert.Equal(t, 1, enemy.Level)
	assert.Contains(t, []string{
		entity.ArchetypeBalanced,
		entity.ArchetypeGlassCannon,
		entity.ArchetypeTank,
	}, enemy.Archetype)
	assert.GreaterOrEqual(t, enemy.MaxHP, 1)
}

func TestEnemyServiceGenerateRegionModifier(t *testing.T) {
	svc := NewEnemyService(&fakeEnemyRepo{}, newTestRNG(3))

	enemy, err := svc.Generate(context.Background(), 1, GenerateOptions{
		Archetype: entity.ArchetypeTank,
		Region:    "abyssal_rift",
	})
	require.NoError(t, err)

	// 深渊裂隙 1.5 倍：基准 100 HP * 1.5 = 150，±12%
	assert.GreaterOrEqual(t, enemy.MaxHP, 132)
	assert.LessOrEqual(t, enemy.MaxHP, 168)
	assert.Equal(t, "abyssal_rift", enemy.Region)
}

func TestEnemyServiceGenerateInvalidInput(t *testing.T) {
	svc := NewEnemyService(&fakeEnemyRepo{}, newTestRNG(1))
	ctx := context.Background()

	t.Run("未知原型", func(t *testing.T) {
		_, err := svc.Generate(ctx, 1, GenerateOptions{Archetype: "necromancer"})
		requireAppErrorCode(t, err, xerrors.CodeArchetypeNotFound)
	})

	t.Run("未知品阶", func(t *testing.T) {
		_, err := svc.Generate(ctx, 1, GenerateOptions{Tier: "mythic"})
		requireAppErrorCode(t, err, xerrors.CodeEnemyTierInvalid)
	})

	t.Run("未知区域", func(t *testing.T) {
		_, err := svc.Generate(ctx, 1, GenerateOptions{Region: "the_void"})
		requireAppErrorCode(t, err, xerrors.CodeEnemyRegionInvalid)
	})
}

func TestEnemyServiceByID(t *testing.T) {
	repo := &fakeEnemyRepo{enemies: map[string]*entity.Enemy{
		"enemy-1": {
			ID: "enemy-1", Code: "WOLF", Name: "灰狼",
			Archetype: entity.ArchetypeBalanced, Tier: entity.EnemyTierCommon,
			Level: 3, MaxHP: 60, Attack: 12, Defense: 8,
			IsActive: true,
		},
		"enemy-2": {
			ID: "enemy-2", Code: "OLD_WOLF", Name: "下架灰狼",
			IsActive: false,
		},
	}}
	svc := NewEnemyService(repo, newTestRNG(1))
	ctx := context.Background()

	t.Run("成功获取", func(t *testing.T) {
		enemy, err := svc.ByID(ctx, "enemy-1")
		require.NoError(t, err)
		assert.Equal(t, "灰狼", enemy.Name)
		assert.Equal(t, 60, enemy.MaxHP)
	})

	t.Run("不存在", func(t *testing.T) {
		_, err := svc.ByID(ctx, "missing")
		requireAppErrorCode(t, err, xerrors.CodeEnemyNotFound)
	})

	t.Run("已下架", func(t *testing.T) {
		_, err := svc.ByID(ctx, "enemy-2")
		requireAppErrorCode(t, err, xerrors.CodeEnemyNotFound)
	})

	t.Run("空ID", func(t *testing.T) {
		_, err := svc.ByID(ctx, "")
		require.Error(t, err)
	})
}

func requireAppErrorCode(t *testing.T, err error, code xerrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var appErr *xerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}
