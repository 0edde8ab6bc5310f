package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
)

type fakePlayerRepo struct {
	players map[string]*entity.Player
	err     error
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, playerID string) (*entity.Player, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.players[playerID], nil
}

func (f *fakePlayerRepo) LockByIDTx(ctx context.Context, execer boil.ContextExecutor, playerID string) (*entity.Player, error) {
	return f.GetByID(ctx, playerID)
}

func (f *fakePlayerRepo) AddRewardsTx(ctx context.Context, execer boil.ContextExecutor, playerID string, xp, gold int64) error {
	if f.err != nil {
		return f.err
	}
	if player, ok := f.players[playerID]; ok {
		player.XP += xp
		player.Gold += gold
	}
	return nil
}

type fakeEquipmentRepo struct {
	items []*entity.EquipmentItem
	err   error
}

func (f *fakeEquipmentRepo) ListEquipped(ctx context.Context, playerID string) ([]*entity.EquipmentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeCompanionRepo struct {
	companions map[string]*entity.Companion
	levels     map[string]int
	err        error
}

func (f *fakeCompanionRepo) GetByID(ctx context.Context, companionID string) (*entity.Companion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.companions[companionID], nil
}

func (f *fakeCompanionRepo) GrantXPTx(ctx context.Context, execer boil.ContextExecutor, companionID string, xp int64) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	companion, ok := f.companions[companionID]
	if !ok {
		// 与真实仓储保持一致：伙伴不存在时返回 sql.ErrNoRows
		return 0, false, sql.ErrNoRows
	}
	startLevel := companion.Level
	companion.XP += xp
	for companion.XP >= companion.XPToNextLevel() {
		companion.XP -= companion.XPToNextLevel()
		companion.Level++
	}
	return companion.Level, companion.Level > startLevel, nil
}

func basePlayer() *entity.Player {
	return &entity.Player{
		ID:        "player-1",
		Name:      "测试玩家",
		Level:     5,
		Strength:  10,
		Agility:   10,
		Endurance: 10,
		Luck:      10,
	}
}

func TestStatServiceBaseDerivation(t *testing.T) {
	svc := NewStatService(
		&fakePlayerRepo{players: map[string]*entity.Player{"player-1": basePlayer()}},
		&fakeEquipmentRepo{},
		&fakeCompanionRepo{},
	)

	stats, err := svc.Aggregate(context.Background(), "player-1")
	require.NoError(t, err)

	// END*10 + level*5
	assert.Equal(t, 125, stats.MaxHP)
	// STR*2
	assert.Equal(t, 20, stats.Attack)
	// END*1.5
	assert.Equal(t, 15, stats.Defense)
	// AGI*1.2
	assert.Equal(t, 12, stats.Speed)
	// LCK*0.2
	assert.InDelta(t, 2.0, stats.CritChance, 0.0001)
}

func TestStatServicePercentBonusSummedOnce(t *testing.T) {
	// 两件各 +10% 攻击的装备应得到 +20%，而不是 1.1*1.1=+21%
	items := []*entity.EquipmentItem{
		{Rarity: entity.RarityCommon, AttackPercent: 0.10},
		{Rarity: entity.RarityCommon, AttackPercent: 0.10},
	}
	svc := NewStatService(
		&fakePlayerRepo{players: map[string]*entity.Player{"player-1": basePlayer()}},
		&fakeEquipmentRepo{items: items},
		&fakeCompanionRepo{},
	)

	stats, err := svc.Aggregate(context.Background(), "player-1")
	require.NoError(t, err)

	// 20 * 1.2 = 24
	assert.Equal(t, 24, stats.Attack)
}

func TestStatServiceEventBonusSummedWithEquipment(t *testing.T) {
	// 装备 +10% 与活动 +15% 求和为 +25%，只生效一次
	items := []*entity.EquipmentItem{
		{Rarity: entity.RarityCommon, AttackPercent: 0.10},
	}
	svc := NewStatService(
		&fakePlayerRepo{players: map[string]*entity.Player{"player-1": basePlayer()}},
		&fakeEquipmentRepo{items: items},
		&fakeCompanionRepo{},
	)

	effects := NeutralEffects()
	effects.AttackBonus = 0.15
	effects.DefenseBonus = 0.20

	stats, err := svc.AggregateWithEffects(context.Background(), "player-1", effects)
	require.NoError(t, err)

	// 20 * 1.25 = 25
	assert.Equal(t, 25, stats.Attack)
	// 15 * 1.2 = 18
	assert.Equal(t, 18, stats.Defense)
}

func TestStatServiceRarityScalesFlatBonus(t *testing.T) {
	items := []*entity.EquipmentItem{
		{Rarity: entity.RarityLegendary, AttackPower: 10, ArmorPower: 4, HPBonus: 20},
	}
	svc := NewStatService(
		&fakePlayerRepo{players: map[string]*entity.Player{"player-1": basePlayer()}},
		&fakeEquipmentRepo{items: items},
		&fakeCompanionRepo{},
	)

	stats, err := svc.Aggregate(context.Background(), "player-1")
	require.NoError(t, err)

	// 传说品质 3 倍固定加成
	assert.Equal(t, 20+30, stats.Attack)
	assert.Equal(t, 15+12, stats.Defense)
	assert.Equal(t, 125+60, stats.MaxHP)
}

func TestStatServiceCompanionBonusPerLevel(t *testing.T) {
	player := basePlayer()
	player.EquippedCompanionID = null.StringFrom("comp-1")
	companion := &entity.Companion{
		ID:             "comp-1",
		PlayerID:       "player-1",
		Level:          3,
		BonusStrength:  2,
		BonusEndurance: 1,
	}
	svc := NewStatService(
		&fakePlayerRepo{players: map[string]*entity.Player{"player-1": player}},
		&fakeEquipmentRepo{},
		&fakeCompanionRepo{companions: map[string]*entity.Companion{"comp-1": companion}},
	)

	stats, err := svc.Aggregate(context.Background(), "player-1")
	require.NoError(t, err)

	// STR 10 + 2*3 = 16 -> 攻击 32
	assert.Equal(t, 32, stats.Attack)
	// END 10 + 1*3 = 13 -> 130 + 25
	assert.Equal(t, 155, stats.MaxHP)
}

func TestStatServiceOtherPlayersCompanionIgnored(t *testing.T) {
	player := basePlayer()
	player.EquippedCompanionID = null.StringFrom("comp-1")
	companion := &entity.Companion{
		ID:            "comp-1",
		PlayerID:      "someone-else",
		Level:         5,
		BonusStrength: 10,
	}
	svc := NewStatService(
		&fakePlayerRepo{players: map[string]*entity.Player{"player-1": player}},
		&fakeEquipmentRepo{},
		&fakeCompanionRepo{companions: map[string]*entity.Companion{"comp-1": companion}},
	)

	stats, err := svc.Aggregate(context.Background(), "player-1")
	require.NoError(t, err)
	assert.Equal(t, 20, stats.Attack, "不属于该玩家的伙伴不应生效")
}

func TestStatServiceBaseCritCapped(t *testing.T) {
	player := basePlayer()
	player.Luck = 1000 // 基础暴击应被压到 50
	items := []*entity.EquipmentItem{
		{Rarity: entity.RarityCommon, CritBonus: 30},
	}
	svc := NewStatService(
		&fakePlayerRepo{players: map[string]*entity.Player{"player-1": player}},
		&fakeEquipmentRepo{items: items},
		&fakeCompanionRepo{},
	)

	stats, err := svc.Aggregate(context.Background(), "player-1")
	require.NoError(t, err)
	// 基础上限 50 + 装备 30
	assert.InDelta(t, 80.0, stats.CritChance, 0.0001)
}

func TestStatServiceTotalCritCapped(t *testing.T) {
	player := basePlayer()
	player.Luck = 1000
	items := []*entity.EquipmentItem{
		{Rarity: entity.RarityCommon, CritBonus: 90},
	}
	svc := NewStatService(
		&fakePlayerRepo{players: map[string]*entity.Player{"player-1": player}},
		&fakeEquipmentRepo{items: items},
		&fakeCompanionRepo{},
	)

	stats, err := svc.Aggregate(context.Background(), "player-1")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, stats.CritChance, 0.0001)
}

func TestStatServicePlayerNotFound(t *testing.T) {
	svc := NewStatService(&fakePlayerRepo{}, &fakeEquipmentRepo{}, &fakeCompanionRepo{})

	_, err := svc.Aggregate(context.Background(), "missing")
	require.Error(t, err)

	var appErr *xerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, xerrors.CodePlayerNotFound, appErr.Code)
}

func TestStatServiceEmptyPlayerID(t *testing.T) {
	svc := NewStatService(&fakePlayerRepo{}, &fakeEquipmentRepo{}, &fakeCompanionRepo{})

	_, err := svc.Aggregate(context.Background(), "")
	require.Error(t, err)
}
