package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

type fakeFightRecordRepo struct {
	records map[string]*entity.FightRecord
	err     error
}

func newFakeFightRecordRepo() *fakeFightRecordRepo {
	return &fakeFightRecordRepo{records: make(map[string]*entity.FightRecord)}
}

func (f *fakeFightRecordRepo) InsertTx(ctx context.Context, execer boil.ContextExecutor, record *entity.FightRecord) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, exists := f.records[record.ID]; exists {
		return false, nil
	}
	f.records[record.ID] = record
	return true, nil
}

func (f *fakeFightRecordRepo) GetByID(ctx context.Context, fightID string) (*entity.FightRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[fightID], nil
}

func (f *fakeFightRecordRepo) ListByPlayer(ctx context.Context, params interfaces.FightListParams) ([]*entity.FightRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []*entity.FightRecord
	for _, record := range f.records {
		if record.PlayerID == params.PlayerID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (f *fakeFightRecordRepo) CountByPlayer(ctx context.Context, playerID string) (int64, error) {
	count := int64(0)
	for _, record := range f.records {
		if record.PlayerID == playerID {
			count++
		}
	}
	return count, nil
}

func (f *fakeFightRecordRepo) TrimToLatest(ctx context.Context, playerID string, keep int) (int64, error) {
	return 0, f.err
}

func (f *fakeFightRecordRepo) ListPlayersOverLimit(ctx context.Context, keep int) ([]string, error) {
	return nil, f.err
}

type fakePlayerItemRepo struct {
	// key: playerID|itemCode
	quantities map[string]int
	err        error
}

func newFakePlayerItemRepo() *fakePlayerItemRepo {
	return &fakePlayerItemRepo{quantities: make(map[string]int)}
}

func (f *fakePlayerItemRepo) AddTx(ctx context.Context, execer boil.ContextExecutor, playerID, itemCode, itemName, rarity string, quantity int) error {
	if f.err != nil {
		return f.err
	}
	f.quantities[playerID+"|"+itemCode] += quantity
	return nil
}

type settleFixture struct {
	db      *sql.DB
	mock    sqlmock.Sqlmock
	players *fakePlayerRepo
	comps   *fakeCompanionRepo
	enemies *fakeEnemyRepo
	records *fakeFightRecordRepo
	items   *fakePlayerItemRepo
	svc     *RewardService
}

func newSettleFixture(t *testing.T) *settleFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	players := &fakePlayerRepo{players: map[string]*entity.Player{"player-1": basePlayer()}}
	comps := &fakeCompanionRepo{companions: map[string]*entity.Companion{}}
	enemies := &fakeEnemyRepo{}
	records := newFakeFightRecordRepo()
	items := newFakePlayerItemRepo()

	svc := NewRewardService(db, players, comps, enemies, records, items, nil, newTestRNG(1))
	return &settleFixture{
		db: db, mock: mock,
		players: players, comps: comps, enemies: enemies, records: records, items: items,
		svc: svc,
	}
}

func winOutcome() *FightOutcome {
	return &FightOutcome{
		Result:     entity.FightResultWin,
		RoundCount: 4,
		Rounds: []Round{
			{Round: 1, Attacker: AttackerPlayer, Damage: 10},
		},
		PlayerHP: 50,
	}
}

func catalogEnemy() *EnemyStats {
	return &EnemyStats{
		ID: "enemy-1", Name: "灰狼", XPReward: 100, GoldReward: 40,
	}
}

func TestRewardServiceSettleWin(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	grant, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-1",
		Outcome:  winOutcome(),
		Enemy:    catalogEnemy(),
		Effects:  NeutralEffects(),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 100, grant.XPGained)
	assert.EqualValues(t, 40, grant.GoldGained)
	// 伙伴经验为主经验的 20%，但未出战伙伴时不发放
	assert.EqualValues(t, 0, grant.CompanionXP)

	// 玩家属性已累加
	assert.EqualValues(t, 100, f.players.players["player-1"].XP)
	assert.EqualValues(t, 40, f.players.players["player-1"].Gold)

	// 战斗记录已落库，记录里的伙伴经验与实际发放一致
	record := f.records.records["fight-1"]
	require.NotNil(t, record)
	assert.Equal(t, entity.FightResultWin, record.Result)
	assert.EqualValues(t, 100, record.XPGained)
	assert.EqualValues(t, 0, record.CompanionXP)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestRewardServiceDeletedCompanionRecordsNothing(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	// 玩家还挂着已被删除的出战伙伴
	f.players.players["player-1"].EquippedCompanionID = null.StringFrom("comp-gone")

	grant, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-orphan",
		Outcome:  winOutcome(),
		Enemy:    catalogEnemy(),
		Effects:  NeutralEffects(),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 0, grant.CompanionXP)
	assert.Empty(t, grant.CompanionID)

	// 战报不得声称发放过伙伴经验
	record := f.records.records["fight-orphan"]
	require.NotNil(t, record)
	assert.EqualValues(t, 0, record.CompanionXP)
}

func TestRewardServiceSettleLossGrantsNothing(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	grant, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-loss",
		Outcome: &FightOutcome{
			Result:     entity.FightResultLoss,
			RoundCount: 7,
			Rounds:     []Round{},
		},
		Enemy:   catalogEnemy(),
		Effects: NeutralEffects(),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 0, grant.XPGained)
	assert.EqualValues(t, 0, grant.GoldGained)
	assert.Empty(t, grant.Items)
	assert.EqualValues(t, 0, f.players.players["player-1"].XP)

	// 负场仍然落战斗记录
	record := f.records.records["fight-loss"]
	require.NotNil(t, record)
	assert.Equal(t, entity.FightResultLoss, record.Result)
}

func TestRewardServiceSettleIdempotent(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	input := &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-dup",
		Outcome:  winOutcome(),
		Enemy:    catalogEnemy(),
		Effects:  NeutralEffects(),
	}

	_, err := f.svc.Settle(context.Background(), input)
	require.NoError(t, err)

	// 重复结算同一场战斗应返回冲突，不重复发奖
	_, err = f.svc.Settle(context.Background(), input)
	requireAppErrorCode(t, err, xerrors.CodeFightConflict)
	assert.EqualValues(t, 100, f.players.players["player-1"].XP, "奖励不应重复发放")
}

func TestRewardServiceEventMultipliers(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	grant, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-event",
		Outcome:  winOutcome(),
		Enemy:    catalogEnemy(),
		Effects:  EventEffects{XPMultiplier: 2.0, GoldMultiplier: 1.5, DropBoost: 1},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 200, grant.XPGained)
	assert.EqualValues(t, 60, grant.GoldGained)
}

func TestRewardServiceCompanionXPShare(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	player := f.players.players["player-1"]
	player.EquippedCompanionID = null.StringFrom("comp-1")
	f.comps.companions["comp-1"] = &entity.Companion{
		ID: "comp-1", PlayerID: "player-1", Level: 1,
	}

	grant, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-comp",
		Outcome:  winOutcome(),
		Enemy:    catalogEnemy(),
		Effects:  NeutralEffects(),
	})
	require.NoError(t, err)

	// 100 XP 的 20%
	assert.EqualValues(t, 20, grant.CompanionXP)
	assert.EqualValues(t, 20, f.comps.companions["comp-1"].XP)
	assert.EqualValues(t, 20, f.records.records["fight-comp"].CompanionXP)
}

func TestRewardServiceDropsEnterInventory(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	f.enemies.loot = map[string][]*entity.EnemyLootEntry{
		"enemy-1": {
			{ItemCode: "WOLF_FANG", ItemName: "狼牙", Rarity: entity.RarityCommon, Weight: 1},
		},
	}

	// 掉落加成拉满保证必掉
	grant, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-drop",
		Outcome:  winOutcome(),
		Enemy:    catalogEnemy(),
		Effects:  EventEffects{XPMultiplier: 1, GoldMultiplier: 1, DropBoost: 10},
	})
	require.NoError(t, err)

	require.Len(t, grant.Items, 1)
	assert.Equal(t, "WOLF_FANG", grant.Items[0].ItemCode)

	// 掉落物品与其它奖励一并入账到玩家背包
	assert.Equal(t, 1, f.items.quantities["player-1|WOLF_FANG"])
}

func TestRewardServiceCompanionLevelUp(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	player := f.players.players["player-1"]
	player.EquippedCompanionID = null.StringFrom("comp-1")
	// 距离升级只差 10 经验
	f.comps.companions["comp-1"] = &entity.Companion{
		ID: "comp-1", PlayerID: "player-1", Level: 1, XP: 90,
	}

	grant, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-levelup",
		Outcome:  winOutcome(),
		Enemy:    catalogEnemy(),
		Effects:  NeutralEffects(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, grant.CompanionLevel)
	assert.True(t, grant.CompanionLeveledUp)
	assert.Equal(t, "comp-1", grant.CompanionID)
	// 升级消耗 100，剩余 10 进位到下一级
	assert.EqualValues(t, 10, f.comps.companions["comp-1"].XP)
}

func TestRewardServiceGeneratedEnemyNoLoot(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	// 临时生成的敌人没有图鉴 ID，也就没有掉落表
	grant, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "player-1",
		FightID:  "fight-gen",
		Outcome:  winOutcome(),
		Enemy:    &EnemyStats{Name: "游荡狼", XPReward: 50, GoldReward: 20},
		Effects:  NeutralEffects(),
	})
	require.NoError(t, err)
	assert.Empty(t, grant.Items)
	assert.EqualValues(t, 50, grant.XPGained)
}

func TestRewardServiceSettleValidation(t *testing.T) {
	f := newSettleFixture(t)
	ctx := context.Background()

	t.Run("缺少玩家", func(t *testing.T) {
		_, err := f.svc.Settle(ctx, &SettleInput{FightID: "f1", Outcome: winOutcome(), Enemy: catalogEnemy()})
		require.Error(t, err)
	})

	t.Run("缺少战斗ID", func(t *testing.T) {
		_, err := f.svc.Settle(ctx, &SettleInput{PlayerID: "p1", Outcome: winOutcome(), Enemy: catalogEnemy()})
		require.Error(t, err)
	})

	t.Run("缺少战斗结果", func(t *testing.T) {
		_, err := f.svc.Settle(ctx, &SettleInput{PlayerID: "p1", FightID: "f1", Enemy: catalogEnemy()})
		require.Error(t, err)
	})
}

func TestRewardServicePlayerNotFound(t *testing.T) {
	f := newSettleFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Settle(context.Background(), &SettleInput{
		PlayerID: "ghost",
		FightID:  "fight-ghost",
		Outcome:  winOutcome(),
		Enemy:    catalogEnemy(),
		Effects:  NeutralEffects(),
	})
	requireAppErrorCode(t, err, xerrors.CodePlayerNotFound)
}
