package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"aure-self/internal/pkg/metrics"
	"aure-self/internal/pkg/notify"
	"aure-self/internal/pkg/redis"
	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

// 结算规则常量
const (
	// CompanionXPShare 伙伴获得玩家经验的比例
	CompanionXPShare = 0.2

	// settleLockTTL 结算锁的过期时间，防止崩溃后死锁
	settleLockTTL = 10 * time.Second
)

// SettleInput 结算输入
type SettleInput struct {
	PlayerID string
	FightID  string
	Outcome  *FightOutcome
	Enemy    *EnemyStats
	Effects  EventEffects
}

// RewardService 奖励结算服务
// 同一场战斗只结算一次：战斗 ID 唯一约束兜底，Redis 锁 + 玩家行锁串行化并发结算
type RewardService struct {
	db              *sql.DB
	playerRepo      interfaces.PlayerRepository
	companionRepo   interfaces.CompanionRepository
	enemyRepo       interfaces.EnemyRepository
	fightRecordRepo interfaces.FightRecordRepository
	playerItemRepo  interfaces.PlayerItemRepository
	redisClient     *redis.Client

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRewardService 创建奖励结算服务
// redisClient 可为 nil，此时仅依赖数据库行锁串行化
func NewRewardService(
	db *sql.DB,
	playerRepo interfaces.PlayerRepository,
	companionRepo interfaces.CompanionRepository,
	enemyRepo interfaces.EnemyRepository,
	fightRecordRepo interfaces.FightRecordRepository,
	playerItemRepo interfaces.PlayerItemRepository,
	redisClient *redis.Client,
	rng *rand.Rand,
) *RewardService {
	return &RewardService{
		db:              db,
		playerRepo:      playerRepo,
		companionRepo:   companionRepo,
		enemyRepo:       enemyRepo,
		fightRecordRepo: fightRecordRepo,
		playerItemRepo:  playerItemRepo,
		redisClient:     redisClient,
		rng:             rng,
	}
}

// Settle 结算一场战斗：写入战报，胜利时在同一事务内发放全部奖励
// 负场与平局只记录战报，不发放任何奖励
func (s *RewardService) Settle(ctx context.Context, input *SettleInput) (*RewardGrant, error) {
	if input == nil || input.PlayerID == "" {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "player_id 不能为空")
	}
	if input.FightID == "" {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "fight_id 不能为空")
	}
	if input.Outcome == nil || input.Enemy == nil {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "结算缺少战斗结果或敌人信息")
	}

	start := time.Now()
	defer func() {
		metrics.DefaultBusinessMetrics.RecordSettlement(time.Since(start), "combat")
	}()

	// 同一玩家的结算串行化，拿不到锁直接拒绝
	release, err := s.acquirePlayerLock(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	defer release()

	grant, err := s.settleInTx(ctx, input)
	if err != nil {
		return nil, err
	}

	s.recordMetrics(input, grant)
	s.publishEvents(ctx, input, grant)
	return grant, nil
}

func (s *RewardService) settleInTx(ctx context.Context, input *SettleInput) (*RewardGrant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "开启事务失败")
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			// 已提交的事务回滚返回 ErrTxDone，忽略
		}
	}()

	// 行锁保证同一玩家的结算在数据库层也串行
	player, err := s.playerRepo.LockByIDTx(ctx, tx, input.PlayerID)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "锁定玩家失败")
	}
	if player == nil {
		return nil, xerrors.NewPlayerNotFoundError(input.PlayerID)
	}

	grant := &RewardGrant{FightID: input.FightID}
	won := input.Outcome.Result == entity.FightResultWin

	if won {
		grant.XPGained = scaleReward(input.Enemy.XPReward, input.Effects.XPMultiplier)
		grant.GoldGained = scaleReward(input.Enemy.GoldReward, input.Effects.GoldMultiplier)

		items, err := s.rollLoot(ctx, input.Enemy, input.Effects.DropBoost)
		if err != nil {
			return nil, err
		}
		grant.Items = items

		// 伙伴经验先发放再写战报，战报里的数字必须是实际入账的数字
		if err := s.grantCompanionXP(ctx, tx, player, grant); err != nil {
			return nil, err
		}
	}

	// 战斗记录的 ID 冲突说明这场战斗已结算过，回滚掉本事务内的全部发放
	record, err := buildFightRecord(input, grant)
	if err != nil {
		return nil, err
	}
	inserted, err := s.fightRecordRepo.InsertTx(ctx, tx, record)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "写入战斗记录失败")
	}
	if !inserted {
		metrics.DefaultBusinessMetrics.RecordSettlementConflict("duplicate", "combat")
		return nil, xerrors.NewFightConflictError(input.FightID)
	}

	if won {
		if err := s.playerRepo.AddRewardsTx(ctx, tx, input.PlayerID, grant.XPGained, grant.GoldGained); err != nil {
			return nil, xerrors.Wrap(err, xerrors.CodeRewardGrantFailed, "发放玩家奖励失败")
		}
		for _, item := range grant.Items {
			if err := s.playerItemRepo.AddTx(ctx, tx, input.PlayerID, item.ItemCode, item.ItemName, item.Rarity, 1); err != nil {
				return nil, xerrors.Wrap(err, xerrors.CodeRewardGrantFailed, "发放掉落物品失败")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "提交事务失败")
	}
	return grant, nil
}

// grantCompanionXP 有出战伙伴时发放其经验份额；没有伙伴或伙伴已被删除时不发放
func (s *RewardService) grantCompanionXP(ctx context.Context, tx *sql.Tx, player *entity.Player, grant *RewardGrant) error {
	if !player.EquippedCompanionID.Valid || player.EquippedCompanionID.String == "" {
		return nil
	}
	companionXP := int64(math.Floor(float64(grant.XPGained) * CompanionXPShare))
	if companionXP <= 0 {
		return nil
	}

	level, leveledUp, err := s.companionRepo.GrantXPTx(ctx, tx, player.EquippedCompanionID.String, companionXP)
	if err == sql.ErrNoRows {
		// 伙伴已被删除，经验不发放
		return nil
	}
	if err != nil {
		return xerrors.Wrap(err, xerrors.CodeRewardGrantFailed, "发放伙伴经验失败")
	}

	grant.CompanionXP = companionXP
	grant.CompanionID = player.EquippedCompanionID.String
	grant.CompanionLevel = level
	grant.CompanionLeveledUp = leveledUp
	return nil
}

// acquirePlayerLock 获取玩家结算锁，返回释放函数
func (s *RewardService) acquirePlayerLock(ctx context.Context, playerID string) (func(), error) {
	if s.redisClient == nil {
		return func() {}, nil
	}

	lock := s.redisClient.NewLock(
		fmt.Sprintf("combat:settle:%s", playerID),
		uuid.NewString(),
		settleLockTTL,
	)
	ok, err := lock.TryAcquire(ctx)
	if err != nil {
		// Redis 故障时降级到数据库行锁
		return func() {}, nil
	}
	if !ok {
		metrics.DefaultBusinessMetrics.RecordSettlementConflict("locked", "combat")
		return nil, xerrors.NewCombatBusyError(playerID)
	}
	return func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}, nil
}

// rollLoot 按权重抽取掉落，活动的掉落加成放大全部权重
func (s *RewardService) rollLoot(ctx context.Context, enemy *EnemyStats, dropBoost float64) ([]DroppedItem, error) {
	// 临时生成的敌人没有掉落表
	if enemy.ID == "" {
		return nil, nil
	}

	entries, err := s.enemyRepo.ListLoot(ctx, enemy.ID)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询掉落表失败")
	}
	if len(entries) == 0 {
		return nil, nil
	}
	if dropBoost < 1 {
		dropBoost = 1
	}

	// 基准掉落概率 30%，加成只放大概率不增加数量
	const baseDropChance = 0.30
	chance := baseDropChance * dropBoost
	if chance > 1 {
		chance = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() >= chance {
		return nil, nil
	}

	entry := selectLootByWeight(s.rng, entries)
	if entry == nil {
		return nil, nil
	}
	metrics.DefaultBusinessMetrics.RecordItemDropped(entry.Rarity, "combat")
	return []DroppedItem{{
		ItemCode: entry.ItemCode,
		ItemName: entry.ItemName,
		Rarity:   entry.Rarity,
	}}, nil
}

// selectLootByWeight 权重抽取
func selectLootByWeight(rng *rand.Rand, entries []*entity.EnemyLootEntry) *entity.EnemyLootEntry {
	totalWeight := 0
	for _, entry := range entries {
		totalWeight += entry.Weight
	}
	if totalWeight == 0 {
		return nil
	}

	randomValue := rng.Intn(totalWeight)
	currentWeight := 0
	for _, entry := range entries {
		currentWeight += entry.Weight
		if randomValue < currentWeight {
			return entry
		}
	}
	return nil
}

func buildFightRecord(input *SettleInput, grant *RewardGrant) (*entity.FightRecord, error) {
	roundsJSON, err := json.Marshal(input.Outcome.Rounds)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "序列化回合记录失败")
	}
	var itemsJSON []byte
	if len(grant.Items) > 0 {
		itemsJSON, err = json.Marshal(grant.Items)
		if err != nil {
			return nil, xerrors.Wrap(err, xerrors.CodeInternalError, "序列化掉落物品失败")
		}
	}

	record := &entity.FightRecord{
		ID:          input.FightID,
		PlayerID:    input.PlayerID,
		EnemyName:   input.Enemy.Name,
		Result:      input.Outcome.Result,
		RoundCount:  input.Outcome.RoundCount,
		Rounds:      roundsJSON,
		XPGained:    grant.XPGained,
		GoldGained:  grant.GoldGained,
		Items:       itemsJSON,
		CompanionXP: grant.CompanionXP,
	}
	if input.Enemy.ID != "" {
		record.EnemyID = null.StringFrom(input.Enemy.ID)
	}
	return record, nil
}

// scaleReward 奖励按活动系数放大后取整
func scaleReward(base int64, multiplier float64) int64 {
	if multiplier <= 0 {
		multiplier = 1
	}
	return int64(math.Floor(float64(base) * multiplier))
}

func (s *RewardService) recordMetrics(input *SettleInput, grant *RewardGrant) {
	metrics.DefaultBusinessMetrics.RecordFight(input.Outcome.Result, input.Outcome.RoundCount, "combat")
	if grant.XPGained > 0 {
		metrics.DefaultBusinessMetrics.RecordRewardGranted("xp", grant.XPGained, "combat")
	}
	if grant.GoldGained > 0 {
		metrics.DefaultBusinessMetrics.RecordRewardGranted("gold", grant.GoldGained, "combat")
	}
	if grant.CompanionXP > 0 {
		metrics.DefaultBusinessMetrics.RecordRewardGranted("companion_xp", grant.CompanionXP, "combat")
	}
}

func (s *RewardService) publishEvents(ctx context.Context, input *SettleInput, grant *RewardGrant) {
	_ = notify.PublishCombatEvent(ctx, notify.SubjectFightResolved, map[string]interface{}{
		"fight_id":  input.FightID,
		"player_id": input.PlayerID,
		"enemy":     input.Enemy.Name,
		"result":    input.Outcome.Result,
		"rounds":    input.Outcome.RoundCount,
	})
	if grant.XPGained > 0 || grant.GoldGained > 0 {
		_ = notify.PublishCombatEvent(ctx, notify.SubjectRewardSettled, map[string]interface{}{
			"fight_id":     input.FightID,
			"player_id":    input.PlayerID,
			"xp_gained":    grant.XPGained,
			"gold_gained":  grant.GoldGained,
			"companion_xp": grant.CompanionXP,
		})
	}
	if grant.CompanionLeveledUp {
		_ = notify.PublishCombatEvent(ctx, notify.SubjectCompanionLevelUp, map[string]interface{}{
			"player_id":    input.PlayerID,
			"companion_id": grant.CompanionID,
			"level":        grant.CompanionLevel,
		})
	}
}
