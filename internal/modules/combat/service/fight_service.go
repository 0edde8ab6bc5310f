package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"aure-self/internal/pkg/xerrors"
)

// FightRequest 发起战斗的参数
// EnemyID 与生成参数二选一：有 EnemyID 时打图鉴敌人，否则按约束生成
type FightRequest struct {
	EnemyID   string
	Tier      string
	Region    string
	Archetype string
}

// FightResponse 战斗结果与结算明细
type FightResponse struct {
	FightID     string        `json:"fight_id"`
	Result      string        `json:"result"`
	RoundCount  int           `json:"round_count"`
	Rounds      []Round       `json:"rounds"`
	Player      CombatantStats `json:"player"`
	Enemy       *EnemyStats   `json:"enemy"`
	XPGained    int64         `json:"xp_gained"`
	GoldGained  int64         `json:"gold_gained"`
	Items       []DroppedItem `json:"items,omitempty"`
	CompanionXP int64         `json:"companion_xp"`
}

// FightService 战斗编排服务：聚合属性 -> 取得敌人 -> 模拟 -> 结算
type FightService struct {
	statService   *StatService
	enemyService  *EnemyService
	eventService  *EventService
	simulator     *Simulator
	rewardService *RewardService

	// 每场战斗独立派生 rng，种子源可注入便于测试
	mu   sync.Mutex
	seed func() int64
	now  func() time.Time
}

// NewFightService 创建战斗编排服务
func NewFightService(
	statService *StatService,
	enemyService *EnemyService,
	eventService *EventService,
	simulator *Simulator,
	rewardService *RewardService,
) *FightService {
	return &FightService{
		statService:   statService,
		enemyService:  enemyService,
		eventService:  eventService,
		simulator:     simulator,
		rewardService: rewardService,
		seed:          func() int64 { return time.Now().UnixNano() },
		now:           time.Now,
	}
}

// Fight 打一场完整的战斗并结算
func (s *FightService) Fight(ctx context.Context, playerID string, req *FightRequest) (*FightResponse, error) {
	if playerID == "" {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "player_id 不能为空")
	}
	if req == nil {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "战斗参数不能为空")
	}

	// 活动加成会参与属性聚合，先于属性计算取得
	effects, err := s.eventService.ActiveEffects(ctx, s.now())
	if err != nil {
		return nil, err
	}

	player, err := s.statService.AggregateWithEffects(ctx, playerID, effects)
	if err != nil {
		return nil, err
	}

	enemy, err := s.resolveEnemy(ctx, player.Level, req)
	if err != nil {
		return nil, err
	}

	outcome, err := s.simulator.Simulate(*player, enemy.Stats(), s.newRNG())
	if err != nil {
		return nil, err
	}

	grant, err := s.rewardService.Settle(ctx, &SettleInput{
		PlayerID: playerID,
		FightID:  uuid.NewString(),
		Outcome:  outcome,
		Enemy:    enemy,
		Effects:  effects,
	})
	if err != nil {
		return nil, err
	}

	return &FightResponse{
		FightID:     grant.FightID,
		Result:      outcome.Result,
		RoundCount:  outcome.RoundCount,
		Rounds:      outcome.Rounds,
		Player:      *player,
		Enemy:       enemy,
		XPGained:    grant.XPGained,
		GoldGained:  grant.GoldGained,
		Items:       grant.Items,
		CompanionXP: grant.CompanionXP,
	}, nil
}

func (s *FightService) resolveEnemy(ctx context.Context, playerLevel int, req *FightRequest) (*EnemyStats, error) {
	if req.EnemyID != "" {
		return s.enemyService.ByID(ctx, req.EnemyID)
	}
	return s.enemyService.Generate(ctx, playerLevel, GenerateOptions{
		Archetype: req.Archetype,
		Tier:      req.Tier,
		Region:    req.Region,
	})
}

func (s *FightService) newRNG() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.seed()))
}
