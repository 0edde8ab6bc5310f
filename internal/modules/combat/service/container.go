package service

import (
	"database/sql"
	"math/rand"
	"time"

	"aure-self/internal/pkg/redis"
	"aure-self/internal/repository/impl"
	"aure-self/internal/repository/interfaces"
)

// ServiceContainer 战斗服务容器 - 统一管理所有 Repository 和 Service
// 目的：避免重复创建 Repository，简化依赖注入
type ServiceContainer struct {
	// 所有 Repository（共享实例）
	playerRepo      interfaces.PlayerRepository
	equipmentRepo   interfaces.PlayerEquipmentRepository
	companionRepo   interfaces.CompanionRepository
	enemyRepo       interfaces.EnemyRepository
	eventRepo       interfaces.GameEventRepository
	fightRecordRepo interfaces.FightRecordRepository
	playerItemRepo  interfaces.PlayerItemRepository

	// 所有 Service（共享实例）
	StatService      *StatService
	EnemyService     *EnemyService
	EventService     *EventService
	Simulator        *Simulator
	RewardService    *RewardService
	FightService     *FightService
	CombatLogService *CombatLogService
}

// NewServiceContainer 创建服务容器
// redisClient 是可选依赖，为 nil 时结算只靠数据库行锁串行化
func NewServiceContainer(db *sql.DB, redisClient *redis.Client) *ServiceContainer {
	c := &ServiceContainer{}

	// 初始化所有 Repository
	c.playerRepo = impl.NewPlayerRepository(db)
	c.equipmentRepo = impl.NewPlayerEquipmentRepository(db)
	c.companionRepo = impl.NewCompanionRepository(db)
	c.enemyRepo = impl.NewEnemyRepository(db)
	c.eventRepo = impl.NewGameEventRepository(db)
	c.fightRecordRepo = impl.NewFightRecordRepository(db)
	c.playerItemRepo = impl.NewPlayerItemRepository(db)

	// 初始化 Service
	c.StatService = NewStatService(c.playerRepo, c.equipmentRepo, c.companionRepo)
	c.EnemyService = NewEnemyService(c.enemyRepo, rand.New(rand.NewSource(time.Now().UnixNano())))
	if redisClient != nil {
		c.EnemyService.UseCache(redisClient)
	}
	c.EventService = NewEventService(c.eventRepo)
	c.Simulator = NewSimulator()
	c.RewardService = NewRewardService(
		db,
		c.playerRepo,
		c.companionRepo,
		c.enemyRepo,
		c.fightRecordRepo,
		c.playerItemRepo,
		redisClient,
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)
	c.FightService = NewFightService(c.StatService, c.EnemyService, c.EventService, c.Simulator, c.RewardService)
	c.CombatLogService = NewCombatLogService(c.fightRecordRepo)

	return c
}

// GetStatService 获取属性聚合服务
func (c *ServiceContainer) GetStatService() *StatService {
	return c.StatService
}

// GetEnemyService 获取敌人供给服务
func (c *ServiceContainer) GetEnemyService() *EnemyService {
	return c.EnemyService
}

// GetFightService 获取战斗编排服务
func (c *ServiceContainer) GetFightService() *FightService {
	return c.FightService
}

// GetCombatLogService 获取战报服务
func (c *ServiceContainer) GetCombatLogService() *CombatLogService {
	return c.CombatLogService
}

// GetRewardService 获取奖励结算服务
func (c *ServiceContainer) GetRewardService() *RewardService {
	return c.RewardService
}
