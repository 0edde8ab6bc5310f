package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"aure-self/internal/pkg/redis"
	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

// archetypePreset 原型基础属性（1 级、common 品阶的基准值）
type archetypePreset struct {
	maxHP      int
	attack     int
	defense    int
	speed      int
	critChance float64
	namePool   []string
}

var archetypePresets = map[string]archetypePreset{
	entity.ArchetypeBalanced: {
		maxHP: 50, attack: 10, defense: 8, speed: 7, critChance: 5,
		namePool: []string{"游荡狼", "流亡剑士", "荒原强盗"},
	},
	entity.ArchetypeGlassCannon: {
		maxHP: 30, attack: 18, defense: 3, speed: 12, critChance: 12,
		namePool: []string{"毒刃刺客", "风暴术士", "影缚射手"},
	},
	entity.ArchetypeTank: {
		maxHP: 100, attack: 6, defense: 15, speed: 3, critChance: 2,
		namePool: []string{"岩甲巨魔", "锈盾守卫", "沼泽蛮兽"},
	},
}

// regionModifiers 区域系数，作用于攻防与奖励
var regionModifiers = map[string]float64{
	"verdant_plains": 1.0,
	"ashen_wastes":   1.15,
	"frost_peaks":    1.3,
	"abyssal_rift":   1.5,
}

// 等级曲线与波动
const (
	levelScalePerLevel = 0.04 // 每级 +4%
	critLevelFactor    = 0.5  // 暴击成长减半
	speedLevelFactor   = 0.3  // 速度成长更慢
	varianceRange      = 0.12 // ±12% 波动
	baseXPReward       = 20
	baseGoldReward     = 12
)

// 图鉴缓存：图鉴数据只读，短 TTL 过期即可，不做主动失效
const (
	enemyCachePrefix = "combat:enemy:"
	enemyCacheTTL    = 10 * time.Minute
)

// GenerateOptions 生成敌人的可选约束
type GenerateOptions struct {
	Archetype string // 为空时随机
	Tier      string // 为空时默认 common
	Region    string // 为空时无区域加成
}

// EnemyService 敌人供给服务：图鉴查询与按玩家等级生成
type EnemyService struct {
	enemyRepo interfaces.EnemyRepository
	cache     *redis.Client

	// rand.Rand 非并发安全，生成时持锁
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEnemyService 创建敌人供给服务
// rng 由调用方注入，测试时传固定种子获得确定性输出
func NewEnemyService(enemyRepo interfaces.EnemyRepository, rng *rand.Rand) *EnemyService {
	return &EnemyService{
		enemyRepo: enemyRepo,
		rng:       rng,
	}
}

// UseCache 启用图鉴热点缓存，缓存不可用时自动回退数据库
func (s *EnemyService) UseCache(cache *redis.Client) {
	s.cache = cache
}

// ByID 按 ID 获取图鉴敌人
func (s *EnemyService) ByID(ctx context.Context, enemyID string) (*EnemyStats, error) {
	if enemyID == "" {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "enemy_id 不能为空")
	}

	if stats := s.cachedEnemy(ctx, enemyID); stats != nil {
		return stats, nil
	}

	enemy, err := s.enemyRepo.GetByID(ctx, enemyID)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询敌人失败")
	}
	if enemy == nil || !enemy.IsActive {
		return nil, xerrors.NewEnemyNotFoundError(enemyID)
	}

	stats := fromEntity(enemy)
	s.storeEnemyCache(ctx, enemyID, stats)
	return stats, nil
}

// cachedEnemy 缓存命中返回敌人，未命中或缓存异常返回 nil
func (s *EnemyService) cachedEnemy(ctx context.Context, enemyID string) *EnemyStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.GetString(ctx, enemyCachePrefix+enemyID)
	if err != nil {
		return nil
	}
	var stats EnemyStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

// storeEnemyCache 写缓存尽力而为，失败不影响主流程
func (s *EnemyService) storeEnemyCache(ctx context.Context, enemyID string, stats *EnemyStats) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = s.cache.SetWithTTL(ctx, enemyCachePrefix+enemyID, data, enemyCacheTTL)
}

// List 图鉴分页查询
func (s *EnemyService) List(ctx context.Context, params interfaces.EnemyQueryParams) ([]*EnemyStats, int64, error) {
	enemies, total, err := s.enemyRepo.List(ctx, params)
	if err != nil {
		return nil, 0, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询敌人列表失败")
	}
	result := make([]*EnemyStats, 0, len(enemies))
	for _, e := range enemies {
		result = append(result, fromEntity(e))
	}
	return result, total, nil
}

// Generate 按原型 × 品阶 × 玩家等级生成敌人，带 ±12% 随机波动
// 生成结果不落库，仅在本场战斗中使用
func (s *EnemyService) Generate(ctx context.Context, playerLevel int, opts GenerateOptions) (*EnemyStats, error) {
	if playerLevel < 1 {
		playerLevel = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	archetype := opts.Archetype
	if archetype == "" {
		archetype = randomArchetype(s.rng)
	}
	preset, ok := archetypePresets[archetype]
	if !ok {
		return nil, xerrors.FromCode(xerrors.CodeArchetypeNotFound).
			WithMetadata("archetype", archetype)
	}

	tier := opts.Tier
	if tier == "" {
		tier = entity.EnemyTierCommon
	}
	if !entity.IsValidTier(tier) {
		return nil, xerrors.FromCode(xerrors.CodeEnemyTierInvalid).
			WithMetadata("tier", tier)
	}

	regionMult := 1.0
	if opts.Region != "" {
		m, ok := regionModifiers[opts.Region]
		if !ok {
			return nil, xerrors.FromCode(xerrors.CodeEnemyRegionInvalid).
				WithMetadata("region", opts.Region)
		}
		regionMult = m
	}

	tierMult := entity.TierMultiplier(tier)
	levelScale := 1 + float64(playerLevel-1)*levelScalePerLevel
	critScale := 1 + float64(playerLevel-1)*levelScalePerLevel*critLevelFactor
	speedScale := 1 + float64(playerLevel-1)*levelScalePerLevel*speedLevelFactor

	vary := func(v float64) float64 {
		// [-variance, +variance] 均匀波动
		f := 1 + (s.rng.Float64()*2-1)*varianceRange
		return v * f
	}

	enemy := &EnemyStats{
		Name:       enemyDisplayName(s.rng, preset, tier),
		Archetype:  archetype,
		Tier:       tier,
		Region:     opts.Region,
		Level:      playerLevel,
		MaxHP:      int(math.Round(vary(float64(preset.maxHP) * levelScale * tierMult * regionMult))),
		Attack:     int(math.Round(vary(float64(preset.attack) * levelScale * tierMult * regionMult))),
		Defense:    int(math.Round(vary(float64(preset.defense) * levelScale * tierMult * regionMult))),
		Speed:      int(math.Round(vary(float64(preset.speed) * speedScale))),
		CritChance: vary(preset.critChance * critScale),
		XPReward:   int64(math.Round(vary(baseXPReward * levelScale * tierMult * regionMult))),
		GoldReward: int64(math.Round(vary(baseGoldReward * levelScale * tierMult * regionMult))),
	}

	clampEnemy(enemy)
	return enemy, nil
}

// clampEnemy 生成后的边界保护
func clampEnemy(e *EnemyStats) {
	if e.MaxHP < 1 {
		e.MaxHP = 1
	}
	if e.Attack < 0 {
		e.Attack = 0
	}
	if e.Defense < 0 {
		e.Defense = 0
	}
	if e.Speed < 0 {
		e.Speed = 0
	}
	if e.CritChance < 0 {
		e.CritChance = 0
	}
	if e.CritChance > 100 {
		e.CritChance = 100
	}
	if e.XPReward < 0 {
		e.XPReward = 0
	}
	if e.GoldReward < 0 {
		e.GoldReward = 0
	}
}

func randomArchetype(rng *rand.Rand) string {
	archetypes := []string{
		entity.ArchetypeBalanced,
		entity.ArchetypeGlassCannon,
		entity.ArchetypeTank,
	}
	return archetypes[rng.Intn(len(archetypes))]
}

func enemyDisplayName(rng *rand.Rand, preset archetypePreset, tier string) string {
	name := preset.namePool[rng.Intn(len(preset.namePool))]
	switch tier {
	case entity.EnemyTierElite:
		return fmt.Sprintf("精英·%s", name)
	case entity.EnemyTierBoss:
		return fmt.Sprintf("首领·%s", name)
	default:
		return name
	}
}

func fromEntity(e *entity.Enemy) *EnemyStats {
	return &EnemyStats{
		ID:         e.ID,
		Name:       e.Name,
		Archetype:  e.Archetype,
		Tier:       e.Tier,
		Region:     e.Region.String,
		Level:      e.Level,
		MaxHP:      e.MaxHP,
		Attack:     e.Attack,
		Defense:    e.Defense,
		Speed:      e.Speed,
		CritChance: e.CritChance,
		XPReward:   e.XPReward,
		GoldReward: e.GoldReward,
	}
}
