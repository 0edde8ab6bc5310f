package service

import (
	"context"
	"math"

	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

// 属性推导系数
const (
	hpPerEndurance      = 10
	hpPerLevel          = 5
	attackPerStrength   = 2
	defensePerEndurance = 1.5
	speedPerAgility     = 1.2
	critPerLuck         = 0.2
	baseCritCap         = 50.0 // 基础幸运带来的暴击上限，装备加成可以突破
	critCap             = 100.0
)

// StatService 玩家战斗属性聚合服务
// 基础五维 + 伙伴加成推导出衍生属性，再叠加装备的固定与百分比加成，
// 活动期间的百分比加成与装备百分比求和后一次性生效
type StatService struct {
	playerRepo    interfaces.PlayerRepository
	equipmentRepo interfaces.PlayerEquipmentRepository
	companionRepo interfaces.CompanionRepository
}

// NewStatService 创建属性聚合服务
func NewStatService(
	playerRepo interfaces.PlayerRepository,
	equipmentRepo interfaces.PlayerEquipmentRepository,
	companionRepo interfaces.CompanionRepository,
) *StatService {
	return &StatService{
		playerRepo:    playerRepo,
		equipmentRepo: equipmentRepo,
		companionRepo: companionRepo,
	}
}

// Aggregate 聚合玩家的最终战斗属性，只读不落库
func (s *StatService) Aggregate(ctx context.Context, playerID string) (*CombatantStats, error) {
	return s.AggregateWithEffects(ctx, playerID, NeutralEffects())
}

// AggregateWithEffects 在装备加成之外并入活动的属性百分比加成
func (s *StatService) AggregateWithEffects(ctx context.Context, playerID string, effects EventEffects) (*CombatantStats, error) {
	if playerID == "" {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "player_id 不能为空")
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询玩家失败")
	}
	if player == nil {
		return nil, xerrors.NewPlayerNotFoundError(playerID)
	}

	equipment, err := s.equipmentRepo.ListEquipped(ctx, playerID)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询玩家装备失败")
	}

	companion, err := s.equippedCompanion(ctx, player)
	if err != nil {
		return nil, err
	}

	return buildStats(player, equipment, companion, effects), nil
}

func (s *StatService) equippedCompanion(ctx context.Context, player *entity.Player) (*entity.Companion, error) {
	if !player.EquippedCompanionID.Valid || player.EquippedCompanionID.String == "" {
		return nil, nil
	}
	companion, err := s.companionRepo.GetByID(ctx, player.EquippedCompanionID.String)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询伙伴失败")
	}
	// 出战伙伴被删除时按无伙伴处理
	if companion == nil || companion.PlayerID != player.ID {
		return nil, nil
	}
	return companion, nil
}

// buildStats 纯计算：基础属性 -> 衍生属性 -> 装备与活动加成
func buildStats(player *entity.Player, equipment []*entity.EquipmentItem, companion *entity.Companion, effects EventEffects) *CombatantStats {
	// 伙伴按等级放大的基础属性加成
	strength := player.Strength
	agility := player.Agility
	endurance := player.Endurance
	luck := player.Luck
	if companion != nil {
		strength += companion.BonusStrength * companion.Level
		agility += companion.BonusAgility * companion.Level
		endurance += companion.BonusEndurance * companion.Level
		luck += companion.BonusLuck * companion.Level
	}

	// 衍生属性
	maxHP := endurance*hpPerEndurance + player.Level*hpPerLevel
	attack := float64(strength * attackPerStrength)
	defense := float64(endurance) * defensePerEndurance
	speed := float64(agility) * speedPerAgility
	crit := math.Min(float64(luck)*critPerLuck, baseCritCap)

	// 装备固定加成（按品质放大）与百分比加成
	// 装备、活动的百分比先求和再一次性生效，不做乘法叠加
	attackPct := effects.AttackBonus
	defensePct := effects.DefenseBonus
	for _, item := range equipment {
		mult := item.RarityMultiplier()
		attack += float64(item.AttackPower) * mult
		defense += float64(item.ArmorPower) * mult
		maxHP += int(float64(item.HPBonus) * mult)
		crit += float64(item.CritBonus)
		attackPct += item.AttackPercent
		defensePct += item.DefensePercent
	}
	attack *= 1 + attackPct
	defense *= 1 + defensePct

	stats := &CombatantStats{
		Name:       player.Name,
		Level:      player.Level,
		MaxHP:      maxHP,
		Attack:     int(math.Floor(attack)),
		Defense:    int(math.Floor(defense)),
		Speed:      int(math.Floor(speed)),
		CritChance: math.Min(crit, critCap),
	}
	clampStats(stats)
	return stats
}

// clampStats 属性下限保护：maxHP 至少为 1，其余不为负
func clampStats(stats *CombatantStats) {
	if stats.MaxHP < 1 {
		stats.MaxHP = 1
	}
	if stats.Attack < 0 {
		stats.Attack = 0
	}
	if stats.Defense < 0 {
		stats.Defense = 0
	}
	if stats.Speed < 0 {
		stats.Speed = 0
	}
	if stats.CritChance < 0 {
		stats.CritChance = 0
	}
}
