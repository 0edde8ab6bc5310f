package entity

import (
	"time"

	"github.com/aarondl/null/v8"
)

// 敌人品阶
const (
	EnemyTierCommon = "common"
	EnemyTierElite  = "elite"
	EnemyTierBoss   = "boss"
)

// 敌人原型
const (
	ArchetypeBalanced    = "balanced"
	ArchetypeGlassCannon = "glass_cannon"
	ArchetypeTank        = "tank"
)

// Enemy 数据库敌人配置实体
type Enemy struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	Archetype string      `db:"archetype" json:"archetype"`
	Tier      string      `db:"tier" json:"tier"`
	Region    null.String `db:"region" json:"region,omitempty"`
	Level     int         `db:"level" json:"level"`

	// 战斗属性
	MaxHP      int     `db:"max_hp" json:"max_hp"`
	Attack     int     `db:"attack" json:"attack"`
	Defense    int     `db:"defense" json:"defense"`
	Speed      int     `db:"speed" json:"speed"`
	CritChance float64 `db:"crit_chance" json:"crit_chance"`

	// 击败奖励
	XPReward   int64 `db:"xp_reward" json:"xp_reward"`
	GoldReward int64 `db:"gold_reward" json:"gold_reward"`

	IsActive bool `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TableName 返回表名
func (Enemy) TableName() string {
	return "game_config.enemies"
}

// TierMultiplier 品阶系数
func (e *Enemy) TierMultiplier() float64 {
	return TierMultiplier(e.Tier)
}

// TierMultiplier 品阶系数查表
func TierMultiplier(tier string) float64 {
	switch tier {
	case EnemyTierElite:
		return 1.5
	case EnemyTierBoss:
		return 2.5
	default:
		return 1.0
	}
}

// IsValidTier 检查品阶是否合法
func IsValidTier(tier string) bool {
	switch tier {
	case EnemyTierCommon, EnemyTierElite, EnemyTierBoss:
		return true
	}
	return false
}

// EnemyLootEntry 敌人掉落表条目
type EnemyLootEntry struct {
	ID      string `db:"id" json:"id"`
	EnemyID string `db:"enemy_id" json:"enemy_id"`

	ItemCode string `db:"item_code" json:"item_code"`
	ItemName string `db:"item_name" json:"item_name"`
	Rarity   string `db:"rarity" json:"rarity"`

	// 权重掉落：weight 为 0 的条目不参与抽取
	Weight int `db:"weight" json:"weight"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TableName 返回表名
func (EnemyLootEntry) TableName() string {
	return "game_config.enemy_loot"
}
