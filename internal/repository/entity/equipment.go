package entity

import (
	"time"
)

// 装备品质
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
	RarityMythic    = "mythic"
)

// EquipmentItem 数据库装备实体
// 战斗属性拆分为固定加成与百分比加成，聚合时分别处理
type EquipmentItem struct {
	ID       string `db:"id" json:"id"`
	PlayerID string `db:"player_id" json:"player_id"`

	Name   string `db:"name" json:"name"`
	Slot   string `db:"slot" json:"slot"`
	Rarity string `db:"rarity" json:"rarity"`

	// 固定加成
	AttackPower int `db:"attack_power" json:"attack_power"`
	ArmorPower  int `db:"armor_power" json:"armor_power"`
	CritBonus   int `db:"crit_bonus" json:"crit_bonus"`
	HPBonus     int `db:"hp_bonus" json:"hp_bonus"`

	// 百分比加成（0.10 表示 +10%）
	AttackPercent  float64 `db:"attack_percent" json:"attack_percent"`
	DefensePercent float64 `db:"defense_percent" json:"defense_percent"`

	IsEquipped bool `db:"is_equipped" json:"is_equipped"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TableName 返回表名
func (EquipmentItem) TableName() string {
	return "game_runtime.player_equipment"
}

// RarityMultiplier 品质系数，作用于装备的固定加成
func (e *EquipmentItem) RarityMultiplier() float64 {
	switch e.Rarity {
	case RarityUncommon:
		return 1.2
	case RarityRare:
		return 1.5
	case RarityEpic:
		return 2.0
	case RarityLegendary:
		return 3.0
	case RarityMythic:
		return 4.0
	default:
		return 1.0
	}
}
