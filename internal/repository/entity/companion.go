package entity

import (
	"time"
)

// Companion 数据库伙伴实体
// 出战伙伴为玩家提供按等级放大的固定属性加成
type Companion struct {
	ID       string `db:"id" json:"id"`
	PlayerID string `db:"player_id" json:"player_id"`

	Name  string `db:"name" json:"name"`
	Level int    `db:"level" json:"level"`
	XP    int64  `db:"xp" json:"xp"`

	// 每级附加的基础加成
	BonusStrength  int `db:"bonus_strength" json:"bonus_strength"`
	BonusAgility   int `db:"bonus_agility" json:"bonus_agility"`
	BonusEndurance int `db:"bonus_endurance" json:"bonus_endurance"`
	BonusLuck      int `db:"bonus_luck" json:"bonus_luck"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TableName 返回表名
func (Companion) TableName() string {
	return "game_runtime.companions"
}

// XPToNextLevel 升级所需经验：100 * 当前等级
func (c *Companion) XPToNextLevel() int64 {
	return int64(100 * c.Level)
}
