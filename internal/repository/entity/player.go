package entity

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Player 数据库玩家实体
type Player struct {
	ID string `db:"id" json:"id"`

	// 基础信息
	Name  string `db:"name" json:"name"`
	Level int    `db:"level" json:"level"`
	XP    int64  `db:"xp" json:"xp"`
	Gold  int64  `db:"gold" json:"gold"`

	// 五维基础属性
	Strength  int `db:"strength" json:"strength"`
	Agility   int `db:"agility" json:"agility"`
	Endurance int `db:"endurance" json:"endurance"`
	Intellect int `db:"intellect" json:"intellect"`
	Luck      int `db:"luck" json:"luck"`

	// 出战伙伴（可为空）
	EquippedCompanionID null.String `db:"equipped_companion_id" json:"equipped_companion_id,omitempty"`

	// 时间戳
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	DeletedAt null.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// TableName 返回表名
func (Player) TableName() string {
	return "game_runtime.players"
}

// IsDeleted 检查玩家是否被软删除
func (p *Player) IsDeleted() bool {
	return p.DeletedAt.Valid
}
