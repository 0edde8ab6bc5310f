package entity

import (
	"time"

	"github.com/aarondl/null/v8"
)

// GameEvent 数据库全局活动实体
// 活动期间对经验/金币奖励与掉落权重生效加成
type GameEvent struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	XPMultiplier   float64 `db:"xp_multiplier" json:"xp_multiplier"`
	GoldMultiplier float64 `db:"gold_multiplier" json:"gold_multiplier"`
	DropBoost      float64 `db:"drop_boost" json:"drop_boost"`

	// 活动期间的属性百分比加成（0.1 = +10%），与装备百分比合并后一次性生效
	AttackBonus  float64 `db:"attack_bonus" json:"attack_bonus"`
	DefenseBonus float64 `db:"defense_bonus" json:"defense_bonus"`

	StartsAt time.Time `db:"starts_at" json:"starts_at"`
	EndsAt   null.Time `db:"ends_at" json:"ends_at,omitempty"`
	IsActive bool      `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TableName 返回表名
func (GameEvent) TableName() string {
	return "game_config.game_events"
}

// ActiveAt 检查活动在指定时刻是否生效
func (e *GameEvent) ActiveAt(at time.Time) bool {
	if !e.IsActive {
		return false
	}
	if at.Before(e.StartsAt) {
		return false
	}
	if e.EndsAt.Valid && at.After(e.EndsAt.Time) {
		return false
	}
	return true
}
