package entity

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
)

// 战斗结果
const (
	FightResultWin  = "win"
	FightResultLoss = "loss"
	FightResultDraw = "draw"
)

// FightRecord 数据库战斗记录实体
// ID 即战斗 ID，唯一约束保证同一场战斗只结算一次
type FightRecord struct {
	ID       string `db:"id" json:"id"`
	PlayerID string `db:"player_id" json:"player_id"`

	EnemyID   null.String `db:"enemy_id" json:"enemy_id,omitempty"`
	EnemyName string      `db:"enemy_name" json:"enemy_name"`

	Result     string          `db:"result" json:"result"`
	RoundCount int             `db:"round_count" json:"round_count"`
	Rounds     json.RawMessage `db:"rounds" json:"rounds"`

	// 结算结果
	XPGained    int64           `db:"xp_gained" json:"xp_gained"`
	GoldGained  int64           `db:"gold_gained" json:"gold_gained"`
	Items       json.RawMessage `db:"items" json:"items,omitempty"`
	CompanionXP int64           `db:"companion_xp" json:"companion_xp"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TableName 返回表名
func (FightRecord) TableName() string {
	return "game_runtime.fight_records"
}
