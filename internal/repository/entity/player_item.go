package entity

import "time"

// PlayerItem 玩家背包物品，同一 item_code 聚合数量
type PlayerItem struct {
	ID        string    `db:"id" json:"id"`
	PlayerID  string    `db:"player_id" json:"player_id"`
	ItemCode  string    `db:"item_code" json:"item_code"`
	ItemName  string    `db:"item_name" json:"item_name"`
	Rarity    string    `db:"rarity" json:"rarity"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
