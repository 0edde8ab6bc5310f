package impl

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/google/uuid"

	"aure-self/internal/repository/interfaces"
)

type playerItemRepositoryImpl struct {
	db *sql.DB
}

// NewPlayerItemRepository 创建玩家背包仓储实例
func NewPlayerItemRepository(db *sql.DB) interfaces.PlayerItemRepository {
	return &playerItemRepositoryImpl{db: db}
}

func (r *playerItemRepositoryImpl) AddTx(ctx context.Context, execer boil.ContextExecutor, playerID, itemCode, itemName, rarity string, quantity int) error {
	if playerID == "" || itemCode == "" {
		return fmt.Errorf("player_id 与 item_code 不能为空")
	}
	if quantity <= 0 {
		return nil
	}

	query := `
INSERT INTO game_runtime.player_items
	(id, player_id, item_code, item_name, rarity, quantity, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
ON CONFLICT (player_id, item_code)
DO UPDATE SET quantity = player_items.quantity + EXCLUDED.quantity, updated_at = NOW()
`
	if _, err := execer.ExecContext(ctx, query,
		uuid.NewString(), playerID, itemCode, itemName, rarity, quantity,
	); err != nil {
		return fmt.Errorf("写入背包物品失败: %w", err)
	}
	return nil
}
