package interfaces

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/boil"
)

// PlayerItemRepository 玩家背包仓储接口
type PlayerItemRepository interface {
	// AddTx 在事务内入库一件物品，已有同类物品时叠加数量
	AddTx(ctx context.Context, execer boil.ContextExecutor, playerID, itemCode, itemName, rarity string, quantity int) error
}
