package interfaces

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/boil"

	"aure-self/internal/repository/entity"
)

// PlayerRepository 玩家仓储接口
type PlayerRepository interface {
	// GetByID 根据ID获取玩家
	GetByID(ctx context.Context, playerID string) (*entity.Player, error)

	// LockByIDTx 在事务内按行锁获取玩家，用于结算串行化
	LockByIDTx(ctx context.Context, execer boil.ContextExecutor, playerID string) (*entity.Player, error)

	// AddRewardsTx 在事务内累加经验与金币
	AddRewardsTx(ctx context.Context, execer boil.ContextExecutor, playerID string, xp, gold int64) error
}
