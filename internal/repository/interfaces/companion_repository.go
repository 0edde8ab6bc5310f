package interfaces

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/boil"

	"aure-self/internal/repository/entity"
)

// CompanionRepository 伙伴仓储接口
type CompanionRepository interface {
	// GetByID 根据ID获取伙伴
	GetByID(ctx context.Context, companionID string) (*entity.Companion, error)

	// GrantXPTx 在事务内发放伙伴经验并按需升级
	// 返回发放后的等级，以及本次是否触发了升级
	GrantXPTx(ctx context.Context, execer boil.ContextExecutor, companionID string, xp int64) (int, bool, error)
}
