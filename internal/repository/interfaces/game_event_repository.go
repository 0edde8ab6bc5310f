package interfaces

import (
	"context"
	"time"

	"aure-self/internal/repository/entity"
)

// GameEventRepository 全局活动仓储接口
type GameEventRepository interface {
	// ListActive 获取指定时刻生效的活动
	ListActive(ctx context.Context, at time.Time) ([]*entity.GameEvent, error)
}
