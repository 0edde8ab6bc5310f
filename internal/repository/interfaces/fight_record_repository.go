package interfaces

import (
	"context"
	"time"

	"github.com/aarondl/sqlboiler/v4/boil"

	"aure-self/internal/repository/entity"
)

// FightListParams 战斗记录分页参数
// 游标为上一页最后一条记录的 (created_at, id)，按创建时间倒序翻页
type FightListParams struct {
	PlayerID      string
	Limit         int
	CursorTime    *time.Time
	CursorFightID string
}

// FightRecordRepository 战斗记录仓储接口
type FightRecordRepository interface {
	// InsertTx 在事务内写入战斗记录
	// 战斗 ID 冲突时返回 inserted=false，不报错
	InsertTx(ctx context.Context, execer boil.ContextExecutor, record *entity.FightRecord) (inserted bool, err error)

	// GetByID 根据战斗ID获取记录
	GetByID(ctx context.Context, fightID string) (*entity.FightRecord, error)

	// ListByPlayer 按玩家分页获取战斗记录（创建时间倒序）
	ListByPlayer(ctx context.Context, params FightListParams) ([]*entity.FightRecord, error)

	// CountByPlayer 统计玩家战斗记录数
	CountByPlayer(ctx context.Context, playerID string) (int64, error)

	// TrimToLatest 只保留玩家最近 keep 条记录，删除更早的
	// 返回删除的记录数
	TrimToLatest(ctx context.Context, playerID string, keep int) (int64, error)

	// ListPlayersOverLimit 获取记录数超过 keep 的玩家（供定时清理使用）
	ListPlayersOverLimit(ctx context.Context, keep int) ([]string, error)
}
