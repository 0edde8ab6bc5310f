package interfaces

import (
	"context"

	"aure-self/internal/repository/entity"
)

// EnemyQueryParams 敌人查询参数
type EnemyQueryParams struct {
	Tier      *string // 品阶过滤
	Region    *string // 区域过滤
	Archetype *string // 原型过滤
	MinLevel  *int    // 最小等级
	MaxLevel  *int    // 最大等级
	IsActive  *bool   // 是否启用
	Limit     int     // 每页数量
	Offset    int     // 偏移量
	OrderBy   string  // 排序字段（level, created_at）
	OrderDesc bool    // 是否降序
}

// EnemyRepository 敌人配置仓储接口
type EnemyRepository interface {
	// GetByID 根据ID获取敌人
	GetByID(ctx context.Context, enemyID string) (*entity.Enemy, error)

	// GetByCode 根据代码获取敌人
	GetByCode(ctx context.Context, code string) (*entity.Enemy, error)

	// List 获取敌人列表
	List(ctx context.Context, params EnemyQueryParams) ([]*entity.Enemy, int64, error)

	// ListLoot 获取敌人掉落表
	ListLoot(ctx context.Context, enemyID string) ([]*entity.EnemyLootEntry, error)
}
