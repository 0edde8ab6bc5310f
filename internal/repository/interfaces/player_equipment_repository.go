package interfaces

import (
	"context"

	"aure-self/internal/repository/entity"
)

// PlayerEquipmentRepository 玩家装备仓储接口
type PlayerEquipmentRepository interface {
	// ListEquipped 获取玩家已穿戴的装备
	ListEquipped(ctx context.Context, playerID string) ([]*entity.EquipmentItem, error)
}
