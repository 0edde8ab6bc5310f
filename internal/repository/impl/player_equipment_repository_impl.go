package impl

import (
	"context"
	"database/sql"
	"fmt"

	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

type playerEquipmentRepositoryImpl struct {
	db *sql.DB
}

// NewPlayerEquipmentRepository 创建玩家装备仓储实例
func NewPlayerEquipmentRepository(db *sql.DB) interfaces.PlayerEquipmentRepository {
	return &playerEquipmentRepositoryImpl{db: db}
}

func (r *playerEquipmentRepositoryImpl) ListEquipped(ctx context.Context, playerID string) ([]*entity.EquipmentItem, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player_id 不能为空")
	}

	query := `
SELECT id, player_id, name, slot, rarity,
       attack_power, armor_power, crit_bonus, hp_bonus,
       attack_percent, defense_percent, is_equipped,
       created_at, updated_at
FROM game_runtime.player_equipment
WHERE player_id = $1 AND is_equipped = TRUE
ORDER BY slot
`
	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("查询玩家装备失败: %w", err)
	}
	defer rows.Close()

	var items []*entity.EquipmentItem
	for rows.Next() {
		var item entity.EquipmentItem
		if err := rows.Scan(
			&item.ID, &item.PlayerID, &item.Name, &item.Slot, &item.Rarity,
			&item.AttackPower, &item.ArmorPower, &item.CritBonus, &item.HPBonus,
			&item.AttackPercent, &item.DefensePercent, &item.IsEquipped,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描装备记录失败: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历装备记录失败: %w", err)
	}
	return items, nil
}
