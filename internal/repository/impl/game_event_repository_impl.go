package impl

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

type gameEventRepositoryImpl struct {
	db *sql.DB
}

// NewGameEventRepository 创建全局活动仓储实例
func NewGameEventRepository(db *sql.DB) interfaces.GameEventRepository {
	return &gameEventRepositoryImpl{db: db}
}

func (r *gameEventRepositoryImpl) ListActive(ctx context.Context, at time.Time) ([]*entity.GameEvent, error) {
	query := `
SELECT id, name, xp_multiplier, gold_multiplier, drop_boost,
       attack_bonus, defense_bonus,
       starts_at, ends_at, is_active, created_at, updated_at
FROM game_config.game_events
WHERE is_active = TRUE
  AND starts_at <= $1
  AND (ends_at IS NULL OR ends_at >= $1)
ORDER BY starts_at
`
	rows, err := r.db.QueryContext(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("查询生效活动失败: %w", err)
	}
	defer rows.Close()

	var events []*entity.GameEvent
	for rows.Next() {
		var e entity.GameEvent
		if err := rows.Scan(
			&e.ID, &e.Name, &e.XPMultiplier, &e.GoldMultiplier, &e.DropBoost,
			&e.AttackBonus, &e.DefenseBonus,
			&e.StartsAt, &e.EndsAt, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描活动记录失败: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历活动记录失败: %w", err)
	}
	return events, nil
}
