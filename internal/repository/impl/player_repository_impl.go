package impl

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aarondl/sqlboiler/v4/boil"

	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

type playerRepositoryImpl struct {
	db *sql.DB
}

// NewPlayerRepository 创建玩家仓储实例
func NewPlayerRepository(db *sql.DB) interfaces.PlayerRepository {
	return &playerRepositoryImpl{db: db}
}

const playerColumns = `
	id, name, level, xp, gold,
	strength, agility, endurance, intellect, luck,
	equipped_companion_id, created_at, updated_at, deleted_at
`

func (r *playerRepositoryImpl) GetByID(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player_id 不能为空")
	}

	query := `SELECT ` + playerColumns + ` FROM game_runtime.players WHERE id = $1 AND deleted_at IS NULL`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, playerID))
}

func (r *playerRepositoryImpl) LockByIDTx(ctx context.Context, execer boil.ContextExecutor, playerID string) (*entity.Player, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player_id 不能为空")
	}

	query := `SELECT ` + playerColumns + ` FROM game_runtime.players WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.scanPlayer(execer.QueryRowContext(ctx, query, playerID))
}

func (r *playerRepositoryImpl) AddRewardsTx(ctx context.Context, execer boil.ContextExecutor, playerID string, xp, gold int64) error {
	if playerID == "" {
		return fmt.Errorf("player_id 不能为空")
	}

	query := `
UPDATE game_runtime.players
SET xp = xp + GREATEST($2, 0),
    gold = GREATEST(gold + $3, 0),
    updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`
	result, err := execer.ExecContext(ctx, query, playerID, xp, gold)
	if err != nil {
		return fmt.Errorf("更新玩家奖励失败: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("读取更新行数失败: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *playerRepositoryImpl) scanPlayer(row rowScanner) (*entity.Player, error) {
	var p entity.Player
	err := row.Scan(
		&p.ID, &p.Name, &p.Level, &p.XP, &p.Gold,
		&p.Strength, &p.Agility, &p.Endurance, &p.Intellect, &p.Luck,
		&p.EquippedCompanionID, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询玩家失败: %w", err)
	}
	return &p, nil
}
