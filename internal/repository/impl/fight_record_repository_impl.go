package impl

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aarondl/sqlboiler/v4/boil"

	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

type fightRecordRepositoryImpl struct {
	db *sql.DB
}

// NewFightRecordRepository 创建战斗记录仓储实例
func NewFightRecordRepository(db *sql.DB) interfaces.FightRecordRepository {
	return &fightRecordRepositoryImpl{db: db}
}

const fightRecordColumns = `
	id, player_id, enemy_id, enemy_name, result, round_count, rounds,
	xp_gained, gold_gained, items, companion_xp, created_at
`

func (r *fightRecordRepositoryImpl) InsertTx(ctx context.Context, execer boil.ContextExecutor, record *entity.FightRecord) (bool, error) {
	if record == nil {
		return false, fmt.Errorf("fight record is nil")
	}
	if record.ID == "" || record.PlayerID == "" {
		return false, fmt.Errorf("fight record 缺少 id 或 player_id")
	}

	// 战斗 ID 唯一，冲突即认为已结算过
	query := `
INSERT INTO game_runtime.fight_records (
	id, player_id, enemy_id, enemy_name, result, round_count, rounds,
	xp_gained, gold_gained, items, companion_xp
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO NOTHING
`
	result, err := execer.ExecContext(
		ctx,
		query,
		record.ID,
		record.PlayerID,
		record.EnemyID,
		record.EnemyName,
		record.Result,
		record.RoundCount,
		nullJSON(record.Rounds),
		record.XPGained,
		record.GoldGained,
		nullJSON(record.Items),
		record.CompanionXP,
	)
	if err != nil {
		return false, fmt.Errorf("插入战斗记录失败: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("读取插入行数失败: %w", err)
	}
	return affected > 0, nil
}

func (r *fightRecordRepositoryImpl) GetByID(ctx context.Context, fightID string) (*entity.FightRecord, error) {
	if fightID == "" {
		return nil, fmt.Errorf("fight_id 不能为空")
	}

	query := `SELECT ` + fightRecordColumns + ` FROM game_runtime.fight_records WHERE id = $1`
	var rec entity.FightRecord
	err := r.db.QueryRowContext(ctx, query, fightID).Scan(
		&rec.ID, &rec.PlayerID, &rec.EnemyID, &rec.EnemyName, &rec.Result,
		&rec.RoundCount, &rec.Rounds, &rec.XPGained, &rec.GoldGained,
		&rec.Items, &rec.CompanionXP, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询战斗记录失败: %w", err)
	}
	return &rec, nil
}

func (r *fightRecordRepositoryImpl) ListByPlayer(ctx context.Context, params interfaces.FightListParams) ([]*entity.FightRecord, error) {
	if params.PlayerID == "" {
		return nil, fmt.Errorf("player_id 不能为空")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	// 游标翻页：按 (created_at, id) 倒序，游标之后的记录
	args := []interface{}{params.PlayerID}
	query := `SELECT ` + fightRecordColumns + ` FROM game_runtime.fight_records WHERE player_id = $1`
	if params.CursorTime != nil {
		args = append(args, *params.CursorTime, params.CursorFightID)
		query += ` AND (created_at, id) < ($2, $3)`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询战斗记录列表失败: %w", err)
	}
	defer rows.Close()

	var records []*entity.FightRecord
	for rows.Next() {
		var rec entity.FightRecord
		if err := rows.Scan(
			&rec.ID, &rec.PlayerID, &rec.EnemyID, &rec.EnemyName, &rec.Result,
			&rec.RoundCount, &rec.Rounds, &rec.XPGained, &rec.GoldGained,
			&rec.Items, &rec.CompanionXP, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描战斗记录失败: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历战斗记录失败: %w", err)
	}
	return records, nil
}

func (r *fightRecordRepositoryImpl) CountByPlayer(ctx context.Context, playerID string) (int64, error) {
	if playerID == "" {
		return 0, fmt.Errorf("player_id 不能为空")
	}
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_runtime.fight_records WHERE player_id = $1`,
		playerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("统计战斗记录失败: %w", err)
	}
	return count, nil
}

func (r *fightRecordRepositoryImpl) TrimToLatest(ctx context.Context, playerID string, keep int) (int64, error) {
	if playerID == "" {
		return 0, fmt.Errorf("player_id 不能为空")
	}
	if keep < 0 {
		keep = 0
	}

	// 删除保留窗口之外的最早记录
	query := `
DELETE FROM game_runtime.fight_records
WHERE player_id = $1
  AND id NOT IN (
	SELECT id FROM game_runtime.fight_records
	WHERE player_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT $2
  )
`
	result, err := r.db.ExecContext(ctx, query, playerID, keep)
	if err != nil {
		return 0, fmt.Errorf("清理战斗记录失败: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("读取删除行数失败: %w", err)
	}
	return affected, nil
}

func (r *fightRecordRepositoryImpl) ListPlayersOverLimit(ctx context.Context, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}

	query := `
SELECT player_id FROM game_runtime.fight_records
GROUP BY player_id
HAVING COUNT(*) > $1
`
	rows, err := r.db.QueryContext(ctx, query, keep)
	if err != nil {
		return nil, fmt.Errorf("查询超限玩家失败: %w", err)
	}
	defer rows.Close()

	var playerIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("扫描玩家ID失败: %w", err)
		}
		playerIDs = append(playerIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历玩家ID失败: %w", err)
	}
	return playerIDs, nil
}
