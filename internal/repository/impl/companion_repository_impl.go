package impl

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aarondl/sqlboiler/v4/boil"

	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

type companionRepositoryImpl struct {
	db *sql.DB
}

// NewCompanionRepository 创建伙伴仓储实例
func NewCompanionRepository(db *sql.DB) interfaces.CompanionRepository {
	return &companionRepositoryImpl{db: db}
}

func (r *companionRepositoryImpl) GetByID(ctx context.Context, companionID string) (*entity.Companion, error) {
	if companionID == "" {
		return nil, fmt.Errorf("companion_id 不能为空")
	}

	query := `
SELECT id, player_id, name, level, xp,
       bonus_strength, bonus_agility, bonus_endurance, bonus_luck,
       created_at, updated_at
FROM game_runtime.companions
WHERE id = $1
`
	var c entity.Companion
	err := r.db.QueryRowContext(ctx, query, companionID).Scan(
		&c.ID, &c.PlayerID, &c.Name, &c.Level, &c.XP,
		&c.BonusStrength, &c.BonusAgility, &c.BonusEndurance, &c.BonusLuck,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询伙伴失败: %w", err)
	}
	return &c, nil
}

func (r *companionRepositoryImpl) GrantXPTx(ctx context.Context, execer boil.ContextExecutor, companionID string, xp int64) (int, bool, error) {
	if companionID == "" {
		return 0, false, fmt.Errorf("companion_id 不能为空")
	}
	if xp < 0 {
		return 0, false, fmt.Errorf("伙伴经验不能为负: %d", xp)
	}

	// 行锁读取当前等级与经验，升级在应用层结算后写回
	var level int
	var current int64
	err := execer.QueryRowContext(ctx,
		`SELECT level, xp FROM game_runtime.companions WHERE id = $1 FOR UPDATE`,
		companionID,
	).Scan(&level, &current)
	if err == sql.ErrNoRows {
		return 0, false, sql.ErrNoRows
	}
	if err != nil {
		return 0, false, fmt.Errorf("锁定伙伴记录失败: %w", err)
	}

	startLevel := level
	current += xp
	// 升级阈值 100*level，溢出经验结转
	for current >= int64(100*level) {
		current -= int64(100 * level)
		level++
	}

	_, err = execer.ExecContext(ctx,
		`UPDATE game_runtime.companions SET level = $2, xp = $3, updated_at = NOW() WHERE id = $1`,
		companionID, level, current,
	)
	if err != nil {
		return 0, false, fmt.Errorf("更新伙伴经验失败: %w", err)
	}
	return level, level > startLevel, nil
}
