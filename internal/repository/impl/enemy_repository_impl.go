package impl

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

type enemyRepositoryImpl struct {
	db *sql.DB
}

// NewEnemyRepository 创建敌人配置仓储实例
func NewEnemyRepository(db *sql.DB) interfaces.EnemyRepository {
	return &enemyRepositoryImpl{db: db}
}

const enemyColumns = `
	id, code, name, archetype, tier, region, level,
	max_hp, attack, defense, speed, crit_chance,
	xp_reward, gold_reward, is_active, created_at, updated_at
`

func (r *enemyRepositoryImpl) GetByID(ctx context.Context, enemyID string) (*entity.Enemy, error) {
	if enemyID == "" {
		return nil, fmt.Errorf("enemy_id 不能为空")
	}
	query := `SELECT ` + enemyColumns + ` FROM game_config.enemies WHERE id = $1`
	return r.scanEnemy(r.db.QueryRowContext(ctx, query, enemyID))
}

func (r *enemyRepositoryImpl) GetByCode(ctx context.Context, code string) (*entity.Enemy, error) {
	if code == "" {
		return nil, fmt.Errorf("code 不能为空")
	}
	query := `SELECT ` + enemyColumns + ` FROM game_config.enemies WHERE code = $1`
	return r.scanEnemy(r.db.QueryRowContext(ctx, query, code))
}

// List 获取敌人列表
func (r *enemyRepositoryImpl) List(ctx context.Context, params interfaces.EnemyQueryParams) ([]*entity.Enemy, int64, error) {
	var conds []string
	var args []interface{}

	addCond := func(expr string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if params.Tier != nil {
		addCond("tier = $%d", *params.Tier)
	}
	if params.Region != nil {
		addCond("region = $%d", *params.Region)
	}
	if params.Archetype != nil {
		addCond("archetype = $%d", *params.Archetype)
	}
	if params.MinLevel != nil {
		addCond("level >= $%d", *params.MinLevel)
	}
	if params.MaxLevel != nil {
		addCond("level <= $%d", *params.MaxLevel)
	}
	if params.IsActive != nil {
		addCond("is_active = $%d", *params.IsActive)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM game_config.enemies` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计敌人数量失败: %w", err)
	}

	// 排序字段白名单，避免注入
	allowedOrders := map[string]string{
		"level":      "level",
		"created_at": "created_at",
	}
	orderBy, ok := allowedOrders[params.OrderBy]
	if !ok {
		orderBy = "created_at"
	}
	direction := "ASC"
	if params.OrderDesc {
		direction = "DESC"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(
		`SELECT %s FROM game_config.enemies%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		enemyColumns, where, orderBy, direction, len(args)+1, len(args)+2,
	)
	args = append(args, limit, params.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询敌人列表失败: %w", err)
	}
	defer rows.Close()

	var enemies []*entity.Enemy
	for rows.Next() {
		var e entity.Enemy
		if err := rows.Scan(
			&e.ID, &e.Code, &e.Name, &e.Archetype, &e.Tier, &e.Region, &e.Level,
			&e.MaxHP, &e.Attack, &e.Defense, &e.Speed, &e.CritChance,
			&e.XPReward, &e.GoldReward, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("扫描敌人记录失败: %w", err)
		}
		enemies = append(enemies, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("遍历敌人记录失败: %w", err)
	}
	return enemies, total, nil
}

func (r *enemyRepositoryImpl) ListLoot(ctx context.Context, enemyID string) ([]*entity.EnemyLootEntry, error) {
	if enemyID == "" {
		return nil, fmt.Errorf("enemy_id 不能为空")
	}

	query := `
SELECT id, enemy_id, item_code, item_name, rarity, weight, created_at
FROM game_config.enemy_loot
WHERE enemy_id = $1 AND weight > 0
ORDER BY weight DESC
`
	rows, err := r.db.QueryContext(ctx, query, enemyID)
	if err != nil {
		return nil, fmt.Errorf("查询敌人掉落表失败: %w", err)
	}
	defer rows.Close()

	var entries []*entity.EnemyLootEntry
	for rows.Next() {
		var e entity.EnemyLootEntry
		if err := rows.Scan(&e.ID, &e.EnemyID, &e.ItemCode, &e.ItemName, &e.Rarity, &e.Weight, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("扫描掉落条目失败: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历掉落条目失败: %w", err)
	}
	return entries, nil
}

func (r *enemyRepositoryImpl) scanEnemy(row rowScanner) (*entity.Enemy, error) {
	var e entity.Enemy
	err := row.Scan(
		&e.ID, &e.Code, &e.Name, &e.Archetype, &e.Tier, &e.Region, &e.Level,
		&e.MaxHP, &e.Attack, &e.Defense, &e.Speed, &e.CritChance,
		&e.XPReward, &e.GoldReward, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询敌人失败: %w", err)
	}
	return &e, nil
}
