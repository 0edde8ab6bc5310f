package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"aure-self/internal/pkg/metrics"
	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

// 战报留存与分页规则
const (
	// MaxFightsPerPlayer 每个玩家保留的战斗记录上限，超出后淘汰最早的
	MaxFightsPerPlayer = 30

	// DefaultPageSize 未指定 limit 时的默认页大小
	DefaultPageSize = 20

	// MaxPageSize limit 的上限，超出按上限截断
	MaxPageSize = 50
)

// FightLogEntry 战报列表条目
type FightLogEntry struct {
	FightID     string          `json:"fight_id"`
	EnemyID     string          `json:"enemy_id,omitempty"`
	EnemyName   string          `json:"enemy_name"`
	Result      string          `json:"result"`
	RoundCount  int             `json:"round_count"`
	XPGained    int64           `json:"xp_gained"`
	GoldGained  int64           `json:"gold_gained"`
	Items       json.RawMessage `json:"items,omitempty"`
	CompanionXP int64           `json:"companion_xp"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FightLogPage 战报分页结果
type FightLogPage struct {
	Fights     []*FightLogEntry `json:"fights"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CombatLogService 战报服务：留存清理与游标分页查询
type CombatLogService struct {
	fightRecordRepo interfaces.FightRecordRepository
}

// NewCombatLogService 创建战报服务
func NewCombatLogService(fightRecordRepo interfaces.FightRecordRepository) *CombatLogService {
	return &CombatLogService{fightRecordRepo: fightRecordRepo}
}

// List 查询玩家战报，创建时间倒序
// 查询前先清理超出留存上限的旧记录
func (s *CombatLogService) List(ctx context.Context, playerID string, limit int, cursor string) (*FightLogPage, error) {
	if playerID == "" {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "player_id 不能为空")
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	params := interfaces.FightListParams{
		PlayerID: playerID,
		Limit:    limit,
	}
	if cursor != "" {
		cursorTime, cursorID, err := decodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		params.CursorTime = &cursorTime
		params.CursorFightID = cursorID
	}

	if _, err := s.Trim(ctx, playerID); err != nil {
		return nil, err
	}

	records, err := s.fightRecordRepo.ListByPlayer(ctx, params)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询战报失败")
	}

	page := &FightLogPage{Fights: make([]*FightLogEntry, 0, len(records))}
	for _, record := range records {
		page.Fights = append(page.Fights, toLogEntry(record))
	}

	// 返回满页时带上游标，否则已到末尾
	if len(records) == limit {
		last := records[len(records)-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

// Trim 清理玩家超出留存上限的记录，返回删除数
func (s *CombatLogService) Trim(ctx context.Context, playerID string) (int64, error) {
	if playerID == "" {
		return 0, xerrors.New(xerrors.CodeInvalidParams, "player_id 不能为空")
	}
	removed, err := s.fightRecordRepo.TrimToLatest(ctx, playerID, MaxFightsPerPlayer)
	if err != nil {
		return 0, xerrors.Wrap(err, xerrors.CodeDatabaseError, "清理战报失败")
	}
	if removed > 0 {
		metrics.DefaultBusinessMetrics.RecordFightRecordsTrimmed(removed, "combat")
	}
	return removed, nil
}

// TrimAll 清理所有超限玩家的战报，供定时任务调用
func (s *CombatLogService) TrimAll(ctx context.Context) (int64, error) {
	playerIDs, err := s.fightRecordRepo.ListPlayersOverLimit(ctx, MaxFightsPerPlayer)
	if err != nil {
		return 0, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询超限玩家失败")
	}

	var total int64
	for _, playerID := range playerIDs {
		removed, err := s.Trim(ctx, playerID)
		if err != nil {
			return total, err
		}
		total += removed
	}
	return total, nil
}

// Get 按战斗 ID 获取完整战报（含回合明细）
func (s *CombatLogService) Get(ctx context.Context, playerID, fightID string) (*entity.FightRecord, error) {
	if fightID == "" {
		return nil, xerrors.New(xerrors.CodeInvalidParams, "fight_id 不能为空")
	}
	record, err := s.fightRecordRepo.GetByID(ctx, fightID)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.CodeDatabaseError, "查询战报失败")
	}
	// 不暴露其他玩家的战报
	if record == nil || record.PlayerID != playerID {
		return nil, xerrors.FromCode(xerrors.CodeFightNotFound).
			WithMetadata("fight_id", fightID)
	}
	return record, nil
}

func toLogEntry(record *entity.FightRecord) *FightLogEntry {
	return &FightLogEntry{
		FightID:     record.ID,
		EnemyID:     record.EnemyID.String,
		EnemyName:   record.EnemyName,
		Result:      record.Result,
		RoundCount:  record.RoundCount,
		XPGained:    record.XPGained,
		GoldGained:  record.GoldGained,
		Items:       record.Items,
		CompanionXP: record.CompanionXP,
		CreatedAt:   record.CreatedAt,
	}
}

// encodeCursor 游标为 base64(创建时间|战斗ID)
func encodeCursor(createdAt time.Time, fightID string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + fightID
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", xerrors.NewCursorInvalidError(cursor)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", xerrors.NewCursorInvalidError(cursor)
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", xerrors.NewCursorInvalidError(cursor)
	}
	return ts, parts[1], nil
}
