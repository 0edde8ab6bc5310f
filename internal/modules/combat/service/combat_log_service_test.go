package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aure-self/internal/pkg/xerrors"
	"aure-self/internal/repository/entity"
	"aure-self/internal/repository/interfaces"
)

// pagingFightRecordRepo 实现倒序分页与裁剪语义的内存仓储
type pagingFightRecordRepo struct {
	records []*entity.FightRecord
}

func (p *pagingFightRecordRepo) InsertTx(ctx context.Context, execer boil.ContextExecutor, record *entity.FightRecord) (bool, error) {
	for _, r := range p.records {
		if r.ID == record.ID {
			return false, nil
		}
	}
	p.records = append(p.records, record)
	return true, nil
}

func (p *pagingFightRecordRepo) GetByID(ctx context.Context, fightID string) (*entity.FightRecord, error) {
	for _, r := range p.records {
		if r.ID == fightID {
			return r, nil
		}
	}
	return nil, nil
}

func (p *pagingFightRecordRepo) sorted(playerID string) []*entity.FightRecord {
	var result []*entity.FightRecord
	for _, r := range p.records {
		if r.PlayerID == playerID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (p *pagingFightRecordRepo) ListByPlayer(ctx context.Context, params interfaces.FightListParams) ([]*entity.FightRecord, error) {
	var result []*entity.FightRecord
	for _, r := range p.sorted(params.PlayerID) {
		if params.CursorTime != nil {
			// (created_at, id) 严格小于游标
			if !r.CreatedAt.Before(*params.CursorTime) &&
				!(r.CreatedAt.Equal(*params.CursorTime) && r.ID < params.CursorFightID) {
				continue
			}
		}
		result = append(result, r)
		if len(result) == params.Limit {
			break
		}
	}
	return result, nil
}

func (p *pagingFightRecordRepo) CountByPlayer(ctx context.Context, playerID string) (int64, error) {
	return int64(len(p.sorted(playerID))), nil
}

func (p *pagingFightRecordRepo) TrimToLatest(ctx context.Context, playerID string, keep int) (int64, error) {
	ordered := p.sorted(playerID)
	if len(ordered) <= keep {
		return 0, nil
	}
	drop := make(map[string]bool)
	for _, r := range ordered[keep:] {
		drop[r.ID] = true
	}
	var kept []*entity.FightRecord
	for _, r := range p.records {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	removed := int64(len(p.records) - len(kept))
	p.records = kept
	return removed, nil
}

func (p *pagingFightRecordRepo) ListPlayersOverLimit(ctx context.Context, keep int) ([]string, error) {
	counts := make(map[string]int)
	for _, r := range p.records {
		counts[r.PlayerID]++
	}
	var result []string
	for playerID, count := range counts {
		if count > keep {
			result = append(result, playerID)
		}
	}
	return result, nil
}

// seedRecords 为玩家写入 n 条创建时间递增的记录
func seedRecords(repo *pagingFightRecordRepo, playerID string, n int) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		repo.records = append(repo.records, &entity.FightRecord{
			ID:        fmt.Sprintf("fight-%03d", i),
			PlayerID:  playerID,
			EnemyName: "灰狼",
			Result:    entity.FightResultWin,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestCombatLogListDefaultPageSize(t *testing.T) {
	repo := &pagingFightRecordRepo{}
	seedRecords(repo, "player-1", 25)
	svc := NewCombatLogService(repo)

	page, err := svc.List(context.Background(), "player-1", 0, "")
	require.NoError(t, err)
	assert.Len(t, page.Fights, DefaultPageSize)
	assert.NotEmpty(t, page.NextCursor)
	// 最新的记录在最前
	assert.Equal(t, "fight-024", page.Fights[0].FightID)
}

func TestCombatLogListLimitClamped(t *testing.T) {
	repo := &pagingFightRecordRepo{}
	// 先塞满 30 条（留存上限内）
	seedRecords(repo, "player-1", 30)
	svc := NewCombatLogService(repo)

	page, err := svc.List(context.Background(), "player-1", 500, "")
	require.NoError(t, err)
	// limit 超过上限按 50 截断，但只有 30 条
	assert.Len(t, page.Fights, 30)
	assert.Empty(t, page.NextCursor, "不满页时不应返回游标")
}

func TestCombatLogListCursorPagination(t *testing.T) {
	repo := &pagingFightRecordRepo{}
	seedRecords(repo, "player-1", 30)
	svc := NewCombatLogService(repo)
	ctx := context.Background()

	first, err := svc.List(ctx, "player-1", 10, "")
	require.NoError(t, err)
	require.Len(t, first.Fights, 10)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, "player-1", 10, first.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Fights, 10)

	// 两页不重叠且严格衔接
	assert.Equal(t, "fight-029", first.Fights[0].FightID)
	assert.Equal(t, "fight-020", first.Fights[9].FightID)
	assert.Equal(t, "fight-019", second.Fights[0].FightID)

	third, err := svc.List(ctx, "player-1", 10, second.NextCursor)
	require.NoError(t, err)
	require.Len(t, third.Fights, 10)
	assert.Equal(t, "fight-000", third.Fights[9].FightID)
}

func TestCombatLogListTrimsBeforeRead(t *testing.T) {
	repo := &pagingFightRecordRepo{}
	// 超出留存上限 10 条
	seedRecords(repo, "player-1", 40)
	svc := NewCombatLogService(repo)

	page, err := svc.List(context.Background(), "player-1", 50, "")
	require.NoError(t, err)
	assert.Len(t, page.Fights, MaxFightsPerPlayer)
	// 淘汰的是最早的记录
	assert.Equal(t, "fight-039", page.Fights[0].FightID)
	assert.Equal(t, "fight-010", page.Fights[len(page.Fights)-1].FightID)

	count, err := repo.CountByPlayer(context.Background(), "player-1")
	require.NoError(t, err)
	assert.EqualValues(t, MaxFightsPerPlayer, count)
}

func TestCombatLogListInvalidCursor(t *testing.T) {
	repo := &pagingFightRecordRepo{}
	seedRecords(repo, "player-1", 5)
	svc := NewCombatLogService(repo)
	ctx := context.Background()

	t.Run("非法base64", func(t *testing.T) {
		_, err := svc.List(ctx, "player-1", 10, "not-base64!!!")
		requireAppErrorCode(t, err, xerrors.CodeCursorInvalid)
	})

	t.Run("缺少分隔符", func(t *testing.T) {
		_, err := svc.List(ctx, "player-1", 10, "bm8tc2VwYXJhdG9y")
		requireAppErrorCode(t, err, xerrors.CodeCursorInvalid)
	})

	t.Run("时间格式错误", func(t *testing.T) {
		_, err := svc.List(ctx, "player-1", 10, "bm90LWEtdGltZXxmaWdodC0x")
		requireAppErrorCode(t, err, xerrors.CodeCursorInvalid)
	})
}

func TestCombatLogTrimAll(t *testing.T) {
	repo := &pagingFightRecordRepo{}
	seedRecords(repo, "player-1", 35)
	for i := 0; i < 3; i++ {
		repo.records = append(repo.records, &entity.FightRecord{
			ID:        fmt.Sprintf("other-%d", i),
			PlayerID:  "player-2",
			CreatedAt: time.Now(),
		})
	}
	svc := NewCombatLogService(repo)

	removed, err := svc.TrimAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, removed)

	count, err := repo.CountByPlayer(context.Background(), "player-2")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count, "未超限玩家的记录不受影响")
}

func TestCombatLogGet(t *testing.T) {
	repo := &pagingFightRecordRepo{}
	seedRecords(repo, "player-1", 3)
	svc := NewCombatLogService(repo)
	ctx := context.Background()

	t.Run("成功获取", func(t *testing.T) {
		record, err := svc.Get(ctx, "player-1", "fight-001")
		require.NoError(t, err)
		assert.Equal(t, "fight-001", record.ID)
	})

	t.Run("不存在", func(t *testing.T) {
		_, err := svc.Get(ctx, "player-1", "fight-999")
		requireAppErrorCode(t, err, xerrors.CodeFightNotFound)
	})

	t.Run("其他玩家的战报", func(t *testing.T) {
		_, err := svc.Get(ctx, "player-2", "fight-001")
		requireAppErrorCode(t, err, xerrors.CodeFightNotFound)
	})
}
