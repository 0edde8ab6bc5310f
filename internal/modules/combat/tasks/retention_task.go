package tasks

import (
	"context"

	"github.com/robfig/cron/v3"

	"aure-self/internal/modules/combat/service"
	"aure-self/internal/pkg/log"
)

// RetentionTask 战报保留量定时兜底任务
// 正常情况下每次查询前都会就地裁剪，这里只是兜住长期不查询的玩家
type RetentionTask struct {
	logService *service.CombatLogService
	logger     log.Logger
	cron       *cron.Cron
}

// NewRetentionTask 创建战报保留量任务实例
func NewRetentionTask(sc *service.ServiceContainer, logger log.Logger) *RetentionTask {
	return &RetentionTask{
		logService: sc.GetCombatLogService(),
		logger:     logger,
	}
}

// Start 启动定时任务
func (t *RetentionTask) Start() {
	t.cron = cron.New(cron.WithSeconds()) // 支持秒级调度（用于测试）

	// 每天凌晨3点执行全量裁剪
	// Cron 表达式: 秒 分 时 日 月 周
	_, err := t.cron.AddFunc("0 0 3 * * *", func() {
		t.logger.Info("【定时任务】开始裁剪超量战报")
		t.trimAllPlayers()
		t.logger.Info("【定时任务】战报裁剪完成")
	})

	if err != nil {
		t.logger.Error("【定时任务】添加战报裁剪任务失败", err)
		return
	}

	t.cron.Start()
	t.logger.Info("【定时任务】已启动 - 每天凌晨3点执行战报裁剪")
}

// trimAllPlayers 对所有超量玩家执行裁剪
func (t *RetentionTask) trimAllPlayers() {
	ctx := context.Background()

	trimmed, err := t.logService.TrimAll(ctx)
	if err != nil {
		t.logger.Error("【定时任务】战报裁剪失败", err)
		return
	}
	t.logger.Info("【定时任务】战报裁剪成功", "trimmed_count", trimmed)
}

// Stop 停止定时任务（优雅关闭）
func (t *RetentionTask) Stop() {
	if t.cron != nil {
		t.logger.Info("【定时任务】正在停止战报裁剪任务...")
		ctx := t.cron.Stop()
		<-ctx.Done()
		t.logger.Info("【定时任务】战报裁剪任务已停止")
	}
}
