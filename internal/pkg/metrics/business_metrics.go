// File: internal/pkg/metrics/business_metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 战斗业务指标收集器
type BusinessMetrics struct {
	// 战斗次数（按结果分组：win/loss/draw）
	FightsTotal *prometheus.CounterVec

	// 战斗回合数直方图
	FightRounds *prometheus.HistogramVec

	// 结算耗时直方图
	SettlementDuration *prometheus.HistogramVec

	// 结算冲突次数（重复 fight id 或玩家锁占用）
	SettlementConflictsTotal *prometheus.CounterVec

	// 发放的经验/金币总量
	RewardsGrantedTotal *prometheus.CounterVec

	// 掉落物品数（按品质分组）
	ItemsDroppedTotal *prometheus.CounterVec

	// 战报清理删除的记录数
	FightRecordsTrimmedTotal *prometheus.CounterVec
}

var (
	// DefaultBusinessMetrics 默认的业务指标实例
	DefaultBusinessMetrics *BusinessMetrics
)

// RoundBuckets 是针对战斗回合数的 buckets
// 回合上限 50，主要分布在 5-30 回合
var RoundBuckets = []float64{
	1,
	5,
	10,
	20,
	30,
	40,
	50,
}

// SettlementBuckets 是针对结算耗时优化的 buckets
// 单位：秒
var SettlementBuckets = []float64{
	0.005,
	0.01,
	0.025,
	0.05,
	0.1,
	0.25,
	0.5,
	1,
}

// init 初始化默认指标
func init() {
	DefaultBusinessMetrics = NewBusinessMetrics("aure")
}

// NewBusinessMetrics 创建新的业务指标收集器
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	return NewBusinessMetricsWithRegistry(namespace, GetRegisterer())
}

// NewBusinessMetricsWithRegistry 创建新的业务指标收集器（使用自定义注册表）
func NewBusinessMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *BusinessMetrics {
	factory := promauto.With(registerer)

	return &BusinessMetrics{
		FightsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "fights_total",
				Help:      "Total number of fights by result (win/loss/draw)",
			},
			[]string{"result", "service"},
		),

		FightRounds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "fight_rounds",
				Help:      "Number of rounds per fight",
				Buckets:   RoundBuckets,
			},
			[]string{"service"},
		),

		SettlementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "settlement_duration_seconds",
				Help:      "Reward settlement duration in seconds",
				Buckets:   SettlementBuckets,
			},
			[]string{"service"},
		),

		SettlementConflictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "settlement_conflicts_total",
				Help:      "Total number of settlement conflicts by reason (duplicate/locked)",
			},
			[]string{"reason", "service"},
		),

		RewardsGrantedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "rewards_granted_total",
				Help:      "Total amount of rewards granted by kind (xp/gold/companion_xp)",
			},
			[]string{"kind", "service"},
		),

		ItemsDroppedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "items_dropped_total",
				Help:      "Total number of items dropped by rarity",
			},
			[]string{"rarity", "service"},
		),

		FightRecordsTrimmedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "fight_records_trimmed_total",
				Help:      "Total number of fight records removed by retention trimming",
			},
			[]string{"service"},
		),
	}
}

// RecordFight 记录战斗指标
//
// 参数:
//   - result: 战斗结果 ("win", "loss", "draw")
//   - rounds: 战斗回合数
//   - service: 服务名称
func (m *BusinessMetrics) RecordFight(result string, rounds int, service string) {
	service = normalizeServiceName(service)
	m.FightsTotal.WithLabelValues(result, service).Inc()
	m.FightRounds.WithLabelValues(service).Observe(float64(rounds))
}

// RecordSettlement 记录结算耗时
func (m *BusinessMetrics) RecordSettlement(duration time.Duration, service string) {
	service = normalizeServiceName(service)
	m.SettlementDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordSettlementConflict 记录结算冲突
//
// 参数:
//   - reason: 冲突原因 ("duplicate", "locked")
func (m *BusinessMetrics) RecordSettlementConflict(reason, service string) {
	service = normalizeServiceName(service)
	m.SettlementConflictsTotal.WithLabelValues(reason, service).Inc()
}

// RecordRewardGranted 记录奖励发放量
//
// 参数:
//   - kind: 奖励类型 ("xp", "gold", "companion_xp")
func (m *BusinessMetrics) RecordRewardGranted(kind string, amount int64, service string) {
	service = normalizeServiceName(service)
	m.RewardsGrantedTotal.WithLabelValues(kind, service).Add(float64(amount))
}

// RecordItemDropped 记录掉落物品
//
// 参数:
//   - rarity: 物品品质 ("common", "uncommon", "rare", "epic", "legendary")
func (m *BusinessMetrics) RecordItemDropped(rarity, service string) {
	service = normalizeServiceName(service)
	m.ItemsDroppedTotal.WithLabelValues(rarity, service).Inc()
}

// RecordFightRecordsTrimmed 记录战报清理删除数
func (m *BusinessMetrics) RecordFightRecordsTrimmed(count int64, service string) {
	service = normalizeServiceName(service)
	m.FightRecordsTrimmedTotal.WithLabelValues(service).Add(float64(count))
}
