package monitor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KNICEX/pump-radar/internal/repo"
	"github.com/KNICEX/pump-radar/internal/service/detector"
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PhaseDetectors 各阶段使用的检测器, 构造时注入固定集合
type PhaseDetectors struct {
	// 发现阶段
	RVOL      detector.Detector
	Amplitude detector.Detector
	// 确认阶段
	Retention  detector.Detector
	Breach     detector.Detector
	Efficiency detector.Detector
	// 验证阶段
	MACross detector.Detector
	OBV     detector.Detector
	ATR     detector.Detector
}

func NewPhaseDetectors(cfg detector.Config) PhaseDetectors {
	return PhaseDetectors{
		RVOL:       detector.NewRVOLCalculator(cfg),
		Amplitude:  detector.NewAmplitudeDetector(cfg),
		Retention:  detector.NewVolumeRetentionAnalyzer(cfg),
		Breach:     detector.NewKeyLevelBreachDetector(cfg),
		Efficiency: detector.NewPriceEfficiencyAnalyzer(cfg),
		MACross:    detector.NewMovingAverageCrossDetector(cfg),
		OBV:        detector.NewOBVDivergenceAnalyzer(cfg),
		ATR:        detector.NewATRCompressionDetector(cfg),
	}
}

// StateMachine 三阶段状态机: pending -> suspected_abandonment -> confirmed_abandonment
// 验证阶段只处理调用方传入的suspected快照, 由扫描入口在确认阶段之前获取,
// 保证一条记录每轮最多推进一个阶段
type StateMachine struct {
	repo      repo.MonitorRepo
	marketSvc exchange.MarketService
	symbolSvc exchange.SymbolService
	detectors PhaseDetectors
	evaluator ConditionEvaluator

	notifier     Notifier
	rejectSymbol func(ctx context.Context, symbol exchange.Symbol) bool
}

type Option func(sm *StateMachine)

func WithNotifier(notifier Notifier) Option {
	return func(sm *StateMachine) {
		sm.notifier = notifier
	}
}

// WithSymbolFilter 发现阶段跳过的交易对, 返回true则跳过
func WithSymbolFilter(reject func(ctx context.Context, symbol exchange.Symbol) bool) Option {
	return func(sm *StateMachine) {
		sm.rejectSymbol = reject
	}
}

func NewStateMachine(monitorRepo repo.MonitorRepo, marketSvc exchange.MarketService,
	symbolSvc exchange.SymbolService, detectors PhaseDetectors, opts ...Option) *StateMachine {
	sm := &StateMachine{
		repo:      monitorRepo,
		marketSvc: marketSvc,
		symbolSvc: symbolSvc,
		detectors: detectors,
		evaluator: NewConditionEvaluator(),
		notifier:  consoleNotifier{},
		rejectSymbol: func(ctx context.Context, symbol exchange.Symbol) bool {
			return false
		},
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// fetchWindow 拉取最近n根已收盘K线, 未收盘的最后一根裁剪掉
func (sm *StateMachine) fetchWindow(ctx context.Context, symbol exchange.Symbol,
	interval exchange.Interval, n int) ([]exchange.Kline, error) {
	now := time.Now()
	klines, err := sm.marketSvc.GetKlines(ctx, exchange.GetKlinesReq{
		Symbol:    symbol,
		Interval:  interval,
		StartTime: now.Add(-time.Duration(n+2) * interval.Duration()),
		EndTime:   now,
	})
	if err != nil {
		return nil, err
	}
	if len(klines) > 0 && klines[len(klines)-1].CloseTime.After(now) {
		klines = klines[:len(klines)-1]
	}
	return klines, nil
}

// fetchWindowSince 拉取从触发K线之前lookback根至今的K线
func (sm *StateMachine) fetchWindowSince(ctx context.Context, symbol exchange.Symbol,
	interval exchange.Interval, triggerTime time.Time, lookback int) ([]exchange.Kline, error) {
	now := time.Now()
	klines, err := sm.marketSvc.GetKlines(ctx, exchange.GetKlinesReq{
		Symbol:    symbol,
		Interval:  interval,
		StartTime: triggerTime.Add(-time.Duration(lookback+2) * interval.Duration()),
		EndTime:   now,
	})
	if err != nil {
		return nil, err
	}
	if len(klines) > 0 && klines[len(klines)-1].CloseTime.After(now) {
		klines = klines[:len(klines)-1]
	}
	return klines, nil
}

func mergeValues(results ...detector.Result) map[string]decimal.Decimal {
	merged := make(map[string]decimal.Decimal)
	for _, res := range results {
		merged = lo.Assign(merged, res.Values)
	}
	return merged
}

func marshalValues(values map[string]decimal.Decimal) string {
	data, err := json.Marshal(values)
	if err != nil {
		// map[string]decimal 序列化不会失败
		return "{}"
	}
	return string(data)
}
