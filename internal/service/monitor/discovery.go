package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KNICEX/pump-radar/internal/entity"
	"github.com/KNICEX/pump-radar/internal/service/detector"
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/samber/lo"
)

// ScanDiscovery 发现阶段: 对没有在途记录的交易对跑放量+振幅检测, 命中则建档
func (sm *StateMachine) ScanDiscovery(ctx context.Context, interval exchange.Interval) (int, error) {
	symbols, err := sm.symbolSvc.GetAllSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("get all symbols: %w", err)
	}
	symbols = lo.Reject(symbols, func(item exchange.Symbol, index int) bool {
		return sm.rejectSymbol(ctx, item)
	})

	windowLen := max(sm.detectors.RVOL.MinKlines(), sm.detectors.Amplitude.MinKlines())

	count := 0
	for _, symbol := range symbols {
		open, err := sm.repo.HasOpen(ctx, symbol.Base, symbol.Quote, interval.ToString())
		if err != nil {
			return count, fmt.Errorf("check open record for %s: %w", symbol.ToString(), err)
		}
		if open {
			continue
		}

		klines, err := sm.fetchWindow(ctx, symbol, interval, windowLen)
		if err != nil {
			slog.Error("failed to get klines", "symbol", symbol.ToString(), "interval", interval, "phase", "discovery", "error", err)
			continue
		}

		input := detector.Input{Klines: klines}
		rvolRes, err := sm.detectors.RVOL.Evaluate(input)
		if err != nil {
			sm.logDetectorErr(err, symbol, interval, "discovery")
			continue
		}
		amplitudeRes, err := sm.detectors.Amplitude.Evaluate(input)
		if err != nil {
			sm.logDetectorErr(err, symbol, interval, "discovery")
			continue
		}

		if !sm.evaluator.EvaluateDiscovery(rvolRes, amplitudeRes) {
			continue
		}

		trigger := input.Current()
		exists, err := sm.repo.HasTrigger(ctx, symbol.Base, symbol.Quote, interval.ToString(), trigger.OpenTime)
		if err != nil {
			return count, fmt.Errorf("check trigger record for %s: %w", symbol.ToString(), err)
		}
		if exists {
			// 同一根触发K线已经建过档, 重复扫描不再生成新记录
			continue
		}

		values := mergeValues(rvolRes, amplitudeRes)
		record := entity.MonitorRecord{
			BaseSymbol:       symbol.Base,
			QuoteSymbol:      symbol.Quote,
			Interval:         interval.ToString(),
			TriggerTime:      trigger.OpenTime,
			TriggerPrice:     trigger.Close,
			TriggerVolume:    trigger.Volume,
			TriggerKlineHigh: trigger.High,
			TriggerKlineLow:  trigger.Low,
			Status:           entity.StatusPending,
			Phase1Passed:     true,
		}
		id, err := sm.repo.CreateWithEvent(ctx, record,
			entity.IndicatorSnapshot{
				Phase:      entity.PhaseDiscovery,
				Indicators: marshalValues(values),
			},
			entity.StateTransition{
				FromStatus:       "",
				ToStatus:         entity.StatusPending,
				TransitionTime:   time.Now(),
				TriggerCondition: marshalValues(values),
			})
		if err != nil {
			// 持久化失败可能破坏原子性约束, 中断本轮扫描交给上层
			return count, fmt.Errorf("create monitor record for %s: %w", symbol.ToString(), err)
		}

		slog.Info("discovered pump candidate", "symbol", symbol.ToString(), "interval", interval,
			"record_id", id, "trigger_price", trigger.Close, "rvol", rvolRes.Values["rvol"])
		count++
	}
	return count, nil
}

func (sm *StateMachine) logDetectorErr(err error, symbol exchange.Symbol, interval exchange.Interval, phase string) {
	if detector.IsDataError(err) {
		slog.Warn("skip record, detector data error", "symbol", symbol.ToString(), "interval", interval, "phase", phase, "error", err)
		return
	}
	slog.Error("detector failed", "symbol", symbol.ToString(), "interval", interval, "phase", phase, "error", err)
}

func recordSymbol(r entity.MonitorRecord) exchange.Symbol {
	return exchange.Symbol{Base: r.BaseSymbol, Quote: r.QuoteSymbol}
}
