package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KNICEX/pump-radar/internal/entity"
	"github.com/KNICEX/pump-radar/internal/repo"
	"github.com/KNICEX/pump-radar/internal/service/detector"
	"github.com/KNICEX/pump-radar/internal/service/exchange"
)

// FindSuspected 取当前的suspected记录集
// 扫描入口在确认阶段之前取快照, 本周期刚推进的记录要等下个周期再验证
func (sm *StateMachine) FindSuspected(ctx context.Context, interval exchange.Interval) ([]entity.MonitorRecord, error) {
	return sm.repo.FindByStatus(ctx, interval.ToString(), entity.StatusSuspected)
}

// ScanValidation 验证阶段: 给定的suspected记录跑均线死叉+OBV+波动率压缩检测
func (sm *StateMachine) ScanValidation(ctx context.Context, interval exchange.Interval,
	records []entity.MonitorRecord) (int, error) {
	windowLen := max(
		sm.detectors.MACross.MinKlines(),
		sm.detectors.OBV.MinKlines(),
		sm.detectors.ATR.MinKlines(),
	)

	count := 0
	for _, record := range records {
		symbol := recordSymbol(record)
		klines, err := sm.fetchWindow(ctx, symbol, interval, windowLen)
		if err != nil {
			slog.Error("failed to get klines", "symbol", symbol.ToString(), "interval", interval, "phase", "validation", "error", err)
			continue
		}

		input := detector.Input{
			Klines:  klines,
			Trigger: recordTrigger(record),
		}

		maRes, err := sm.detectors.MACross.Evaluate(input)
		if err != nil {
			sm.logDetectorErr(err, symbol, interval, "validation")
			continue
		}
		obvRes, err := sm.detectors.OBV.Evaluate(input)
		if err != nil {
			sm.logDetectorErr(err, symbol, interval, "validation")
			continue
		}
		atrRes, err := sm.detectors.ATR.Evaluate(input)
		if err != nil {
			sm.logDetectorErr(err, symbol, interval, "validation")
			continue
		}

		if !sm.evaluator.EvaluateValidation(maRes, obvRes, atrRes) {
			continue
		}

		values := mergeValues(maRes, obvRes, atrRes)
		err = sm.repo.Advance(ctx, repo.AdvanceInput{
			RecordId:  record.Id,
			From:      entity.StatusSuspected,
			To:        entity.StatusConfirmed,
			PhaseFlag: "phase3_passed",
			Snapshot: entity.IndicatorSnapshot{
				Phase:      entity.PhaseValidation,
				Indicators: marshalValues(values),
			},
			Transition: entity.StateTransition{
				FromStatus:       entity.StatusSuspected,
				ToStatus:         entity.StatusConfirmed,
				TransitionTime:   time.Now(),
				TriggerCondition: marshalValues(values),
			},
		})
		if err != nil {
			if errors.Is(err, repo.ErrStaleRecord) {
				slog.Warn("record already advanced", "record_id", record.Id, "phase", "validation")
				continue
			}
			return count, fmt.Errorf("advance record %d to confirmed: %w", record.Id, err)
		}

		slog.Info("validated confirmed abandonment", "symbol", symbol.ToString(), "interval", interval,
			"record_id", record.Id)
		count++

		signal := AbandonSignal{
			Symbol:       symbol,
			Interval:     interval,
			TriggerPrice: record.TriggerPrice,
			TriggerTime:  record.TriggerTime,
			ConfirmedAt:  time.Now(),
			Indicators:   values,
		}
		// 通知失败不影响扫描
		go func() {
			if err := sm.notifier.Notify(ctx, signal); err != nil {
				slog.Error("abandon signal notify err", "error", err, "signal", signal)
			}
		}()
	}
	return count, nil
}
