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

// ScanConfirmation 确认阶段: pending记录跑缩量+跌破关键位+价格效率检测
func (sm *StateMachine) ScanConfirmation(ctx context.Context, interval exchange.Interval) (int, error) {
	records, err := sm.repo.FindByStatus(ctx, interval.ToString(), entity.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("find pending records: %w", err)
	}

	count := 0
	for _, record := range records {
		symbol := recordSymbol(record)
		klines, err := sm.fetchWindowSince(ctx, symbol, interval, record.TriggerTime,
			sm.detectors.Efficiency.MinKlines())
		if err != nil {
			slog.Error("failed to get klines", "symbol", symbol.ToString(), "interval", interval, "phase", "confirmation", "error", err)
			continue
		}

		input := detector.Input{
			Klines:  klines,
			Trigger: recordTrigger(record),
		}

		retentionRes, err := sm.detectors.Retention.Evaluate(input)
		if err != nil {
			sm.logDetectorErr(err, symbol, interval, "confirmation")
			continue
		}
		breachRes, err := sm.detectors.Breach.Evaluate(input)
		if err != nil {
			sm.logDetectorErr(err, symbol, interval, "confirmation")
			continue
		}
		efficiencyRes, err := sm.detectors.Efficiency.Evaluate(input)
		if err != nil {
			sm.logDetectorErr(err, symbol, interval, "confirmation")
			continue
		}

		if !sm.evaluator.EvaluateConfirmation(retentionRes, breachRes, efficiencyRes) {
			continue
		}

		values := mergeValues(retentionRes, breachRes, efficiencyRes)
		err = sm.repo.Advance(ctx, repo.AdvanceInput{
			RecordId:  record.Id,
			From:      entity.StatusPending,
			To:        entity.StatusSuspected,
			PhaseFlag: "phase2_passed",
			Snapshot: entity.IndicatorSnapshot{
				Phase:      entity.PhaseConfirmation,
				Indicators: marshalValues(values),
			},
			Transition: entity.StateTransition{
				FromStatus:       entity.StatusPending,
				ToStatus:         entity.StatusSuspected,
				TransitionTime:   time.Now(),
				TriggerCondition: marshalValues(values),
			},
		})
		if err != nil {
			if errors.Is(err, repo.ErrStaleRecord) {
				slog.Warn("record already advanced", "record_id", record.Id, "phase", "confirmation")
				continue
			}
			return count, fmt.Errorf("advance record %d to suspected: %w", record.Id, err)
		}

		slog.Info("confirmed suspected abandonment", "symbol", symbol.ToString(), "interval", interval,
			"record_id", record.Id, "retention", retentionRes.Values["retention"])
		count++
	}
	return count, nil
}

func recordTrigger(r entity.MonitorRecord) detector.Trigger {
	return detector.Trigger{
		Time:   r.TriggerTime,
		Price:  r.TriggerPrice,
		Volume: r.TriggerVolume,
		High:   r.TriggerKlineHigh,
		Low:    r.TriggerKlineLow,
	}
}
