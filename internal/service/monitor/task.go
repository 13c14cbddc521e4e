package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KNICEX/pump-radar/internal/schedule"
	"github.com/KNICEX/pump-radar/internal/service/exchange"
)

// ScanTask 按配置的K线周期依次跑扫描, 单个周期失败不影响其他周期
type ScanTask struct {
	scanSvc   Service
	intervals []exchange.Interval
}

func NewScanTask(scanSvc Service, intervals []exchange.Interval) schedule.Task {
	return &ScanTask{
		scanSvc:   scanSvc,
		intervals: intervals,
	}
}

func (t *ScanTask) Run(ctx context.Context) error {
	var errs []error
	for _, interval := range t.intervals {
		summary, err := t.scanSvc.Scan(ctx, interval)
		if err != nil {
			slog.Error("scan cycle failed", "interval", interval, "summary", summary, "error", err)
			errs = append(errs, fmt.Errorf("interval %s: %w", interval, err))
			continue
		}
		slog.Info("scan cycle done", "interval", interval,
			"discovered", summary.Discovered, "confirmed", summary.Confirmed,
			"validated", summary.Validated, "invalidated", summary.Invalidated)
	}
	return errors.Join(errs...)
}

func (t *ScanTask) Name() string {
	return "pump abandon scan task"
}
