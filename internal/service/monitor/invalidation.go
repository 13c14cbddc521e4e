package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KNICEX/pump-radar/internal/entity"
	"github.com/KNICEX/pump-radar/internal/repo"
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/shopspring/decimal"
)

// InvalidationChecker 价格回升检查
// 价格收复触发价说明出逃假设不成立, 任何未作废状态(包括已确认)都会被作废,
// 是否该对已确认记录做限时检查尚无定论, 这里采用持续检查的宽松策略
type InvalidationChecker struct {
	repo      repo.MonitorRepo
	symbolSvc exchange.SymbolService
}

func NewInvalidationChecker(monitorRepo repo.MonitorRepo, symbolSvc exchange.SymbolService) *InvalidationChecker {
	return &InvalidationChecker{
		repo:      monitorRepo,
		symbolSvc: symbolSvc,
	}
}

// Check 对所有未作废记录比对最新价格, 回升则作废
func (c *InvalidationChecker) Check(ctx context.Context, interval exchange.Interval) (int, error) {
	records, err := c.repo.FindNotInvalidated(ctx, interval.ToString())
	if err != nil {
		return 0, fmt.Errorf("find not invalidated records: %w", err)
	}

	count := 0
	for _, record := range records {
		symbol := recordSymbol(record)
		latest, err := c.symbolSvc.GetSymbolPrice(ctx, symbol)
		if err != nil {
			slog.Error("failed to get latest price", "symbol", symbol.ToString(), "phase", "invalidation", "error", err)
			continue
		}

		if !latest.Price.GreaterThan(record.TriggerPrice) {
			continue
		}

		values := map[string]decimal.Decimal{
			"current_price": latest.Price,
			"trigger_price": record.TriggerPrice,
		}
		err = c.repo.Advance(ctx, repo.AdvanceInput{
			RecordId: record.Id,
			From:     record.Status,
			To:       entity.StatusInvalidated,
			Snapshot: entity.IndicatorSnapshot{
				Phase:      entity.PhaseInvalidation,
				Indicators: marshalValues(values),
			},
			Transition: entity.StateTransition{
				FromStatus:       record.Status,
				ToStatus:         entity.StatusInvalidated,
				TransitionTime:   time.Now(),
				TriggerCondition: marshalValues(values),
			},
		})
		if err != nil {
			if errors.Is(err, repo.ErrStaleRecord) {
				slog.Warn("record already advanced", "record_id", record.Id, "phase", "invalidation")
				continue
			}
			return count, fmt.Errorf("invalidate record %d: %w", record.Id, err)
		}

		slog.Info("invalidated record, price recovered", "symbol", symbol.ToString(), "interval", interval,
			"record_id", record.Id, "from", record.Status, "current_price", latest.Price, "trigger_price", record.TriggerPrice)
		count++
	}
	return count, nil
}
