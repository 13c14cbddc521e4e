package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/shopspring/decimal"
)

// Summary 单轮扫描结果, 只统计成功推进的记录数
type Summary struct {
	Discovered  int `json:"discovered"`
	Confirmed   int `json:"confirmed"`
	Validated   int `json:"validated"`
	Invalidated int `json:"invalidated"`
}

// Service 扫描入口, 由外部调度器按周期调用, 重复调用安全
type Service interface {
	Scan(ctx context.Context, interval exchange.Interval) (Summary, error)
}

// AbandonSignal 确认出逃后的通知信号
type AbandonSignal struct {
	Symbol       exchange.Symbol            `json:"symbol"`
	Interval     exchange.Interval          `json:"interval"`
	TriggerPrice decimal.Decimal            `json:"trigger_price"`
	TriggerTime  time.Time                  `json:"trigger_time"`
	ConfirmedAt  time.Time                  `json:"confirmed_at"`
	Indicators   map[string]decimal.Decimal `json:"indicators"`
}

type Notifier interface {
	Notify(ctx context.Context, signal AbandonSignal) error
}

type consoleNotifier struct {
}

func (c consoleNotifier) Notify(ctx context.Context, signal AbandonSignal) error {
	fmt.Println("confirmed abandonment signal", signal)
	return nil
}
