package detector

import (
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/KNICEX/pump-radar/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ Detector = (*RVOLCalculator)(nil)

// RVOLCalculator 相对成交量: 当前成交量 / 前N根成交量均值
type RVOLCalculator struct {
	lookback  int
	threshold decimal.Decimal
}

func NewRVOLCalculator(cfg Config) *RVOLCalculator {
	return &RVOLCalculator{
		lookback:  cfg.RVOLLookback,
		threshold: decimal.NewFromFloat(cfg.RVOLThreshold),
	}
}

func (d *RVOLCalculator) Name() string {
	return "rvol"
}

func (d *RVOLCalculator) MinKlines() int {
	return d.lookback + 1
}

func (d *RVOLCalculator) Evaluate(input Input) (Result, error) {
	if len(input.Klines) < d.MinKlines() {
		return Result{}, &DataInsufficientError{Detector: d.Name(), Need: d.MinKlines(), Got: len(input.Klines)}
	}

	current := input.Current()
	prev := input.Klines[len(input.Klines)-1-d.lookback : len(input.Klines)-1]

	meanVolume := decimalx.Mean(lo.Map(prev, func(item exchange.Kline, index int) decimal.Decimal {
		return item.Volume
	}))
	if meanVolume.IsZero() {
		return Result{}, &ComputeError{Detector: d.Name(), Step: "mean volume is zero"}
	}

	rvol := current.Volume.Div(meanVolume)
	return Result{
		Anomalous: rvol.GreaterThan(d.threshold),
		Values: map[string]decimal.Decimal{
			"rvol":           rvol,
			"current_volume": current.Volume,
			"mean_volume":    meanVolume,
		},
	}, nil
}
