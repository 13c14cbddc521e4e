package detector

import (
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/KNICEX/pump-radar/pkg/decimalx"
	"github.com/shopspring/decimal"
)

var _ Detector = (*PriceEfficiencyAnalyzer)(nil)

// PriceEfficiencyAnalyzer 价格效率: 单位成交量推动的价格变化
// 缩量之后价格仍然大幅波动, 说明盘口流动性被抽走了
type PriceEfficiencyAnalyzer struct {
	lookback   int
	multiplier decimal.Decimal
}

func NewPriceEfficiencyAnalyzer(cfg Config) *PriceEfficiencyAnalyzer {
	return &PriceEfficiencyAnalyzer{
		lookback:   cfg.PELookback,
		multiplier: decimal.NewFromFloat(cfg.PEMultiplier),
	}
}

func (d *PriceEfficiencyAnalyzer) Name() string {
	return "price_efficiency"
}

func (d *PriceEfficiencyAnalyzer) MinKlines() int {
	return d.lookback + 1
}

func (d *PriceEfficiencyAnalyzer) efficiency(k exchange.Kline) (decimal.Decimal, error) {
	if k.Volume.IsZero() {
		return decimal.Zero, &ComputeError{Detector: d.Name(), Step: "efficiency with zero volume"}
	}
	return k.Close.Sub(k.Open).Abs().Div(k.Volume), nil
}

func (d *PriceEfficiencyAnalyzer) Evaluate(input Input) (Result, error) {
	if len(input.Klines) < d.MinKlines() {
		return Result{}, &DataInsufficientError{Detector: d.Name(), Need: d.MinKlines(), Got: len(input.Klines)}
	}

	currentPE, err := d.efficiency(input.Current())
	if err != nil {
		return Result{}, err
	}

	prev := input.Klines[len(input.Klines)-1-d.lookback : len(input.Klines)-1]
	prevPEs := make([]decimal.Decimal, 0, len(prev))
	for _, k := range prev {
		pe, err := d.efficiency(k)
		if err != nil {
			return Result{}, err
		}
		prevPEs = append(prevPEs, pe)
	}

	meanPE := decimalx.Mean(prevPEs)
	if meanPE.IsZero() {
		return Result{}, &ComputeError{Detector: d.Name(), Step: "mean efficiency is zero"}
	}

	return Result{
		Anomalous: currentPE.GreaterThan(meanPE.Mul(d.multiplier)),
		Values: map[string]decimal.Decimal{
			"pe":       currentPE,
			"mean_pe":  meanPE,
			"pe_ratio": currentPE.Div(meanPE),
		},
	}, nil
}
