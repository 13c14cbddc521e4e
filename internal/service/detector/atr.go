package detector

import (
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/KNICEX/pump-radar/pkg/decimalx"
	"github.com/shopspring/decimal"
)

var _ Detector = (*ATRCompressionDetector)(nil)

// ATRCompressionDetector 波动率压缩
// 出逃后无人接盘, 波动率持续收敛并明显低于历史均值
type ATRCompressionDetector struct {
	period       int
	lookback     int
	decreaseBars int
	threshold    decimal.Decimal
}

func NewATRCompressionDetector(cfg Config) *ATRCompressionDetector {
	return &ATRCompressionDetector{
		period:       cfg.ATRPeriod,
		lookback:     cfg.ATRLookback,
		decreaseBars: cfg.ATRDecreaseBars,
		threshold:    decimal.NewFromFloat(cfg.ATRCompressionThreshold),
	}
}

func (d *ATRCompressionDetector) Name() string {
	return "atr_compression"
}

func (d *ATRCompressionDetector) MinKlines() int {
	// TR差分需要前一根收盘价, 再要求lookback个ATR值
	return d.lookback + 1
}

// trueRange TR = max(high-low, |high-prevClose|, |low-prevClose|)
func (d *ATRCompressionDetector) trueRange(prev, cur exchange.Kline) decimal.Decimal {
	hl := cur.High.Sub(cur.Low)
	hc := cur.High.Sub(prev.Close).Abs()
	lc := cur.Low.Sub(prev.Close).Abs()
	return decimal.Max(hl, hc, lc)
}

func (d *ATRCompressionDetector) Evaluate(input Input) (Result, error) {
	if len(input.Klines) < d.MinKlines() {
		return Result{}, &DataInsufficientError{Detector: d.Name(), Need: d.MinKlines(), Got: len(input.Klines)}
	}

	trs := make([]decimal.Decimal, 0, len(input.Klines)-1)
	for i := 1; i < len(input.Klines); i++ {
		trs = append(trs, d.trueRange(input.Klines[i-1], input.Klines[i]))
	}

	atrs := decimalx.EMA(trs, d.period)
	recent := atrs[len(atrs)-d.lookback:]

	meanATR := decimalx.Mean(recent)
	if meanATR.IsZero() {
		return Result{}, &ComputeError{Detector: d.Name(), Step: "mean atr is zero"}
	}

	currentATR := atrs[len(atrs)-1]
	tail := atrs[len(atrs)-d.decreaseBars:]

	return Result{
		Anomalous: decimalx.IsMonotonicDesc(tail) && currentATR.LessThan(meanATR.Mul(d.threshold)),
		Values: map[string]decimal.Decimal{
			"atr":       currentATR,
			"mean_atr":  meanATR,
			"atr_ratio": currentATR.Div(meanATR),
		},
	}, nil
}
