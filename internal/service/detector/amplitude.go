package detector

import (
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/KNICEX/pump-radar/pkg/decimalx"
	"github.com/shopspring/decimal"
)

var _ Detector = (*AmplitudeDetector)(nil)

// AmplitudeDetector 振幅异动 + 上影线
// 振幅放大说明有资金拉高, 长上影线说明拉高后被抛压打回
type AmplitudeDetector struct {
	lookback        int
	threshold       decimal.Decimal
	shadowThreshold decimal.Decimal
}

func NewAmplitudeDetector(cfg Config) *AmplitudeDetector {
	return &AmplitudeDetector{
		lookback:        cfg.AmplitudeLookback,
		threshold:       decimal.NewFromFloat(cfg.AmplitudeThreshold),
		shadowThreshold: decimal.NewFromFloat(cfg.UpperShadowThreshold),
	}
}

func (d *AmplitudeDetector) Name() string {
	return "amplitude"
}

func (d *AmplitudeDetector) MinKlines() int {
	return d.lookback + 1
}

func (d *AmplitudeDetector) amplitude(k exchange.Kline) (decimal.Decimal, error) {
	if k.Low.IsZero() {
		return decimal.Zero, &ComputeError{Detector: d.Name(), Step: "amplitude with zero low"}
	}
	return k.High.Sub(k.Low).Div(k.Low), nil
}

func (d *AmplitudeDetector) Evaluate(input Input) (Result, error) {
	if len(input.Klines) < d.MinKlines() {
		return Result{}, &DataInsufficientError{Detector: d.Name(), Need: d.MinKlines(), Got: len(input.Klines)}
	}

	current := input.Current()
	currentAmplitude, err := d.amplitude(current)
	if err != nil {
		return Result{}, err
	}

	prev := input.Klines[len(input.Klines)-1-d.lookback : len(input.Klines)-1]
	prevAmplitudes := make([]decimal.Decimal, 0, len(prev))
	for _, k := range prev {
		a, err := d.amplitude(k)
		if err != nil {
			return Result{}, err
		}
		prevAmplitudes = append(prevAmplitudes, a)
	}

	meanAmplitude := decimalx.Mean(prevAmplitudes)
	if meanAmplitude.IsZero() {
		return Result{}, &ComputeError{Detector: d.Name(), Step: "mean amplitude is zero"}
	}
	ratio := currentAmplitude.Div(meanAmplitude)

	klineRange := current.High.Sub(current.Low)
	if klineRange.IsZero() {
		return Result{}, &ComputeError{Detector: d.Name(), Step: "upper shadow with zero range"}
	}
	upperShadow := current.High.Sub(current.Close).Div(klineRange)

	return Result{
		Anomalous: ratio.GreaterThan(d.threshold) && upperShadow.GreaterThan(d.shadowThreshold),
		Values: map[string]decimal.Decimal{
			"amplitude":       currentAmplitude,
			"mean_amplitude":  meanAmplitude,
			"amplitude_ratio": ratio,
			"upper_shadow":    upperShadow,
		},
	}, nil
}
