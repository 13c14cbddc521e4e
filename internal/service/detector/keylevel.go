package detector

import (
	"github.com/shopspring/decimal"
)

var _ Detector = (*KeyLevelBreachDetector)(nil)

// KeyLevelBreachDetector 关键位跌破: 当前收盘价跌破触发K线的支撑位
type KeyLevelBreachDetector struct{}

func NewKeyLevelBreachDetector(cfg Config) *KeyLevelBreachDetector {
	return &KeyLevelBreachDetector{}
}

func (d *KeyLevelBreachDetector) Name() string {
	return "key_level_breach"
}

func (d *KeyLevelBreachDetector) MinKlines() int {
	return 1
}

func (d *KeyLevelBreachDetector) Evaluate(input Input) (Result, error) {
	if len(input.Klines) < d.MinKlines() {
		return Result{}, &DataInsufficientError{Detector: d.Name(), Need: d.MinKlines(), Got: len(input.Klines)}
	}
	if input.Trigger.IsZero() {
		return Result{}, &ComputeError{Detector: d.Name(), Step: "key level without trigger snapshot"}
	}

	midpoint := input.Trigger.High.Add(input.Trigger.Low).Div(decimal.NewFromInt(2))
	keyLevel := decimal.Min(midpoint, input.Trigger.Low)
	currentClose := input.Current().Close

	breach := decimal.Zero
	if currentClose.LessThan(keyLevel) {
		breach = decimal.NewFromInt(1)
	}

	return Result{
		Anomalous: currentClose.LessThan(keyLevel),
		Values: map[string]decimal.Decimal{
			"key_level":     keyLevel,
			"current_close": currentClose,
			"breach":        breach,
		},
	}, nil
}
