package detector

import (
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/KNICEX/pump-radar/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ Detector = (*VolumeRetentionAnalyzer)(nil)

// VolumeRetentionAnalyzer 触发后成交量留存: 拉高后迅速缩量说明资金已撤离
type VolumeRetentionAnalyzer struct {
	minKlines int
	maxKlines int
	threshold decimal.Decimal
}

func NewVolumeRetentionAnalyzer(cfg Config) *VolumeRetentionAnalyzer {
	return &VolumeRetentionAnalyzer{
		minKlines: cfg.RetentionMinKlines,
		maxKlines: cfg.RetentionMaxKlines,
		threshold: decimal.NewFromFloat(cfg.VolumeRetentionThreshold),
	}
}

func (d *VolumeRetentionAnalyzer) Name() string {
	return "volume_retention"
}

func (d *VolumeRetentionAnalyzer) MinKlines() int {
	return d.minKlines
}

func (d *VolumeRetentionAnalyzer) Evaluate(input Input) (Result, error) {
	if input.Trigger.IsZero() {
		return Result{}, &ComputeError{Detector: d.Name(), Step: "retention without trigger snapshot"}
	}

	// 只看触发K线之后的部分
	after := lo.Filter(input.Klines, func(item exchange.Kline, index int) bool {
		return item.OpenTime.After(input.Trigger.Time)
	})
	if len(after) < d.minKlines {
		return Result{}, &DataInsufficientError{Detector: d.Name(), Need: d.minKlines, Got: len(after)}
	}
	if len(after) > d.maxKlines {
		after = after[:d.maxKlines]
	}

	if input.Trigger.Volume.IsZero() {
		return Result{}, &ComputeError{Detector: d.Name(), Step: "trigger volume is zero"}
	}

	meanVolume := decimalx.Mean(lo.Map(after, func(item exchange.Kline, index int) decimal.Decimal {
		return item.Volume
	}))
	retention := meanVolume.Div(input.Trigger.Volume)

	return Result{
		Anomalous: retention.LessThan(d.threshold),
		Values: map[string]decimal.Decimal{
			"retention":        retention,
			"post_mean_volume": meanVolume,
			"trigger_volume":   input.Trigger.Volume,
			"post_kline_count": decimal.NewFromInt(int64(len(after))),
		},
	}, nil
}
