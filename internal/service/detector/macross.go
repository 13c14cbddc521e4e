package detector

import (
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/KNICEX/pump-radar/pkg/decimalx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var _ Detector = (*MovingAverageCrossDetector)(nil)

// MovingAverageCrossDetector 均线死叉: 短期均线下穿长期均线且长期均线向下
type MovingAverageCrossDetector struct {
	shortPeriod int
	longPeriod  int
	slopeBars   int
}

func NewMovingAverageCrossDetector(cfg Config) *MovingAverageCrossDetector {
	return &MovingAverageCrossDetector{
		shortPeriod: cfg.MAShortPeriod,
		longPeriod:  cfg.MALongPeriod,
		slopeBars:   cfg.MASlopeBars,
	}
}

func (d *MovingAverageCrossDetector) Name() string {
	return "ma_cross"
}

func (d *MovingAverageCrossDetector) MinKlines() int {
	// 需要slopeBars个长期均线值
	return d.longPeriod + d.slopeBars - 1
}

// ma 以窗口最后offset根之前的K线为终点, 计算period周期均线
func (d *MovingAverageCrossDetector) ma(klines []exchange.Kline, period, offset int) decimal.Decimal {
	end := len(klines) - offset
	window := klines[end-period : end]
	return decimalx.Mean(lo.Map(window, func(item exchange.Kline, index int) decimal.Decimal {
		return item.Close
	}))
}

func (d *MovingAverageCrossDetector) Evaluate(input Input) (Result, error) {
	if len(input.Klines) < d.MinKlines() {
		return Result{}, &DataInsufficientError{Detector: d.Name(), Need: d.MinKlines(), Got: len(input.Klines)}
	}

	maShort := d.ma(input.Klines, d.shortPeriod, 0)
	maLong := d.ma(input.Klines, d.longPeriod, 0)

	// 最近slopeBars个长期均线值, 时间升序
	longSeries := make([]decimal.Decimal, 0, d.slopeBars)
	for offset := d.slopeBars - 1; offset >= 0; offset-- {
		longSeries = append(longSeries, d.ma(input.Klines, d.longPeriod, offset))
	}
	slope := decimalx.Slope(longSeries)

	return Result{
		Anomalous: maShort.LessThan(maLong) && slope.IsNegative(),
		Values: map[string]decimal.Decimal{
			"ma_short":      maShort,
			"ma_long":       maLong,
			"ma_long_slope": slope,
		},
	}, nil
}
