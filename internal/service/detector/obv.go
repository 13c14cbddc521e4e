package detector

import (
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/shopspring/decimal"
)

var _ Detector = (*OBVDivergenceAnalyzer)(nil)

// OBVDivergenceAnalyzer 能量潮背离
// 回看窗口内OBV单边下行且没有底背离(价格下跌但OBV上行), 视为资金持续流出
type OBVDivergenceAnalyzer struct {
	lookback int
}

func NewOBVDivergenceAnalyzer(cfg Config) *OBVDivergenceAnalyzer {
	return &OBVDivergenceAnalyzer{
		lookback: cfg.OBVLookback,
	}
}

func (d *OBVDivergenceAnalyzer) Name() string {
	return "obv_divergence"
}

func (d *OBVDivergenceAnalyzer) MinKlines() int {
	// OBV差分需要前一根收盘价
	return d.lookback + 1
}

// obvSeries 以窗口第一根为基准0计算OBV序列, 长度为len(klines)
func (d *OBVDivergenceAnalyzer) obvSeries(klines []exchange.Kline) []decimal.Decimal {
	obv := make([]decimal.Decimal, len(klines))
	obv[0] = decimal.Zero
	for i := 1; i < len(klines); i++ {
		switch klines[i].Close.Cmp(klines[i-1].Close) {
		case 1:
			obv[i] = obv[i-1].Add(klines[i].Volume)
		case -1:
			obv[i] = obv[i-1].Sub(klines[i].Volume)
		default:
			obv[i] = obv[i-1]
		}
	}
	return obv
}

func (d *OBVDivergenceAnalyzer) Evaluate(input Input) (Result, error) {
	if len(input.Klines) < d.MinKlines() {
		return Result{}, &DataInsufficientError{Detector: d.Name(), Need: d.MinKlines(), Got: len(input.Klines)}
	}

	obv := d.obvSeries(input.Klines)
	last := len(obv) - 1
	first := last - d.lookback

	obvDelta := obv[last].Sub(obv[first])
	priceDelta := input.Klines[last].Close.Sub(input.Klines[first].Close)

	// 底背离: 价格走低但OBV走高, 说明仍有资金吸筹, 不能判定出逃
	bullishDivergence := priceDelta.IsNegative() && obvDelta.IsPositive()

	divergence := decimal.Zero
	if bullishDivergence {
		divergence = decimal.NewFromInt(1)
	}

	return Result{
		Anomalous: obvDelta.IsNegative() && !bullishDivergence,
		Values: map[string]decimal.Decimal{
			"obv_delta":          obvDelta,
			"price_delta":        priceDelta,
			"bullish_divergence": divergence,
		},
	}, nil
}
