package detector

import (
	"time"

	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/shopspring/decimal"
)

// Trigger 触发异动的K线快照, 发现阶段之后的检测器需要用到
type Trigger struct {
	Time   time.Time
	Price  decimal.Decimal
	Volume decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
}

func (t Trigger) IsZero() bool {
	return t.Time.IsZero()
}

// Input 检测器输入, K线按时间升序排列, 最后一根为当前K线
type Input struct {
	Klines  []exchange.Kline
	Trigger Trigger
}

// Current 返回窗口内最新一根K线
func (in Input) Current() exchange.Kline {
	return in.Klines[len(in.Klines)-1]
}

// Result 检测结果, Values记录计算中间值, 用于指标快照和迁移日志
type Result struct {
	Anomalous bool
	Values    map[string]decimal.Decimal
}

// Detector 检测器, 对K线窗口的纯函数, 不持有任何状态
type Detector interface {
	Name() string
	// MinKlines 所需的最小窗口长度, 不满足时Evaluate返回DataInsufficientError
	MinKlines() int
	Evaluate(input Input) (Result, error)
}
