package detector

import (
	"time"

	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/shopspring/decimal"
)

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// flatKlines 生成横盘K线窗口: 开收盘相同, 上下各0.5%的影线
func flatKlines(count int, price, volume float64) []exchange.Kline {
	klines := make([]exchange.Kline, count)
	interval := 4 * time.Hour
	for i := 0; i < count; i++ {
		openTime := testStart.Add(time.Duration(i) * interval)
		klines[i] = exchange.Kline{
			OpenTime:  openTime,
			CloseTime: openTime.Add(interval),
			Open:      decimal.NewFromFloat(price),
			Close:     decimal.NewFromFloat(price),
			High:      decimal.NewFromFloat(price * 1.005),
			Low:       decimal.NewFromFloat(price * 0.995),
			Volume:    decimal.NewFromFloat(volume),
		}
	}
	return klines
}

// kline 按指定OHLCV构造单根K线, openTime由序号决定
func kline(index int, open, high, low, closePrice, volume float64) exchange.Kline {
	interval := 4 * time.Hour
	openTime := testStart.Add(time.Duration(index) * interval)
	return exchange.Kline{
		OpenTime:  openTime,
		CloseTime: openTime.Add(interval),
		Open:      decimal.NewFromFloat(open),
		High:      decimal.NewFromFloat(high),
		Low:       decimal.NewFromFloat(low),
		Close:     decimal.NewFromFloat(closePrice),
		Volume:    decimal.NewFromFloat(volume),
	}
}

// klinesFromCloses 按收盘价序列构造K线, 开盘取前一根收盘
func klinesFromCloses(closes []float64, volumes []float64, spread float64) []exchange.Kline {
	klines := make([]exchange.Kline, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		high := maxFloat(open, c) + spread
		low := minFloat(open, c) - spread
		klines[i] = kline(i, open, high, low, c, volumes[i])
	}
	return klines
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func repeatFloat(v float64, count int) []float64 {
	res := make([]float64, count)
	for i := range res {
		res[i] = v
	}
	return res
}
