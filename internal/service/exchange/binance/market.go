package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/adshao/go-binance/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

var _ exchange.MarketService = (*MarketService)(nil)

type MarketService struct {
	cli     *binance.Client
	limiter *rate.Limiter

	maxRetries uint64
}

// NewMarketService 创建市场数据服务
// 全量扫描会对上百个交易对拉K线, 这里做限速和重试
func NewMarketService(cli *binance.Client) *MarketService {
	return &MarketService{
		cli:        cli,
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		maxRetries: 3,
	}
}

func (m *MarketService) convertKlines(klines []*binance.Kline) ([]exchange.Kline, error) {
	kls := make([]exchange.Kline, len(klines))
	for i, k := range klines {
		klineOpen, err := decimal.NewFromString(k.Open)
		if err != nil {
			return nil, fmt.Errorf("parse kline open %q: %w", k.Open, err)
		}
		klineClose, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, fmt.Errorf("parse kline close %q: %w", k.Close, err)
		}
		klineHigh, err := decimal.NewFromString(k.High)
		if err != nil {
			return nil, fmt.Errorf("parse kline high %q: %w", k.High, err)
		}
		klineLow, err := decimal.NewFromString(k.Low)
		if err != nil {
			return nil, fmt.Errorf("parse kline low %q: %w", k.Low, err)
		}
		klineVolume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, fmt.Errorf("parse kline volume %q: %w", k.Volume, err)
		}
		klineQuoteAssetVolume, err := decimal.NewFromString(k.QuoteAssetVolume)
		if err != nil {
			return nil, fmt.Errorf("parse kline quote volume %q: %w", k.QuoteAssetVolume, err)
		}
		kls[i] = exchange.Kline{
			OpenTime:         time.UnixMilli(k.OpenTime),
			CloseTime:        time.UnixMilli(k.CloseTime),
			Open:             klineOpen,
			Close:            klineClose,
			High:             klineHigh,
			Low:              klineLow,
			Volume:           klineVolume,
			QuoteAssetVolume: klineQuoteAssetVolume,
			TradeNum:         k.TradeNum,
		}
	}
	return kls, nil
}

func (m *MarketService) GetKlines(ctx context.Context, req exchange.GetKlinesReq) ([]exchange.Kline, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	svc := m.cli.NewKlinesService().Symbol(req.Symbol.ToString()) // 币安API使用 BTCUSDT 格式，不是 BTC/USDT
	if req.Interval.ToString() != "" {
		svc.Interval(req.Interval.ToString())
	}
	if !req.StartTime.IsZero() {
		svc.StartTime(req.StartTime.UnixMilli())
	}
	if !req.EndTime.IsZero() {
		svc.EndTime(req.EndTime.UnixMilli())
	}
	if req.Limit > 0 {
		svc.Limit(req.Limit)
	}

	var res []*binance.Kline
	operation := func() error {
		var err error
		res, err = svc.Do(ctx)
		return err
	}
	if err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), m.maxRetries), ctx)); err != nil {
		return nil, fmt.Errorf("get klines for %s: %w", req.Symbol.ToString(), err)
	}

	return m.convertKlines(res)
}
