package binance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/adshao/go-binance/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// 过期/下架/杠杆代币等不参与扫描的币种
var binanceExcludedSymbolBase = []string{
	"BCC", "VEN", "PAX", "BCHABC", "BCHSV", "BTT", "USDS", "NANO", "OMG",
	"MITH", "USDSB", "GTO", "ERD", "NPXS", "COCOS", "TOMO", "PERL", "MFT",
	"KEY", "STORM", "DOCK", "BUSD", "BEAM", "HC", "MCO", "VITE", "DREP",
	"BULL", "BEAR", "ETHBULL", "ETHBEAR", "EOSBULL", "EOSBEAR", "XRPBULL", "XRPBEAR",
	"BNBBULL", "BNBBEAR", "BTCUP", "BTCDOWN", "ETHUP", "ETHDOWN", "ADAUP", "ADADOWN",
	"LINKUP", "LINKDOWN", "XTZUP", "XTZDOWN", "EOSUP", "EOSDOWN", "TRXUP", "TRXDOWN",
	"DOTUP", "DOTDOWN", "LTCUP", "LTCDOWN", "UNIUP", "UNIDOWN", "SXPUP", "SXPDOWN",
	"FILUP", "FILDOWN", "YFIUP", "YFIDOWN", "BCHUP", "BCHDOWN", "AAVEUP", "AAVEDOWN",
	"SUSHIUP", "SUSHIDOWN", "XLMUP", "XLMDOWN", "1INCHUP", "1INCHDOWN",
	"BNBUP", "BNBDOWN", "XRPUP", "XRPDOWN",

	// 稳定币对稳定币没有异动可言
	"USDC", "FUSDT", "USDP", "TUSD", "DAI", "SUSD", "GBP", "AUD", "EUR", "UST",
}

type SymbolService struct {
	cli          *binance.Client
	excludedBase map[string]struct{}
}

func NewSymbolService(cli *binance.Client) exchange.SymbolService {
	return &SymbolService{
		cli: cli,
		excludedBase: lo.SliceToMap(binanceExcludedSymbolBase, func(item string) (string, struct{}) {
			return item, struct{}{}
		}),
	}
}

func (svc *SymbolService) GetAllSymbols(ctx context.Context) ([]exchange.Symbol, error) {
	symbols, err := svc.cli.NewListPricesService().Do(ctx)
	if err != nil {
		return nil, err
	}

	symbols = svc.onlyUSDT(symbols)

	res := lo.Map(symbols, func(item *binance.SymbolPrice, index int) exchange.Symbol {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			slog.Error("fail to parse price", "price", item.Price, "error", err)
			return exchange.Symbol{}
		}
		return exchange.Symbol{
			Base:  strings.TrimSuffix(item.Symbol, "USDT"),
			Quote: "USDT",
			Price: price,
		}
	})
	return svc.filterExcluded(res), nil
}

// filterExcluded 过滤掉不参与扫描的币种
func (svc *SymbolService) filterExcluded(s []exchange.Symbol) []exchange.Symbol {
	return lo.Reject(s, func(item exchange.Symbol, index int) bool {
		if item.IsZero() {
			return true
		}
		_, ok := svc.excludedBase[item.Base]
		return ok
	})
}

func (svc *SymbolService) onlyUSDT(s []*binance.SymbolPrice) []*binance.SymbolPrice {
	return lo.Filter(s, func(item *binance.SymbolPrice, index int) bool {
		return strings.HasSuffix(item.Symbol, "USDT")
	})
}

func (svc *SymbolService) GetSymbolPrice(ctx context.Context, symbol exchange.Symbol) (exchange.Symbol, error) {
	s, err := svc.cli.NewListPricesService().Symbol(symbol.ToString()).Do(ctx)
	if err != nil {
		return exchange.Symbol{}, err
	}
	if len(s) == 0 {
		return exchange.Symbol{}, fmt.Errorf("symbol %s not found", symbol.Base)
	}
	price, err := decimal.NewFromString(s[0].Price)
	if err != nil {
		return exchange.Symbol{}, err
	}
	return exchange.Symbol{
		Base:  strings.TrimSuffix(s[0].Symbol, symbol.Quote),
		Quote: symbol.Quote,
		Price: price,
	}, nil
}
