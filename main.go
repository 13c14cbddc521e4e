package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/KNICEX/pump-radar/internal/entity"
	"github.com/KNICEX/pump-radar/internal/repo"
	"github.com/KNICEX/pump-radar/internal/schedule"
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/KNICEX/pump-radar/internal/service/exchange/binance"
	"github.com/KNICEX/pump-radar/internal/service/monitor"
	"github.com/KNICEX/pump-radar/ioc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func main() {
	initViper()

	db := ioc.InitDB()
	bian := ioc.InitBinanceCli()
	cfg := ioc.InitMonitorConfig()

	if err := repo.InitTables(db); err != nil {
		panic(err)
	}
	monitorRepo := repo.NewMonitorRepo(db)
	symbolRepo := repo.NewSymbolRepo(db)

	symbolSvc := binance.NewSymbolService(bian)
	marketSvc := binance.NewMarketService(bian)

	sm := monitor.NewStateMachine(monitorRepo, marketSvc, symbolSvc,
		monitor.NewPhaseDetectors(cfg.Detector),
		monitor.WithSymbolFilter(func(ctx context.Context, symbol exchange.Symbol) bool {
			// 目录中标记ignore的交易对不参与扫描
			s, err := symbolRepo.FindByBaseAndQuote(ctx, symbol.Base, symbol.Quote)
			if err != nil {
				if !errors.Is(err, repo.ErrSymbolNotFound) {
					slog.Error("failed to check symbol mark", "symbol", symbol.ToString(), "error", err)
				}
				return false
			}
			return s.Mark == entity.MarkIgnore
		}),
	)
	checker := monitor.NewInvalidationChecker(monitorRepo, symbolSvc)
	scanSvc := monitor.NewScanService(sm, checker)

	task := monitor.NewScanTask(scanSvc, cfg.Intervals)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := schedule.RunPeriodic(ctx, task, cfg.ScanPeriod); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
