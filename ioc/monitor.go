package ioc

import (
	"time"

	"github.com/KNICEX/pump-radar/internal/service/detector"
	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type MonitorConfig struct {
	Intervals  []exchange.Interval
	ScanPeriod time.Duration
	Detector   detector.Config
}

// InitMonitorConfig 阈值配置非法直接启动失败, 不做静默兜底
func InitMonitorConfig() MonitorConfig {
	type rawConfig struct {
		Intervals  []string `mapstructure:"intervals"`
		ScanPeriod string   `mapstructure:"scan_period"`
	}

	raw := rawConfig{
		Intervals:  []string{"4h"},
		ScanPeriod: "15m",
	}
	if err := viper.UnmarshalKey("monitor", &raw); err != nil {
		panic(err)
	}

	detectorCfg := detector.DefaultConfig()
	if err := viper.UnmarshalKey("monitor.thresholds", &detectorCfg); err != nil {
		panic(err)
	}
	if err := detectorCfg.Validate(); err != nil {
		panic(err)
	}

	period, err := time.ParseDuration(raw.ScanPeriod)
	if err != nil {
		panic(err)
	}

	intervals := lo.Map(raw.Intervals, func(item string, index int) exchange.Interval {
		return exchange.Interval(item)
	})
	for _, interval := range intervals {
		if interval.Duration() == 0 {
			panic("unknown kline interval: " + interval.ToString())
		}
	}

	return MonitorConfig{
		Intervals:  intervals,
		ScanPeriod: period,
		Detector:   detectorCfg,
	}
}
