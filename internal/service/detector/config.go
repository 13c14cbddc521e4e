package detector

import "fmt"

// Config 各检测器阈值, 启动时加载一次, 运行期不可变
type Config struct {
	RVOLThreshold float64 `mapstructure:"rvol_threshold"`
	RVOLLookback  int     `mapstructure:"rvol_lookback"`

	AmplitudeThreshold   float64 `mapstructure:"amplitude_threshold"`
	AmplitudeLookback    int     `mapstructure:"amplitude_lookback"`
	UpperShadowThreshold float64 `mapstructure:"upper_shadow_threshold"`

	VolumeRetentionThreshold float64 `mapstructure:"volume_retention_threshold"`
	RetentionMinKlines       int     `mapstructure:"retention_min_klines"`
	RetentionMaxKlines       int     `mapstructure:"retention_max_klines"`

	PEMultiplier float64 `mapstructure:"pe_multiplier"`
	PELookback   int     `mapstructure:"pe_lookback"`

	MAShortPeriod int `mapstructure:"ma_short_period"`
	MALongPeriod  int `mapstructure:"ma_long_period"`
	MASlopeBars   int `mapstructure:"ma_slope_bars"`

	OBVLookback int `mapstructure:"obv_lookback"`

	ATRPeriod               int     `mapstructure:"atr_period"`
	ATRLookback             int     `mapstructure:"atr_lookback"`
	ATRDecreaseBars         int     `mapstructure:"atr_decrease_bars"`
	ATRCompressionThreshold float64 `mapstructure:"atr_compression_threshold"`
}

func DefaultConfig() Config {
	return Config{
		RVOLThreshold: 8,
		RVOLLookback:  20,

		AmplitudeThreshold:   3,
		AmplitudeLookback:    30,
		UpperShadowThreshold: 0.5,

		VolumeRetentionThreshold: 0.15,
		RetentionMinKlines:       3,
		RetentionMaxKlines:       5,

		PEMultiplier: 2,
		PELookback:   30,

		MAShortPeriod: 7,
		MALongPeriod:  25,
		MASlopeBars:   5,

		OBVLookback: 5,

		ATRPeriod:               14,
		ATRLookback:             30,
		ATRDecreaseBars:         5,
		ATRCompressionThreshold: 0.5,
	}
}

// InvalidThresholdError 配置阈值非法, 启动即失败, 不做静默兜底
type InvalidThresholdError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (c Config) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"rvol_threshold", c.RVOLThreshold},
		{"amplitude_threshold", c.AmplitudeThreshold},
		{"pe_multiplier", c.PEMultiplier},
		{"rvol_lookback", float64(c.RVOLLookback)},
		{"amplitude_lookback", float64(c.AmplitudeLookback)},
		{"pe_lookback", float64(c.PELookback)},
		{"ma_short_period", float64(c.MAShortPeriod)},
		{"ma_long_period", float64(c.MALongPeriod)},
		{"ma_slope_bars", float64(c.MASlopeBars)},
		{"obv_lookback", float64(c.OBVLookback)},
		{"atr_period", float64(c.ATRPeriod)},
		{"atr_lookback", float64(c.ATRLookback)},
		{"atr_decrease_bars", float64(c.ATRDecreaseBars)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &InvalidThresholdError{Field: p.field, Value: p.value, Reason: "must be positive"}
		}
	}

	ratios := []struct {
		field string
		value float64
	}{
		{"upper_shadow_threshold", c.UpperShadowThreshold},
		{"volume_retention_threshold", c.VolumeRetentionThreshold},
		{"atr_compression_threshold", c.ATRCompressionThreshold},
	}
	for _, p := range ratios {
		if p.value <= 0 || p.value >= 1 {
			return &InvalidThresholdError{Field: p.field, Value: p.value, Reason: "must be in (0, 1)"}
		}
	}

	if c.MAShortPeriod >= c.MALongPeriod {
		return &InvalidThresholdError{
			Field:  "ma_short_period",
			Value:  float64(c.MAShortPeriod),
			Reason: fmt.Sprintf("must be less than ma_long_period %d", c.MALongPeriod),
		}
	}
	if c.ATRDecreaseBars > c.ATRLookback {
		// ATR检测按lookback长度取序列尾部, 递减窗口不能超过它
		return &InvalidThresholdError{
			Field:  "atr_decrease_bars",
			Value:  float64(c.ATRDecreaseBars),
			Reason: fmt.Sprintf("must be <= atr_lookback %d", c.ATRLookback),
		}
	}
	if c.RetentionMinKlines <= 0 || c.RetentionMaxKlines < c.RetentionMinKlines {
		return &InvalidThresholdError{
			Field:  "retention_max_klines",
			Value:  float64(c.RetentionMaxKlines),
			Reason: fmt.Sprintf("must be >= retention_min_klines %d", c.RetentionMinKlines),
		}
	}
	return nil
}
