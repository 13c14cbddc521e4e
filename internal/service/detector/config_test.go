package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	testCases := []struct {
		name      string
		mutate    func(cfg *Config)
		wantField string
	}{
		{
			name:      "negative rvol threshold",
			mutate:    func(cfg *Config) { cfg.RVOLThreshold = -1 },
			wantField: "rvol_threshold",
		},
		{
			name:      "zero atr period",
			mutate:    func(cfg *Config) { cfg.ATRPeriod = 0 },
			wantField: "atr_period",
		},
		{
			name:      "upper shadow threshold out of range",
			mutate:    func(cfg *Config) { cfg.UpperShadowThreshold = 1.5 },
			wantField: "upper_shadow_threshold",
		},
		{
			name:      "retention threshold out of range",
			mutate:    func(cfg *Config) { cfg.VolumeRetentionThreshold = 0 },
			wantField: "volume_retention_threshold",
		},
		{
			name:      "short ma not below long ma",
			mutate:    func(cfg *Config) { cfg.MAShortPeriod = 25 },
			wantField: "ma_short_period",
		},
		{
			name:      "retention window inverted",
			mutate:    func(cfg *Config) { cfg.RetentionMaxKlines = 2 },
			wantField: "retention_max_klines",
		},
		{
			name:      "atr decrease window exceeds lookback",
			mutate:    func(cfg *Config) { cfg.ATRDecreaseBars = 40 },
			wantField: "atr_decrease_bars",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			var invalid *InvalidThresholdError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.wantField, invalid.Field)
		})
	}
}
