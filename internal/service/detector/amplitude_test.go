package detector

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmplitudeDetector(t *testing.T) {
	d := NewAmplitudeDetector(DefaultConfig())
	assert.Equal(t, 31, d.MinKlines())

	t.Run("anomalous on spike with long upper shadow", func(t *testing.T) {
		klines := flatKlines(31, 100, 1000)
		// 冲高110后被打回101, 上影线0.9, 振幅约为均值10倍
		klines[30] = kline(30, 100, 110, 100, 101, 1000)

		res, err := d.Evaluate(Input{Klines: klines})
		require.NoError(t, err)
		assert.True(t, res.Anomalous)
		assert.True(t, res.Values["upper_shadow"].Equal(decimal.NewFromFloat(0.9)),
			"upper_shadow %s", res.Values["upper_shadow"])
		assert.True(t, res.Values["amplitude_ratio"].GreaterThan(decimal.NewFromInt(3)))
	})

	t.Run("not anomalous without upper shadow", func(t *testing.T) {
		klines := flatKlines(31, 100, 1000)
		// 同样的振幅但收在高位, 没有抛压痕迹
		klines[30] = kline(30, 100, 110, 100, 109.5, 1000)

		res, err := d.Evaluate(Input{Klines: klines})
		require.NoError(t, err)
		assert.False(t, res.Anomalous)
	})

	t.Run("not anomalous on normal amplitude", func(t *testing.T) {
		res, err := d.Evaluate(Input{Klines: flatKlines(31, 100, 1000)})
		require.NoError(t, err)
		assert.False(t, res.Anomalous)
	})

	t.Run("insufficient window", func(t *testing.T) {
		_, err := d.Evaluate(Input{Klines: flatKlines(30, 100, 1000)})
		var insufficient *DataInsufficientError
		require.ErrorAs(t, err, &insufficient)
	})

	t.Run("doji current kline raises compute error", func(t *testing.T) {
		klines := flatKlines(31, 100, 1000)
		// high == low, 上影线分母为0
		klines[30] = kline(30, 100, 100, 100, 100, 1000)

		_, err := d.Evaluate(Input{Klines: klines})
		var compute *ComputeError
		require.ErrorAs(t, err, &compute)
	})
}
