package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverageCrossDetector(t *testing.T) {
	d := NewMovingAverageCrossDetector(DefaultConfig())
	assert.Equal(t, 29, d.MinKlines())

	t.Run("anomalous in downtrend", func(t *testing.T) {
		closes := make([]float64, 35)
		for i := range closes {
			closes[i] = 200 - float64(i)
		}
		klines := klinesFromCloses(closes, repeatFloat(100, len(closes)), 0.5)

		res, err := d.Evaluate(Input{Klines: klines})
		require.NoError(t, err)
		assert.True(t, res.Anomalous)
		assert.True(t, res.Values["ma_short"].LessThan(res.Values["ma_long"]))
		assert.True(t, res.Values["ma_long_slope"].IsNegative())
	})

	t.Run("not anomalous in uptrend", func(t *testing.T) {
		closes := make([]float64, 35)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		klines := klinesFromCloses(closes, repeatFloat(100, len(closes)), 0.5)

		res, err := d.Evaluate(Input{Klines: klines})
		require.NoError(t, err)
		assert.False(t, res.Anomalous)
	})

	t.Run("not anomalous when long ma still rising", func(t *testing.T) {
		// 先涨后小幅回调: 短均线可能下穿但长均线斜率仍为正
		closes := make([]float64, 35)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		closes[33] = 125
		closes[34] = 120
		klines := klinesFromCloses(closes, repeatFloat(100, len(closes)), 0.5)

		res, err := d.Evaluate(Input{Klines: klines})
		require.NoError(t, err)
		assert.False(t, res.Anomalous)
	})

	t.Run("insufficient window", func(t *testing.T) {
		closes := repeatFloat(100, 20)
		_, err := d.Evaluate(Input{Klines: klinesFromCloses(closes, repeatFloat(100, 20), 0.5)})
		var insufficient *DataInsufficientError
		require.ErrorAs(t, err, &insufficient)
	})
}
