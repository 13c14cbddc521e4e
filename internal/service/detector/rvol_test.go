package detector

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRVOLCalculator(t *testing.T) {
	d := NewRVOLCalculator(DefaultConfig())
	assert.Equal(t, 21, d.MinKlines())

	t.Run("anomalous on 10x volume", func(t *testing.T) {
		klines := flatKlines(21, 100, 1000)
		klines[20].Volume = decimal.NewFromInt(10000)

		res, err := d.Evaluate(Input{Klines: klines})
		require.NoError(t, err)
		assert.True(t, res.Anomalous)
		assert.True(t, res.Values["rvol"].Equal(decimal.NewFromInt(10)), "rvol %s", res.Values["rvol"])
	})

	t.Run("not anomalous on flat volume", func(t *testing.T) {
		res, err := d.Evaluate(Input{Klines: flatKlines(21, 100, 1000)})
		require.NoError(t, err)
		assert.False(t, res.Anomalous)
		assert.True(t, res.Values["rvol"].Equal(decimal.NewFromInt(1)))
	})

	t.Run("insufficient window raises, not zero result", func(t *testing.T) {
		_, err := d.Evaluate(Input{Klines: flatKlines(10, 100, 1000)})
		var insufficient *DataInsufficientError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 21, insufficient.Need)
		assert.Equal(t, 10, insufficient.Got)
		assert.True(t, IsDataError(err))
	})

	t.Run("zero mean volume raises compute error", func(t *testing.T) {
		_, err := d.Evaluate(Input{Klines: flatKlines(21, 100, 0)})
		var compute *ComputeError
		require.ErrorAs(t, err, &compute)
		assert.True(t, IsDataError(err))
	})

	t.Run("deterministic", func(t *testing.T) {
		klines := flatKlines(21, 100, 1000)
		klines[20].Volume = decimal.NewFromInt(9000)

		first, err := d.Evaluate(Input{Klines: klines})
		require.NoError(t, err)
		second, err := d.Evaluate(Input{Klines: klines})
		require.NoError(t, err)

		assert.Equal(t, first.Anomalous, second.Anomalous)
		for k, v := range first.Values {
			assert.True(t, v.Equal(second.Values[k]), "value %s differs", k)
		}
	})
}
