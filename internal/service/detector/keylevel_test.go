package detector

import (
	"testing"

	"github.com/KNICEX/pump-radar/internal/service/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLevelBreachDetector(t *testing.T) {
	d := NewKeyLevelBreachDetector(DefaultConfig())

	trigger := Trigger{
		Time:   testStart,
		Price:  decimal.NewFromInt(101),
		Volume: decimal.NewFromInt(1000),
		High:   decimal.NewFromInt(110),
		Low:    decimal.NewFromInt(100),
	}

	testCases := []struct {
		name         string
		currentClose float64
		wantBreach   bool
	}{
		{
			name:         "close below trigger low breaches",
			currentClose: 99,
			wantBreach:   true,
		},
		{
			name:         "close above key level holds",
			currentClose: 101,
			wantBreach:   false,
		},
		{
			name:         "close exactly at key level holds",
			currentClose: 100,
			wantBreach:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := d.Evaluate(Input{
				Klines:  []exchange.Kline{kline(0, 100, 102, 98, tc.currentClose, 100)},
				Trigger: trigger,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantBreach, res.Anomalous)
			// key_level = min((110+100)/2, 100) = 100
			assert.True(t, res.Values["key_level"].Equal(decimal.NewFromInt(100)))
		})
	}

	t.Run("missing trigger raises compute error", func(t *testing.T) {
		_, err := d.Evaluate(Input{Klines: flatKlines(1, 100, 100)})
		var compute *ComputeError
		require.ErrorAs(t, err, &compute)
	})

	t.Run("empty window raises", func(t *testing.T) {
		_, err := d.Evaluate(Input{Trigger: trigger})
		var insufficient *DataInsufficientError
		require.ErrorAs(t, err, &insufficient)
	})
}
