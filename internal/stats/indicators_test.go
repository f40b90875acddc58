package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func series(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func TestSMA_ConstantSeries(t *testing.T) {
	closes := series(12.40, 12.40, 12.40, 12.40, 12.40)

	out, err := SMA(closes, 3)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	for _, v := range out {
		require.InDelta(t, 12.40, v.InexactFloat64(), 1e-9)
	}
}

func TestSMA_WindowAverage(t *testing.T) {
	closes := series(10, 11, 12, 13, 14)

	out, err := SMA(closes, 5)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.InDelta(t, 12.0, out[len(out)-1].InexactFloat64(), 1e-9)
}

func TestEMA_TracksRisingSeries(t *testing.T) {
	closes := series(10, 10.5, 11, 11.5, 12, 12.5, 13)

	out, err := EMA(closes, 3)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	last := out[len(out)-1].InexactFloat64()
	require.Greater(t, last, 11.0)
	require.LessOrEqual(t, last, 13.0)
}

func TestRSI_MonotonicRallyNearsTop(t *testing.T) {
	closes := series(10, 10.2, 10.4, 10.6, 10.8, 11, 11.2, 11.4, 11.6, 11.8,
		12, 12.2, 12.4, 12.6, 12.8, 13)

	out, err := RSI(closes, 14)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Greater(t, out[len(out)-1].InexactFloat64(), 70.0)
}

func TestIndicators_InsufficientData(t *testing.T) {
	closes := series(12.40, 12.50)

	_, err := SMA(closes, 3)
	require.Error(t, err)
	_, err = EMA(closes, 3)
	require.Error(t, err)
	_, err = RSI(closes, 14)
	require.Error(t, err)
}
