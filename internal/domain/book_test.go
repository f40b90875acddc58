package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSide_TextRoundTrip(t *testing.T) {
	for _, side := range []Side{SideBid, SideAsk} {
		raw, err := json.Marshal(side)
		require.NoError(t, err)

		var back Side
		require.NoError(t, json.Unmarshal(raw, &back))
		require.Equal(t, side, back)
	}

	var s Side
	require.Error(t, json.Unmarshal([]byte(`"short"`), &s))
}

func TestNewRestingOrder_Validation(t *testing.T) {
	now := time.Now()

	order, err := NewRestingOrder("id-1", SideBid, decimal.NewFromFloat(12.505), 10, "titan-capital", now)
	require.NoError(t, err)
	require.True(t, order.Price.Equal(decimal.NewFromFloat(12.51)), "price rounds to cents, got %s", order.Price)
	require.Equal(t, now, order.SubmittedAt)

	_, err = NewRestingOrder("id-2", SideBid, decimal.Zero, 10, "", now)
	require.Error(t, err)

	_, err = NewRestingOrder("id-3", SideAsk, decimal.NewFromInt(10), 0, "", now)
	require.Error(t, err)
}
