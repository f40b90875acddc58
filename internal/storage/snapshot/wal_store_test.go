package snapshot

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
)

func TestWALStore_LoadEmptyReturnsBaseline(t *testing.T) {
	store, err := NewWALStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	baseline := domain.BaselineState(decimal.NewFromFloat(12.40))
	state, recovered := store.Load(baseline)

	require.False(t, recovered)
	require.True(t, state.Price.Equal(baseline.Price))
}

func TestWALStore_RoundTripAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir, zap.NewNop())
	require.NoError(t, err)

	state := domain.BaselineState(decimal.NewFromFloat(12.40))
	state.Price = decimal.NewFromFloat(14.75)
	state.AutoPaused = true
	state.PushNews("persisted headline")
	require.NoError(t, store.Save(state))
	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	loaded, recovered := reopened.Load(domain.BaselineState(decimal.NewFromFloat(12.40)))
	require.True(t, recovered)
	require.True(t, loaded.Price.Equal(decimal.NewFromFloat(14.75)))
	require.True(t, loaded.AutoPaused)
	require.Equal(t, "persisted headline", loaded.News[0])
	require.True(t, loaded.Ownership.TotalShares().Equal(decimal.NewFromInt(100)))
}

func TestWALStore_LatestSnapshotWins(t *testing.T) {
	store, err := NewWALStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	state := domain.BaselineState(decimal.NewFromFloat(12.40))
	for _, p := range []float64{13.00, 13.50, 14.00} {
		state.Price = decimal.NewFromFloat(p)
		require.NoError(t, store.Save(state))
	}

	loaded, recovered := store.Load(domain.BaselineState(decimal.NewFromFloat(12.40)))
	require.True(t, recovered)
	require.True(t, loaded.Price.Equal(decimal.NewFromFloat(14.00)), "price = %s", loaded.Price)
}

func TestWALStore_CorruptPayloadFallsBackToBaseline(t *testing.T) {
	store, err := NewWALStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.wal.Write(store.wal.CurrentIndex()+1, stateKey, []byte("{not json")))

	baseline := domain.BaselineState(decimal.NewFromFloat(12.40))
	loaded, recovered := store.Load(baseline)

	require.False(t, recovered)
	require.True(t, loaded.Price.Equal(baseline.Price))
}

func TestWALStore_NilStoreIsSafe(t *testing.T) {
	var store *WALStore

	require.Error(t, store.Save(domain.EngineState{}))

	baseline := domain.BaselineState(decimal.NewFromFloat(12.40))
	state, recovered := store.Load(baseline)
	require.False(t, recovered)
	require.True(t, state.Price.Equal(baseline.Price))

	require.NoError(t, store.Close())
}
