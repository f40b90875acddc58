package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
	"github.com/BoraOzcoban/ma-simulatiion/internal/sampling"
)

type captureSink struct {
	mu      sync.Mutex
	actions []domain.Action
}

func (s *captureSink) Submit(_ context.Context, action domain.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}

func (s *captureSink) snapshot() []domain.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Action(nil), s.actions...)
}

func TestNudge_EmitsBoundedMoves(t *testing.T) {
	sink := &captureSink{}
	nudge := NewNudge(sink, sampling.NewRand(), 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- nudge.Run(ctx) }()

	require.Eventually(t, func() bool { return len(sink.snapshot()) >= 3 },
		2*time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	for _, action := range sink.snapshot() {
		move, ok := action.(domain.NudgePrice)
		require.True(t, ok)

		pct := move.Pct.InexactFloat64()
		require.GreaterOrEqual(t, pct, -5.0)
		require.LessOrEqual(t, pct, 5.0)
	}
}

func TestHeadline_EmitsFromThePool(t *testing.T) {
	sink := &captureSink{}
	headline := NewHeadline(sink, sampling.NewRand(),
		time.Millisecond, 2*time.Millisecond, 4*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- headline.Run(ctx) }()

	require.Eventually(t, func() bool { return len(sink.snapshot()) >= 2 },
		2*time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	known := make(map[string]bool, len(macroHeadlinePool))
	for _, h := range macroHeadlinePool {
		known[h] = true
	}
	for _, action := range sink.snapshot() {
		add, ok := action.(domain.AddHeadline)
		require.True(t, ok)
		require.True(t, known[add.Text], "unexpected headline %q", add.Text)
	}
}

func TestNewHeadline_RejectsDegenerateTriangle(t *testing.T) {
	h := NewHeadline(&captureSink{}, sampling.Fixed{}, 0, 0, 0, zap.NewNop())

	require.Equal(t, 60*time.Second, h.delayMin)
	require.Equal(t, 120*time.Second, h.delayMode)
	require.Equal(t, 240*time.Second, h.delayMax)
}
