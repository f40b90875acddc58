package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
)

// SnapshotStore persists one opaque state snapshot per transition.
type SnapshotStore interface {
	Save(state domain.EngineState) error
}

// Loop is the single logical writer of the engine state. Producers
// (dashboard handlers, schedulers) submit actions; the loop applies each
// transition to completion, persists the snapshot and publishes the new
// state for readers. An entire transition is one critical section.
type Loop struct {
	orch    *Orchestrator
	store   SnapshotStore
	logger  *zap.Logger
	actions chan domain.Action

	mu      sync.RWMutex
	current domain.EngineState
}

// NewLoop builds a Loop starting from the given state.
func NewLoop(orch *Orchestrator, store SnapshotStore, initial domain.EngineState, logger *zap.Logger) *Loop {
	return &Loop{
		orch:    orch,
		store:   store,
		logger:  logger,
		actions: make(chan domain.Action, 64),
		current: initial,
	}
}

// Submit queues an action for the next transition. It blocks only when the
// queue is full.
func (l *Loop) Submit(ctx context.Context, action domain.Action) error {
	select {
	case l.actions <- action:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a deep copy of the current state for read-only projections.
func (l *Loop) State() domain.EngineState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current.Clone()
}

// Run consumes actions until the context is cancelled. Each transition runs
// to completion before the next action is accepted.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case action := <-l.actions:
			next := l.orch.Apply(l.State(), action)

			l.mu.Lock()
			l.current = next
			l.mu.Unlock()

			if l.store != nil {
				if err := l.store.Save(next); err != nil {
					l.logger.Warn("snapshot save failed",
						zap.String("action", action.Kind()),
						zap.Error(err),
					)
				}
			}

			l.logger.Debug("transition applied", zap.String("action", action.Kind()))
		}
	}
}
