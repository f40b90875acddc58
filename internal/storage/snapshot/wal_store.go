// Package snapshot persists the full engine state as one opaque JSON blob
// per transition in a write-ahead log. On startup the latest snapshot is
// overlaid onto a freshly built baseline; missing or corrupt data is never
// fatal.
package snapshot

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"go.uber.org/zap"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
)

const (
	defaultSnapshotDir   = "./wal/state"
	snapshotSegmentLimit = 1000
	snapshotMaxSegments  = 100
	stateKey             = "engine_state"
)

// WALStore persists engine-state snapshots under a single fixed key.
type WALStore struct {
	wal    *gowal.Wal
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewWALStore initializes a WAL-backed snapshot store under the provided
// directory.
func NewWALStore(dir string, logger *zap.Logger) (*WALStore, error) {
	if dir == "" {
		dir = defaultSnapshotDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "snapshot_",
		SegmentThreshold: snapshotSegmentLimit,
		MaxSegments:      snapshotMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init state snapshot WAL")
	}

	return &WALStore{wal: wal, logger: logger}, nil
}

// Save appends the serialized state to the WAL.
func (s *WALStore) Save(state domain.EngineState) error {
	if s == nil || s.wal == nil {
		return errors.New("snapshot store is not initialized")
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "marshal engine state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, stateKey, payload)
}

// Load overlays the most recent stored snapshot onto the given baseline and
// reports whether a snapshot was recovered. Fields absent from the stored
// payload keep their baseline values; a corrupt payload degrades to the
// plain baseline.
func (s *WALStore) Load(baseline domain.EngineState) (domain.EngineState, bool) {
	if s == nil || s.wal == nil {
		return baseline, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	for msg := range s.wal.Iterator() {
		if msg.Key == stateKey {
			payload = msg.Value
		}
	}
	if payload == nil {
		return baseline, false
	}

	state := baseline.Clone()
	if err := json.Unmarshal(payload, &state); err != nil {
		if s.logger != nil {
			s.logger.Warn("corrupt state snapshot, falling back to baseline", zap.Error(err))
		}
		return baseline, false
	}

	return state, true
}

// Close releases the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
