// Package memory holds process-local repository implementations used when
// no external store is configured.
package memory

import (
	"context"
	"sync"

	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

// SnapshotRepository keeps session slots in a map. Contents are lost on
// restart.
type SnapshotRepository struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewSnapshotRepository creates an empty in-memory snapshot repository.
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{slots: make(map[string][]byte)}
}

func key(sessionID, slot string) string { return sessionID + "\x00" + slot }

func (r *SnapshotRepository) Load(_ context.Context, sessionID, slot string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.slots[key(sessionID, slot)]
	if !ok {
		return nil, apperrors.NotFound(slot, sessionID)
	}
	return append([]byte(nil), data...), nil
}

func (r *SnapshotRepository) Save(_ context.Context, sessionID, slot string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[key(sessionID, slot)] = append([]byte(nil), data...)
	return nil
}

func (r *SnapshotRepository) Delete(_ context.Context, sessionID string, slots ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range slots {
		delete(r.slots, key(sessionID, s))
	}
	return nil
}
