package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/rawfeed"
)

type RawFeedRepository struct {
	mu    sync.RWMutex
	byKey map[string]rawfeed.Payload
}

func NewRawFeedRepository() *RawFeedRepository {
	return &RawFeedRepository{byKey: make(map[string]rawfeed.Payload)}
}

func (r *RawFeedRepository) UpsertMany(_ context.Context, items []rawfeed.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.byKey[item.Source+"|"+item.Endpoint+"|"+item.EntityKey] = item
	}
	return nil
}

// Snapshots returns all stored payloads, for test assertions.
func (r *RawFeedRepository) Snapshots() []rawfeed.Payload {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rawfeed.Payload, 0, len(r.byKey))
	for _, item := range r.byKey {
		out = append(out, item)
	}
	return out
}
