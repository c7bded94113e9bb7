package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
)

type MatchRepository struct {
	mu   sync.RWMutex
	byID map[string]match.Match
	now  func() time.Time
}

func NewMatchRepository(seed ...match.Match) *MatchRepository {
	repo := &MatchRepository{
		byID: make(map[string]match.Match, len(seed)),
		now:  time.Now,
	}
	for _, item := range seed {
		repo.byID[item.ID] = item
	}
	return repo
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	return item, ok, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(nil), nil
}

func (r *MatchRepository) ListByStatus(_ context.Context, status match.Status, liveWindow time.Duration) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := r.now().UTC().Add(-liveWindow)
	filter := func(item match.Match) bool {
		switch status {
		case match.StatusCompleted:
			return item.IsCompleted
		case match.StatusLive:
			return item.IsLive && !item.IsCompleted && !item.ScheduledAt.Before(cutoff)
		case match.StatusUpcoming:
			return !item.IsCompleted && !item.IsLive
		default:
			return false
		}
	}
	return r.sortedLocked(filter), nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[item.ID] = item
	return item, nil
}

func (r *MatchRepository) sortedLocked(filter func(match.Match) bool) []match.Match {
	out := make([]match.Match, 0, len(r.byID))
	for _, item := range r.byID {
		if filter != nil && !filter(item) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID < out[j].ID
	})
	return out
}
