package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/participation"
)

type ParticipationRepository struct {
	mu    sync.RWMutex
	items map[string]participation.Participation
}

func NewParticipationRepository(seed ...participation.Participation) *ParticipationRepository {
	repo := &ParticipationRepository{items: make(map[string]participation.Participation, len(seed))}
	for _, item := range seed {
		repo.items[participationKey(item.MatchID, item.UserID)] = item
	}
	return repo
}

func participationKey(matchID, userID string) string {
	return matchID + "|" + userID
}

func (r *ParticipationRepository) Upsert(_ context.Context, item participation.Participation) (participation.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := participationKey(item.MatchID, item.UserID)
	if existing, ok := r.items[key]; ok {
		existing.Points = item.Points
		existing.UpdatedAt = item.UpdatedAt
		r.items[key] = existing
		return existing, nil
	}

	r.items[key] = item
	return item, nil
}

func (r *ParticipationRepository) ListByMatch(_ context.Context, matchID string) ([]participation.Participation, error) {
	return r.list(func(item participation.Participation) bool { return item.MatchID == matchID }), nil
}

func (r *ParticipationRepository) ListByUser(_ context.Context, userID string) ([]participation.Participation, error) {
	return r.list(func(item participation.Participation) bool { return item.UserID == userID }), nil
}

func (r *ParticipationRepository) List(_ context.Context) ([]participation.Participation, error) {
	return r.list(nil), nil
}

func (r *ParticipationRepository) list(filter func(participation.Participation) bool) []participation.Participation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participation.Participation, 0, len(r.items))
	for _, item := range r.items {
		if filter != nil && !filter(item) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
