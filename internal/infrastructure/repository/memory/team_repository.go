package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
)

// TeamRepository is the in-memory team store used for tests and
// database-less development runs.
type TeamRepository struct {
	mu    sync.RWMutex
	byKey map[string]team.Team
}

func NewTeamRepository(seed ...team.Team) *TeamRepository {
	repo := &TeamRepository{byKey: make(map[string]team.Team, len(seed))}
	for _, item := range seed {
		repo.byKey[item.NameKey] = item
	}
	return repo
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byKey))
	for _, item := range r.byKey {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) GetByKey(_ context.Context, nameKey string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byKey[nameKey]
	return item, ok, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byKey[item.NameKey]; ok {
		if item.LogoURL != "" {
			existing.LogoURL = item.LogoURL
		}
		r.byKey[item.NameKey] = existing
		return existing, nil
	}

	r.byKey[item.NameKey] = item
	return item, nil
}
