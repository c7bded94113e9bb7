// Package cache decorates repositories with a TTL read-through cache.
// Team rows are near-immutable between sync runs, so caching them keeps
// the resolver off the database for every fixture in a cycle.
package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	basecache "github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByKey(ctx context.Context, nameKey string) (team.Team, bool, error) {
	key := "team:key:" + nameKey
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByKey(ctx, nameKey)
		if err != nil {
			return nil, err
		}
		return cachedTeamByKey{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByKey)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) (team.Team, error) {
	out, err := r.next.Upsert(ctx, item)
	if err != nil {
		return team.Team{}, err
	}
	r.cache.Delete(ctx, "team:key:"+out.NameKey)
	r.cache.Delete(ctx, "team:list")
	return out, nil
}

type cachedTeamByKey struct {
	value  team.Team
	exists bool
}

// MatchRepository caches point lookups only. List paths stay uncached
// because the live bucket depends on the clock.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	key := "match:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.next.List(ctx)
}

func (r *MatchRepository) ListByStatus(ctx context.Context, status match.Status, liveWindow time.Duration) ([]match.Match, error) {
	return r.next.ListByStatus(ctx, status, liveWindow)
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, error) {
	out, err := r.next.Upsert(ctx, item)
	if err != nil {
		return match.Match{}, err
	}
	r.cache.Delete(ctx, "match:id:"+out.ID)
	return out, nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}
