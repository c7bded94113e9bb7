package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/participation"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

const leaderboardChunkSize = 256

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"user_id"`
	Points  int    `json:"points"`
	Matches int    `json:"matches"`
}

// LeaderboardService totals participation points per user. Aggregation
// fans out over a worker pool; result ordering is deterministic.
type LeaderboardService struct {
	participationRepo participation.Repository
	poolSize          int
	logger            *logging.Logger
}

func NewLeaderboardService(participationRepo participation.Repository, poolSize int, logger *logging.Logger) *LeaderboardService {
	if poolSize <= 0 {
		poolSize = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		participationRepo: participationRepo,
		poolSize:          poolSize,
		logger:            logger,
	}
}

func (s *LeaderboardService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.Leaderboard")
	defer span.End()

	items, err := s.participationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	if len(items) == 0 {
		return []LeaderboardEntry{}, nil
	}

	totals := s.aggregate(ctx, items)

	out := make([]LeaderboardEntry, 0, len(totals))
	for userID, total := range totals {
		out = append(out, LeaderboardEntry{
			UserID:  userID,
			Points:  total.Points,
			Matches: total.Matches,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].UserID < out[j].UserID
	})
	for i := range out {
		out[i].Rank = i + 1
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *LeaderboardService) aggregate(ctx context.Context, items []participation.Participation) map[string]participation.UserTotal {
	if len(items) <= leaderboardChunkSize {
		return aggregateChunk(items)
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		s.logger.WarnContext(ctx, "worker pool unavailable, aggregating inline", "error", err)
		return aggregateChunk(items)
	}
	defer pool.Release()

	totals := make(map[string]participation.UserTotal, 64)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for start := 0; start < len(items); start += leaderboardChunkSize {
		end := min(start+leaderboardChunkSize, len(items))
		chunk := items[start:end]

		wg.Add(1)
		task := func() {
			defer wg.Done()
			local := aggregateChunk(chunk)
			mu.Lock()
			for userID, total := range local {
				merged := totals[userID]
				merged.UserID = userID
				merged.Points += total.Points
				merged.Matches += total.Matches
				totals[userID] = merged
			}
			mu.Unlock()
		}
		if err := pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	return totals
}

func aggregateChunk(items []participation.Participation) map[string]participation.UserTotal {
	out := make(map[string]participation.UserTotal, 16)
	for _, item := range items {
		total := out[item.UserID]
		total.UserID = item.UserID
		total.Points += item.Points
		total.Matches++
		out[item.UserID] = total
	}
	return out
}
