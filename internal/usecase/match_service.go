package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// MatchService serves read paths over synced matches.
type MatchService struct {
	matchRepo  match.Repository
	liveWindow time.Duration
	logger     *logging.Logger
}

func NewMatchService(matchRepo match.Repository, liveWindow time.Duration, logger *logging.Logger) *MatchService {
	if liveWindow <= 0 {
		liveWindow = 12 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		matchRepo:  matchRepo,
		liveWindow: liveWindow,
		logger:     logger,
	}
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.GetMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match id=%s: %w", matchID, err)
	}
	if !found {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

// ListMatches returns all matches, or only those in one status bucket
// when filter is non-empty.
func (s *MatchService) ListMatches(ctx context.Context, statusFilter string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.ListMatches")
	defer span.End()

	statusFilter = strings.ToLower(strings.TrimSpace(statusFilter))
	if statusFilter == "" {
		items, err := s.matchRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list matches: %w", err)
		}
		return items, nil
	}

	status := match.Status(statusFilter)
	switch status {
	case match.StatusLive, match.StatusCompleted, match.StatusUpcoming:
	default:
		return nil, fmt.Errorf("%w: unknown status filter %q", ErrInvalidInput, statusFilter)
	}

	items, err := s.matchRepo.ListByStatus(ctx, status, s.liveWindow)
	if err != nil {
		return nil, fmt.Errorf("list matches status=%s: %w", status, err)
	}
	return items, nil
}
