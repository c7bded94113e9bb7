package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/participation"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

type JoinMatchInput struct {
	MatchID string `json:"match_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
	Points  int    `json:"points" validate:"gte=0"`
}

// ParticipationService owns user entries. The sync engine never writes
// through this path, so entries survive any number of re-syncs.
type ParticipationService struct {
	participationRepo participation.Repository
	matchRepo         match.Repository
	ids               id.Generator
	logger            *logging.Logger
	now               func() time.Time
}

func NewParticipationService(
	participationRepo participation.Repository,
	matchRepo match.Repository,
	ids id.Generator,
	logger *logging.Logger,
) *ParticipationService {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ParticipationService{
		participationRepo: participationRepo,
		matchRepo:         matchRepo,
		ids:               ids,
		logger:            logger,
		now:               time.Now,
	}
}

func (s *ParticipationService) JoinMatch(ctx context.Context, input JoinMatchInput) (participation.Participation, error) {
	ctx, span := startUsecaseSpan(ctx, "ParticipationService.JoinMatch")
	defer span.End()

	matchID := strings.TrimSpace(input.MatchID)
	userID := strings.TrimSpace(input.UserID)
	if matchID == "" || userID == "" {
		return participation.Participation{}, fmt.Errorf("%w: match id and user id are required", ErrInvalidInput)
	}
	if input.Points < 0 {
		return participation.Participation{}, fmt.Errorf("%w: points must not be negative", ErrInvalidInput)
	}

	item, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return participation.Participation{}, fmt.Errorf("get match id=%s: %w", matchID, err)
	}
	if !found {
		return participation.Participation{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if item.IsCompleted {
		return participation.Participation{}, fmt.Errorf("%w: match=%s is already completed", ErrInvalidInput, matchID)
	}

	newID, err := s.ids.NewID()
	if err != nil {
		return participation.Participation{}, fmt.Errorf("mint participation id: %w", err)
	}

	now := s.now().UTC()
	saved, err := s.participationRepo.Upsert(ctx, participation.Participation{
		ID:        newID,
		MatchID:   matchID,
		UserID:    userID,
		Points:    input.Points,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return participation.Participation{}, fmt.Errorf("upsert participation match=%s user=%s: %w", matchID, userID, err)
	}

	s.logger.InfoContext(ctx, "participation saved",
		"participation_id", saved.ID,
		"match_id", matchID,
		"user_id", userID,
	)
	return saved, nil
}

func (s *ParticipationService) ListByMatch(ctx context.Context, matchID string) ([]participation.Participation, error) {
	ctx, span := startUsecaseSpan(ctx, "ParticipationService.ListByMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if _, found, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return nil, fmt.Errorf("get match id=%s: %w", matchID, err)
	} else if !found {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	items, err := s.participationRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list participations match=%s: %w", matchID, err)
	}
	return items, nil
}
