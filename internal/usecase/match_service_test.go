package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

func TestGetMatch_Validation(t *testing.T) {
	svc := NewMatchService(memory.NewMatchRepository(), 12*time.Hour, logging.NewNop())

	_, err := svc.GetMatch(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetMatch(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetMatch_ReturnsStoredMatch(t *testing.T) {
	stored := match.Match{ID: "ext-1", HomeTeam: "Chennai Super Kings", AwayTeam: "Mumbai Indians"}
	svc := NewMatchService(memory.NewMatchRepository(stored), 12*time.Hour, logging.NewNop())

	got, err := svc.GetMatch(context.Background(), "ext-1")
	require.NoError(t, err)
	require.Equal(t, stored.ID, got.ID)
	require.Equal(t, stored.HomeTeam, got.HomeTeam)
}

func TestListMatches_RejectsUnknownStatusFilter(t *testing.T) {
	svc := NewMatchService(memory.NewMatchRepository(), 12*time.Hour, logging.NewNop())

	_, err := svc.ListMatches(context.Background(), "paused")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListMatches_LiveFilterHonorsWindow(t *testing.T) {
	now := time.Now().UTC()
	repo := memory.NewMatchRepository(
		match.Match{ID: "live-now", IsLive: true, ScheduledAt: now.Add(-2 * time.Hour)},
		match.Match{ID: "live-stale", IsLive: true, ScheduledAt: now.Add(-48 * time.Hour)},
		match.Match{ID: "done", IsCompleted: true, ScheduledAt: now.Add(-3 * time.Hour)},
		match.Match{ID: "upcoming", ScheduledAt: now.Add(24 * time.Hour)},
	)
	svc := NewMatchService(repo, 12*time.Hour, logging.NewNop())

	live, err := svc.ListMatches(context.Background(), "Live")
	require.NoError(t, err)
	require.Len(t, live, 1)
	require.Equal(t, "live-now", live[0].ID)

	upcoming, err := svc.ListMatches(context.Background(), "upcoming")
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "upcoming", upcoming[0].ID)

	all, err := svc.ListMatches(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 4)
}
