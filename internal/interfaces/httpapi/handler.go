package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/participation"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

// DBPinger reports storage reachability for the health endpoint.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// HealthProbes bundles the optional dependency checks surfaced by
// GET /v1/health. Nil members are reported as "disabled".
type HealthProbes struct {
	DB               DBPinger
	FeedCircuitState func() string
}

type Handler struct {
	matchService         *usecase.MatchService
	participationService *usecase.ParticipationService
	leaderboardService   *usecase.LeaderboardService
	jobOrchestrator      *usecase.JobOrchestratorService
	probes               HealthProbes
	logger               *logging.Logger
	validator            *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	participationService *usecase.ParticipationService,
	leaderboardService *usecase.LeaderboardService,
	jobOrchestrator *usecase.JobOrchestratorService,
	probes HealthProbes,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:         matchService,
		participationService: participationService,
		leaderboardService:   leaderboardService,
		jobOrchestrator:      jobOrchestrator,
		probes:               probes,
		logger:               logger,
		validator:            validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	status := healthDTO{Status: "ok", Database: "disabled", FeedCircuit: "disabled"}
	if h.probes.DB != nil {
		status.Database = "ok"
		if err := h.probes.DB.PingContext(ctx); err != nil {
			h.logger.WarnContext(ctx, "health db ping failed", "error", err)
			status.Status = "degraded"
			status.Database = "unreachable"
		}
	}
	if h.probes.FeedCircuitState != nil {
		status.FeedCircuit = h.probes.FeedCircuitState()
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeSuccess(ctx, w, code, status)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type healthDTO struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	FeedCircuit string `json:"feedCircuit"`
}

type matchDTO struct {
	ID           string `json:"id"`
	Number       int    `json:"number"`
	Season       int    `json:"season"`
	ScheduledAt  string `json:"scheduledAt"`
	Venue        string `json:"venue"`
	HomeTeam     string `json:"homeTeam"`
	AwayTeam     string `json:"awayTeam"`
	HomeTeamID   string `json:"homeTeamId"`
	AwayTeamID   string `json:"awayTeamId"`
	Status       string `json:"status"`
	StatusText   string `json:"statusText"`
	WinnerTeamID string `json:"winnerTeamId,omitempty"`
	WinByRuns    *int   `json:"winByRuns,omitempty"`
	WinByWickets *int   `json:"winByWickets,omitempty"`
}

type participationDTO struct {
	ID        string `json:"id"`
	MatchID   string `json:"matchId"`
	UserID    string `json:"userId"`
	Points    int    `json:"points"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func matchToDTO(ctx context.Context, v match.Match) matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	status := match.StatusUpcoming
	switch {
	case v.IsCompleted:
		status = match.StatusCompleted
	case v.IsLive:
		status = match.StatusLive
	}

	return matchDTO{
		ID:           v.ID,
		Number:       v.Number,
		Season:       v.Season,
		ScheduledAt:  v.ScheduledAt.UTC().Format(time.RFC3339),
		Venue:        v.Venue,
		HomeTeam:     v.HomeTeam,
		AwayTeam:     v.AwayTeam,
		HomeTeamID:   v.HomeTeamID,
		AwayTeamID:   v.AwayTeamID,
		Status:       string(status),
		StatusText:   v.StatusText,
		WinnerTeamID: v.WinnerTeamID,
		WinByRuns:    v.WinByRuns,
		WinByWickets: v.WinByWickets,
	}
}

func participationToDTO(ctx context.Context, v participation.Participation) participationDTO {
	ctx, span := startSpan(ctx, "httpapi.participationToDTO")
	defer span.End()

	return participationDTO{
		ID:        v.ID,
		MatchID:   v.MatchID,
		UserID:    v.UserID,
		Points:    v.Points,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
