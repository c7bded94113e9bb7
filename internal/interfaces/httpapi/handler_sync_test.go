package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

const testJobToken = "test-job-token"

type stubFeedProvider struct {
	bundle usecase.ExternalMatchBundle
	err    error
}

func (s *stubFeedProvider) FetchCurrentMatches(context.Context) (usecase.ExternalMatchBundle, error) {
	return s.bundle, s.err
}

func (s *stubFeedProvider) FetchSeriesMatches(context.Context, string) (usecase.ExternalMatchBundle, error) {
	return s.bundle, s.err
}

func newTestRouter(t *testing.T, provider usecase.MatchFeedProvider) (http.Handler, *memory.MatchRepository) {
	t.Helper()

	logger := logging.NewNop()
	matchRepo := memory.NewMatchRepository()
	teamRepo := memory.NewTeamRepository(memory.SeedTeams()...)
	participationRepo := memory.NewParticipationRepository()
	rawRepo := memory.NewRawFeedRepository()
	dispatchRepo := memory.NewJobDispatchRepository()

	syncSvc := usecase.NewMatchSyncService(
		provider,
		matchRepo,
		usecase.NewTeamResolver(teamRepo, nil, logger),
		usecase.NewResultExtractor(logger),
		rawRepo,
		usecase.MatchSyncConfig{AllowedTeamKeys: usecase.DefaultAllowedTeamKeys()},
		logger,
	)
	orchestrator := usecase.NewJobOrchestratorService(syncSvc, nil, dispatchRepo, usecase.JobOrchestratorConfig{}, logger)

	handler := NewHandler(
		usecase.NewMatchService(matchRepo, 12*time.Hour, logger),
		usecase.NewParticipationService(participationRepo, matchRepo, nil, logger),
		usecase.NewLeaderboardService(participationRepo, 4, logger),
		orchestrator,
		HealthProbes{},
		logger,
	)

	return NewRouter(handler, logger, nil, testJobToken), matchRepo
}

func syncRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-matches", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	return req
}

func decodeEnvelope(t *testing.T, raw []byte) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRunMatchSyncJob_Success(t *testing.T) {
	scheduled := time.Date(2026, 4, 12, 14, 0, 0, 0, time.UTC)
	provider := &stubFeedProvider{bundle: usecase.ExternalMatchBundle{
		Matches: []usecase.ExternalMatch{{
			ExternalID:  "ext-1",
			Name:        "Chennai Super Kings vs Mumbai Indians, 5th Match",
			Number:      5,
			ScheduledAt: &scheduled,
			Venue:       "Chepauk",
			HomeTeam:    usecase.ExternalTeamInfo{Name: "Chennai Super Kings", Short: "CSK"},
			AwayTeam:    usecase.ExternalTeamInfo{Name: "Mumbai Indians", Short: "MI"},
			Status:      "upcoming",
			StatusText:  "Match yet to begin",
		}},
		Total: 1,
	}}
	router, matchRepo := newTestRouter(t, provider)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, syncRequest(`{"force":true}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if success, _ := data["success"].(bool); !success {
		t.Fatalf("expected success=true, got %v", data)
	}
	if got, _ := data["syncedMatches"].(float64); got != 1 {
		t.Fatalf("expected syncedMatches=1, got %v", data["syncedMatches"])
	}

	matches, err := matchRepo.List(context.Background())
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 synced match, got %d", len(matches))
	}
}

func TestRunMatchSyncJob_FeedFailureIsStructured(t *testing.T) {
	provider := &stubFeedProvider{err: usecase.ErrFeedTimeout}
	router, _ := newTestRouter(t, provider)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, syncRequest(""))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected structured verdict payload, got %v", body)
	}
	if success, _ := data["success"].(bool); success {
		t.Fatalf("expected success=false, got %v", data)
	}
	if msg, _ := data["message"].(string); !strings.Contains(msg, "timed out") {
		t.Fatalf("expected timeout message, got %q", msg)
	}
}

func TestRunMatchSyncJob_RequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, &stubFeedProvider{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-matches", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestJoinParticipationAndLeaderboardFlow(t *testing.T) {
	scheduled := time.Date(2026, 4, 12, 14, 0, 0, 0, time.UTC)
	provider := &stubFeedProvider{bundle: usecase.ExternalMatchBundle{
		Matches: []usecase.ExternalMatch{{
			ExternalID:  "ext-9",
			Name:        "Gujarat Titans vs Rajasthan Royals",
			ScheduledAt: &scheduled,
			HomeTeam:    usecase.ExternalTeamInfo{Name: "Gujarat Titans"},
			AwayTeam:    usecase.ExternalTeamInfo{Name: "Rajasthan Royals"},
			Status:      "upcoming",
		}},
		Total: 1,
	}}
	router, _ := newTestRouter(t, provider)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, syncRequest(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("sync: expected 200, got %d", rec.Code)
	}

	join := httptest.NewRequest(http.MethodPost, "/v1/participations", strings.NewReader(`{"matchId":"ext-9","userId":"user-1","points":42}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, join)
	if rec.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leaderboard?limit=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec.Body.Bytes())
	entries, ok := body["data"].([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("expected 1 leaderboard entry, got %v", body["data"])
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/ext-9/participations", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("participations: expected 200, got %d", rec.Code)
	}
}

func TestResyncCompletionLeavesParticipationsUntouched(t *testing.T) {
	scheduled := time.Date(2026, 4, 12, 14, 0, 0, 0, time.UTC)
	upcoming := usecase.ExternalMatch{
		ExternalID:  "ext-4",
		Name:        "Gujarat Titans vs Rajasthan Royals",
		ScheduledAt: &scheduled,
		HomeTeam:    usecase.ExternalTeamInfo{Name: "Gujarat Titans", Short: "GT"},
		AwayTeam:    usecase.ExternalTeamInfo{Name: "Rajasthan Royals", Short: "RR"},
		Status:      "upcoming",
		StatusText:  "Match yet to begin",
	}
	provider := &stubFeedProvider{bundle: usecase.ExternalMatchBundle{Matches: []usecase.ExternalMatch{upcoming}, Total: 1}}
	router, _ := newTestRouter(t, provider)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, syncRequest(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("first sync: expected 200, got %d", rec.Code)
	}

	join := httptest.NewRequest(http.MethodPost, "/v1/participations", strings.NewReader(`{"matchId":"ext-4","userId":"user-7","points":55}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, join)
	if rec.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	completed := upcoming
	completed.Status = "completed"
	completed.StatusText = "Gujarat Titans won by 20 runs"
	provider.bundle = usecase.ExternalMatchBundle{Matches: []usecase.ExternalMatch{completed}, Total: 1}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, syncRequest(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("second sync: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/ext-4", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get match: expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec.Body.Bytes())
	matchData, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected match payload, got %v", body)
	}
	if status, _ := matchData["status"].(string); status != "completed" {
		t.Fatalf("expected match completed after resync, got %q", status)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/ext-4/participations", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("participations: expected 200, got %d", rec.Code)
	}
	body = decodeEnvelope(t, rec.Body.Bytes())
	entries, ok := body["data"].([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("expected exactly 1 participation after resync, got %v", body["data"])
	}
	entry, _ := entries[0].(map[string]any)
	if userID, _ := entry["userId"].(string); userID != "user-7" {
		t.Fatalf("expected participation user kept, got %v", entry)
	}
	if points, _ := entry["points"].(float64); points != 55 {
		t.Fatalf("expected participation points kept, got %v", entry["points"])
	}
}

func TestJoinParticipation_UnknownMatchIsNotFound(t *testing.T) {
	router, _ := newTestRouter(t, &stubFeedProvider{})

	req := httptest.NewRequest(http.MethodPost, "/v1/participations", strings.NewReader(`{"matchId":"missing","userId":"user-1","points":10}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown match, got %d", rec.Code)
	}
}

func TestListMatches_InvalidStatusRejected(t *testing.T) {
	router, _ := newTestRouter(t, &stubFeedProvider{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches?status=paused", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status filter, got %d", rec.Code)
	}
}
