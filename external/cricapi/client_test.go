package cricapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

func TestParseMatchNumber(t *testing.T) {
	t.Parallel()

	if got := parseMatchNumber("Chennai Super Kings vs Mumbai Indians, 38th Match"); got != 38 {
		t.Fatalf("expected match number=38, got=%d", got)
	}
	if got := parseMatchNumber("3rd Match, Indian Premier League 2025"); got != 3 {
		t.Fatalf("expected match number=3, got=%d", got)
	}
	if got := parseMatchNumber("Final"); got != 0 {
		t.Fatalf("expected match number=0 for final, got=%d", got)
	}
	if got := parseMatchNumber(""); got != 0 {
		t.Fatalf("expected match number=0 for empty name, got=%d", got)
	}
}

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	if got := classifyStatus("Match not started", false, true); got != match.StatusCompleted {
		t.Fatalf("expected ended flag to win, got=%s", got)
	}
	if got := classifyStatus("", true, false); got != match.StatusLive {
		t.Fatalf("expected started flag to classify live, got=%s", got)
	}
	if got := classifyStatus("Live - innings break", false, false); got != match.StatusLive {
		t.Fatalf("expected live keyword to classify live, got=%s", got)
	}
	if got := classifyStatus("Chennai Super Kings won by 23 runs", false, false); got != match.StatusCompleted {
		t.Fatalf("expected won keyword to classify completed, got=%s", got)
	}
	if got := classifyStatus("Match starts at 19:30 IST", false, false); got != match.StatusUpcoming {
		t.Fatalf("expected default upcoming, got=%s", got)
	}
}

func TestMapUpstreamMatch_DropsRecordsWithoutBothTeams(t *testing.T) {
	t.Parallel()

	_, ok := mapUpstreamMatch(upstreamMatch{
		ID:     "abc-123",
		Name:   "12th Match",
		Status: "Live",
		TeamInfo: []upstreamTeamInfo{
			{Name: "Chennai Super Kings", ShortName: "CSK"},
		},
	})
	if ok {
		t.Fatalf("expected record with one teamInfo entry to be dropped")
	}

	_, ok = mapUpstreamMatch(upstreamMatch{
		Name: "12th Match",
		TeamInfo: []upstreamTeamInfo{
			{Name: "Chennai Super Kings"},
			{Name: "Mumbai Indians"},
		},
	})
	if ok {
		t.Fatalf("expected record without id to be dropped")
	}
}

func TestFetchCurrentMatches_CountsDroppedRecords(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("offset") != "0" {
			t.Errorf("expected offset=0, got=%s", r.URL.Query().Get("offset"))
		}
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": [
				{
					"id": "m-1",
					"name": "5th Match",
					"status": "Mumbai Indians won by 4 wickets",
					"venue": "Wankhede Stadium",
					"dateTimeGMT": "2026-04-12T14:00:00",
					"matchStarted": true,
					"matchEnded": true,
					"teamInfo": [
						{"name": "Mumbai Indians", "shortname": "MI", "img": "https://cdn.example/mi.png"},
						{"name": "Chennai Super Kings", "shortname": "CSK", "img": ""}
					]
				},
				{
					"id": "m-2",
					"name": "6th Match",
					"status": "Match not started",
					"teamInfo": [
						{"name": "Delhi Capitals", "shortname": "DC"}
					]
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})

	bundle, err := client.FetchCurrentMatches(context.Background())
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}
	if bundle.Total != 2 {
		t.Fatalf("expected total=2, got=%d", bundle.Total)
	}
	if bundle.Dropped != 1 {
		t.Fatalf("expected dropped=1, got=%d", bundle.Dropped)
	}
	if len(bundle.Matches) != 1 {
		t.Fatalf("expected one usable match, got=%d", len(bundle.Matches))
	}

	item := bundle.Matches[0]
	if item.ExternalID != "m-1" {
		t.Fatalf("expected external id=m-1, got=%s", item.ExternalID)
	}
	if item.Number != 5 {
		t.Fatalf("expected match number=5, got=%d", item.Number)
	}
	if item.Status != match.StatusCompleted {
		t.Fatalf("expected completed status, got=%s", item.Status)
	}
	if item.ScheduledAt == nil || !item.ScheduledAt.Equal(time.Date(2026, 4, 12, 14, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected scheduled time 2026-04-12T14:00:00Z, got=%v", item.ScheduledAt)
	}
	if len(bundle.RawPayloads) != 1 {
		t.Fatalf("expected one raw payload snapshot, got=%d", len(bundle.RawPayloads))
	}
	if strings.Contains(bundle.RawPayloads[0].EntityKey, "test-key") {
		t.Fatalf("raw payload entity key leaked api key: %s", bundle.RawPayloads[0].EntityKey)
	}
}

func TestFetchCurrentMatches_MissingDataArrayIsSchemaError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","info":{"hitsToday":5}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-key"})

	_, err := client.FetchCurrentMatches(context.Background())
	if !errors.Is(err, usecase.ErrFeedSchema) {
		t.Fatalf("expected schema error, got=%v", err)
	}
}

func TestFetchCurrentMatches_UnauthorizedIsAuthError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"failure","reason":"invalid api key"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "bad-key", MaxRetries: 2})

	_, err := client.FetchCurrentMatches(context.Background())
	if !errors.Is(err, usecase.ErrFeedAuth) {
		t.Fatalf("expected auth error, got=%v", err)
	}
}

func TestFetchCurrentMatches_MissingKeyIsConfigError(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"})

	_, err := client.FetchCurrentMatches(context.Background())
	if !errors.Is(err, usecase.ErrFeedNotConfigured) {
		t.Fatalf("expected config error, got=%v", err)
	}
}

func TestFetchSeriesMatches_ReadsNestedMatchList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "series-9" {
			t.Errorf("expected series id=series-9, got=%s", r.URL.Query().Get("id"))
		}
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {
				"info": {"name": "Indian Premier League 2026"},
				"matchList": [
					{
						"id": "m-7",
						"name": "7th Match",
						"status": "Match not started",
						"dateTimeGMT": "2026-04-15T14:00:00",
						"teamInfo": [
							{"name": "Punjab Kings", "shortname": "PBKS"},
							{"name": "Rajasthan Royals", "shortname": "RR"}
						]
					}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-key"})

	bundle, err := client.FetchSeriesMatches(context.Background(), "series-9")
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}
	if len(bundle.Matches) != 1 {
		t.Fatalf("expected one match, got=%d", len(bundle.Matches))
	}
	if bundle.Matches[0].Status != match.StatusUpcoming {
		t.Fatalf("expected upcoming status, got=%s", bundle.Matches[0].Status)
	}
}
