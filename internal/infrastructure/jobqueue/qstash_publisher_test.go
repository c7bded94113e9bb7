package jobqueue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

func TestEnqueue_SetsUpstashHeaders(t *testing.T) {
	t.Parallel()

	var captured http.Header
	var capturedURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		capturedURL = r.URL.String()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          server.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.example.com",
		Retries:          2,
		InternalJobToken: "job-token",
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/sync-matches", map[string]any{"force": true}, 30*time.Minute, "sync-matches-current-20260901T120000Z")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if got := captured.Get("Authorization"); got != "Bearer qstash-token" {
		t.Fatalf("unexpected Authorization header: %q", got)
	}
	if got := captured.Get("Upstash-Method"); got != "POST" {
		t.Fatalf("unexpected Upstash-Method: %q", got)
	}
	if got := captured.Get("Upstash-Retries"); got != "2" {
		t.Fatalf("unexpected Upstash-Retries: %q", got)
	}
	if got := captured.Get("Upstash-Delay"); got != "1800s" {
		t.Fatalf("unexpected Upstash-Delay: %q", got)
	}
	if got := captured.Get("Upstash-Deduplication-Id"); got != "sync-matches-current-20260901T120000Z" {
		t.Fatalf("unexpected deduplication id: %q", got)
	}
	if got := captured.Get("Upstash-Forward-X-Internal-Job-Token"); got != "job-token" {
		t.Fatalf("unexpected forward token header: %q", got)
	}
	if !strings.HasPrefix(capturedURL, "/v2/publish/") {
		t.Fatalf("expected publish path prefix, got=%q", capturedURL)
	}
}

func TestEnqueue_EmptyPathRejected(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.example.com",
		Token:         "token",
		TargetBaseURL: "https://api.example.com",
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "  ", nil, 0, ""); err == nil {
		t.Fatal("expected error for empty job path")
	}
}

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		delay time.Duration
		want  string
	}{
		{0, "0s"},
		{-time.Minute, "0s"},
		{time.Second, "1s"},
		{30 * time.Minute, "1800s"},
		{1500 * time.Millisecond, "2s"},
	}
	for _, tc := range cases {
		if got := normalizeDelay(tc.delay); got != tc.want {
			t.Fatalf("normalizeDelay(%v)=%q, want %q", tc.delay, got, tc.want)
		}
	}
}

func TestValidateHTTPBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := validateHTTPBaseURL("ftp://example.com"); err == nil {
		t.Fatal("expected scheme error")
	}
	if _, err := validateHTTPBaseURL(""); err == nil {
		t.Fatal("expected empty value error")
	}
	got, err := validateHTTPBaseURL("https://example.com/")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != "https://example.com" {
		t.Fatalf("expected trailing slash trimmed, got=%q", got)
	}
}

func TestBuildQStashCurlPreview_MasksSecrets(t *testing.T) {
	t.Parallel()

	preview := buildQStashCurlPreview("https://qstash.example.com/v2/publish/https://api.example.com/v1/internal/jobs/sync-matches", "/v1/internal/jobs/sync-matches", "1800s", 2, "dedup-1", `{"force":true}`, true)

	if strings.Contains(preview, "qstash-token") || strings.Contains(preview, "job-token") {
		t.Fatalf("preview leaked a secret: %s", preview)
	}
	if !strings.Contains(preview, "Authorization: Bearer ***") {
		t.Fatalf("expected masked authorization header, got=%s", preview)
	}
	if !strings.Contains(preview, "Upstash-Forward-X-Internal-Job-Token: ***") {
		t.Fatalf("expected masked forward token header, got=%s", preview)
	}
	if !strings.Contains(preview, "Upstash-Delay: 1800s") {
		t.Fatalf("expected delay header in preview, got=%s", preview)
	}
}
