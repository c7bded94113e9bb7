package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/jobscheduler"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

const jobPathSyncMatches = "/v1/internal/jobs/sync-matches"

type JobOrchestratorConfig struct {
	SyncInterval time.Duration
}

type JobSyncInput struct {
	SeriesID string
	Force    bool
}

// JobSyncResult is the trigger contract: callers always get a verdict
// and a human-readable message, never a bare transport failure.
type JobSyncResult struct {
	Success       bool        `json:"success"`
	SyncedMatches int         `json:"syncedMatches"`
	Message       string      `json:"message"`
	Summary       SyncSummary `json:"summary"`
	QueuedNext    bool        `json:"queued_next"`
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// JobOrchestratorService runs sync jobs and keeps the recurring schedule
// alive by re-enqueueing the next trigger after each run.
type JobOrchestratorService struct {
	syncSvc      *MatchSyncService
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          JobOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewJobOrchestratorService(
	syncSvc *MatchSyncService,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 30 * time.Minute
	}

	return &JobOrchestratorService{
		syncSvc:      syncSvc,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// RunMatchSync executes one sync pass. Feed failures are folded into the
// result rather than returned, so the trigger endpoint can always answer
// with a structured verdict.
func (s *JobOrchestratorService) RunMatchSync(ctx context.Context, input JobSyncInput) JobSyncResult {
	ctx, span := startUsecaseSpan(ctx, "JobOrchestratorService.RunMatchSync")
	defer span.End()

	now := s.now().UTC()
	seriesID := strings.TrimSpace(input.SeriesID)
	dispatchID := dedupKey("sync-matches", seriesSegment(seriesID), now, s.cfg.SyncInterval)

	var summary SyncSummary
	var err error
	if seriesID != "" {
		summary, err = s.syncSvc.SyncSeriesMatches(ctx, seriesID)
	} else {
		summary, err = s.syncSvc.SyncCurrentMatches(ctx)
	}

	result := JobSyncResult{
		SyncedMatches: summary.Succeeded,
		Summary:       summary,
	}
	payload := map[string]any{
		"series_id":   seriesID,
		"dispatch_id": dispatchID,
		"summary":     summary,
	}

	if err != nil {
		result.Message = feedFailureMessage(err)
		s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
			DispatchID:   dispatchID,
			JobName:      "sync-matches",
			JobPath:      jobPathSyncMatches,
			Status:       jobscheduler.StatusFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
			OccurredAt:   now,
		})
	} else {
		result.Success = true
		result.Message = fmt.Sprintf("synced %d of %d matches (%d failed, %d skipped, %d dropped)",
			summary.Succeeded, summary.Total, summary.Failed, summary.Skipped, summary.Dropped)
		s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
			DispatchID: dispatchID,
			JobName:    "sync-matches",
			JobPath:    jobPathSyncMatches,
			Status:     jobscheduler.StatusCompleted,
			Payload:    payload,
			OccurredAt: now,
		})
	}

	result.QueuedNext = s.enqueueNext(ctx, seriesID, now)
	return result
}

// Bootstrap queues the first trigger so the recurring chain starts
// without waiting a full interval.
func (s *JobOrchestratorService) Bootstrap(ctx context.Context, input JobSyncInput) error {
	return s.enqueue(ctx, strings.TrimSpace(input.SeriesID), 0, s.now().UTC())
}

func (s *JobOrchestratorService) enqueueNext(ctx context.Context, seriesID string, now time.Time) bool {
	if err := s.enqueue(ctx, seriesID, s.cfg.SyncInterval, now); err != nil {
		s.logger.WarnContext(ctx, "enqueue next sync trigger failed", "error", err)
		return false
	}
	return true
}

func (s *JobOrchestratorService) enqueue(ctx context.Context, seriesID string, delay time.Duration, now time.Time) error {
	dedupID := dedupKey("sync-matches", seriesSegment(seriesID), now.Add(delay), s.cfg.SyncInterval)
	payload := map[string]any{
		"series_id":   seriesID,
		"dispatch_id": dedupID,
	}
	if err := s.queue.Enqueue(ctx, jobPathSyncMatches, payload, delay, dedupID); err != nil {
		s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
			DispatchID:   dedupID,
			JobName:      "sync-matches",
			JobPath:      jobPathSyncMatches,
			Status:       jobscheduler.StatusFailed,
			Payload:      payload,
			ErrorMessage: err.Error(),
			OccurredAt:   now.UTC(),
		})
		return fmt.Errorf("enqueue sync-matches: %w", err)
	}
	s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    "sync-matches",
		JobPath:    jobPathSyncMatches,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
		OccurredAt: now.UTC(),
	})
	return nil
}

func feedFailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrFeedNotConfigured):
		return "match feed api key is not configured"
	case errors.Is(err, ErrFeedAuth):
		return "match feed rejected the api key"
	case errors.Is(err, ErrFeedTimeout):
		return "match feed request timed out"
	case errors.Is(err, ErrFeedSchema):
		return "match feed returned an unexpected payload"
	case errors.Is(err, ErrDependencyUnavailable):
		return "match feed is temporarily unavailable"
	case errors.Is(err, ErrInvalidInput):
		return "invalid sync request"
	default:
		return "match sync failed: " + err.Error()
	}
}

func seriesSegment(seriesID string) string {
	if seriesID == "" {
		return "current"
	}
	return seriesID
}

func dedupKey(prefix, scope string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	scope = sanitizeDedupSegment(scope)
	return prefix + "-" + scope + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
