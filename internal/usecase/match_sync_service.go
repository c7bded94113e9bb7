package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/rawfeed"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

// MatchFeedProvider is the upstream data source the sync engine pulls
// from. Implemented by the cricapi client.
type MatchFeedProvider interface {
	FetchCurrentMatches(ctx context.Context) (ExternalMatchBundle, error)
	FetchSeriesMatches(ctx context.Context, seriesID string) (ExternalMatchBundle, error)
}

type ExternalMatchBundle struct {
	Matches     []ExternalMatch
	Total       int
	Dropped     int
	RawPayloads []rawfeed.Payload
}

type ExternalMatch struct {
	ExternalID   string
	Name         string
	Number       int
	ScheduledAt  *time.Time
	Venue        string
	HomeTeam     ExternalTeamInfo
	AwayTeam     ExternalTeamInfo
	Status       match.Status
	StatusText   string
	MatchStarted bool
	MatchEnded   bool
}

type ExternalTeamInfo struct {
	Name    string
	Short   string
	LogoURL string
}

// SyncSummary reports one reconciliation run. Skipped counts records
// filtered by the tournament allow-list; Dropped counts records the feed
// client rejected as structurally unusable. Neither bucket is a failure.
type SyncSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Dropped   int `json:"dropped"`
}

type MatchSyncConfig struct {
	// Season stamps upserted matches; zero derives it from the schedule date.
	Season int
	// AllowedTeamKeys restricts syncing to fixtures where both sides are
	// on the list. Empty disables the filter.
	AllowedTeamKeys []string
}

// DefaultAllowedTeamKeys covers the ten Indian Premier League
// franchises, keyed by normalized name.
func DefaultAllowedTeamKeys() []string {
	return []string{
		"chennaisuperkings",
		"delhicapitals",
		"gujarattitans",
		"kolkataknightriders",
		"lucknowsupergiants",
		"mumbaiindians",
		"punjabkings",
		"rajasthanroyals",
		"royalchallengersbangalore",
		"sunrisershyderabad",
	}
}

// MatchSyncService reconciles upstream feed state into match rows.
// Each match is written independently so one malformed record cannot
// poison the rest of the batch.
type MatchSyncService struct {
	provider  MatchFeedProvider
	matchRepo match.Repository
	resolver  *TeamResolver
	extractor *ResultExtractor
	rawRepo   rawfeed.Repository
	cfg       MatchSyncConfig
	allowed   map[string]struct{}
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchSyncService(
	provider MatchFeedProvider,
	matchRepo match.Repository,
	resolver *TeamResolver,
	extractor *ResultExtractor,
	rawRepo rawfeed.Repository,
	cfg MatchSyncConfig,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedTeamKeys))
	for _, key := range cfg.AllowedTeamKeys {
		key = team.NormalizeKey(key)
		if key == "" {
			continue
		}
		allowed[key] = struct{}{}
	}

	return &MatchSyncService{
		provider:  provider,
		matchRepo: matchRepo,
		resolver:  resolver,
		extractor: extractor,
		rawRepo:   rawRepo,
		cfg:       cfg,
		allowed:   allowed,
		logger:    logger,
		now:       time.Now,
	}
}

// SyncCurrentMatches pulls the current window from the provider and
// reconciles it. The returned summary is valid whenever err is nil,
// including runs where every match failed.
func (s *MatchSyncService) SyncCurrentMatches(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchSyncService.SyncCurrentMatches")
	defer span.End()

	bundle, err := s.provider.FetchCurrentMatches(ctx)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("fetch current matches: %w", err)
	}
	return s.reconcile(ctx, bundle), nil
}

// SyncSeriesMatches reconciles the full match list of one series.
func (s *MatchSyncService) SyncSeriesMatches(ctx context.Context, seriesID string) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchSyncService.SyncSeriesMatches")
	defer span.End()

	bundle, err := s.provider.FetchSeriesMatches(ctx, seriesID)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("fetch series matches: %w", err)
	}
	return s.reconcile(ctx, bundle), nil
}

func (s *MatchSyncService) reconcile(ctx context.Context, bundle ExternalMatchBundle) SyncSummary {
	s.persistRawPayloads(ctx, bundle.RawPayloads)

	summary := SyncSummary{
		Total:   bundle.Total,
		Dropped: bundle.Dropped,
	}

	for _, item := range bundle.Matches {
		if !s.allowListed(item) {
			summary.Skipped++
			continue
		}

		if err := s.syncOne(ctx, item); err != nil {
			summary.Failed++
			s.logger.WarnContext(ctx, "sync match failed",
				"match_external_id", item.ExternalID,
				"match_name", item.Name,
				"error", err,
			)
			continue
		}
		summary.Succeeded++
	}

	s.logger.InfoContext(ctx, "match sync finished",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"dropped", summary.Dropped,
	)
	return summary
}

// syncOne writes a single match. A panic inside the per-match work is
// contained and reported as that match's failure.
func (s *MatchSyncService) syncOne(ctx context.Context, item ExternalMatch) error {
	var err error
	var catcher panics.Catcher
	catcher.Try(func() {
		err = s.upsertMatch(ctx, item)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return fmt.Errorf("sync match panicked: %v", recovered.Value)
	}
	return err
}

func (s *MatchSyncService) upsertMatch(ctx context.Context, item ExternalMatch) error {
	home, err := s.resolver.Resolve(ctx, item.HomeTeam)
	if err != nil {
		return fmt.Errorf("resolve home team %q: %w", item.HomeTeam.Name, err)
	}
	away, err := s.resolver.Resolve(ctx, item.AwayTeam)
	if err != nil {
		return fmt.Errorf("resolve away team %q: %w", item.AwayTeam.Name, err)
	}

	scheduledAt := s.now().UTC()
	if item.ScheduledAt != nil {
		scheduledAt = item.ScheduledAt.UTC()
	} else {
		s.logger.WarnContext(ctx, "feed match has no schedule time, defaulting to now",
			"match_external_id", item.ExternalID,
			"match_name", item.Name,
		)
	}

	season := s.cfg.Season
	if season <= 0 {
		season = scheduledAt.Year()
	}

	row := match.Match{
		ID:          item.ExternalID,
		Number:      item.Number,
		Season:      season,
		ScheduledAt: scheduledAt,
		Venue:       item.Venue,
		HomeTeam:    home.Name,
		AwayTeam:    away.Name,
		HomeTeamID:  home.ID,
		AwayTeamID:  away.ID,
		IsCompleted: item.Status == match.StatusCompleted,
		IsLive:      item.Status == match.StatusLive,
		StatusText:  item.StatusText,
	}

	if row.IsCompleted {
		outcome := s.extractor.Extract(ctx, item.StatusText, home, away)
		if outcome.WinnerTeamID == "" {
			s.logger.WarnContext(ctx, "completed match without recognizable winner, syncing without result",
				"match_external_id", item.ExternalID,
				"status", item.StatusText,
			)
		}
		row.WinnerTeamID = outcome.WinnerTeamID
		row.WinByRuns = outcome.WinByRuns
		row.WinByWickets = outcome.WinByWickets
	}

	if _, err := s.matchRepo.Upsert(ctx, row); err != nil {
		return fmt.Errorf("upsert match id=%s: %w", row.ID, err)
	}
	return nil
}

// allowListed filters fixtures that do not belong to the configured
// tournament. Exhibition and international matches riding along in the
// provider window are skipped without noise.
func (s *MatchSyncService) allowListed(item ExternalMatch) bool {
	if len(s.allowed) == 0 {
		return true
	}
	homeKey := team.NormalizeKey(item.HomeTeam.Name)
	awayKey := team.NormalizeKey(item.AwayTeam.Name)
	if _, ok := s.allowed[homeKey]; !ok {
		return false
	}
	_, ok := s.allowed[awayKey]
	return ok
}

func (s *MatchSyncService) persistRawPayloads(ctx context.Context, payloads []rawfeed.Payload) {
	if s.rawRepo == nil || len(payloads) == 0 {
		return
	}
	if err := s.rawRepo.UpsertMany(ctx, payloads); err != nil {
		s.logger.WarnContext(ctx, "persist raw feed payloads failed", "count", len(payloads), "error", err)
	}
}
