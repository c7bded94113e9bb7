package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/fantasy-cricket/external/cricapi"
	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/jobscheduler"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/participation"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/rawfeed"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/jobqueue"
	cachedrepo "github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-cricket/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

// Cached rows go stale for at most one TTL; the next sync upsert
// invalidates them anyway.
const repoCacheTTL = 5 * time.Minute

type repositories struct {
	teams          team.Repository
	matches        match.Repository
	participations participation.Repository
	rawFeeds       rawfeed.Repository
	dispatches     jobscheduler.Repository
}

// NewHTTPServer wires repositories, services and the router. Postgres is
// used when DB_URL is set; an empty DB_URL falls back to seeded in-memory
// stores for database-less development runs.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	feedClient := cricapi.NewClient(cricapi.ClientConfig{
		BaseURL:    cfg.CricAPIBaseURL,
		APIKey:     feedAPIKey(cfg),
		Timeout:    cfg.CricAPITimeout,
		MaxRetries: cfg.CricAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CricAPICircuitEnabled,
			FailureThreshold: cfg.CricAPICircuitFailureCount,
			OpenTimeout:      cfg.CricAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CricAPICircuitHalfOpenMaxReq,
		},
	})

	var queue usecase.JobQueue
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	allowedKeys := cfg.AllowedTeamKeys
	if len(allowedKeys) == 0 {
		allowedKeys = usecase.DefaultAllowedTeamKeys()
	}

	syncSvc := usecase.NewMatchSyncService(
		feedClient,
		repos.matches,
		usecase.NewTeamResolver(repos.teams, nil, logger),
		usecase.NewResultExtractor(logger),
		repos.rawFeeds,
		usecase.MatchSyncConfig{
			Season:          cfg.Season,
			AllowedTeamKeys: allowedKeys,
		},
		logger,
	)
	orchestrator := usecase.NewJobOrchestratorService(
		syncSvc,
		queue,
		repos.dispatches,
		usecase.JobOrchestratorConfig{SyncInterval: cfg.JobSyncInterval},
		logger,
	)

	probes := httpapi.HealthProbes{FeedCircuitState: feedClient.CircuitState}
	if db != nil {
		probes.DB = db
	}

	handler := httpapi.NewHandler(
		usecase.NewMatchService(repos.matches, cfg.MatchLiveWindow, logger),
		usecase.NewParticipationService(repos.participations, repos.matches, nil, logger),
		usecase.NewLeaderboardService(repos.participations, cfg.LeaderboardPoolSize, logger),
		orchestrator,
		probes,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, repositories, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("db url empty, using in-memory repositories")
		return nil, repositories{
			teams:          memory.NewTeamRepository(memory.SeedTeams()...),
			matches:        memory.NewMatchRepository(),
			participations: memory.NewParticipationRepository(),
			rawFeeds:       memory.NewRawFeedRepository(),
			dispatches:     memory.NewJobDispatchRepository(),
		}, nil
	}

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return nil, repositories{}, fmt.Errorf("connect database: %w", err)
	}
	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		return nil, repositories{}, fmt.Errorf("bootstrap seed: %w", err)
	}

	store := basecache.NewStore(repoCacheTTL)

	return db, repositories{
		teams:          cachedrepo.NewTeamRepository(postgres.NewTeamRepository(db), store),
		matches:        cachedrepo.NewMatchRepository(postgres.NewMatchRepository(db), store),
		participations: postgres.NewParticipationRepository(db),
		rawFeeds:       postgres.NewRawFeedRepository(db),
		dispatches:     postgres.NewJobDispatchRepository(db),
	}, nil
}

func connectDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.ConnectContext(ctx, "postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// feedAPIKey hides the key when the provider is disabled so every fetch
// surfaces the not-configured sentinel instead of hitting the network.
func feedAPIKey(cfg config.Config) string {
	if !cfg.CricAPIEnabled {
		return ""
	}
	return cfg.CricAPIKey
}
