// Package app assembles the service from its parts: the standings source,
// repositories, use cases, HTTP router and the periodic refresh job.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pollahq/polla-champions/external/uefa"
	"github.com/pollahq/polla-champions/internal/config"
	"github.com/pollahq/polla-champions/internal/domain/participant"
	"github.com/pollahq/polla-champions/internal/domain/ranking"
	"github.com/pollahq/polla-champions/internal/infrastructure/repository/memory"
	"github.com/pollahq/polla-champions/internal/infrastructure/repository/postgres"
	"github.com/pollahq/polla-champions/internal/interfaces/httpapi"
	"github.com/pollahq/polla-champions/internal/match"
	"github.com/pollahq/polla-champions/internal/platform/cache"
	idgen "github.com/pollahq/polla-champions/internal/platform/id"
	"github.com/pollahq/polla-champions/internal/platform/logging"
	"github.com/pollahq/polla-champions/internal/platform/resilience"
	"github.com/pollahq/polla-champions/internal/usecase"
)

// App holds the assembled service and the resources it owns.
type App struct {
	Server *http.Server

	RefreshService *usecase.RefreshService

	cron   *cron.Cron
	db     *sqlx.DB
	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	source := uefa.NewClient(uefa.ClientConfig{
		HTTPClient:       &http.Client{Timeout: cfg.UEFATimeout},
		StandingsURLByID: cfg.UEFAStandingsURLByID,
		Timeout:          cfg.UEFATimeout,
		MaxRetries:       cfg.UEFAMaxRetries,
		Logger:           logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.UEFACircuitEnabled,
			FailureThreshold: cfg.UEFACircuitFailureCount,
			OpenTimeout:      cfg.UEFACircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.UEFACircuitHalfOpenMaxReq,
		},
	})

	participants, err := loadParticipants(cfg)
	if err != nil {
		return nil, err
	}
	participantRepo := memory.NewParticipantRepository(participants)

	var (
		db           *sqlx.DB
		snapshotRepo ranking.SnapshotRepository
	)
	if cfg.DBURL != "" {
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		snapshotRepo = postgres.NewSnapshotRepository(db)
	} else {
		snapshotRepo = memory.NewSnapshotRepository()
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	competitionIDs := make([]string, 0, len(cfg.UEFAStandingsURLByID))
	for id := range cfg.UEFAStandingsURLByID {
		competitionIDs = append(competitionIDs, id)
	}

	standingsSvc := usecase.NewStandingsService(source, store, competitionIDs, cfg.FallbackTableEnabled, logger)
	rankingSvc := usecase.NewRankingService(standingsSvc, participantRepo, snapshotRepo, buildResolver(cfg), logger)
	refreshSvc := usecase.NewRefreshService(
		source,
		standingsSvc,
		rankingSvc,
		participantRepo,
		snapshotRepo,
		idgen.NewRandomGenerator(),
		cfg.FallbackTableEnabled,
		logger,
	)

	handler := httpapi.NewHandler(standingsSvc, rankingSvc, refreshSvc, logger)
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

	a := &App{
		Server:         server,
		RefreshService: refreshSvc,
		db:             db,
		logger:         logger,
	}
	if cfg.RefreshEnabled {
		if err := a.scheduleRefresh(cfg); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Start launches the refresh schedule, if configured. The HTTP server is
// started by the caller so shutdown ordering stays in one place.
func (a *App) Start() {
	if a.cron != nil {
		a.cron.Start()
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.cron != nil {
		select {
		case <-a.cron.Stop().Done():
		case <-ctx.Done():
		}
	}

	err := a.Server.Shutdown(ctx)
	if a.db != nil {
		if closeErr := a.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

func (a *App) scheduleRefresh(cfg config.Config) error {
	c := cron.New()
	_, err := c.AddFunc(cfg.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.UEFATimeout*4)
		defer cancel()

		result, err := a.RefreshService.RefreshAll(ctx, usecase.RefreshInput{
			MaxWorkers:    cfg.RefreshWorkers,
			WriteSnapshot: cfg.RefreshWriteSnapshot,
		})
		if err != nil {
			a.logger.ErrorContext(ctx, "scheduled refresh failed", "error", err)
			return
		}
		a.logger.InfoContext(ctx, "scheduled refresh finished",
			"competitions", result.CompetitionCount,
			"success", result.SuccessCount,
			"degraded", result.DegradedCount,
			"failed", result.FailedCount,
		)
	})
	if err != nil {
		return fmt.Errorf("parse REFRESH_SCHEDULE %q: %w", cfg.RefreshSchedule, err)
	}

	a.cron = c
	return nil
}

func loadParticipants(cfg config.Config) ([]participant.Participant, error) {
	if cfg.ParticipantsFile != "" {
		return config.LoadParticipants(cfg.ParticipantsFile)
	}
	return memory.SeedParticipants(), nil
}

func buildResolver(cfg config.Config) *match.Resolver {
	var scorer match.SimilarityScorer
	switch cfg.MatchScorer {
	case config.ScorerSubstring:
		scorer = match.NewSubstringScorer()
	default:
		scorer = match.NewLevenshteinScorer()
	}

	aliases := memory.SeedAliases()
	for alias, canonicals := range cfg.TeamAliases {
		aliases[alias] = append(aliases[alias], canonicals...)
	}

	return match.NewResolver(scorer, aliases, cfg.MatchThreshold)
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}
