package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matrixrace/matrixraceapp/external/jolpica"
	"github.com/matrixrace/matrixraceapp/internal/config"
	"github.com/matrixrace/matrixraceapp/internal/domain/competitor"
	"github.com/matrixrace/matrixraceapp/internal/domain/event"
	"github.com/matrixrace/matrixraceapp/internal/domain/league"
	"github.com/matrixrace/matrixraceapp/internal/domain/prediction"
	"github.com/matrixrace/matrixraceapp/internal/domain/result"
	"github.com/matrixrace/matrixraceapp/internal/domain/scoring"
	"github.com/matrixrace/matrixraceapp/internal/infrastructure/account/introspect"
	cacherepo "github.com/matrixrace/matrixraceapp/internal/infrastructure/repository/cache"
	"github.com/matrixrace/matrixraceapp/internal/infrastructure/repository/memory"
	"github.com/matrixrace/matrixraceapp/internal/infrastructure/repository/postgres"
	"github.com/matrixrace/matrixraceapp/internal/interfaces/httpapi"
	basecache "github.com/matrixrace/matrixraceapp/internal/platform/cache"
	"github.com/matrixrace/matrixraceapp/internal/platform/logging"
	"github.com/matrixrace/matrixraceapp/internal/platform/resilience"
	"github.com/matrixrace/matrixraceapp/internal/usecase"
)

type repositories struct {
	events      event.Repository
	competitors competitor.Repository
	predictions prediction.Repository
	leagues     league.Repository
	results     result.Repository
	scores      scoring.Repository
}

// App holds the wired HTTP server and the resources it owns.
type App struct {
	Server *http.Server
	db     *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	points := prediction.PointsTable{
		prediction.LockTierOne:   cfg.PointsTier1,
		prediction.LockTierTwo:   cfg.PointsTier2,
		prediction.LockTierFinal: cfg.PointsFinal,
	}

	eventSvc := usecase.NewEventService(repos.events, repos.competitors)
	predictionSvc := usecase.NewPredictionService(repos.events, repos.competitors, repos.predictions, points)
	applicationSvc := usecase.NewApplicationService(repos.events, repos.leagues, repos.predictions)
	scoringSvc := usecase.NewScoringService(repos.events, repos.leagues, repos.predictions, repos.results, repos.scores, cfg.ScoringWorkers)
	rankingSvc := usecase.NewRankingService(repos.events, repos.leagues, repos.predictions, repos.scores)
	resultSvc := usecase.NewResultService(repos.events, repos.competitors, repos.results, scoringSvc)

	var ingestionSvc *usecase.IngestionService
	if cfg.JolpicaEnabled {
		feed := jolpica.NewClient(jolpica.ClientConfig{
			BaseURL:    cfg.JolpicaBaseURL,
			Timeout:    cfg.JolpicaTimeout,
			MaxRetries: cfg.JolpicaMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.JolpicaCircuitEnabled,
				FailureThreshold: cfg.JolpicaCircuitFailureCount,
				OpenTimeout:      cfg.JolpicaCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.JolpicaCircuitHalfOpenMaxReq,
			},
		})
		ingestionSvc = usecase.NewIngestionService(feed, repos.events, repos.competitors, repos.results, scoringSvc, cfg.IngestionWorkers, logger)
	} else {
		logger.Info("results feed disabled", "reason", "JOLPICA_ENABLED=false")
	}

	verifier := introspect.NewClient(introspect.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AccountTimeout},
		BaseURL:        cfg.AccountBaseURL,
		IntrospectPath: cfg.AccountIntrospectPath,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailureCount,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	handler := httpapi.NewHandler(eventSvc, predictionSvc, applicationSvc, rankingSvc, resultSvc, scoringSvc, ingestionSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, db: db}, nil
}

// Close releases resources owned by the app. Safe to call after the HTTP
// server has shut down.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// buildRepositories connects to postgres when DB_URL is set and falls back
// to seeded in-memory repositories otherwise, so the API can run without a
// database in local development.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("database disabled, using in-memory repositories", "reason", "DB_URL empty")
		return buildMemoryRepositories(), nil, nil
	}

	db, err := connectPostgres(cfg)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect postgres: %w", err)
	}

	repos := repositories{
		events:      postgres.NewEventRepository(db),
		competitors: postgres.NewCompetitorRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		leagues:     postgres.NewLeagueRepository(db),
		results:     postgres.NewResultRepository(db),
		scores:      postgres.NewScoringRepository(db),
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.events = cacherepo.NewEventRepository(repos.events, store)
		repos.competitors = cacherepo.NewCompetitorRepository(repos.competitors, store)
		repos.scores = cacherepo.NewScoringRepository(repos.scores, store)
	}

	return repos, db, nil
}

func buildMemoryRepositories() repositories {
	events := memory.SeedEvents()
	eventRepo := memory.NewEventRepository(events)
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	for _, evt := range events {
		leagueRepo.LinkEvent(memory.LeagueIDGlobal, evt.ID)
		leagueRepo.LinkEvent(memory.LeagueIDPaddockPro, evt.ID)
	}

	return repositories{
		events:      eventRepo,
		competitors: memory.NewCompetitorRepository(memory.SeedCompetitors()),
		predictions: memory.NewPredictionRepository(),
		leagues:     leagueRepo,
		results:     memory.NewResultRepository(),
		scores:      memory.NewScoringRepository(),
	}
}

func connectPostgres(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
