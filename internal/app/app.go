package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/adyatma/scorewire/internal/config"
	"github.com/adyatma/scorewire/internal/domain/country"
	"github.com/adyatma/scorewire/internal/domain/league"
	"github.com/adyatma/scorewire/internal/domain/match"
	"github.com/adyatma/scorewire/internal/domain/news"
	"github.com/adyatma/scorewire/internal/domain/standing"
	"github.com/adyatma/scorewire/internal/domain/team"
	"github.com/adyatma/scorewire/internal/infrastructure/account/heimdall"
	"github.com/adyatma/scorewire/internal/infrastructure/notify"
	"github.com/adyatma/scorewire/internal/infrastructure/repository/memory"
	"github.com/adyatma/scorewire/internal/infrastructure/repository/postgres"
	"github.com/adyatma/scorewire/internal/interfaces/httpapi"
	"github.com/adyatma/scorewire/internal/platform/cache"
	idgen "github.com/adyatma/scorewire/internal/platform/id"
	"github.com/adyatma/scorewire/internal/platform/logging"
	"github.com/adyatma/scorewire/internal/platform/resilience"
	"github.com/adyatma/scorewire/internal/usecase"
)

type repositories struct {
	countries country.Repository
	leagues   league.Repository
	teams     team.Repository
	matches   match.Repository
	standings standing.Repository
	news      news.Repository
}

// NewHTTPServer wires repositories, services, and the HTTP router. The
// returned cleanup releases the database pool and must run on shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	var publisher usecase.StandingsPublisher
	if cfg.WebhookEnabled {
		webhook, err := notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
			Endpoint:     cfg.WebhookEndpoint,
			SigningToken: cfg.WebhookSigningToken,
			Timeout:      cfg.WebhookTimeout,
			BreakerConfig: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("build webhook publisher: %w", err)
		}
		publisher = webhook
	}

	leagueSvc := usecase.NewLeagueService(repos.countries, repos.leagues, repos.teams)
	standingSvc := usecase.NewStandingService(repos.leagues, repos.teams, repos.matches, repos.standings, store, publisher, logger)
	matchSvc := usecase.NewMatchService(repos.leagues, repos.teams, repos.matches, standingSvc, idgen.NewRandomGenerator(), logger)
	newsSvc := usecase.NewNewsService(repos.news, repos.leagues, idgen.NewRandomGenerator())

	heimdallClient := heimdall.NewClient(
		&http.Client{Timeout: cfg.HeimdallTimeout},
		cfg.HeimdallBaseURL,
		cfg.HeimdallIntrospectPath,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.HeimdallCircuitEnabled,
			FailureThreshold: cfg.HeimdallCircuitFailureCount,
			OpenTimeout:      cfg.HeimdallCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.HeimdallCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(leagueSvc, standingSvc, matchSvc, newsSvc, logger)
	handler.SetRecalculateWorkerLimit(cfg.RecalcMaxWorkers)
	router := httpapi.NewRouter(handler, heimdallClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if cfg.DBURL == "" {
		logger.Warn("DB_URL is empty, serving seeded in-memory repositories")
		return repositories{
			countries: memory.NewCountryRepository(memory.SeedCountries()),
			leagues:   memory.NewLeagueRepository(memory.SeedLeagues()),
			teams:     memory.NewTeamRepository(memory.SeedTeams()),
			matches:   memory.NewMatchRepository(memory.SeedMatches()),
			standings: memory.NewStandingRepository(),
			news:      memory.NewNewsRepository(memory.SeedNews()),
		}, noop, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("database connected", "db_name", dbNameFromURL(dbURL))

	return repositories{
		countries: postgres.NewCountryRepository(db),
		leagues:   postgres.NewLeagueRepository(db),
		teams:     postgres.NewTeamRepository(db),
		matches:   postgres.NewMatchRepository(db),
		standings: postgres.NewStandingRepository(db),
		news:      postgres.NewNewsRepository(db),
	}, closeDB(db), nil
}

func closeDB(db *sqlx.DB) func(context.Context) error {
	return func(context.Context) error {
		return db.Close()
	}
}
