package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"reviewgenius/internal/config"
	"reviewgenius/internal/infrastructure/httpapi"
	"reviewgenius/internal/infrastructure/scheduler"
	"reviewgenius/internal/infrastructure/storage"
	"reviewgenius/internal/logging"
	"reviewgenius/internal/search"
	"reviewgenius/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	server    *http.Server
	scheduler *usecase.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := storage.NewPostgresRepository(db)

	insights := usecase.NewInsights(usecase.InsightsDeps{
		Products: repo,
		Reviews:  repo,
		Analysis: cfg.Analysis,
		Logger:   baseLogger.With("component", "insights"),
	})

	searchUC := usecase.NewSearch(usecase.SearchDeps{
		Corpus: repo,
		Ranker: search.NewRanker(cfg.Search.HighWeight, cfg.Search.LowWeight),
	})

	refresher := usecase.NewRefresher(insights, baseLogger.With("component", "refresher"))
	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
	jobs := usecase.NewScheduler(driver, refresher, baseLogger.With("component", "scheduler"))

	router := httpapi.NewRouter(insights, searchUC, repo, baseLogger.With("component", "httpapi"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		server:    &http.Server{Addr: cfg.Server.Address, Handler: router},
		scheduler: jobs,
	}, nil
}

// Run prepares storage, starts the refresh schedule, and serves HTTP until
// the context is canceled.
func (a *Application) Run(ctx context.Context) error {
	repo := storage.NewPostgresRepository(a.db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "address", a.cfg.Server.Address)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = a.scheduler.Stop(shutdownCtx)
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return a.db.Close()
}
