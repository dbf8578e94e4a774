package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/stringerc/syncscript-backend/internal/config"
	"github.com/stringerc/syncscript-backend/internal/domain/energy"
	"github.com/stringerc/syncscript-backend/internal/platform/gemini"
	"github.com/stringerc/syncscript-backend/internal/platform/postgres"
	"github.com/stringerc/syncscript-backend/internal/service"
	"github.com/stringerc/syncscript-backend/internal/service/auth"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore       store.UserStore
	taskStore       store.TaskStore
	projectStore    store.ProjectStore
	energyLogStore  store.EnergyLogStore
	teamStore       store.TeamStore
	dependencyStore store.TaskDependencyStore
	apiKeyStore     store.APIKeyStore

	// Services
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	engine           energy.Service
	taskService      *service.TaskService
	energyService    *service.EnergyService
	projectService   *service.ProjectService
	teamService      *service.TeamService
	depService       *service.DependencyService

	// Background work
	cancelSweeper context.CancelFunc
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies that must be established before
// application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	verifier := auth.NewBcryptVerifier()
	app.passwordHasher = verifier
	app.passwordVerifier = verifier

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.projectStore = postgres.NewPostgresProjectStore(db, logger)
	app.energyLogStore = postgres.NewPostgresEnergyLogStore(db, logger)
	app.teamStore = postgres.NewPostgresTeamStore(db, logger)
	app.dependencyStore = postgres.NewPostgresTaskDependencyStore(db, logger)
	app.apiKeyStore = postgres.NewPostgresAPIKeyStore(db, logger)

	app.engine = setupEngine(cfg.Energy)

	// The summary generator is optional. Without an API key the summary
	// endpoint reports the feature as unavailable.
	var summaries service.SummaryGenerator
	if cfg.LLM.GeminiAPIKey != "" {
		generator, err := gemini.NewSummaryGenerator(
			ctx,
			logger.With("component", "summary_generator"),
			cfg.LLM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize summary generator: %w", err)
		}
		summaries = generator
		logger.Info("Energy summary generator initialized", "model", cfg.LLM.ModelName)
	} else {
		logger.Info("Energy summary generator disabled, no API key configured")
	}

	app.taskService = service.NewTaskService(app.taskStore, app.engine, logger)
	app.energyService = service.NewEnergyService(
		app.energyLogStore,
		app.engine,
		summaries,
		cfg.Energy.PatternWindowDays,
		cfg.Energy.RetentionDays,
		logger,
	)
	app.projectService = service.NewProjectService(app.projectStore, logger)
	app.teamService = service.NewTeamService(db, app.teamStore, logger)
	app.depService = service.NewDependencyService(app.dependencyStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupEngine builds the scoring engine, applying any configured overrides
// on top of the defaults.
func setupEngine(cfg config.EnergyConfig) energy.Service {
	if cfg.BonusRate == 0 && cfg.PatternWindowDays == 0 {
		return energy.NewDefaultService()
	}
	return energy.NewServiceWithParams(energy.NewParams(energy.ParamsConfig{
		BonusRate:  cfg.BonusRate,
		WindowDays: cfg.PatternWindowDays,
	}))
}

// Run starts the retention sweeper and the HTTP server, handling lifecycle
// and cleanup. It blocks until the server shuts down.
func (app *application) Run(ctx context.Context) error {
	sweepCtx, cancel := context.WithCancel(ctx)
	app.cancelSweeper = cancel

	if app.config.Energy.RetentionDays > 0 {
		interval := 24 * time.Hour
		if app.config.Energy.CleanupIntervalHours > 0 {
			interval = time.Duration(app.config.Energy.CleanupIntervalHours) * time.Hour
		}
		go app.energyService.RunRetentionSweeper(sweepCtx, interval)
		app.logger.Info("Energy log retention sweeper started",
			"retention_days", app.config.Energy.RetentionDays,
			"interval", interval.String())
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.cancelSweeper != nil {
		app.cancelSweeper()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
