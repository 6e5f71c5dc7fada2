package main

import (
	"fmt"
	"log/slog"

	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/platform/sqlite"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// application bundles the configuration and wired dependencies of a
// running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService     auth.JWTService
	passwordHasher *auth.BcryptHasher

	userService    *service.UserService
	taskService    *service.TaskService
	profileService *service.ProfileService
}

// newApplication loads configuration and builds the dependency graph:
// logger, database, stores, and services.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("set up logger: %w", err)
	}

	db, err := sqlite.NewDB(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("create JWT service: %w", err)
	}

	app := &application{
		config:         cfg,
		logger:         log,
		userStore:      sqlite.NewUserStore(db),
		taskStore:      sqlite.NewTaskStore(db),
		jwtService:     jwtService,
		passwordHasher: auth.NewBcryptHasher(),
	}

	app.userService = service.NewUserService(
		app.userStore,
		app.passwordHasher,
		app.passwordHasher,
		app.jwtService,
		log,
	)
	app.taskService = service.NewTaskService(app.taskStore, log)
	app.profileService = service.NewProfileService(app.userStore, app.taskStore, log)

	return app, nil
}
