// Package daemon wires storage, authentication and the web service into a runnable process.
package daemon

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/config"
	"github.com/articlegate/articlegate/internal/db"
	"github.com/articlegate/articlegate/internal/db/models"
	"github.com/articlegate/articlegate/internal/web"
	"github.com/articlegate/articlegate/internal/web/handler"
	"github.com/articlegate/articlegate/internal/web/session"
)

// ErrConfigNil is returned when no configuration was given.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	db          *gorm.DB
	revocations *session.Revocations
	webService  *web.Service
}

// Start serves http until SIGINT or SIGTERM and releases the storage afterwards.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start()

	d.close()

	return err
}

func (d *Daemon) close() {
	if err := d.revocations.Close(); err != nil {
		log.Error().Err(err).Msg("close revocation storage")
	}

	if sqlDB, err := d.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}
}

// New opens the database, migrates and bootstraps it, and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	gdb, err := Prepare(ctx, cfg, Bootstrap)
	if err != nil {
		return nil, err
	}

	storage, err := session.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	deps, revocations, err := Wire(cfg, gdb, storage)
	if err != nil {
		return nil, err
	}

	webService, err := web.New(deps)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Daemon{
		db:          gdb,
		revocations: revocations,
		webService:  webService,
	}, nil
}

// SeedFunc writes reference data into a migrated database.
type SeedFunc func(ctx context.Context, db *gorm.DB, cfg config.Seed) error

// Prepare opens the configured database, migrates the schema and runs seed.
func Prepare(ctx context.Context, cfg *config.Config, seed SeedFunc) (*gorm.DB, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := models.Migrate(gdb); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := seed(ctx, gdb, cfg.Seed); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Wire builds the handler dependencies on top of an open database and token storage.
func Wire(cfg *config.Config, gdb *gorm.DB, storage fiber.Storage) (*handler.Deps, *session.Revocations, error) {
	revocations, err := session.NewRevocations(storage)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	authService := auth.NewService(gdb)
	tokens := auth.NewTokenService(cfg.JWT)

	return &handler.Deps{
		Cfg:          cfg,
		DB:           gdb,
		Auth:         authService,
		Tokens:       tokens,
		Provider:     auth.NewLocalProvider(gdb, authService, tokens, revocations, cfg.Seed.DefaultRole),
		Authenticate: auth.Authenticate(tokens, authService),
	}, revocations, nil
}
