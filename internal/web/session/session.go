// Package session keeps server side token state in a fiber storage backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	memorystorage "github.com/gofiber/storage/memory/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"

	"github.com/articlegate/articlegate/internal/config"
	"github.com/articlegate/articlegate/internal/db/dsn"
)

const (
	revokedTable  = "revoked_tokens"
	revokedPrefix = "revoked:"
	gcInterval    = 10 * time.Minute
)

// ErrStorageNil is returned when no storage backend was given.
var ErrStorageNil = errors.New("session storage is nil")

// Open creates the storage backend matching the configured database engine.
// SQLite has no gofiber storage driver, revocations are kept in memory there.
func Open(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysqlstorage.New(mysqlstorage.Config{
			Host:       cfg.DB.Host,
			Port:       cfg.DB.Port,
			Username:   cfg.DB.User,
			Password:   cfg.DB.Password,
			Database:   cfg.DB.Name,
			Table:      revokedTable,
			GCInterval: gcInterval,
		}), nil
	case config.EnginePostgres:
		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: dsn.Postgres(&cfg.DB),
			Table:         revokedTable,
			GCInterval:    gcInterval,
		}), nil
	case config.EngineSQLite:
		return memorystorage.New(memorystorage.Config{GCInterval: gcInterval}), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownGormEngine, cfg.DB.GormEngine)
	}
}

// Revocations stores revoked refresh token ids until they expire.
type Revocations struct {
	storage fiber.Storage
}

// NewRevocations creates a revocation list on top of storage.
func NewRevocations(storage fiber.Storage) (*Revocations, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	return &Revocations{storage: storage}, nil
}

// Revoke marks the token id as revoked for ttl.
func (r *Revocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if err := r.storage.Set(revokedPrefix+jti, []byte{1}, ttl); err != nil {
		return fmt.Errorf("store revocation: %w", err)
	}

	return nil
}

// IsRevoked reports whether the token id was revoked and has not expired yet.
func (r *Revocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	v, err := r.storage.Get(revokedPrefix + jti)
	if err != nil {
		return false, fmt.Errorf("read revocation: %w", err)
	}

	return len(v) > 0, nil
}

// Close releases the storage backend.
func (r *Revocations) Close() error {
	return r.storage.Close() //nolint:wrapcheck
}
