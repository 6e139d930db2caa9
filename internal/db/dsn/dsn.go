// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/articlegate/articlegate/internal/config"
)

// MySQL builds the go-sql-driver Data Source Name from the configuration.
func MySQL(cfg *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		cfg.Extras,
	)
}

// Postgres builds a postgres connection URI from the configuration.
// Extras is appended as query string, e.g. "sslmode=disable".
func Postgres(cfg *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: cfg.Extras,
	}

	return u.String()
}

// SQLite returns the sqlite file path, adding the pragmas the stores rely on.
func SQLite(cfg *config.DB) string {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	pragmas := "_pragma=foreign_keys(1)"
	if cfg.Extras != "" {
		pragmas = cfg.Extras
	}

	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}

	return path + "?" + pragmas
}
