package config

import (
	"time"

	"github.com/articlegate/articlegate/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	JWT       JWT
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	BasePath         string // prefix for all api routes
	CORSAllowOrigins string // comma separated list, empty disables the cors middleware
	DisableRecover   bool   // disable recover middleware
	LoginRateLimit   int    // max login/register requests per minute and ip, 0 disables the limiter
	Port             int    // listening port for the webserver
	ShutDownTime     int    // wait time for shutdown in seconds
	URL              string // base url for the webserver
}

// JWT holds the token service settings.
type JWT struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Seed controls the reference data written on start.
type Seed struct {
	DefaultRole string // role assigned on login when a user's role was deleted
	DemoUsers   bool   // create one demo user per seeded role
}
