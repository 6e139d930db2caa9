// Package web assembles the fiber application serving the JSON API.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/articlegate/articlegate/internal/auth"
	accesslog "github.com/articlegate/articlegate/internal/logger/adapter/fiber"
	"github.com/articlegate/articlegate/internal/web/handler"
	"github.com/articlegate/articlegate/internal/web/handler/admin/role"
	"github.com/articlegate/articlegate/internal/web/handler/admin/user"
	"github.com/articlegate/articlegate/internal/web/handler/article"
	"github.com/articlegate/articlegate/internal/web/handler/login"
	"github.com/articlegate/articlegate/internal/web/handler/logout"
	"github.com/articlegate/articlegate/internal/web/handler/permission"
)

const (
	// HealthPath answers load balancer checks.
	HealthPath = "/health"
	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	readBufferSize = 8192
)

// ErrNilDeps is returned by New if the handler dependencies are incomplete.
var ErrNilDeps = errors.New("web: handler dependencies are incomplete")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	deps         *handler.Deps
	fastShutDown bool
	alive        atomic.Bool
}

// New creates the fiber app and registers all handlers below the configured base path.
func New(deps *handler.Deps) (*Service, error) {
	if !deps.Valid() {
		return nil, ErrNilDeps
	}

	cfg := deps.Cfg

	app := fiber.New(fiber.Config{
		ReadBufferSize: readBufferSize,
		AppName:        cfg.Title,
		CaseSensitive:  true,
		Prefork:        false,
		Immutable:      true,
		ErrorHandler:   handler.ErrorHandler,
	})

	s := &Service{
		App:          app,
		deps:         deps,
		fastShutDown: cfg.DevMode,
	}
	s.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
		Fields:        principalFields,
	}))

	if cfg.Webserver.CORSAllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Webserver.CORSAllowOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}

	app.Get(HealthPath, s.health)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(cfg.Webserver.BasePath)

	services := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&article.Handler,
		&role.Handler,
		&user.Handler,
		&permission.Handler,
	}

	for _, h := range services {
		if err := h.Init(api, deps); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	return s, nil
}

// principalFields adds the authenticated user to the access log line.
func principalFields(c *fiber.Ctx, e *zerolog.Event) {
	if p := auth.PrincipalFrom(c); p != nil {
		e.Uint("userId", p.UserID).Str("role", p.Role.Name)
	}
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "SHUTTING_DOWN",
			"message": "Server is shutting down",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "OK",
		"message": "Server is running",
	})
}

// Start starts the web service on the configured port and blocks until it stops.
func (s *Service) Start() error {
	addr := ":" + strconv.Itoa(s.deps.Cfg.Webserver.Port)

	log.Info().Str("addr", addr).Str("base_path", s.deps.Cfg.Webserver.BasePath).Msg("starting http server")

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.deps.Cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.deps.Cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}
