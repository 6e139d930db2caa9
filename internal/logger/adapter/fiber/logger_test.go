package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/articlegate/articlegate/internal/logger"
	adapter "github.com/articlegate/articlegate/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP     net.IP `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	UserID uint   `json:"userId"`
}

func consoleConfig() logger.Log {
	return logger.Log{
		EnableAccessLogToConsole: true,
		Console:                  logger.Console{Enabled: true},
	}
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name       string
		targetPath string
		config     adapter.Config
		want       *accessLine
	}{
		{
			name:       "console disabled no output",
			targetPath: "/",
		},
		{
			name:       "get root",
			targetPath: "/",
			config:     adapter.Config{Config: consoleConfig()},
			want:       &accessLine{Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "unknown route keeps double slash",
			targetPath: "//articles",
			config:     adapter.Config{Config: consoleConfig()},
			want:       &accessLine{Status: fiber.StatusNotFound, URI: "//articles", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string is logged",
			targetPath: "/?page=2",
			config:     adapter.Config{Config: consoleConfig()},
			want:       &accessLine{Status: fiber.StatusOK, URI: "/?page=2", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "extra fields",
			targetPath: "/",
			config: adapter.Config{
				Config: consoleConfig(),
				Fields: func(_ *fiber.Ctx, e *zerolog.Event) { e.Uint("userId", 42) },
			},
			want: &accessLine{Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com", UserID: 42},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := captureRequest(t, tc.targetPath, tc.config)

			if tc.want == nil {
				assert.Empty(t, output)

				return
			}

			require.NotEmpty(t, output)

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))

			assert.Equal(t, tc.want.Status, got.Status)
			assert.Equal(t, tc.want.URI, got.URI)
			assert.Equal(t, tc.want.Method, got.Method)
			assert.Equal(t, tc.want.Host, got.Host)
			assert.Equal(t, tc.want.UserID, got.UserID)
			assert.Equal(t, net.ParseIP("0.0.0.0"), got.IP)
		})
	}
}

func TestCheckAliveIsSkipped(t *testing.T) {
	cfg := consoleConfig()
	cfg.DisableCheckAlive = true

	output := captureRequest(t, "/health", adapter.Config{Config: cfg, CheckAliveURI: "/health"})
	assert.Empty(t, output)
}

func TestNextSkipsMiddleware(t *testing.T) {
	output := captureRequest(t, "/", adapter.Config{
		Config: consoleConfig(),
		Next:   func(*fiber.Ctx) bool { return true },
	})
	assert.Empty(t, output)
}

func captureRequest(t *testing.T, targetPath string, cfg adapter.Config) string {
	t.Helper()

	stdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})
	app.Use(adapter.New(cfg))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString("hello test") })
	app.Get("/health", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })

	_, reqErr := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), -1)

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer

		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	out := <-outC

	require.NoError(t, reqErr)

	return out
}
