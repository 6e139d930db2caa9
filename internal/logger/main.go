// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes each event to the writer of its severity band.
// Level-less events such as log.Log() go to Info.
type LevelWriter struct {
	Trace io.Writer
	Info  io.Writer
	Warn  io.Writer
	Error io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l == zerolog.Disabled {
		return 0, nil
	}

	return lw.route(l).Write(p) //nolint:wrapcheck
}

// Write implements io.Writer for level-less events.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.Info.Write(p) //nolint:wrapcheck
}

func (lw *LevelWriter) route(l zerolog.Level) io.Writer {
	switch l {
	case zerolog.TraceLevel:
		return lw.Trace
	case zerolog.WarnLevel:
		return lw.Warn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return lw.Error
	default:
		return lw.Info
	}
}

// Init replaces the global logger according to cfg. With neither console nor
// file enabled all output is discarded.
func Init(cfg Log) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	writers, err := outputs(cfg)
	if err != nil {
		return err
	}

	counter, err := NewLogCounter(prometheus.DefaultRegisterer, cfg.ServiceName)
	if err != nil {
		return err
	}

	stack := level == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = writeErrorHandler //nolint:reassign

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Hook(counter).With().
		Timestamp().
		Str("app", cfg.AppName).
		Str("service", cfg.ServiceName)

	if cfg.LogEnv != "" {
		ctx = ctx.Str("env", cfg.LogEnv)
	}

	if cfg.ReportCaller {
		ctx = ctx.Caller()

		if stack {
			ctx = ctx.Stack()
		}
	}

	log.Logger = ctx.Logger()

	return nil
}

func outputs(cfg Log) ([]io.Writer, error) {
	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg.Console))
	}

	if cfg.File.Enabled {
		fw, err := newFileWriter(cfg.File)
		if err != nil {
			return nil, err
		}

		writers = append(writers, fw)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	return writers, nil
}

// RollingFile returns a lumberjack writer for r below dir.
func RollingFile(dir string, r Rolling) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, r.Name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
	}
}

func newFileWriter(f LogFile) (io.Writer, error) {
	for _, r := range []Rolling{f.Trace, f.Info, f.Warn, f.Error} {
		if r.Name == "" {
			return nil, ErrFileNameIsEmpty
		}
	}

	if err := os.MkdirAll(f.Path, 0o750); err != nil { //nolint:mnd
		return nil, errors.Wrap(err, "create log directory "+f.Path)
	}

	return &LevelWriter{
		Trace: RollingFile(f.Path, f.Trace),
		Info:  RollingFile(f.Path, f.Info),
		Warn:  RollingFile(f.Path, f.Warn),
		Error: RollingFile(f.Path, f.Error),
	}, nil
}

// NewConsoleWriter writes info and debug to stdout, everything else to stderr.
func NewConsoleWriter(cfg Console) io.Writer {
	var (
		stdout io.Writer = os.Stdout
		stderr io.Writer = os.Stderr
	)

	if cfg.UseConsoleWriter {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: zerolog.TimeFieldFormat}
		stderr = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		Trace: stderr,
		Info:  stdout,
		Warn:  stderr,
		Error: stderr,
	}
}
