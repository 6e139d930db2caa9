package logger

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// LogCounter is a zerolog hook counting log statements per level.
type LogCounter struct {
	vec *prometheus.CounterVec
}

// NewLogCounter registers log_statements_total on reg. Registering twice reuses the first collector,
// so Init can run more than once per process.
func NewLogCounter(reg prometheus.Registerer, service string) (*LogCounter, error) {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "log_statements_total",
			Help:        "Number of log statements, differentiated by log level.",
			ConstLabels: prometheus.Labels{"service": service},
		},
		[]string{"level"},
	)

	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, errors.Wrap(err, "register log counter")
		}

		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, errors.Wrap(err, "register log counter")
		}

		vec = existing
	}

	return &LogCounter{vec: vec}, nil
}

// Run implements zerolog.Hook.
func (c *LogCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level != zerolog.NoLevel && level != zerolog.Disabled {
		c.vec.WithLabelValues(level.String()).Inc()
	}
}
