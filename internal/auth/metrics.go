package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gate and outcome label values of authzDecisions.
const (
	gateAuthenticate = "authenticate"
	gatePermission   = "permission"
	gateRole         = "role"

	outcomeAllow = "allow"
	outcomeDeny  = "deny"
	outcomeError = "error"
)

var authzDecisions = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "authz_decisions_total",
		Help: "Number of authentication and authorization gate decisions.",
	},
	[]string{"gate", "outcome"},
)

func observe(gate, outcome string) {
	authzDecisions.WithLabelValues(gate, outcome).Inc()
}
