package sandbox

// Metric definitions for the sandbox server. This is the single source of
// truth for metric names, labels, and help strings; promauto registers them
// with the default registry at package init.

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal_sandbox"

// signInsTotal counts sign-in attempts by outcome.
// Label:
//   - outcome: "accepted", "rejected" or "disabled"
var signInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, labelled by outcome.",
	},
	[]string{"outcome"},
)

// registrationsTotal counts accepted registrations by role.
var registrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accepted registrations, labelled by role.",
	},
	[]string{"role"},
)

// unauthorizedTotal counts requests rejected by the bearer-token middleware.
var unauthorizedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unauthorized_total",
		Help:      "Total number of requests rejected with 401 by the auth middleware.",
	},
)
