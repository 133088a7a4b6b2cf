package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SurfaceCalls counts gateway calls by surface and outcome
	// (ok, retried_ok, remote_error, credential_error).
	SurfaceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "execassist_surface_calls_total",
		Help: "Remote surface calls by surface and outcome",
	}, []string{"surface", "outcome"})

	// TokenRefreshes counts token endpoint exchanges by result.
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "execassist_token_refreshes_total",
		Help: "Identity provider token exchanges by result",
	}, []string{"result"})
)
