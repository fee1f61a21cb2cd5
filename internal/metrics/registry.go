package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "forumsearch"

var registerOnce sync.Once

// Register registers every service metric with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
			SearchRequestsTotal,
			SearchResultsReturned,
			BackendRequestsTotal,
			BackendRequestDuration,
			ResultCacheTotal,
			LegacyModeTotal,
		)
	})
}
