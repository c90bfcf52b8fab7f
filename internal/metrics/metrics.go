// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOps counts directory store operations by operation and outcome.
	StoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_store_operations_total",
		Help: "Directory store operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	// CacheResyncs counts wholesale cache reloads after failed background writes.
	CacheResyncs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "directory_cache_resyncs_total",
		Help: "Optimistic cache resyncs triggered by failed background writes.",
	})

	// Logins counts login attempts by result.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
)

// ObserveStoreOp records one store operation result.
func ObserveStoreOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreOps.WithLabelValues(operation, outcome).Inc()
}
