package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/work4food-go/internal/infrastructure/config"
)

const (
	// Namespace for all metrics
	namespace = "work4food"
	// Subsystem for dispatch metrics
	subsystem = "dispatch"
)

// Registry is the global Prometheus registry for all metrics.
// Nil means metrics collection is disabled.
var Registry *prometheus.Registry

// InitRegistry initializes the Prometheus registry.
// Should be called once at application startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// NewServer builds the HTTP server exposing the metrics endpoint
func NewServer(cfg *config.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
