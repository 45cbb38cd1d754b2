package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/metrics"
)

// Metrics bundles the collector with the registry it reports into.
type Metrics struct {
	Collector *metrics.Collector
	Registry  *prometheus.Registry
}

// ProvideMetrics provides the Prometheus metrics collector.
func ProvideMetrics(i do.Injector) (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	return &Metrics{
		Collector: metrics.NewCollector(registry),
		Registry:  registry,
	}, nil
}
