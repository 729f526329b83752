package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BatchMetricsCollector handles all batch assignment metrics
type BatchMetricsCollector struct {
	batchesTotal         prometheus.Counter
	ordersAssignedTotal  prometheus.Counter
	ordersUnmatchedTotal prometheus.Counter
	omegaGauge           prometheus.Gauge
	batchDuration        prometheus.Histogram
}

// NewBatchMetricsCollector creates a new batch metrics collector
func NewBatchMetricsCollector() *BatchMetricsCollector {
	return &BatchMetricsCollector{
		batchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batches_total",
				Help:      "Total number of assignment batches processed",
			},
		),

		ordersAssignedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_assigned_total",
				Help:      "Total number of orders assigned to couriers",
			},
		),

		ordersUnmatchedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_unmatched_total",
				Help:      "Total number of orders left pending after a batch",
			},
		),

		omegaGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "guarantee_ratio",
				Help:      "Current smoothed work-to-active-hours ratio used for cost scoring",
			},
		),

		batchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batch_duration_seconds",
				Help:      "Batch processing duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),
	}
}

// Register registers all batch metrics with the Prometheus registry
func (c *BatchMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	collectors := []prometheus.Collector{
		c.batchesTotal,
		c.ordersAssignedTotal,
		c.ordersUnmatchedTotal,
		c.omegaGauge,
		c.batchDuration,
	}

	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// RecordBatch records the outcome of a single assignment batch
func (c *BatchMetricsCollector) RecordBatch(assigned, total int, omega float64, duration time.Duration) {
	c.batchesTotal.Inc()
	c.ordersAssignedTotal.Add(float64(assigned))
	if total > assigned {
		c.ordersUnmatchedTotal.Add(float64(total - assigned))
	}
	c.omegaGauge.Set(omega)
	c.batchDuration.Observe(duration.Seconds())
}
