// Package quotemetrics counts pricing activity and pushes it to Prometheus
// when the process exits.
package quotemetrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "gestionale"

type metrics struct {
	positionsPriced  *prometheus.CounterVec
	referenceMisses  *prometheus.CounterVec
	malformedNumeric *prometheus.CounterVec
	referenceReloads *prometheus.CounterVec
	referenceRows    *prometheus.GaugeVec
}

func newMetrics(registry prometheus.Registerer) *metrics {
	m := &metrics{
		positionsPriced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "positions_priced_total",
			Help:      "Positions priced, by calling path.",
		}, []string{"path"}),
		referenceMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_misses_total",
			Help:      "Reference lookups that found no row.",
		}, []string{"table"}),
		malformedNumeric: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_numeric_total",
			Help:      "Numeric inputs that could not be parsed and were read as zero.",
		}, []string{"field"}),
		referenceReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_reloads_total",
			Help:      "Reference table reloads, by outcome.",
		}, []string{"status"}),
		referenceRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reference_rows",
			Help:      "Rows in the current reference snapshot.",
		}, []string{"table"}),
	}
	registry.MustRegister(
		m.positionsPriced,
		m.referenceMisses,
		m.malformedNumeric,
		m.referenceReloads,
		m.referenceRows,
	)
	return m
}
