package quotemetrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

type Recorder interface {
	PositionPriced(path string)
	ReferenceMiss(table string)
	MalformedNumeric(field string)
	ReferenceReload(status string)
	ReferenceRows(table string, rows int)
}

type recorder struct {
	metrics *metrics
}

// NewRecorder registers the pricing metrics on registry.
func NewRecorder(registry prometheus.Registerer) Recorder {
	return &recorder{metrics: newMetrics(registry)}
}

type noopRecorder struct{}

// Noop returns a recorder that discards everything.
func Noop() Recorder { return noopRecorder{} }

func (noopRecorder) PositionPriced(string)     {}
func (noopRecorder) ReferenceMiss(string)      {}
func (noopRecorder) MalformedNumeric(string)   {}
func (noopRecorder) ReferenceReload(string)    {}
func (noopRecorder) ReferenceRows(string, int) {}

func (r *recorder) PositionPriced(path string) {
	r.metrics.positionsPriced.WithLabelValues(normalizeLabel(path)).Inc()
}

func (r *recorder) ReferenceMiss(table string) {
	r.metrics.referenceMisses.WithLabelValues(normalizeLabel(table)).Inc()
}

func (r *recorder) MalformedNumeric(field string) {
	r.metrics.malformedNumeric.WithLabelValues(normalizeLabel(field)).Inc()
}

func (r *recorder) ReferenceReload(status string) {
	r.metrics.referenceReloads.WithLabelValues(normalizeLabel(status)).Inc()
}

func (r *recorder) ReferenceRows(table string, rows int) {
	if rows < 0 {
		rows = 0
	}
	r.metrics.referenceRows.WithLabelValues(normalizeLabel(table)).Set(float64(rows))
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
