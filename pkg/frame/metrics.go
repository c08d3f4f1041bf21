package frame

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the deserialization engine. A single
// instance is shared by all Deserializers in the process.
type Metrics struct {
	recordsTotal      *prometheus.CounterVec
	bytesFedTotal     prometheus.Counter
	spillFilesCreated prometheus.Counter
	spillFilesDeleted prometheus.Counter
	spilledBytesTotal prometheus.Counter
	gatheredBytes     prometheus.Gauge
}

var engineMetrics = newMetrics()

// newMetrics creates and registers all Prometheus metrics
func newMetrics() *Metrics {
	return &Metrics{
		recordsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streamspill_records_total",
				Help: "Total number of deserialization attempts by result",
			},
			[]string{"result"},
		),

		bytesFedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "streamspill_bytes_fed_total",
				Help: "Total number of transport buffer bytes fed to the engine",
			},
		),

		spillFilesCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "streamspill_spill_files_created_total",
				Help: "Total number of spill files created for oversized records",
			},
		),

		spillFilesDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "streamspill_spill_files_deleted_total",
				Help: "Total number of spill files deleted after consumption",
			},
		),

		spilledBytesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "streamspill_spilled_bytes_total",
				Help: "Total number of record bytes written to spill files",
			},
		),

		gatheredBytes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "streamspill_gathered_bytes",
				Help: "Bytes gathered for the record currently in progress",
			},
		),
	}
}

// RecordResult records the outcome of a GetNextRecord call
func (m *Metrics) RecordResult(result Result) {
	m.recordsTotal.WithLabelValues(result.String()).Inc()
}

// RecordBytesFed records transport bytes handed to the engine
func (m *Metrics) RecordBytesFed(n int) {
	m.bytesFedTotal.Add(float64(n))
}

// RecordSpillCreated records the creation of a spill file
func (m *Metrics) RecordSpillCreated() {
	m.spillFilesCreated.Inc()
}

// RecordSpillDeleted records the deletion of a spill file
func (m *Metrics) RecordSpillDeleted() {
	m.spillFilesDeleted.Inc()
}

// RecordSpilledBytes records bytes written to a spill file
func (m *Metrics) RecordSpilledBytes(n int) {
	m.spilledBytesTotal.Add(float64(n))
}

// SetGatheredBytes updates the in-progress record gauge
func (m *Metrics) SetGatheredBytes(n int) {
	m.gatheredBytes.Set(float64(n))
}
