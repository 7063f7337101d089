// Package metrics exposes Prometheus counters for the apiary core operations
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ApiaryMetrics counts lifecycle, relocation and integrity events
type ApiaryMetrics struct {
	registry *prometheus.Registry

	deactivationsTotal     *prometheus.CounterVec
	erasedMothersTotal     prometheus.Counter
	relocatedHivesTotal    prometheus.Counter
	relocatedMothersTotal  prometheus.Counter
	numberingRetriesTotal  prometheus.Counter
	lineageIntegrityErrors prometheus.Counter
	operationErrorsTotal   *prometheus.CounterVec
}

// NewApiaryMetrics creates the collectors and registers them on registry
func NewApiaryMetrics(registry *prometheus.Registry) (*ApiaryMetrics, error) {
	m := &ApiaryMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ApiaryMetrics) initMetrics() {
	m.deactivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apiary_deactivations_total",
			Help: "Total number of rows soft-deactivated, by entity",
		},
		[]string{"entity"}, // site, hive, mother, visit
	)

	m.erasedMothersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apiary_erased_mothers_total",
		Help: "Total number of mother records permanently erased",
	})

	m.relocatedHivesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apiary_relocated_hives_total",
		Help: "Total number of hives moved to another site",
	})

	m.relocatedMothersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apiary_relocated_mothers_total",
		Help: "Total number of mothers moved to another hive",
	})

	m.numberingRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apiary_numbering_retries_total",
		Help: "Total number of hive number allocations retried after a uniqueness conflict",
	})

	m.lineageIntegrityErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "apiary_lineage_integrity_errors_total",
		Help: "Total number of ancestor walks aborted because of a cycle",
	})

	m.operationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apiary_operation_errors_total",
			Help: "Total number of rejected operations, by error kind",
		},
		[]string{"kind"},
	)
}

// Describe implements prometheus.Collector
func (m *ApiaryMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.deactivationsTotal.Describe(ch)
	m.erasedMothersTotal.Describe(ch)
	m.relocatedHivesTotal.Describe(ch)
	m.relocatedMothersTotal.Describe(ch)
	m.numberingRetriesTotal.Describe(ch)
	m.lineageIntegrityErrors.Describe(ch)
	m.operationErrorsTotal.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *ApiaryMetrics) Collect(ch chan<- prometheus.Metric) {
	m.deactivationsTotal.Collect(ch)
	m.erasedMothersTotal.Collect(ch)
	m.relocatedHivesTotal.Collect(ch)
	m.relocatedMothersTotal.Collect(ch)
	m.numberingRetriesTotal.Collect(ch)
	m.lineageIntegrityErrors.Collect(ch)
	m.operationErrorsTotal.Collect(ch)
}

// Registry returns the registry the collectors are registered on
func (m *ApiaryMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Deactivated records count rows of entity switched to inactive. Safe on a nil receiver.
func (m *ApiaryMetrics) Deactivated(entity string, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.deactivationsTotal.WithLabelValues(entity).Add(float64(count))
}

// MotherErased records a hard erase
func (m *ApiaryMetrics) MotherErased() {
	if m == nil {
		return
	}
	m.erasedMothersTotal.Inc()
}

// HivesRelocated records count moved hives
func (m *ApiaryMetrics) HivesRelocated(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.relocatedHivesTotal.Add(float64(count))
}

// MotherRelocated records a mother moved between hives
func (m *ApiaryMetrics) MotherRelocated() {
	if m == nil {
		return
	}
	m.relocatedMothersTotal.Inc()
}

// NumberingRetry records one allocator retry
func (m *ApiaryMetrics) NumberingRetry() {
	if m == nil {
		return
	}
	m.numberingRetriesTotal.Inc()
}

// LineageIntegrityError records an aborted ancestor walk
func (m *ApiaryMetrics) LineageIntegrityError() {
	if m == nil {
		return
	}
	m.lineageIntegrityErrors.Inc()
}

// OperationRejected records a failed operation by error kind
func (m *ApiaryMetrics) OperationRejected(kind string) {
	if m == nil || kind == "" {
		return
	}
	m.operationErrorsTotal.WithLabelValues(kind).Inc()
}
