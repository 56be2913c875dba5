package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService owns the Prometheus collectors describing store activity.
// All methods are safe on a nil receiver so instrumentation stays optional.
type MetricsService struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	autosaves *prometheus.CounterVec
	generated prometheus.Counter
	exhausted prometheus.Counter
}

// NewMetricsService registers the store collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_store_mutations_total",
		Help: "Total number of store mutations by operation",
	}, []string{"operation"})

	autosaves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_autosave_total",
		Help: "Total number of autosave attempts by result",
	}, []string{"result"})

	generated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tutordesk_sessions_generated_total",
		Help: "Total sessions materialized by the generator",
	})

	exhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tutordesk_generation_exhausted_total",
		Help: "Generator runs that could not fill the lesson quota",
	})

	registry.MustRegister(mutations, autosaves, generated, exhausted)

	return &MetricsService{
		registry:  registry,
		mutations: mutations,
		autosaves: autosaves,
		generated: generated,
		exhausted: exhausted,
	}
}

// Registry exposes the underlying registry for hosts that export metrics.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveMutation counts a state mutation.
func (m *MetricsService) ObserveMutation(operation string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation).Inc()
}

// ObserveAutosave records the outcome of a persistence write.
func (m *MetricsService) ObserveAutosave(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.autosaves.WithLabelValues(result).Inc()
}

// ObserveGeneration records a generator run.
func (m *MetricsService) ObserveGeneration(added int, exhausted bool) {
	if m == nil {
		return
	}
	m.generated.Add(float64(added))
	if exhausted {
		m.exhausted.Inc()
	}
}

// Totals gathers the registry and sums every counter family across its labels.
func (m *MetricsService) Totals() (map[string]float64, error) {
	if m == nil {
		return map[string]float64{}, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	totals := make(map[string]float64, len(families))
	for _, mf := range families {
		var sum float64
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				sum += c.GetValue()
			}
		}
		totals[mf.GetName()] = sum
	}
	return totals, nil
}
