package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.ObserveMutation("add_student")
	m.ObserveMutation("add_student")
	m.ObserveAutosave(nil)
	m.ObserveAutosave(errors.New("disk full"))
	m.ObserveGeneration(3, true)
	m.ObserveGeneration(2, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_student")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.autosaves.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.autosaves.WithLabelValues("failure")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.generated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exhausted))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveMutation("x")
		m.ObserveAutosave(nil)
		m.ObserveGeneration(1, true)
	})
	assert.Nil(t, m.Registry())
}

func TestStoreReportsMetrics(t *testing.T) {
	m := NewMetricsService()
	s, _ := newTestStore(t, rosterState(), WithMetrics(m))

	s.AddStudent("Qian")
	s.DeleteSession("x-free")
	s.GenerateSessions("e-b")
	s.Close(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_student")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("delete_session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exhausted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.autosaves.WithLabelValues("success")))
}

func TestMetricsServiceTotals(t *testing.T) {
	m := NewMetricsService()
	m.ObserveMutation("add_student")
	m.ObserveMutation("delete_student")
	m.ObserveAutosave(nil)
	m.ObserveGeneration(4, false)

	totals, err := m.Totals()
	require.NoError(t, err)
	assert.Equal(t, 2.0, totals["tutordesk_store_mutations_total"])
	assert.Equal(t, 1.0, totals["tutordesk_autosave_total"])
	assert.Equal(t, 4.0, totals["tutordesk_sessions_generated_total"])
	assert.Equal(t, 0.0, totals["tutordesk_generation_exhausted_total"])

	var nilMetrics *MetricsService
	totals, err = nilMetrics.Totals()
	require.NoError(t, err)
	assert.Empty(t, totals)
}
