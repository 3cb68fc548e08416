package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAggregation(t *testing.T) {
	m := New()

	m.ObserveAggregation("total-sales", "ok", 20*time.Millisecond)
	m.ObserveAggregation("total-sales", "ok", 30*time.Millisecond)
	m.ObserveAggregation("total-sales", "timeout", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AggregationsTotal.WithLabelValues("total-sales", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AggregationsTotal.WithLabelValues("total-sales", "timeout")))
}

func TestSetDatastoreUp(t *testing.T) {
	m := New()

	m.SetDatastoreUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatastoreUp))

	m.SetDatastoreUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DatastoreUp))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAggregation("geographical-distribution", "ok", time.Millisecond)
		m.SetDatastoreUp(true)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.SetDatastoreUp(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "datastore_up 1")
}
