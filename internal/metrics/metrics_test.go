package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFetch_CountsByResult(t *testing.T) {
	m := New()

	m.ObserveFetch("trainers", time.Now(), nil)
	m.ObserveFetch("trainers", time.Now(), nil)
	m.ObserveFetch("trainers", time.Now(), errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.fetchTotal.WithLabelValues("trainers", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.fetchTotal.WithLabelValues("trainers", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.fetchLatency))
}

func TestCountersAndGauge(t *testing.T) {
	m := New()

	m.StaleResponse("analytics")
	m.Mutation("formateurs", "delete")
	m.Mutation("formateurs", "delete")
	m.SetWorkspaces(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.staleTotal.WithLabelValues("analytics")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.mutationTotal.WithLabelValues("formateurs", "delete")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.workspaces))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("x", time.Now(), nil)
		m.StaleResponse("x")
		m.Mutation("x", "edit")
		m.SetWorkspaces(1)
	})
}

func TestHandler_ExposesNamespace(t *testing.T) {
	m := New()
	m.Mutation("entreprises", "edit")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `formadmin_list_mutations_total{entity="entreprises",op="edit"} 1`))
}
