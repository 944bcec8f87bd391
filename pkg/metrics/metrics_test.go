package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Contadores(t *testing.T) {
	m := New("test")

	m.Transfer("approve", "ok")
	m.Transfer("approve", "ok")
	m.Transfer("approve", "conflict")
	m.Denied("transfers", "approve")
	m.ActorCache(true)
	m.ObserveHTTP("GET", "/api/transfers", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransfersTotal.WithLabelValues("approve", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransfersTotal.WithLabelValues("approve", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthzDenialsTotal.WithLabelValues("transfers", "approve")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActorCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/transfers", "200")))
}

func TestMetrics_NilEsNoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transfer("create", "ok")
		m.Denied("users", "delete")
		m.ActorCache(false)
		m.ObserveHTTP("POST", "/x", 500, time.Second)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New("test")
	m.Transfer("create", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_transfers_total{operation="create",outcome="ok"} 1`)
}
