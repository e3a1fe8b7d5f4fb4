package metrics

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_OperationRecordedOnce(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewReporter(log, prometheus.NewRegistry())

	op := r.Report("load schema", "type", "Widget")
	op.Success()
	op.Fail()

	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
	assert.Equal(t, 1, strings.Count(buf.String(), "operation finished"))
	assert.Contains(t, buf.String(), "type=Widget")
	assert.Contains(t, buf.String(), "result=success")
}

func TestReporter_Counters(t *testing.T) {
	r := NewReporter(nil, nil)

	r.MockRequest("GET", 200)
	r.MockRequest("GET", 200)
	r.MockRequest("POST", 404)
	r.Contract(true)
	r.Contract(false)
	r.Contract(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.mockRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.mockRequests.WithLabelValues("POST", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.contracts.WithLabelValues(ResultFail)))
}

func TestReporter_NilIsSafe(t *testing.T) {
	var r *Reporter

	op := r.Report("anything")
	op.Success()
	r.MockRequest("GET", 200)
	r.Contract(true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReporter_Handler(t *testing.T) {
	r := NewReporter(nil, nil)
	r.Contract(true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ncdc_contracts_total{result="success"} 1`)
}
