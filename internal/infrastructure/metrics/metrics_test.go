package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cmv-api/internal/application/report"
	"github.com/jhoicas/cmv-api/internal/infrastructure/metrics"
)

func TestObserveReport_CuentaErrores(t *testing.T) {
	m := metrics.New("test")

	m.ObserveReport(report.KindCMV, 10*time.Millisecond, nil)
	m.ObserveReport(report.KindCMV, 10*time.Millisecond, errors.New("boom"))

	n, err := testutil.GatherAndCount(m.Registry(), "test_report_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAddAdvisories_IgnoraCero(t *testing.T) {
	m := metrics.New("test")

	m.AddAdvisories(report.KindCMV, "anomalous", 0)
	n, err := testutil.GatherAndCount(m.Registry(), "test_report_advisories_total")
	require.NoError(t, err)
	assert.Equal(t, 0, n, "sin series cuando no hay advertencias")

	m.AddAdvisories(report.KindCMV, "anomalous", 2)
	m.AddAdvisories(report.KindPurchaseList, "insufficient_history", 1)
	n, err = testutil.GatherAndCount(m.Registry(), "test_report_advisories_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestHandler_ExponeMetricas(t *testing.T) {
	m := metrics.New("cmv")
	m.ObserveHTTP("GET", "/api/reports/cmv", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cmv_http_requests_total{method="GET",path="/api/reports/cmv",status="200"} 1`)
}
