package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("/graphql", 200, 10*time.Millisecond)
	c.RecordRequest("/graphql", 200, 20*time.Millisecond)
	c.RecordRequest("/graphql", 401, time.Millisecond)
	c.RecordAuthOutcome("login", "success")
	c.RecordAuthRejected()
	c.RecordSurveyCreated()
	c.RecordSurveyCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("/graphql", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("/graphql", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authOutcomes.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authRejected))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.surveysCreated))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAuthRejected()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "signapp_auth_rejected_requests_total 1")
}
