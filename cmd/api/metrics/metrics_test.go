package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveLLM(t *testing.T) {
	m := NewTestManager()

	m.ObserveLLM("generate", time.Second, nil)
	m.ObserveLLM("generate", time.Second, errors.New("boom"))
	m.ObserveLLM("refine", time.Second, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterLLMRequests.WithLabelValues("generate", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterLLMRequests.WithLabelValues("generate", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterLLMRequests.WithLabelValues("refine", "success")))

	var nilManager *Manager
	nilManager.ObserveLLM("generate", time.Second, nil)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewTestManager()
	m.CounterRateLimited.Inc()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "techsphere_test_server_rate_limited_total 1")
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}
