package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMiddleware_counts_errors(t *testing.T) {
	m := New()
	h := RequestMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))

	for _, p := range []string{"/", "/bad", "/proxy/a.ts"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requestsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errorsTotal))
}

func TestMetrics_relay_counters(t *testing.T) {
	m := New()
	m.IncOriginFetches(KindManifest)
	m.IncOriginFetches(KindSegment)
	m.IncOriginFetches(KindSegment)
	m.IncOriginErrors()
	m.IncManifestsRewritten()
	m.AddSegmentBytes(8192)
	m.FetchStarted()
	m.FetchStarted()
	m.FetchDone()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.originFetchesTotal.WithLabelValues(KindManifest)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.originFetchesTotal.WithLabelValues(KindSegment)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.originErrorsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.manifestsRewritten))
	assert.Equal(t, float64(8192), testutil.ToFloat64(m.segmentBytesTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inflightFetches))
}

func TestMetrics_Handler_exposes_registry(t *testing.T) {
	m := New()
	m.IncManifestsRewritten()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "relay_manifests_rewritten_total 1")
}
