package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSignupAndUnregister(t *testing.T) {
	before := testutil.ToFloat64(signups.WithLabelValues("Metrics Club"))

	RecordSignup("Metrics Club", 3)
	assert.Equal(t, before+1, testutil.ToFloat64(signups.WithLabelValues("Metrics Club")))
	assert.Equal(t, float64(3), testutil.ToFloat64(participants.WithLabelValues("Metrics Club")))

	RecordUnregister("Metrics Club", 2)
	assert.Equal(t, float64(2), testutil.ToFloat64(participants.WithLabelValues("Metrics Club")))
}

func TestRecordPublish(t *testing.T) {
	okBefore := testutil.ToFloat64(eventsPublished.WithLabelValues("k", "ok"))
	errBefore := testutil.ToFloat64(eventsPublished.WithLabelValues("k", "error"))

	RecordPublish("k", nil)
	RecordPublish("k", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(eventsPublished.WithLabelValues("k", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(eventsPublished.WithLabelValues("k", "error")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveRequest(http.MethodGet, "", http.StatusNotFound, 5*time.Millisecond)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `activity_signup_http_requests_total{method="GET",route="unmatched",status="404"}`)
}
