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

func TestSubmissionCounters(t *testing.T) {
	m := New()

	m.Submission("appointment", OutcomeStored)
	m.Submission("appointment", OutcomeStored)
	m.ValidationFailure("contactmessage")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("appointment", OutcomeStored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("contactmessage", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("contactmessage")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveInsert("appointment", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hms_store_insert_duration_seconds_count{collection="appointment"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
