package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	at := time.Unix(1718438400, 0)

	r.StageSucceeded("sales", 120, 2*time.Second, at)
	r.StageFailed("calendar", "EmptyFactRange", time.Second)
	r.StageFailed("calendar", "EmptyFactRange", time.Second)
	r.JoinDropped("sales", 3, 1)

	assert.Equal(t, 120.0, testutil.ToFloat64(r.outputRows.WithLabelValues("sales")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.stageDuration.WithLabelValues("sales")))
	assert.Equal(t, 1718438400.0, testutil.ToFloat64(r.lastSuccess.WithLabelValues("sales")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.failures.WithLabelValues("calendar", "EmptyFactRange")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.joinDropped.WithLabelValues("sales", "left")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.joinDropped.WithLabelValues("sales", "right")))

	n, err := testutil.GatherAndCount(r.Registry())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.StageSucceeded("sales", 1, time.Second, time.Now())
	r.StageFailed("sales", "WriteFailure", time.Second)
	r.JoinDropped("sales", 1, 1)
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.Push(context.Background(), "http://unused", ""))
}

func TestPush(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotMethod, gotPath = req.Method, req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New()
	r.StageSucceeded("products", 50, time.Second, time.Now())

	require.NoError(t, r.Push(context.Background(), srv.URL, ""))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/metrics/job/"+DefaultJob, gotPath)
}

func TestPushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := New()
	r.StageSucceeded("products", 50, time.Second, time.Now())
	assert.Error(t, r.Push(context.Background(), srv.URL, "job"))
}

func TestPushDisabled(t *testing.T) {
	assert.NoError(t, New().Push(context.Background(), "", ""))
}
