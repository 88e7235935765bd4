package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bmitrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecordRequest(t *testing.T) {
	m := New()
	m.RecordRequest("/api/bmi", http.MethodGet, 200, 10*time.Millisecond)
	m.RecordRequest("/api/bmi", http.MethodGet, 200, 20*time.Millisecond)
	m.RecordRequest("", http.MethodGet, 404, time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `bmitrack_http_requests_total{method="GET",route="/api/bmi",status="200"} 2`)
	assert.Contains(t, body, `bmitrack_http_requests_total{method="GET",route="unknown",status="404"} 1`)
	assert.Contains(t, body, `bmitrack_http_request_duration_seconds_count{route="/api/bmi"} 2`)
}

func TestRecordDomainCounters(t *testing.T) {
	m := New()
	m.RecordClassification("normal")
	m.RecordHistoryAppend(nil)
	m.RecordHistoryAppend(errors.New("boom"))
	m.RecordStoreError("set_item")

	body := scrape(t, m)
	assert.Contains(t, body, `bmitrack_classifications_total{category="normal"} 1`)
	assert.Contains(t, body, `bmitrack_history_appends_total{result="ok"} 1`)
	assert.Contains(t, body, `bmitrack_history_appends_total{result="error"} 1`)
	assert.Contains(t, body, `bmitrack_store_errors_total{op="set_item"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Second)
		m.RecordClassification("normal")
		m.RecordHistoryAppend(nil)
		m.RecordStoreError("get_item")
	})
}

type failingStore struct{ err error }

func (f failingStore) GetItem(ctx context.Context, key string) ([]byte, error) { return nil, f.err }
func (f failingStore) SetItem(ctx context.Context, key string, value []byte) error {
	return f.err
}

func TestInstrumentStore(t *testing.T) {
	m := New()
	ctx := context.Background()

	miss := m.InstrumentStore(failingStore{err: domain.ErrNotFound})
	_, _ = miss.GetItem(ctx, "k")
	assert.NotContains(t, scrape(t, m), `bmitrack_store_errors_total{op="get_item"}`)

	broken := m.InstrumentStore(failingStore{err: errors.New("down")})
	_, _ = broken.GetItem(ctx, "k")
	_ = broken.SetItem(ctx, "k", nil)

	body := scrape(t, m)
	assert.Contains(t, body, `bmitrack_store_errors_total{op="get_item"} 1`)
	assert.Contains(t, body, `bmitrack_store_errors_total{op="set_item"} 1`)
}
