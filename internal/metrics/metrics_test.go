package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_RecordsByServiceAndOperation(t *testing.T) {
	p, err := NewPrometheus("poker_ledger")
	require.NoError(t, err)

	ctx := context.Background()
	p.RecordOperationAttempt(ctx, "RecordPayment", "SettlementService")
	p.RecordOperationAttempt(ctx, "RecordPayment", "SettlementService")
	p.RecordOperationSuccess(ctx, "RecordPayment", "SettlementService")
	p.RecordOperationFailure(ctx, "RecordPayment", "SettlementService")
	p.RecordOperationDuration(ctx, "RecordPayment", "SettlementService", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.attempts.WithLabelValues("SettlementService", "RecordPayment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.successes.WithLabelValues("SettlementService", "RecordPayment")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.failures.WithLabelValues("SettlementService", "RecordPayment")))

	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(body), "poker_ledger_operation_attempts_total")
}

func TestNoop(t *testing.T) {
	m := NewNoop()
	assert.NotPanics(t, func() {
		m.RecordOperationAttempt(context.Background(), "op", "svc")
		m.RecordOperationDuration(context.Background(), "op", "svc", time.Second)
	})
}
