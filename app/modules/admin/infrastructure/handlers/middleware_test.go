package adminhandlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestThrottleMiddleware(t *testing.T) {
	throttle := NewLoginThrottle(rate.Every(time.Hour), 2)
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	throttle.now = func() time.Time { return start }
	handler := ThrottleMiddleware(throttle)(okHandler())

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222").Code)

	rec := send("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limited")

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111").Code, "limits are per IP")

	throttle.now = func() time.Time { return start.Add(time.Hour) }
	assert.Equal(t, http.StatusOK, send("10.0.0.1:4444").Code, "bucket refills")
}

func TestLoginThrottle_ForgetsIdleClients(t *testing.T) {
	throttle := NewLoginThrottle(rate.Limit(1), 1)
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	throttle.now = func() time.Time { return start }

	for i := 0; i <= pruneAbove; i++ {
		throttle.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	assert.Equal(t, pruneAbove+1, throttle.tracked())

	throttle.now = func() time.Time { return start.Add(idleTTL + time.Minute) }
	ok, _ := throttle.Allow("192.168.0.1")
	assert.True(t, ok)
	assert.Equal(t, 1, throttle.tracked())
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://ledger.example"})(okHandler())

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "https://ledger.example", wantStatus: http.StatusOK, wantAllow: "https://ledger.example"},
		{name: "preflight", method: http.MethodOptions, origin: "https://ledger.example", wantStatus: http.StatusNoContent, wantAllow: "https://ledger.example"},
		{name: "foreign origin", method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK},
		{name: "no origin", method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/ledger", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
