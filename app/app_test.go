package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adminhandlers "github.com/Black-And-White-Club/poker-ledger/app/modules/admin/infrastructure/handlers"
	sessionservice "github.com/Black-And-White-Club/poker-ledger/app/modules/session/application"
	settlementservice "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/application"
	"github.com/Black-And-White-Club/poker-ledger/config"
	"github.com/Black-And-White-Club/poker-ledger/internal/testutils"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP:          config.HTTPConfig{Addr: ":0", MaxUploadBytes: 1 << 20},
		Admin:         config.AdminConfig{Password: "pw", JWTSecret: "secret", SessionTTL: time.Hour},
		Events:        config.EventsConfig{Driver: "memory"},
		Observability: config.ObservabilityConfig{Environment: "development", MetricsEnabled: true},
	}
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *client) json(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New(context.Background(), testConfig(), testutils.DiscardLogger(), testutils.NewSQLiteDB(t), eventbus.NewNoop())
	require.NoError(t, err)
	return app
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	c := &client{t: t, handler: newTestApp(t).Router()}

	rec := c.json(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = c.json(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_AdminGating(t *testing.T) {
	c := &client{t: t, handler: newTestApp(t).Router()}

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/sessions/stage"},
		{http.MethodPost, "/api/sessions/confirm"},
		{http.MethodPatch, "/api/ledger/entries/1"},
		{http.MethodPost, "/api/payments"},
		{http.MethodPost, "/api/players/1/clear"},
		{http.MethodPatch, "/api/players/1"},
	} {
		rec := c.json(route.method, route.path, "{}")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}

	rec := c.json(http.MethodGet, "/api/ledger", "")
	assert.Equal(t, http.StatusOK, rec.Code, "reads are public")
}

func TestRouter_ImportAndSettle(t *testing.T) {
	c := &client{t: t, handler: newTestApp(t).Router()}

	rec := c.json(http.MethodPost, "/api/admin/login", `{"password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.json(http.MethodPost, "/api/admin/login", `{"password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == adminhandlers.CookieName {
			c.cookie = ck
		}
	}
	require.NotNil(t, c.cookie)

	// Stage an upload.
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("game_date", "2025-03-07"))
	fw, err := mw.CreateFormFile("file", "night.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("player_nickname,net\nAlice,1500\nBob,-1000\nbob ,-500\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/stage", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = c.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	staged := decodeInto[sessionservice.StagedImport](t, rec)
	require.Len(t, staged.New, 2)
	require.Len(t, staged.Notes, 1)

	// Confirm everything as new players.
	confirm := sessionservice.ConfirmRequest{ImportID: staged.ImportID, GameDate: staged.GameDate}
	for _, row := range staged.New {
		confirm.Rows = append(confirm.Rows, sessionservice.ResolvedRow{Name: row.Name, Net: row.Net, Action: sessionservice.ActionCreate})
	}
	payload, err := json.Marshal(confirm)
	require.NoError(t, err)
	rec = c.json(http.MethodPost, "/api/sessions/confirm", string(payload))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A second confirm for the same date is rejected.
	rec = c.json(http.MethodPost, "/api/sessions/confirm", string(payload))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.json(http.MethodGet, "/api/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeInto[[]settlementservice.LedgerRow](t, rec)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Player.Name)
	assert.True(t, decimal.NewFromInt(15).Equal(rows[0].CurrentBalance))
	bob := rows[1].Player
	assert.True(t, decimal.NewFromInt(-15).Equal(rows[1].CurrentBalance))

	// Bob settles up.
	rec = c.json(http.MethodPost, "/api/payments", fmt.Sprintf(`{"player_id":%d,"amount":"15","payment_date":"2025-03-08","payment_method":"Venmo"}`, bob.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.json(http.MethodGet, fmt.Sprintf("/api/players/%d/outstanding", bob.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeInto[settlementservice.Outstanding](t, rec)
	assert.True(t, out.Remaining.IsZero(), out.Remaining.String())

	rec = c.json(http.MethodGet, "/api/ledger/calendar", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2025-03-07")

	rec = c.json(http.MethodGet, "/api/ledger/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Bob")
}
