package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beratech/payhero-backend/config"
	"github.com/beratech/payhero-backend/handlers"
	"github.com/beratech/payhero-backend/models"
	"github.com/beratech/payhero-backend/routes"
	"github.com/beratech/payhero-backend/services"
	"github.com/beratech/payhero-backend/store"
)

type testEnv struct {
	router       http.Handler
	handlers     *handlers.Handlers
	gatewayCalls *int64
}

// newTestEnv wires a full handler stack against a mock gateway and a
// temporary file store.
func newTestEnv(t *testing.T, gatewayHandler http.HandlerFunc) *testEnv {
	t.Helper()

	var calls int64
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		gatewayHandler(w, r)
	}))
	t.Cleanup(gateway.Close)

	cfg := &config.Config{
		PayHeroBaseURL:     gateway.URL,
		PayHeroAuthToken:   "Basic dGVzdDp0ZXN0",
		PayHeroChannelID:   "1234",
		CallbackURL:        "https://example.com/callback",
		AdminPassword:      "test-secret",
		TransactionLogFile: filepath.Join(t.TempDir(), "transactions.log"),
		Environment:        "test",
		CorsAllowedOrigins: []string{"*"},
	}

	txStore, err := store.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { txStore.Close() })

	h := handlers.NewHandlers(cfg, services.NewPayHeroClient(cfg), txStore)
	return &testEnv{
		router:       routes.SetupRouter(cfg, h),
		handlers:     h,
		gatewayCalls: &calls,
	}
}

func (e *testEnv) postJSON(t *testing.T, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) entries(t *testing.T) []models.TransactionLogEntry {
	t.Helper()
	entries, err := e.handlers.Store.List(context.Background())
	require.NoError(t, err)
	return entries
}

func successGateway(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"success","message":"Sent"}`))
}

func TestSTKPushMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "empty body", body: map[string]interface{}{}},
		{name: "missing phone", body: map[string]interface{}{"amount": 100}},
		{name: "missing amount", body: map[string]interface{}{"phone": "254712345678"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, successGateway)

			w := env.postJSON(t, "/api/payments/stkpush", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.EqualValues(t, 0, atomic.LoadInt64(env.gatewayCalls),
				"gateway must not be called on validation failure")

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, models.ErrorKindValidation, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSTKPushInvalidPhone(t *testing.T) {
	env := newTestEnv(t, successGateway)

	w := env.postJSON(t, "/api/payments/stkpush", map[string]interface{}{
		"phone":  "0712345678",
		"amount": 100,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 0, atomic.LoadInt64(env.gatewayCalls))

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "invalid phone number format")
}

func TestSTKPushInvalidAmount(t *testing.T) {
	for _, amount := range []interface{}{0, -10, "ten", "0"} {
		env := newTestEnv(t, successGateway)

		w := env.postJSON(t, "/api/payments/stkpush", map[string]interface{}{
			"phone":  "254712345678",
			"amount": amount,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.EqualValues(t, 0, atomic.LoadInt64(env.gatewayCalls))
	}
}

func TestSTKPushGatewaySuccess(t *testing.T) {
	env := newTestEnv(t, successGateway)

	w := env.postJSON(t, "/api/payments/stkpush", map[string]interface{}{
		"phone":  "254712345678",
		"amount": 100,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, atomic.LoadInt64(env.gatewayCalls))

	var outcome models.PaymentOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.True(t, outcome.Success)
	assert.NotEmpty(t, outcome.Reference)
	assert.Equal(t, http.StatusOK, outcome.GatewayStatusCode)
	assert.Equal(t, "success", outcome.Data["status"])
	assert.Equal(t, "Sent", outcome.Data["message"])

	entries := env.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "254712345678", entries[0].Phone)
	assert.Equal(t, 100, entries[0].Amount)
	assert.Equal(t, "success", entries[0].Status)
	assert.Equal(t, "Sent", entries[0].Message)
	assert.Equal(t, outcome.Reference, entries[0].Reference)
}

func TestSTKPushAmountAsString(t *testing.T) {
	env := newTestEnv(t, successGateway)

	w := env.postJSON(t, "/api/payments/stkpush", map[string]interface{}{
		"phone":  "254712345678",
		"amount": "100",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	entries := env.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].Amount)
}

func TestSTKPushPhoneNumberFieldAlias(t *testing.T) {
	env := newTestEnv(t, successGateway)

	w := env.postJSON(t, "/api/payments/stkpush", map[string]interface{}{
		"phone_number": "254712345678",
		"amount":       100,
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSTKPushFormEncodedBody(t *testing.T) {
	env := newTestEnv(t, successGateway)

	form := url.Values{}
	form.Set("phone", "254712345678")
	form.Set("amount", "100")

	req := httptest.NewRequest("POST", "/pay", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.entries(t), 1)
}

func TestSTKPushGatewayRejection(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"failed","message":"Insufficient balance"}`))
	})

	w := env.postJSON(t, "/api/payments/stkpush", map[string]interface{}{
		"phone":  "254712345678",
		"amount": 100,
	})

	// The HTTP transaction succeeded; the rejection rides in the envelope.
	assert.Equal(t, http.StatusOK, w.Code)

	var outcome models.PaymentOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.False(t, outcome.Success)
	assert.Equal(t, "Insufficient balance", outcome.Message)

	entries := env.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "Insufficient balance", entries[0].Message)
}

func TestSTKPushUnparseableGatewayResponse(t *testing.T) {
	const rawBody = "Service temporarily down"
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rawBody))
	})

	w := env.postJSON(t, "/api/payments/stkpush", map[string]interface{}{
		"phone":  "254712345678",
		"amount": 100,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var outcome models.PaymentOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, rawBody, outcome.Raw, "raw gateway text must be returned verbatim")
	assert.Nil(t, outcome.Data)

	entries := env.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, rawBody, entries[0].Message)
}

func TestSTKPushGatewayUnreachable(t *testing.T) {
	// Point the client at a closed port.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	cfg := &config.Config{
		PayHeroBaseURL:     deadURL,
		PayHeroAuthToken:   "Basic dGVzdDp0ZXN0",
		PayHeroChannelID:   "1234",
		CallbackURL:        "https://example.com/callback",
		AdminPassword:      "test-secret",
		TransactionLogFile: filepath.Join(t.TempDir(), "transactions.log"),
		CorsAllowedOrigins: []string{"*"},
	}
	txStore, err := store.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { txStore.Close() })

	h := handlers.NewHandlers(cfg, services.NewPayHeroClient(cfg), txStore)
	router := routes.SetupRouter(cfg, h)

	body, _ := json.Marshal(map[string]interface{}{"phone": "254712345678", "amount": 100})
	req := httptest.NewRequest("POST", "/api/payments/stkpush", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, models.ErrorKindGatewayUnreachable, resp.Kind)

	// The failed attempt is still recorded.
	entries, err := txStore.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "254712345678", entries[0].Phone)
	assert.Equal(t, 100, entries[0].Amount)
}

func TestSTKPushWrongMethod(t *testing.T) {
	env := newTestEnv(t, successGateway)

	req := httptest.NewRequest("GET", "/api/payments/stkpush", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSTKPushSequentialAppendsAccumulate(t *testing.T) {
	env := newTestEnv(t, successGateway)

	const n = 5
	for i := 0; i < n; i++ {
		w := env.postJSON(t, "/api/payments/stkpush", map[string]interface{}{
			"phone":  "254712345678",
			"amount": (i + 1) * 10,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	entries := env.entries(t)
	require.Len(t, entries, n)
	for i, entry := range entries {
		assert.Equal(t, (i+1)*10, entry.Amount)
	}
}
