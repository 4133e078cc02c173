package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

// serve routes the request through chi so the route pattern and order_id are
// populated as in production.
func serve(store *fakeStore, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	idem := r.With(Idempotency(store, nil))
	idem.Post("/barrels/deliver/{order_id}", handler)
	idem.Post("/admin/reset", handler)
	idem.Post("/barrels/plan", handler)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRuleSelection(t *testing.T) {
	tests := []struct {
		method  string
		pattern string
		ok      bool
	}{
		{http.MethodPost, "/barrels/deliver/{order_id}", true},
		{http.MethodPost, "/sales/{order_id}", true},
		{http.MethodPost, "/admin/reset", true},
		{http.MethodPost, "/barrels/plan", false},
		{http.MethodGet, "/inventory/audit", false},
	}
	for _, tt := range tests {
		_, ok := ruleFor(tt.method, tt.pattern)
		require.Equal(t, tt.ok, ok, tt.pattern)
	}
}

func TestIdempotencyFallsBackToOrderID(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"data":{"accepted":1}}`)
	}

	first := serve(store, handler, httptest.NewRequest(http.MethodPost, "/barrels/deliver/42", strings.NewReader(`[{"sku":"SMALL_RED_BARREL"}]`)))
	require.Equal(t, http.StatusOK, first.Code)

	second := serve(store, handler, httptest.NewRequest(http.MethodPost, "/barrels/deliver/42", strings.NewReader(`[{"sku":"SMALL_RED_BARREL"}]`)))
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "true", second.Header().Get(idempotentReplayHeader))
	require.JSONEq(t, `{"data":{"accepted":1}}`, second.Body.String())
	require.Equal(t, 1, calls)
	require.Contains(t, store.data, "fake:POST|/barrels/deliver/{order_id}:42")
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store := newFakeStore()
	handler := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	serve(store, handler, httptest.NewRequest(http.MethodPost, "/barrels/deliver/7", strings.NewReader(`[1]`)))
	resp := serve(store, handler, httptest.NewRequest(http.MethodPost, "/barrels/deliver/7", strings.NewReader(`[2]`)))
	require.Equal(t, http.StatusConflict, resp.Code)
}

func TestIdempotencyHeaderOverridesOrderID(t *testing.T) {
	store := newFakeStore()
	handler := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	req := httptest.NewRequest(http.MethodPost, "/barrels/deliver/7", strings.NewReader(`[]`))
	req.Header.Set(idempotencyHeader, "retry-abc")
	serve(store, handler, req)
	require.Contains(t, store.data, "fake:POST|/barrels/deliver/{order_id}:retry-abc")
}

func TestIdempotencyRequiresHeaderOnReset(t *testing.T) {
	store := newFakeStore()
	called := false
	handler := func(w http.ResponseWriter, r *http.Request) { called = true }

	resp := serve(store, handler, httptest.NewRequest(http.MethodPost, "/admin/reset", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.False(t, called)
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	serve(store, handler, httptest.NewRequest(http.MethodPost, "/barrels/deliver/9", strings.NewReader(`[]`)))
	serve(store, handler, httptest.NewRequest(http.MethodPost, "/barrels/deliver/9", strings.NewReader(`[]`)))
	require.Equal(t, 2, calls)
	require.Empty(t, store.data)
}

func TestIdempotencyIgnoresOtherRoutes(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := func(w http.ResponseWriter, r *http.Request) { calls++ }

	serve(store, handler, httptest.NewRequest(http.MethodPost, "/barrels/plan", strings.NewReader(`[]`)))
	serve(store, handler, httptest.NewRequest(http.MethodPost, "/barrels/plan", strings.NewReader(`[]`)))
	require.Equal(t, 2, calls)
	require.Empty(t, store.data)
}
