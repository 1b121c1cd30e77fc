package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gocredit/internal/usecase/mocks"
)

func newIdempotent(t *testing.T) (*IdempotencyMiddleware, *mocks.MemoryIdempotencyStore) {
	t.Helper()
	store := mocks.NewMemoryIdempotencyStore()
	return NewIdempotencyMiddleware(store, time.Minute, zerolog.Nop()), store
}

func TestIdempotencyMiddleware_ReplaysSuccessfulResponse(t *testing.T) {
	mw, _ := newIdempotent(t)

	calls := 0
	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"01HX","decision":"Approve"}`))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", bytes.NewBufferString(`{}`))
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":"01HX","decision":"Approve"}`, rr.Body.String())
		if i == 1 {
			assert.Equal(t, "true", rr.Header().Get(IdempotencyReplayHeader))
		}
	}

	assert.Equal(t, 1, calls)
}

func TestIdempotencyMiddleware_ReleasesFailedResponses(t *testing.T) {
	mw, store := newIdempotent(t)

	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-fail")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	_, ok := store.Get("/api/v1/decisions:key-fail")
	assert.False(t, ok, "failed responses must not be cached")
}

func TestIdempotencyMiddleware_ConflictWhileInFlight(t *testing.T) {
	mw, store := newIdempotent(t)
	_, _, err := store.CheckAndSet(context.Background(), "/api/v1/decisions:busy", nil, time.Minute)
	require.NoError(t, err)

	called := false
	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "busy")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestIdempotencyMiddleware_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl)
	store.EXPECT().
		CheckAndSet(gomock.Any(), "/api/v1/decisions:key-err", nil, time.Minute).
		Return(false, nil, context.DeadlineExceeded)

	mw := NewIdempotencyMiddleware(store, time.Minute, zerolog.Nop())

	called := false
	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "key-err")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	assert.False(t, called, "handler should not be called when store errors")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestIdempotencyMiddleware_SkipsWithoutKeyOrOnGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIdempotencyStore(ctrl) // no calls expected

	mw := NewIdempotencyMiddleware(store, time.Minute, zerolog.Nop())
	calls := 0
	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/decisions", nil))

	get := httptest.NewRequest(http.MethodGet, "/health", nil)
	get.Header.Set(IdempotencyKeyHeader, "ignored")
	h.ServeHTTP(httptest.NewRecorder(), get)

	assert.Equal(t, 2, calls)
}
