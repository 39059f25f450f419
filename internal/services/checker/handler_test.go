package checker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NordCoder/uptimekv/internal/domain/uptime"
	"github.com/NordCoder/uptimekv/internal/repository/history"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChecker struct {
	calls int
	ctx   context.Context
	req   CheckRequest
	res   CheckResult
	err   error
}

func (s *stubChecker) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	s.calls++
	s.ctx = ctx
	s.req = req
	return s.res, s.err
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func assertCommonHeaders(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestHandler_Check(t *testing.T) {
	f := newFixture(history.ModeLastWriteWins, uptime.ProbeRecord{Timestamp: 1000, Up: true, LatencyMs: 120})
	h := NewHandler(zap.NewNop(), f.usecase(f.repo, nil, "")).Routes()

	rec := serve(h, http.MethodGet, "/check?host=example.com&url=https://example.com&asset=/a.png")

	require.Equal(t, http.StatusOK, rec.Code)
	assertCommonHeaders(t, rec)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"host":"example.com","up":true,"ms":120,
		"stats":{"checks":1,"lifeUptime":100,"avgLatency":120,"monthUptime":100,"lastTs":1000,"lastMs":120,"lastUp":true}
	}`, rec.Body.String())
	assert.Equal(t, []string{"https://example.com/a.png"}, f.prober.targets)
}

func TestHandler_RootPath(t *testing.T) {
	stub := &stubChecker{res: CheckResult{Host: "h"}}
	rec := serve(NewHandler(zap.NewNop(), stub), http.MethodGet, "/?host=h&url=https://h")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, CheckRequest{Host: "h", URL: "https://h"}, stub.req)
}

func TestHandler_MissingParamsLeavesStoreUntouched(t *testing.T) {
	f := newFixture(history.ModeLastWriteWins)
	spy := &spyRepo{HistoryRepo: f.repo}
	h := NewHandler(zap.NewNop(), f.usecase(spy, nil, "")).Routes()

	for _, target := range []string{"/check?host=example.com", "/check?url=https://x", "/"} {
		rec := serve(h, http.MethodGet, target)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assertCommonHeaders(t, rec)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"])
	}
	assert.Zero(t, spy.loads)
	assert.Zero(t, spy.saves)
	assert.Empty(t, f.prober.targets)
}

func TestHandler_Options(t *testing.T) {
	stub := &stubChecker{}
	h := NewHandler(zap.NewNop(), stub)

	for _, path := range []string{"/", "/check", "/anything"} {
		rec := serve(h, http.MethodOptions, path)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assertCommonHeaders(t, rec)
	}
	assert.Zero(t, stub.calls)
}

func TestHandler_NotFound(t *testing.T) {
	stub := &stubChecker{}
	rec := serve(NewHandler(zap.NewNop(), stub), http.MethodGet, "/status?host=h&url=u")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
	assertCommonHeaders(t, rec)
	assert.Zero(t, stub.calls)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	stub := &stubChecker{}
	rec := serve(NewHandler(zap.NewNop(), stub), http.MethodPost, "/check?host=h&url=u")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Allow"))
	assertCommonHeaders(t, rec)
	assert.Zero(t, stub.calls)
}

func TestHandler_StoreFailure(t *testing.T) {
	stub := &stubChecker{err: errors.New("store down")}
	rec := serve(NewHandler(zap.NewNop(), stub), http.MethodGet, "/check?host=h&url=u")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	assertCommonHeaders(t, rec)
}

func TestHandler_ClientDisconnectDoesNotCancelCheck(t *testing.T) {
	stub := &stubChecker{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/check?host=h&url=u", nil).WithContext(ctx)
	NewHandler(zap.NewNop(), stub).ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, stub.calls)
	assert.NoError(t, stub.ctx.Err())
}
