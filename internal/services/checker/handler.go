package checker

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/NordCoder/uptimekv/internal/obs"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type Checker interface {
	Check(ctx context.Context, req CheckRequest) (CheckResult, error)
}

// Handler serves GET / and GET /check with host, url and optional asset
// query parameters.
type Handler struct {
	log *zap.Logger
	uc  Checker
}

func NewHandler(log *zap.Logger, uc Checker) *Handler {
	return &Handler{log: log, uc: uc}
}

// Routes returns the handler wrapped with access logging and tracing.
func (h *Handler) Routes() http.Handler {
	return obs.HTTPHandler(obs.AccessLog(h.log)(h), "uptime.check")
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCommonHeaders(w.Header())

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		httpRequests.WithLabelValues(strconv.Itoa(http.StatusNoContent)).Inc()
		return
	}
	if r.URL.Path != "/" && r.URL.Path != "/check" {
		h.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, OPTIONS")
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	req := CheckRequest{Host: q.Get("host"), URL: q.Get("url"), Asset: q.Get("asset")}

	// A client hanging up must not abort a probe whose result is persisted.
	res, err := h.uc.Check(context.WithoutCancel(r.Context()), req)
	switch {
	case errors.Is(err, ErrInvalidRequest):
		h.writeError(w, http.StatusBadRequest, "missing host or url")
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, "internal error")
	default:
		h.writeJSON(w, http.StatusOK, res)
	}
}

func setCommonHeaders(hdr http.Header) {
	hdr.Set("Access-Control-Allow-Origin", "*")
	hdr.Set("Access-Control-Allow-Methods", "GET,OPTIONS")
	hdr.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	hdr.Set("Cache-Control", "no-store")
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, errorBody{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encode response", zap.Error(err))
		code = http.StatusInternalServerError
		b = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
	httpRequests.WithLabelValues(strconv.Itoa(code)).Inc()
}
