package checker

import (
	"context"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/uptime"
	"go.uber.org/zap"
)

const (
	DefaultProbeTimeout = 10 * time.Second
	DefaultAsset        = "/favicon.ico"
)

// BuildTarget joins a site base URL and an asset path. Trailing slashes of
// base are dropped and asset gets a leading slash when it has none.
func BuildTarget(base, asset string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	asset = strings.TrimSpace(asset)
	if asset == "" {
		asset = DefaultAsset
	}
	if !strings.HasPrefix(asset, "/") {
		asset = "/" + asset
	}
	return base + asset
}

var _ uptime.Prober = (*HTTPProber)(nil)

// HTTPProber issues a single GET per probe. Any response, whatever its
// status, counts as up; only failing to get a response counts as down.
type HTTPProber struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	log       *zap.Logger
	now       func() time.Time
}

func NewHTTPProber(client *http.Client, timeout time.Duration, userAgent string, log *zap.Logger) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPProber{client: client, timeout: timeout, userAgent: userAgent, log: log, now: time.Now}
}

func (p *HTTPProber) Probe(ctx context.Context, target string) uptime.ProbeRecord {
	start := p.now()
	up, settled := p.do(ctx, target)
	elapsed := settled.Sub(start)

	ms := int64(math.Round(float64(elapsed) / float64(time.Millisecond)))
	if ms < 0 {
		ms = 0
	}

	probesTotal.Inc()
	probeLatency.Observe(elapsed.Seconds())
	if up {
		probeUp.Inc()
	} else {
		probeDown.Inc()
	}

	return uptime.ProbeRecord{Timestamp: start.UnixMilli(), Up: up, LatencyMs: ms}
}

// do reports whether a response arrived and when the attempt settled.
func (p *HTTPProber) do(ctx context.Context, target string) (bool, time.Time) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		p.log.Debug("probe request", zap.String("target", target), zap.Error(err))
		return false, p.now()
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	settled := p.now()
	if err != nil {
		p.log.Debug("probe failed", zap.String("target", target), zap.Error(err))
		return false, settled
	}
	// The body is only drained so the connection can be reused.
	_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
	_ = resp.Body.Close()
	return true, settled
}
