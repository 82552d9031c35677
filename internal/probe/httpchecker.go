package probe

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/devstack/internal/domain"
)

// HTTPChecker issues a single GET against a target's health path.
type HTTPChecker struct {
	Client  *http.Client
	Timeout time.Duration
	Path    string
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPChecker{
		Client: &http.Client{
			Timeout: timeout,
			// a redirect is a non-200 answer from the service itself
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Timeout: timeout,
		Path:    DefaultPath,
	}
}

// Check probes target once. It never returns an error: every failure mode is
// folded into the Result.
func (h *HTTPChecker) Check(ctx context.Context, target domain.ServiceTarget) Result {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.BaseURL()+h.path(), nil)
	if err != nil {
		return Result{Target: target, Reason: ReasonConnectionError, Err: err}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Result{Target: target, Reason: classifyErr(ctx, err), Latency: latency, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode == http.StatusOK {
		return Result{Target: target, Healthy: true, Reason: ReasonOK, StatusCode: resp.StatusCode, Latency: latency}
	}
	return Result{Target: target, Reason: ReasonBadStatus, StatusCode: resp.StatusCode, Latency: latency}
}

func (h *HTTPChecker) path() string {
	if h.Path == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(h.Path, "/") {
		return "/" + h.Path
	}
	return h.Path
}

// classifyErr separates "no answer in time" from "could not connect".
func classifyErr(ctx context.Context, err error) Reason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}
	return ReasonConnectionError
}
