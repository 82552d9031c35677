package probe

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/devstack/internal/domain"
)

// Prober fans a health probe out to every target and joins the results.
type Prober struct {
	checker  *HTTPChecker
	logger   *zap.Logger
	observer Observer
}

type Option func(*Prober)

// WithTimeout sets the per-probe timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.checker.Timeout = d
			p.checker.Client.Timeout = d
		}
	}
}

func WithPath(path string) Option {
	return func(p *Prober) {
		if path != "" {
			p.checker.Path = path
		}
	}
}

// WithClient replaces the HTTP client. The probe deadline still applies.
func WithClient(c *http.Client) Option {
	return func(p *Prober) {
		if c != nil {
			p.checker.Client = c
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Prober) { p.observer = o }
}

func NewProber(opts ...Option) *Prober {
	p := &Prober{
		checker: NewHTTPChecker(DefaultTimeout),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Timeout reports the effective per-probe timeout.
func (p *Prober) Timeout() time.Duration { return p.checker.Timeout }

// Probe checks a single target.
func (p *Prober) Probe(ctx context.Context, target domain.ServiceTarget) Result {
	return p.checker.Check(ctx, target)
}

// Run starts one probe per target before waiting on any of them, then
// blocks until every probe has settled. len(Report.Results) == len(targets)
// and Results[i] belongs to targets[i].
func (p *Prober) Run(ctx context.Context, targets []domain.ServiceTarget) Report {
	results := make([]Result, len(targets))

	var wg sync.WaitGroup
	wg.Add(len(targets))
	for i, tgt := range targets {
		i, tgt := i, tgt
		go func() {
			defer wg.Done()

			res := p.checker.Check(ctx, tgt)
			results[i] = res

			p.logger.Debug("probe_result",
				zap.String("name", tgt.Name),
				zap.String("addr", tgt.Addr()),
				zap.Bool("healthy", res.Healthy),
				zap.String("reason", string(res.Reason)),
				zap.Int("status", res.StatusCode),
				zap.Duration("latency", res.Latency),
				zap.Error(res.Err),
			)
			if p.observer != nil {
				p.observer.Observe(res)
			}
		}()
	}
	wg.Wait()

	tally := NewTally(results)
	p.logger.Info("probe_run_done",
		zap.Int("healthy", tally.Healthy),
		zap.Int("total", tally.Total),
		zap.String("state", tally.State().String()),
	)
	return Report{Results: results, Tally: tally}
}
