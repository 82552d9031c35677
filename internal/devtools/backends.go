// Package devtools runs stand-in services that answer the health endpoint,
// for trying the checker without the real stack.
package devtools

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/devstack/internal/domain"
)

// Mode selects how a fake service answers its health endpoint.
type Mode int

const (
	ModeHealthy Mode = iota
	ModeFailing      // 500
	ModeHanging      // never answers
)

// Backend is one fake service bound to its target's port.
type Backend struct {
	Target domain.ServiceTarget
	Mode   Mode

	srv *http.Server
	ln  net.Listener
}

// Handler serves path according to mode. Hanging requests are held until
// the client goes away or stop is closed.
func Handler(name, path string, mode Mode, stop <-chan struct{}) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		switch mode {
		case ModeFailing:
			http.Error(w, fmt.Sprintf("%s unhealthy", name), http.StatusInternalServerError)
		case ModeHanging:
			select {
			case <-r.Context().Done():
			case <-stop:
			}
		default:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"status":"ok","service":%q}`, name)
		}
	})
	return r
}

// Fleet is a set of fake services started and stopped together.
type Fleet struct {
	Logger   *zap.Logger
	Path     string
	Backends []*Backend

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewFleet(log *zap.Logger, path string, targets []domain.ServiceTarget, modes map[string]Mode) *Fleet {
	f := &Fleet{Logger: log, Path: path, stop: make(chan struct{})}
	for _, t := range targets {
		f.Backends = append(f.Backends, &Backend{Target: t, Mode: modes[t.Name]})
	}
	return f
}

// Start binds every backend. If any bind fails, the listeners already open
// are closed and the combined error is returned.
func (f *Fleet) Start() error {
	var errs error
	for _, b := range f.Backends {
		ln, err := net.Listen("tcp", b.Target.Addr())
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("listen %s (%s): %w", b.Target.Name, b.Target.Addr(), err))
			continue
		}
		b.ln = ln
		b.srv = &http.Server{Handler: Handler(b.Target.Name, f.Path, b.Mode, f.stop)}
	}
	if errs != nil {
		for _, b := range f.Backends {
			if b.ln != nil {
				errs = multierr.Append(errs, b.ln.Close())
			}
			b.ln, b.srv = nil, nil
		}
		return errs
	}

	for _, b := range f.Backends {
		b := b
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			f.Logger.Info("mock_listen", zap.String("service", b.Target.Name), zap.String("addr", b.ln.Addr().String()))
			if err := b.srv.Serve(b.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				f.Logger.Warn("mock_serve_error", zap.String("service", b.Target.Name), zap.Error(err))
			}
		}()
	}
	return nil
}

// Shutdown stops every backend and releases hanging requests.
func (f *Fleet) Shutdown(ctx context.Context) error {
	f.stopOnce.Do(func() { close(f.stop) })

	var errs error
	for _, b := range f.Backends {
		if b.srv != nil {
			errs = multierr.Append(errs, b.srv.Shutdown(ctx))
		}
	}
	f.wg.Wait()
	return errs
}
