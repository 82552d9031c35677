package devtools

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/devstack/internal/domain"
	"github.com/hamed0406/devstack/internal/probe"
)

func freeTarget(t *testing.T, name string) domain.ServiceTarget {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	p, _ := strconv.Atoi(port)
	return domain.ServiceTarget{Name: name, Host: "127.0.0.1", Port: p}
}

func TestHandler_Modes(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)

	rr := httptest.NewRecorder()
	Handler("A", "/health", ModeHealthy, stop).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("healthy: want 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	Handler("B", "/health", ModeFailing, stop).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("failing: want 500, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	Handler("A", "/health", ModeHealthy, stop).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/other", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("other path: want 404, got %d", rr.Code)
	}
}

func TestFleet_ProbedByProber(t *testing.T) {
	targets := []domain.ServiceTarget{
		freeTarget(t, "A"),
		freeTarget(t, "B"),
		freeTarget(t, "C"),
	}
	fleet := NewFleet(zap.NewNop(), "/health", targets, map[string]Mode{
		"B": ModeFailing,
		"C": ModeHanging,
	})
	if err := fleet.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		if err := fleet.Shutdown(context.Background()); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	}()

	rep := probe.NewProber(probe.WithTimeout(300*time.Millisecond)).Run(context.Background(), targets)

	want := []probe.Reason{probe.ReasonOK, probe.ReasonBadStatus, probe.ReasonTimeout}
	for i, r := range rep.Results {
		if r.Reason != want[i] {
			t.Fatalf("%s: want %s, got %s (%v)", r.Target.Name, want[i], r.Reason, r.Err)
		}
	}
	if rep.Tally.String() != "1/3 healthy" {
		t.Fatalf("unexpected tally %s", rep.Tally)
	}
}

func TestFleet_StartFailsWhenPortTaken(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()
	_, port, _ := net.SplitHostPort(busy.Addr().String())
	p, _ := strconv.Atoi(port)

	free := freeTarget(t, "free")
	fleet := NewFleet(zap.NewNop(), "/health", []domain.ServiceTarget{
		free,
		{Name: "busy", Host: "127.0.0.1", Port: p},
	}, nil)

	if err := fleet.Start(); err == nil {
		t.Fatalf("want bind error")
	}

	// the free port must have been released again
	ln, err := net.Listen("tcp", free.Addr())
	if err != nil {
		t.Fatalf("port %s not released: %v", free.Addr(), err)
	}
	ln.Close()
}
