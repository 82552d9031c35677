package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/devstack/internal/domain"
	apimw "github.com/hamed0406/devstack/internal/httpapi/middleware"
	"github.com/hamed0406/devstack/internal/probe"
)

// HealthRunner probes a set of targets; *probe.Prober implements it.
type HealthRunner interface {
	Run(ctx context.Context, targets []domain.ServiceTarget) probe.Report
}

type Server struct {
	Logger  *zap.Logger
	Health  HealthRunner
	Targets []domain.ServiceTarget

	// StatusPerMin limits /api/status per client; 0 disables it.
	StatusPerMin int
	StatusBurst  int
}

func NewServer(l *zap.Logger, h HealthRunner, targets []domain.ServiceTarget) *Server {
	return &Server{Logger: l, Health: h, Targets: targets, StatusPerMin: 120, StatusBurst: 10}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/targets", s.handleListTargets)
	r.With(apimw.RateLimit(s.StatusPerMin, s.StatusBurst)).Get("/api/status", s.handleStatus)

	return r
}

type resultDTO struct {
	Name       string  `json:"name"`
	Host       string  `json:"host"`
	Port       int     `json:"port"`
	Healthy    bool    `json:"healthy"`
	Reason     string  `json:"reason"`
	StatusCode int     `json:"status_code,omitempty"`
	LatencyMS  float64 `json:"latency_ms"`
	Error      string  `json:"error,omitempty"`
}

type statusDTO struct {
	Results []resultDTO `json:"results"`
	Healthy int         `json:"healthy"`
	Total   int         `json:"total"`
	State   string      `json:"state"`
	Summary string      `json:"summary"`
}

func toStatus(rep probe.Report) statusDTO {
	out := statusDTO{
		Results: make([]resultDTO, 0, len(rep.Results)),
		Healthy: rep.Tally.Healthy,
		Total:   rep.Tally.Total,
		State:   rep.Tally.State().String(),
		Summary: rep.Tally.String(),
	}
	for _, r := range rep.Results {
		d := resultDTO{
			Name:       r.Target.Name,
			Host:       r.Target.Host,
			Port:       r.Target.Port,
			Healthy:    r.Healthy,
			Reason:     string(r.Reason),
			StatusCode: r.StatusCode,
			LatencyMS:  float64(r.Latency.Microseconds()) / 1000,
		}
		if r.Err != nil {
			d.Error = r.Err.Error()
		}
		out.Results = append(out.Results, d)
	}
	return out
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rep := s.Health.Run(r.Context(), s.Targets)

	s.Logger.Info("status_checked",
		zap.Int("healthy", rep.Tally.Healthy),
		zap.Int("total", rep.Tally.Total),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toStatus(rep))
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Targets)
}
