// Package stopper terminates the local backend processes by name.
package stopper

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/devstack/internal/report"
	"github.com/hamed0406/devstack/internal/shell"
)

type Outcome int

const (
	OutcomeStopped Outcome = iota
	OutcomeNoneRunning
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStopped:
		return "stopped"
	case OutcomeNoneRunning:
		return "none_running"
	default:
		return "failed"
	}
}

type Stopper struct {
	Runner  shell.Runner
	GOOS    string
	Image   string // taskkill /IM
	Pattern string // pkill -f
	Logger  *zap.Logger
}

func (s *Stopper) windows() bool { return s.GOOS == "windows" }

// Command returns the kill command for the platform.
func (s *Stopper) Command() (string, []string) {
	if s.windows() {
		return "taskkill", []string{"/F", "/IM", s.Image}
	}
	return "pkill", []string{"-f", s.Pattern}
}

// Stop runs the kill command once. Finding nothing to kill is not an error.
func (s *Stopper) Stop(ctx context.Context) (Outcome, error) {
	name, args := s.Command()
	out, err := s.Runner.Run(ctx, name, args...)
	outcome := classify(s.windows(), out, err)

	s.logger().Info("stop_run",
		zap.String("cmd", name),
		zap.Strings("args", args),
		zap.String("outcome", outcome.String()),
		zap.Error(err),
	)
	if outcome == OutcomeFailed {
		return outcome, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return outcome, nil
}

// Run stops the services and prints the result to c.
func (s *Stopper) Run(ctx context.Context, c *report.Console) error {
	c.Title("🛑 Stopping Backend Services")
	c.Rule(70)

	if !s.windows() {
		c.Warn("\n⚠️  Non-Windows platform detected")
		c.Note("Using pkill command...\n")
	}
	c.Step("🔍", "Finding and stopping processes...\n")

	outcome, err := s.Stop(ctx)
	switch outcome {
	case OutcomeStopped:
		c.Success("✅ All services stopped successfully")
		if s.windows() {
			c.Note("\n💡 All terminal windows have been closed")
		}
	case OutcomeNoneRunning:
		c.Warn("⚠️  No services were running")
	default:
		c.Error(fmt.Sprintf("❌ Error stopping services: %v", err))
	}

	c.Rule(70)
	c.Title("📋 All backend microservices have been terminated")
	c.Warn("💡 Tip: Run \"devstack start\" to start services again\n")
	return err
}

func (s *Stopper) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// classify maps the kill command result onto an outcome. taskkill exits 128
// and pkill exits 1 when no process matched. A command that never ran is a
// failure whatever its error text says.
func classify(windows bool, out []byte, err error) Outcome {
	if err == nil {
		return OutcomeStopped
	}
	code := shell.ExitCode(err)
	if code < 0 {
		return OutcomeFailed
	}
	if (windows && code == 128) || (!windows && code == 1) {
		return OutcomeNoneRunning
	}
	msg := strings.ToLower(string(out))
	if strings.Contains(msg, "not found") || strings.Contains(msg, "not running") {
		return OutcomeNoneRunning
	}
	return OutcomeFailed
}
