// Package launcher opens each backend service in its own terminal window and
// checks the stack once the services have had time to boot.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/devstack/internal/domain"
	"github.com/hamed0406/devstack/internal/probe"
	"github.com/hamed0406/devstack/internal/report"
	"github.com/hamed0406/devstack/internal/shell"
)

var (
	ErrBackendDirMissing   = errors.New("backend directory not found")
	ErrUnsupportedPlatform = errors.New("launcher only supports windows")
)

// HealthRunner probes a set of targets; *probe.Prober implements it.
type HealthRunner interface {
	Run(ctx context.Context, targets []domain.ServiceTarget) probe.Report
}

type Launcher struct {
	BackendDir string
	Services   []domain.Service
	Host       string
	GOOS       string
	InitWait   time.Duration

	Runner  shell.Runner
	Health  HealthRunner
	Console *report.Console
	Logger  *zap.Logger
}

// Command builds the command that opens a titled window running npm start in
// the service directory.
func Command(path string, s domain.Service) (string, []string) {
	banner := strings.Repeat("=", 42)
	inner := strings.Join([]string{
		"cd /d " + path,
		"echo.",
		"echo " + banner,
		"echo " + s.Label(),
		fmt.Sprintf("echo Port: %d", s.Port),
		"echo " + banner,
		"echo.",
		"npm start",
	}, " && ")
	return "cmd", []string{"/c", "start", s.WindowTitle(), "cmd", "/k", inner}
}

// Preflight checks the backend directory and the platform.
func (l *Launcher) Preflight() error {
	if st, err := os.Stat(l.BackendDir); err != nil || !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrBackendDirMissing, l.BackendDir)
	}
	if l.GOOS != "windows" {
		return fmt.Errorf("%w (got %s)", ErrUnsupportedPlatform, l.GOOS)
	}
	return nil
}

// Launch opens a window per service. Missing service directories are
// skipped; launch failures are collected and do not stop the loop.
func (l *Launcher) Launch(ctx context.Context) ([]domain.Service, error) {
	var (
		started []domain.Service
		errs    error
	)
	total := len(l.Services)
	for i, s := range l.Services {
		pos := fmt.Sprintf("[%d/%d]", i+1, total)
		path := filepath.Join(l.BackendDir, s.Dir)

		if st, err := os.Stat(path); err != nil || !st.IsDir() {
			l.Console.Fail("\n❌ "+pos, s.Name+" directory not found")
			l.Console.Note("    Expected: " + path)
			l.logger().Warn("launch_skip", zap.String("service", s.Name), zap.String("path", path))
			continue
		}

		l.Console.Step("\n✓ "+pos, "Starting "+s.Label()+"...")
		l.Console.Note("    Directory: " + s.Dir)
		l.Console.Note(fmt.Sprintf("    Port: %d", s.Port))

		name, args := Command(path, s)
		out, err := l.Runner.Run(ctx, name, args...)
		if err != nil {
			l.Console.Error(fmt.Sprintf("\n❌ Error starting %s: %v", s.Name, err))
			l.logger().Warn("launch_error",
				zap.String("service", s.Name),
				zap.ByteString("output", out),
				zap.Error(err),
			)
			errs = multierr.Append(errs, fmt.Errorf("start %s: %w", s.Name, err))
			continue
		}
		l.logger().Info("launch_service", zap.String("service", s.Name), zap.Int("port", s.Port))
		started = append(started, s)
	}
	return started, errs
}

// Run performs preflight, launches every service, waits InitWait and then
// prints a health report. A cancelled context skips the health check.
func (l *Launcher) Run(ctx context.Context) error {
	l.Console.Title("🚀 Starting Backend Services")
	l.Console.Note("Backend directory: " + l.BackendDir)
	l.Console.Rule(70)

	if err := l.Preflight(); err != nil {
		switch {
		case errors.Is(err, ErrBackendDirMissing):
			l.Console.Error("\n❌ Backend directory not found!")
			l.Console.Warn("Expected location: " + l.BackendDir)
		case errors.Is(err, ErrUnsupportedPlatform):
			l.Console.Error("\n❌ This command currently only supports Windows.")
			l.Console.Warn("For Linux/Mac, please use Docker or run services manually.")
		}
		return err
	}

	_, launchErr := l.Launch(ctx)

	l.Console.Success("\n\n✅ All services are starting in separate terminal windows!")
	l.Console.Rule(70)
	l.printServiceInfo()

	l.Console.Step("\n\n⏳", fmt.Sprintf("Waiting %s for services to initialize...\n", l.InitWait))
	select {
	case <-ctx.Done():
		return multierr.Append(launchErr, ctx.Err())
	case <-time.After(l.InitWait):
	}

	l.Console.Header()
	rep := l.Health.Run(ctx, domain.Targets(l.Host, l.Services))
	l.Console.Report(rep)

	l.Console.Rule(70)
	l.Console.Success("\n🎉 Setup Complete!\n")
	return launchErr
}

func (l *Launcher) printServiceInfo() {
	l.Console.Title("📋 Service Information:")
	for _, s := range l.Services {
		l.Console.Step(fmt.Sprintf("   %-30s", s.Label()), s.Target(l.Host).BaseURL())
	}
	l.Console.Warn("\n\n💡 Important Notes:\n")
	for _, n := range []string{
		"   • Each service runs in its own terminal window",
		"   • Window titles show service name and port",
		"   • Close individual windows to stop specific services",
		"   • Or run \"devstack stop\" to stop all services at once",
		"   • Run \"devstack check\" to check service health",
	} {
		l.Console.Note(n)
	}
}

func (l *Launcher) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}
