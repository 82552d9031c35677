package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/hamed0406/devstack/internal/domain"
	"github.com/hamed0406/devstack/internal/probe"
)

func init() {
	color.NoColor = true
}

func target(name string, port int) domain.ServiceTarget {
	return domain.ServiceTarget{Name: name, Host: "localhost", Port: port}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Status: 500", Describe(probe.Result{Reason: probe.ReasonBadStatus, StatusCode: 500}))
	assert.Equal(t, "Timeout", Describe(probe.Result{Reason: probe.ReasonTimeout}))
	assert.Equal(t, "Not running", Describe(probe.Result{Reason: probe.ReasonConnectionError, Err: errors.New("refused")}))
	assert.Equal(t, "OK", Describe(probe.Result{Reason: probe.ReasonOK, Healthy: true}))
}

func TestConsole_Lines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Line(probe.Result{Target: target("Auth Service", 4001), Healthy: true, Reason: probe.ReasonOK, StatusCode: 200})
	c.Line(probe.Result{Target: target("Points Service", 4005), Reason: probe.ReasonBadStatus, StatusCode: 503})
	c.Line(probe.Result{Target: target("Social Service", 4007), Reason: probe.ReasonConnectionError})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 3) {
		assert.Equal(t, "✅ Auth Service              http://localhost:4001", lines[0])
		assert.Equal(t, "❌ Points Service            http://localhost:4005 (Status: 503)", lines[1])
		assert.Equal(t, "❌ Social Service            http://localhost:4007 (Not running)", lines[2])
	}
}

func TestConsole_Summary(t *testing.T) {
	cases := []struct {
		tally probe.Tally
		want  string
	}{
		{probe.Tally{Healthy: 7, Total: 7}, "All 7 services are running!"},
		{probe.Tally{Healthy: 2, Total: 4}, "2/4 services are running"},
		{probe.Tally{Healthy: 0, Total: 3}, "No services are running"},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		NewConsole(&buf).Summary(c.tally)
		assert.Contains(t, buf.String(), c.want)
	}
}

func TestConsole_NoneRunningPrintsHint(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Summary(probe.Tally{Total: 2})
	assert.Contains(t, buf.String(), `Run "devstack start"`)
}

func TestConsole_ReportKeepsTargetOrder(t *testing.T) {
	var buf bytes.Buffer
	rep := probe.Report{
		Results: []probe.Result{
			{Target: target("A", 1), Healthy: true, Reason: probe.ReasonOK},
			{Target: target("B", 2), Reason: probe.ReasonTimeout},
		},
		Tally: probe.Tally{Healthy: 1, Total: 2},
	}
	NewConsole(&buf).Report(rep)

	out := buf.String()
	assert.Less(t, strings.Index(out, "A "), strings.Index(out, "B "))
	assert.Contains(t, out, "(Timeout)")
	assert.Contains(t, out, "1/2 services are running")
}

func TestConsole_StepAndFail(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Step("✓ [1/2]", "Starting A...")
	c.Fail("❌ [2/2]", "B directory not found")
	assert.Equal(t, "✓ [1/2] Starting A...\n❌ [2/2] B directory not found\n", buf.String())
}
