package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/hamed0406/devstack/internal/probe"
)

const nameWidth = 25

var (
	title  = color.New(color.FgBlue, color.Bold)
	muted  = color.New(color.FgHiBlack)
	plain  = color.New(color.FgWhite)
	good   = color.New(color.FgGreen)
	goodB  = color.New(color.FgGreen, color.Bold)
	bad    = color.New(color.FgRed)
	badB   = color.New(color.FgRed, color.Bold)
	warn   = color.New(color.FgYellow)
	warnB  = color.New(color.FgYellow, color.Bold)
	accent = color.New(color.FgCyan)
)

// Console prints human-readable probe output. Line is safe for concurrent
// use, so a Console can be handed to the prober as its observer.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Rule prints a separator of width n.
func (c *Console) Rule(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	muted.Fprintln(c.w, strings.Repeat("─", n))
}

func (c *Console) Header() {
	c.mu.Lock()
	title.Fprint(c.w, "\n🔍 Checking Service Health\n\n")
	c.mu.Unlock()
	c.Rule(50)
}

// Observe implements probe.Observer.
func (c *Console) Observe(r probe.Result) { c.Line(r) }

func (c *Console) Line(r probe.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := fmt.Sprintf("%-*s", nameWidth, r.Target.Name)
	if r.Healthy {
		fmt.Fprintf(c.w, "%s %s %s\n", good.Sprint("✅"), plain.Sprint(name), muted.Sprint(r.Target.BaseURL()))
		return
	}
	fmt.Fprintf(c.w, "%s %s %s %s\n",
		bad.Sprint("❌"), plain.Sprint(name), muted.Sprint(r.Target.BaseURL()),
		warn.Sprintf("(%s)", Describe(r)))
}

// Summary prints the final tally line.
func (c *Console) Summary(t probe.Tally) {
	c.mu.Lock()
	defer c.mu.Unlock()

	muted.Fprintln(c.w, "\n"+strings.Repeat("─", 50))
	switch t.State() {
	case probe.StateAllHealthy:
		goodB.Fprintf(c.w, "\n✅ All %d services are running!\n\n", t.Total)
	case probe.StatePartial:
		warnB.Fprintf(c.w, "\n⚠️  %d/%d services are running\n\n", t.Healthy, t.Total)
	default:
		badB.Fprint(c.w, "\n❌ No services are running\n\n")
		muted.Fprint(c.w, "💡 Run \"devstack start\" to start all services\n\n")
	}
}

// Report prints every result in target order followed by the summary.
func (c *Console) Report(rep probe.Report) {
	for _, r := range rep.Results {
		c.Line(r)
	}
	c.Summary(rep.Tally)
}

// Describe returns the short reason shown for an unhealthy result.
func Describe(r probe.Result) string {
	switch r.Reason {
	case probe.ReasonOK:
		return "OK"
	case probe.ReasonBadStatus:
		return fmt.Sprintf("Status: %d", r.StatusCode)
	case probe.ReasonTimeout:
		return "Timeout"
	default:
		return "Not running"
	}
}

// Title prints a bold heading surrounded by blank lines.
func (c *Console) Title(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	title.Fprintf(c.w, "\n%s\n\n", msg)
}

func (c *Console) Note(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	muted.Fprintln(c.w, msg)
}

// Step prints a cyan marker followed by a plain message.
func (c *Console) Step(marker, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", accent.Sprint(marker), plain.Sprint(msg))
}

// Fail prints a red marker followed by a plain message.
func (c *Console) Fail(marker, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", bad.Sprint(marker), plain.Sprint(msg))
}

func (c *Console) Warn(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	warn.Fprintln(c.w, msg)
}

func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	goodB.Fprintln(c.w, msg)
}

// Error prints a red line, used for command-level failures.
func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	badB.Fprintln(c.w, msg)
}

// Info prints a plain line.
func (c *Console) Info(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	plain.Fprintln(c.w, msg)
}
