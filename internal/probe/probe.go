package probe

import (
	"time"

	"github.com/hamed0406/devstack/internal/domain"
)

// DefaultTimeout bounds a single probe, measured from request initiation.
const DefaultTimeout = 3 * time.Second

// DefaultPath is the health endpoint requested on every target.
const DefaultPath = "/health"

// Reason classifies the outcome of a single probe.
type Reason string

const (
	ReasonOK              Reason = "ok"
	ReasonBadStatus       Reason = "bad_status"
	ReasonConnectionError Reason = "connection_error"
	ReasonTimeout         Reason = "timeout"
)

// Result is the outcome of probing one target.
//
// StatusCode is set for OK and BadStatus; it is 0 for transport failures.
// Err keeps the transport error for logs and is nil otherwise.
type Result struct {
	Target     domain.ServiceTarget
	Healthy    bool
	Reason     Reason
	StatusCode int
	Latency    time.Duration
	Err        error
}

// Observer is notified once per settled probe, in settle order.
// Calls may arrive from several goroutines at once.
type Observer interface {
	Observe(Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Result)

func (f ObserverFunc) Observe(r Result) { f(r) }

// Report is the joined outcome of one run: results aligned by index with
// the input targets, plus their tally.
type Report struct {
	Results []Result
	Tally   Tally
}
