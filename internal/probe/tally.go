package probe

import "fmt"

// State is the aggregate outcome of a run.
type State int

const (
	StateNoneHealthy State = iota
	StatePartial
	StateAllHealthy
)

func (s State) String() string {
	switch s {
	case StateAllHealthy:
		return "all_healthy"
	case StatePartial:
		return "partial"
	default:
		return "none_healthy"
	}
}

// Tally counts healthy results against the total.
type Tally struct {
	Healthy int
	Total   int
}

func NewTally(results []Result) Tally {
	t := Tally{Total: len(results)}
	for _, r := range results {
		if r.Healthy {
			t.Healthy++
		}
	}
	return t
}

// State reports all healthy when every target passed, including the empty
// run, partial when some did, and none healthy otherwise.
func (t Tally) State() State {
	switch {
	case t.Healthy == t.Total:
		return StateAllHealthy
	case t.Healthy > 0:
		return StatePartial
	default:
		return StateNoneHealthy
	}
}

func (t Tally) String() string {
	return fmt.Sprintf("%d/%d healthy", t.Healthy, t.Total)
}
