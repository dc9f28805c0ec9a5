package timer

import (
	"fmt"
	"strings"
)

// Policy selects which duration a finalized entry records.
type Policy uint8

const (
	// PolicyPerRun records the time since the category was last started.
	PolicyPerRun Policy = iota
	// PolicyCumulative records the category's accumulated total.
	PolicyCumulative
)

func (p Policy) String() string {
	if p == PolicyCumulative {
		return "cumulative"
	}
	return "per_run"
}

// ParsePolicy accepts per_run (also per-run, run) and cumulative (also total).
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "per_run", "per-run", "run":
		return PolicyPerRun, nil
	case "cumulative", "total":
		return PolicyCumulative, nil
	default:
		return PolicyPerRun, fmt.Errorf("invalid duration policy %q (expected per_run|cumulative)", value)
	}
}
