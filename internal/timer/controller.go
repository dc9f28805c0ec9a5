// Package timer implements the category stopwatch: at most one category runs
// at a time, and stopping a run either records a time entry or, for runs
// shorter than the minimum duration, discards it as an accidental press.
package timer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/charmbracelet/log"

	"github.com/faizmokh/floortime/internal/category"
	"github.com/faizmokh/floortime/internal/entrylog"
	"github.com/faizmokh/floortime/internal/prompt"
	"github.com/faizmokh/floortime/internal/store"
)

// DefaultMinimumDuration is the shortest run that is saved rather than discarded.
const DefaultMinimumDuration = 5 * time.Second

// Questions asked through the interactive collaborators.
const (
	LabelQuestion = "Please enter a label for this entry:"
	ResetQuestion = "Are you sure you want to reset all timers?"
)

// ErrUnknownCategory is returned when a press names a category that is not on the board.
var ErrUnknownCategory = errors.New("unknown category")

// Appender receives finalized entries.
type Appender interface {
	Append(ctx context.Context, entry entrylog.Entry) error
}

// Options tunes a Controller. Zero values select the defaults.
type Options struct {
	MinimumDuration time.Duration
	Policy          Policy
	Logger          *log.Logger
}

// Outcome describes what a press did.
type Outcome struct {
	// Stopped is the category that was running before the press, if any.
	Stopped string
	// Started is the category running after the press, if any.
	Started string
	// Entry is the entry recorded for Stopped, nil when nothing was saved.
	Entry *entrylog.Entry
	// Discarded is set when Stopped ran for less than the minimum duration.
	Discarded bool
}

// Controller owns the timer state. It is not safe for concurrent use; the
// board drives it from a single event loop.
type Controller struct {
	catalog *category.Catalog
	store   store.Store
	entries Appender
	logger  *log.Logger
	minimum time.Duration
	policy  Policy

	timers    map[string]float64
	latest    map[string]float64
	active    string
	lastPress time.Time
}

// New wires a Controller. Finalized entries are handed to entries.
func New(catalog *category.Catalog, s store.Store, entries Appender, opts Options) *Controller {
	if opts.MinimumDuration <= 0 {
		opts.MinimumDuration = DefaultMinimumDuration
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Controller{
		catalog: catalog,
		store:   s,
		entries: entries,
		logger:  opts.Logger,
		minimum: opts.MinimumDuration,
		policy:  opts.Policy,
		timers:  make(map[string]float64),
		latest:  make(map[string]float64),
	}
}

// Advance credits delta seconds to the running category, if any.
func (c *Controller) Advance(delta float64) {
	if c.active == "" || !(delta > 0) {
		return
	}
	c.timers[c.active] += delta
	c.latest[c.active] += delta
}

// WillSave reports whether a press at now would stop a run long enough to be recorded.
func (c *Controller) WillSave(now time.Time) bool {
	return c.active != "" && now.Sub(c.lastPress) >= c.minimum
}

// HandlePress starts, stops or switches timers for a press on name at now.
//
// If a category is running it is stopped first. A run of at least the
// minimum duration is recorded with a label asked from p (a cancelled prompt
// records an empty label); a shorter run is discarded and its accumulated
// value reset to zero. Pressing the running category leaves nothing running;
// pressing any other category starts it with a fresh run counter.
//
// The returned error reports storage failures only; the in-memory state is
// updated regardless.
func (c *Controller) HandlePress(ctx context.Context, name string, now time.Time, p prompt.Prompter) (Outcome, error) {
	if !c.catalog.Contains(name) {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}

	var (
		out  Outcome
		errs []error
	)

	if c.active != "" {
		stopped := c.active
		out.Stopped = stopped

		if now.Sub(c.lastPress) >= c.minimum {
			label, ok := p.Prompt(LabelQuestion, "")
			if !ok {
				label = ""
			}
			entry := entrylog.NewEntry(now, stopped, c.recorded(stopped), label)
			out.Entry = &entry
			if err := c.entries.Append(ctx, entry); err != nil {
				errs = append(errs, err)
			}
		} else {
			c.logger.Debug("discarding short run", "category", stopped, "elapsed", now.Sub(c.lastPress))
			c.timers[stopped] = 0
			c.latest[stopped] = 0
			out.Discarded = true
		}
	}

	if name == c.active {
		c.active = ""
	} else {
		c.active = name
		c.latest[name] = 0
		out.Started = name
	}
	c.lastPress = now

	if err := c.Save(ctx, now); err != nil {
		errs = append(errs, err)
	}
	return out, errors.Join(errs...)
}

func (c *Controller) recorded(name string) float64 {
	if c.policy == PolicyCumulative {
		return c.timers[name]
	}
	return c.latest[name]
}

// ResetAll clears every timer after confirmation. The entry log is untouched.
func (c *Controller) ResetAll(ctx context.Context, confirm prompt.Confirmer, now time.Time) (bool, error) {
	if !confirm.Confirm(ResetQuestion) {
		return false, nil
	}
	clear(c.timers)
	clear(c.latest)
	c.active = ""
	c.logger.Info("all timers reset")
	return true, c.Save(ctx, now)
}

// SaveAndResetAll records one entry per category with time on its timer,
// labelled with a single answer from p, then clears every timer. Entries follow
// board order and carry the accumulated seconds. A cancelled prompt changes
// nothing.
//
// The returned error reports storage failures only.
func (c *Controller) SaveAndResetAll(ctx context.Context, p prompt.Prompter, now time.Time) ([]entrylog.Entry, bool, error) {
	label, ok := p.Prompt(LabelQuestion, "")
	if !ok {
		return nil, false, nil
	}

	var (
		saved []entrylog.Entry
		errs  []error
	)
	for _, cat := range c.catalog.All() {
		seconds := c.timers[cat.Name]
		if !(seconds > 0) {
			continue
		}
		entry := entrylog.NewEntry(now, cat.Name, seconds, label)
		saved = append(saved, entry)
		if err := c.entries.Append(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}

	clear(c.timers)
	clear(c.latest)
	c.active = ""
	c.logger.Info("timers saved and reset", "entries", len(saved), "label", label)
	if err := c.Save(ctx, now); err != nil {
		errs = append(errs, err)
	}
	return saved, true, errors.Join(errs...)
}

// Active returns the running category, or "" when none is running.
func (c *Controller) Active() string {
	return c.active
}

// Running reports whether any category is running.
func (c *Controller) Running() bool {
	return c.active != ""
}

// Elapsed returns the accumulated seconds for name.
func (c *Controller) Elapsed(name string) float64 {
	return c.timers[name]
}

// LatestRun returns the seconds of name's most recent run.
func (c *Controller) LatestRun(name string) float64 {
	return c.latest[name]
}

// Snapshot copies the accumulated seconds per category.
func (c *Controller) Snapshot() map[string]float64 {
	return maps.Clone(c.timers)
}

// LastPress is the time of the most recent press.
func (c *Controller) LastPress() time.Time {
	return c.lastPress
}

// Policy reports the configured duration policy.
func (c *Controller) Policy() Policy {
	return c.policy
}
