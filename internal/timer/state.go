package timer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/faizmokh/floortime/internal/entrylog"
)

// Storage keys. The first three match the browser board's localStorage layout.
const (
	TimersKey     = "timers"
	ActiveKey     = "activeTimer"
	UpdatedKey    = "lastUpdateTime"
	LatestKey     = "latestElapsedTime"
	LastPressKey  = "lastPressTime"
	noActiveValue = "null"
)

// Save writes the timer state to the store, stamping lastUpdateTime with now.
func (c *Controller) Save(ctx context.Context, now time.Time) error {
	var errs []error
	set := func(key, value string) {
		if err := c.store.Set(ctx, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	del := func(key string) {
		if err := c.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}

	timers, err := json.Marshal(c.timers)
	if err != nil {
		errs = append(errs, err)
	} else {
		set(TimersKey, string(timers))
	}
	latest, err := json.Marshal(c.latest)
	if err != nil {
		errs = append(errs, err)
	} else {
		set(LatestKey, string(latest))
	}

	if c.active != "" {
		set(ActiveKey, c.active)
	} else {
		del(ActiveKey)
	}
	if c.lastPress.IsZero() {
		del(LastPressKey)
	} else {
		set(LastPressKey, strconv.FormatInt(c.lastPress.UnixMilli(), 10))
	}
	set(UpdatedKey, strconv.FormatInt(now.UnixMilli(), 10))

	if err := errors.Join(errs...); err != nil {
		c.logger.Warn("timer state not saved", "err", err)
		return fmt.Errorf("%w: %v", entrylog.ErrNotPersisted, err)
	}
	return nil
}

// Load restores the timer state saved by Save. Missing or malformed values
// fall back to their defaults. A category that was running when the state was
// saved is credited with the time since lastUpdateTime and keeps running.
func (c *Controller) Load(ctx context.Context, now time.Time) {
	c.timers = c.readSeconds(ctx, TimersKey)
	c.latest = c.readSeconds(ctx, LatestKey)
	c.active = ""
	c.lastPress = time.Time{}

	if name, ok := c.readString(ctx, ActiveKey); ok && name != noActiveValue {
		if c.catalog.Contains(name) {
			c.active = name
		} else {
			c.logger.Warn("saved active timer is not a known category", "category", name)
		}
	}

	if ms, ok := c.readMillis(ctx, LastPressKey); ok {
		c.lastPress = ms
	}

	if c.active == "" {
		return
	}

	if updated, ok := c.readMillis(ctx, UpdatedKey); ok && now.After(updated) {
		away := now.Sub(updated).Seconds()
		c.timers[c.active] += away
		c.latest[c.active] += away
		c.logger.Info("resumed running timer", "category", c.active, "credited", time.Duration(away*float64(time.Second)).Round(time.Second))
	}
	if c.lastPress.IsZero() {
		c.lastPress = now.Add(-time.Duration(c.latest[c.active] * float64(time.Second)))
	}
}

func (c *Controller) readString(ctx context.Context, key string) (string, bool) {
	value, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("reading timer state failed", "key", key, "err", err)
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (c *Controller) readSeconds(ctx context.Context, key string) map[string]float64 {
	out := make(map[string]float64)
	raw, ok := c.readString(ctx, key)
	if !ok {
		return out
	}

	var decoded map[string]float64
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		c.logger.Warn("stored timer state is malformed, using defaults", "key", key, "err", err)
		return out
	}
	for name, seconds := range decoded {
		if seconds >= 0 && !math.IsInf(seconds, 0) {
			out[name] = seconds
		}
	}
	return out
}

func (c *Controller) readMillis(ctx context.Context, key string) (time.Time, bool) {
	raw, ok := c.readString(ctx, key)
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		c.logger.Warn("stored timestamp is malformed", "key", key, "value", raw)
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
