package entrylog

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"
)

// Entry is one completed timer run. Entries are never modified after creation.
type Entry struct {
	Date     time.Time
	Category string
	// Duration is in seconds, rounded to one decimal place.
	Duration float64
	Label    string
}

// NewEntry builds an entry with its duration rounded to tenths of a second.
func NewEntry(date time.Time, category string, seconds float64, label string) Entry {
	return Entry{
		Date:     date,
		Category: category,
		Duration: RoundDuration(seconds),
		Label:    label,
	}
}

// RoundDuration rounds seconds to one decimal place; negatives become zero.
func RoundDuration(seconds float64) float64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return math.Round(seconds*10) / 10
}

// localeLayout is how browsers render new Date().toLocaleString() in en-US,
// which is what older stored entries carry.
const localeLayout = "1/2/2006, 3:04:05 PM"

type wireEntry struct {
	Date     string             `json:"date"`
	Category string             `json:"category"`
	Duration float64            `json:"duration"`
	Label    string             `json:"label"`
	Timers   map[string]float64 `json:"timers,omitempty"`
}

// MarshalJSON keeps the {date, category, duration, label} shape of stored entries.
func (e Entry) MarshalJSON() ([]byte, error) {
	w := wireEntry{
		Category: e.Category,
		Duration: e.Duration,
		Label:    e.Label,
	}
	if !e.Date.IsZero() {
		w.Date = e.Date.Format(time.RFC3339Nano)
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts RFC 3339 and browser-locale dates.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Entry{
		Date:     parseDate(w.Date),
		Category: w.Category,
		Duration: w.Duration,
		Label:    w.Label,
	}
	return nil
}

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(localeLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

// decodeEntries reads a stored entry array. Records from the multi-timer
// layout ({date, timers: {category: seconds}, label}) are expanded into one
// entry per category, in name order.
func decodeEntries(data []byte) ([]Entry, error) {
	var raw []wireEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, w := range raw {
		date := parseDate(w.Date)
		if w.Category == "" && len(w.Timers) > 0 {
			names := make([]string, 0, len(w.Timers))
			for name := range w.Timers {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				entries = append(entries, NewEntry(date, name, w.Timers[name], w.Label))
			}
			continue
		}
		entries = append(entries, Entry{
			Date:     date,
			Category: w.Category,
			Duration: w.Duration,
			Label:    w.Label,
		})
	}
	return entries, nil
}
