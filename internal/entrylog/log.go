// Package entrylog keeps the append-only list of completed timer entries and
// persists it under the "timeEntries" key.
package entrylog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/faizmokh/floortime/internal/prompt"
	"github.com/faizmokh/floortime/internal/store"
)

// EntriesKey is the storage key holding the JSON entry array.
const EntriesKey = "timeEntries"

// Questions asked by Clear.
const (
	ClearConfirmQuestion    = "Are you sure you want to delete all entries?"
	ClearPassphraseQuestion = "Please enter password to delete all entries:"
)

// Log owns the ordered entry sequence.
type Log struct {
	store   store.Store
	logger  *log.Logger
	entries []Entry
}

// New wires a Log over s. A nil logger discards warnings.
func New(s store.Store, logger *log.Logger) *Log {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Log{store: s, logger: logger}
}

// Load replaces the in-memory entries with the stored ones. Missing or
// unreadable data leaves the log empty.
func (l *Log) Load(ctx context.Context) {
	l.entries = nil

	raw, ok, err := l.store.Get(ctx, EntriesKey)
	if err != nil {
		l.logger.Warn("reading time entries failed, starting empty", "err", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	entries, err := decodeEntries([]byte(raw))
	if err != nil {
		l.logger.Warn("stored time entries are malformed, starting empty", "err", err)
		return
	}
	l.entries = entries
	l.logger.Debug("loaded time entries", "count", len(entries))
}

// Append adds entry to the end of the log and persists the whole sequence.
// Entries written by another process since the last read are picked up first.
// The entry stays in memory even when the write fails.
func (l *Log) Append(ctx context.Context, entry Entry) error {
	l.refresh(ctx)
	l.entries = append(l.entries, entry)
	if err := l.persist(ctx); err != nil {
		l.logger.Warn("time entry kept in memory only", "category", entry.Category, "err", err)
		return err
	}
	l.logger.Info("time entry saved", "category", entry.Category, "duration", entry.Duration, "label", entry.Label)
	return nil
}

// Clear erases every entry after a confirmation and the shared passphrase.
// Nothing changes when the user declines or the passphrase does not match.
func (l *Log) Clear(ctx context.Context, in prompt.Interactor, passphrase string) error {
	if !in.Confirm(ClearConfirmQuestion) {
		return ErrCancelled
	}
	answer, ok := in.Prompt(ClearPassphraseQuestion, "")
	if !ok || answer != passphrase {
		l.logger.Warn("delete all entries refused: incorrect passphrase")
		return ErrPassphraseMismatch
	}

	count := len(l.entries)
	l.entries = nil
	if err := l.store.Delete(ctx, EntriesKey); err != nil {
		err = fmt.Errorf("%w: %v", ErrNotPersisted, err)
		l.logger.Warn("entries cleared in memory only", "err", err)
		return err
	}
	l.logger.Info("all time entries deleted", "count", count)
	return nil
}

// Entries returns a copy of the log, oldest first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
func (l *Log) Recent(limit int) []Entry {
	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Snapshot returns a detached copy of the log that shares the store and
// logger. Appending to the copy does not change l.
func (l *Log) Snapshot() *Log {
	return &Log{store: l.store, logger: l.logger, entries: l.Entries()}
}

// Len is the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// refresh adopts the stored sequence when it is readable. Otherwise the
// in-memory entries stand.
func (l *Log) refresh(ctx context.Context) {
	raw, ok, err := l.store.Get(ctx, EntriesKey)
	if err != nil || !ok || raw == "" {
		return
	}
	entries, err := decodeEntries([]byte(raw))
	if err != nil {
		l.logger.Debug("stored time entries unreadable, appending to memory copy", "err", err)
		return
	}
	l.entries = entries
}

func (l *Log) persist(ctx context.Context) error {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrNotPersisted, err)
	}
	if err := l.store.Set(ctx, EntriesKey, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}
