// Package app wires settings, storage, the timer controller and the entry log
// into one handle shared by the CLI commands and the board.
package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/faizmokh/floortime/internal/category"
	"github.com/faizmokh/floortime/internal/config"
	"github.com/faizmokh/floortime/internal/entrylog"
	"github.com/faizmokh/floortime/internal/files"
	"github.com/faizmokh/floortime/internal/store"
	"github.com/faizmokh/floortime/internal/timer"
)

// App holds the long-lived collaborators for one process.
type App struct {
	Manager  *files.Manager
	Settings config.Settings
	Catalog  *category.Catalog
	Store    store.Store
	Timers   *timer.Controller
	Entries  *entrylog.Log
	Logger   *log.Logger
}

// NewLogger returns a logger writing to w at the named level (default info).
func NewLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "floortime",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           lvl,
	})
}

// Open loads settings from the manager's data directory, opens the configured
// store and restores the timer state and entry log. Problems with the config
// file or the store are logged and replaced by defaults (an in-memory store
// when the durable one cannot be opened). Open fails only when the data
// directory cannot be created.
func Open(ctx context.Context, manager *files.Manager, logOut io.Writer, now time.Time) (*App, error) {
	if err := manager.EnsureBase(); err != nil {
		return nil, err
	}

	settings, cfgErr := config.Load(manager.ConfigPath())
	logger := NewLogger(logOut, settings.LogLevel)
	if cfgErr != nil {
		logger.Warn("using default settings", "path", manager.ConfigPath(), "err", cfgErr)
	}

	catalog, err := settings.Catalog()
	if err != nil {
		logger.Warn("using default categories", "err", err)
		catalog = category.Default()
	}

	s, err := store.Open(settings.Storage, manager)
	if err != nil {
		logger.Warn("storage unavailable, state will not survive this session", "backend", settings.Storage, "err", err)
		s = store.NewMemory()
	}

	entries := entrylog.New(s, logger)
	entries.Load(ctx)

	timers := timer.New(catalog, s, entries, timer.Options{
		MinimumDuration: settings.MinimumDuration,
		Policy:          settings.DurationPolicy,
		Logger:          logger,
	})
	timers.Load(ctx, now)

	return &App{
		Manager:  manager,
		Settings: settings,
		Catalog:  catalog,
		Store:    s,
		Timers:   timers,
		Entries:  entries,
		Logger:   logger,
	}, nil
}

// Close saves the timer state and releases the store.
func (a *App) Close(ctx context.Context, now time.Time) error {
	saveErr := a.Timers.Save(ctx, now)
	if err := a.Store.Close(); err != nil {
		return err
	}
	return saveErr
}

// Discard closes the store without saving the timers.
func (a *App) Discard() error {
	return a.Store.Close()
}

// OpenLogFile opens the board's log file for appending.
func OpenLogFile(manager *files.Manager) (*os.File, error) {
	if err := manager.EnsureBase(); err != nil {
		return nil, err
	}
	return os.OpenFile(manager.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
