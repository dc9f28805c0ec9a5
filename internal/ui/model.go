// Package ui renders the category board and drives the timer tick loop.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/faizmokh/floortime/internal/app"
	"github.com/faizmokh/floortime/internal/category"
	"github.com/faizmokh/floortime/internal/config"
	"github.com/faizmokh/floortime/internal/entrylog"
	"github.com/faizmokh/floortime/internal/prompt"
	"github.com/faizmokh/floortime/internal/timer"
)

const recentEntries = 5

// Model owns Bubble Tea state for the board.
type Model struct {
	ctx      context.Context
	timers   *timer.Controller
	entries  *entrylog.Log
	catalog  *category.Catalog
	settings config.Settings
	logger   *log.Logger
	now      func() time.Time

	keys  keyMap
	help  help.Model
	input textinput.Model

	mode     mode
	pending  string
	lastTick time.Time

	statusLine string
	errorLine  string
	quitting   bool
}

type mode uint8

const (
	modeNormal mode = iota
	modeLabel
	modeSaveReset
	modeConfirmReset
	modeConfirmDelete
	modePassphrase
	modeExportFile
)

type tickMsg time.Time

type saveMsg time.Time

type exportResultMsg struct {
	path string
	rows int
	err  error
}

// NewModel seeds a board model over the collaborators held by a.
func NewModel(ctx context.Context, a *app.App) Model {
	input := textinput.New()
	input.Prompt = "> "

	return Model{
		ctx:      ctx,
		timers:   a.Timers,
		entries:  a.Entries,
		catalog:  a.Catalog,
		settings: a.Settings,
		logger:   a.Logger,
		now:      time.Now,
		keys:     newKeyMap(),
		help:     help.New(),
		input:    input,
		mode:     modeNormal,
	}
}

// Init starts the display and save tickers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.saveCmd())
}

// Update wires board state transitions from keys and tickers.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m.handleTick()
	case saveMsg:
		return m.handleSaveTick()
	case exportResultMsg:
		return m.handleExportResult(msg)
	default:
		return m, nil
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.settings.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) saveCmd() tea.Cmd {
	return tea.Tick(m.settings.SaveInterval, func(t time.Time) tea.Msg { return saveMsg(t) })
}

// handleTick credits the wall time since the previous tick. The clock is held
// while a dialog is open.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	now := m.now()
	if m.mode == modeNormal && !m.lastTick.IsZero() {
		m.timers.Advance(now.Sub(m.lastTick).Seconds())
	}
	m.lastTick = now
	return m, m.tickCmd()
}

func (m Model) handleSaveTick() (tea.Model, tea.Cmd) {
	if err := m.timers.Save(m.ctx, m.now()); err != nil {
		m.errorLine = fmt.Sprintf("Save failed: %v", err)
	}
	return m, m.saveCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m.handleModalKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Press):
		position, err := strconv.Atoi(msg.String())
		if err != nil {
			return m, nil
		}
		return m.press(position)
	case key.Matches(msg, m.keys.Reset):
		return m.beginModal(modeConfirmReset, "")
	case key.Matches(msg, m.keys.SaveReset):
		return m.beginModal(modeSaveReset, "")
	case key.Matches(msg, m.keys.Delete):
		return m.beginModal(modeConfirmDelete, "")
	case key.Matches(msg, m.keys.Export):
		return m.beginModal(modeExportFile, m.settings.ExportFile)
	case key.Matches(msg, m.keys.Save):
		if err := m.timers.Save(m.ctx, m.now()); err != nil {
			m.errorLine = fmt.Sprintf("Save failed: %v", err)
			return m, nil
		}
		m.errorLine = ""
		m.statusLine = "Saved."
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeConfirmReset, modeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			if m.mode == modeConfirmReset {
				return m.resetAll()
			}
			return m.beginModal(modePassphrase, "")
		case "n", "N", "esc":
			return m.closeModal("Cancelled.")
		case "ctrl+c":
			return m.quit()
		}
		return m, nil
	case modeLabel, modeSaveReset, modePassphrase, modeExportFile:
		switch msg.Type {
		case tea.KeyEnter:
			return m.submitInput(m.input.Value(), true)
		case tea.KeyEsc:
			return m.submitInput("", false)
		case tea.KeyCtrlC:
			return m.quit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

// press handles a press on the category at a 1-based board position. A press
// that would record an entry first asks for its label.
func (m Model) press(position int) (tea.Model, tea.Cmd) {
	c, ok := m.catalog.At(position)
	if !ok {
		return m, nil
	}

	now := m.now()
	if m.timers.WillSave(now) {
		m.pending = c.Name
		return m.beginModal(modeLabel, "")
	}
	return m.applyPress(c.Name, now, &prompt.Script{})
}

func (m Model) applyPress(name string, at time.Time, answers prompt.Prompter) (tea.Model, tea.Cmd) {
	out, err := m.timers.HandlePress(m.ctx, name, at, answers)
	m.statusLine = describeOutcome(out)
	m.errorLine = ""
	if err != nil {
		m.errorLine = fmt.Sprintf("Not saved: %v", err)
	}
	return m, nil
}

func (m Model) submitInput(value string, accepted bool) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeLabel:
		answer := prompt.Cancelled
		if accepted {
			answer = prompt.Says(strings.TrimSpace(value))
		}
		// The press lands when the label is submitted so the next run starts
		// after the dialog closes.
		pending := m.pending
		m = m.resetModal()
		return m.applyPress(pending, m.now(), &prompt.Script{Answers: []prompt.Answer{answer}})
	case modeSaveReset:
		if !accepted {
			return m.closeModal("Reset cancelled.")
		}
		m = m.resetModal()
		return m.saveAndResetAll(strings.TrimSpace(value))
	case modePassphrase:
		if !accepted {
			return m.closeModal("Delete cancelled.")
		}
		m = m.resetModal()
		return m.clearEntries(value)
	case modeExportFile:
		path := strings.TrimSpace(value)
		if !accepted {
			return m.closeModal("Export cancelled.")
		}
		if path == "" {
			m.errorLine = "File name cannot be empty."
			return m, nil
		}
		m = m.resetModal()
		return m.export(path)
	default:
		return m, nil
	}
}

func (m Model) resetAll() (tea.Model, tea.Cmd) {
	m = m.resetModal()
	_, err := m.timers.ResetAll(m.ctx, &prompt.Script{Confirms: []bool{true}}, m.now())
	m.statusLine = "All timers reset."
	m.errorLine = ""
	if err != nil {
		m.errorLine = fmt.Sprintf("Reset not saved: %v", err)
	}
	return m, nil
}

func (m Model) saveAndResetAll(label string) (tea.Model, tea.Cmd) {
	answers := &prompt.Script{Answers: []prompt.Answer{prompt.Says(label)}}
	saved, _, err := m.timers.SaveAndResetAll(m.ctx, answers, m.now())
	m.statusLine = fmt.Sprintf("Saved %d entr%s. All timers reset.", len(saved), plural(len(saved)))
	m.errorLine = ""
	if err != nil {
		m.errorLine = fmt.Sprintf("Not saved: %v", err)
	}
	return m, nil
}

func (m Model) clearEntries(passphrase string) (tea.Model, tea.Cmd) {
	answers := &prompt.Script{
		Confirms: []bool{true},
		Answers:  []prompt.Answer{prompt.Says(passphrase)},
	}
	err := m.entries.Clear(m.ctx, answers, m.settings.DeletePassphrase)
	switch {
	case errors.Is(err, entrylog.ErrPassphraseMismatch):
		m.statusLine = ""
		m.errorLine = "Incorrect password. Entries were not deleted."
	case err != nil:
		m.statusLine = "All entries deleted."
		m.errorLine = fmt.Sprintf("Not saved: %v", err)
	default:
		m.statusLine = "All entries deleted."
		m.errorLine = ""
	}
	return m, nil
}

// export snapshots the entries now and writes the file from a command.
func (m Model) export(path string) (tea.Model, tea.Cmd) {
	snapshot := m.entries.Snapshot()
	m.statusLine = fmt.Sprintf("Exporting to %s...", path)
	m.errorLine = ""

	return m, func() tea.Msg {
		rows, err := snapshot.Export(path)
		return exportResultMsg{path: path, rows: rows, err: err}
	}
}

func (m Model) handleExportResult(msg exportResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusLine = ""
		m.errorLine = fmt.Sprintf("Export failed: %v", msg.err)
		return m, nil
	}
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Exported %d entr%s to %s.", msg.rows, plural(msg.rows), msg.path)
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.timers.Save(m.ctx, m.now()); err != nil {
		m.logger.Warn("state not saved on quit", "err", err)
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) beginModal(next mode, value string) (tea.Model, tea.Cmd) {
	m.mode = next
	m.statusLine = ""
	m.errorLine = ""
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	if next == modePassphrase {
		m.input.EchoMode = textinput.EchoPassword
	}
	switch next {
	case modeLabel, modeSaveReset, modePassphrase, modeExportFile:
		m.input.SetValue(value)
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) closeModal(message string) (tea.Model, tea.Cmd) {
	m = m.resetModal()
	m.statusLine = message
	m.errorLine = ""
	return m, nil
}

func (m Model) resetModal() Model {
	m.mode = modeNormal
	m.pending = ""
	m.input.Reset()
	m.input.Blur()
	// Time spent in the dialog is not credited to the running category.
	m.lastTick = m.now()
	return m
}

// View renders the frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Shop Floor Timer"))
	b.WriteByte('\n')

	position := 1
	for _, group := range []category.Group{category.GroupUptime, category.GroupDowntime} {
		cats := m.catalog.Uptime()
		if group == category.GroupDowntime {
			cats = m.catalog.Downtime()
		}
		if len(cats) == 0 {
			continue
		}
		tiles := make([]string, 0, len(cats))
		for _, c := range cats {
			tiles = append(tiles, m.renderTile(position, c))
			position++
		}
		b.WriteString(groupStyle.Render(group.String()))
		b.WriteByte('\n')
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
		b.WriteByte('\n')
	}

	b.WriteString(m.renderRunning())
	b.WriteString(m.renderRecent())

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusLine))
		b.WriteByte('\n')
	}

	if question := m.modalQuestion(); question != "" {
		body := question
		if m.mode != modeConfirmReset && m.mode != modeConfirmDelete {
			body += "\n" + m.input.View()
		}
		b.WriteString(modalStyle.Render(body))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')
	return b.String()
}

func (m Model) renderTile(position int, c category.Category) string {
	active := m.timers.Active() == c.Name
	heading := fmt.Sprintf("%d %s %s", position, c.Icon, c.Name)
	body := entrylog.FormatDuration(m.timers.Elapsed(c.Name))
	if active {
		body += " ●"
	}
	return tileStyle(c, active).Render(heading + "\n" + body)
}

func (m Model) renderRunning() string {
	active := m.timers.Active()
	if active == "" {
		return "\n" + dimStyle.Render("No timer running.") + "\n"
	}
	return fmt.Sprintf("\nRunning: %s (this run %s)\n", active, entrylog.FormatDuration(m.timers.LatestRun(active)))
}

func (m Model) renderRecent() string {
	recent := m.entries.Recent(recentEntries)
	if len(recent) == 0 {
		return "\n" + dimStyle.Render("(no entries)") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nRecent entries (%d total)\n", m.entries.Len())
	for _, e := range recent {
		b.WriteString(formatEntry(e))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) modalQuestion() string {
	switch m.mode {
	case modeLabel:
		return fmt.Sprintf("%s (%s; Enter to save, Esc for none)", timer.LabelQuestion, m.timers.Active())
	case modeSaveReset:
		return fmt.Sprintf("%s (saves every timer, then resets; Enter to save, Esc to cancel)", timer.LabelQuestion)
	case modeConfirmReset:
		return timer.ResetQuestion + " (y/n)"
	case modeConfirmDelete:
		return entrylog.ClearConfirmQuestion + " (y/n)"
	case modePassphrase:
		return entrylog.ClearPassphraseQuestion
	case modeExportFile:
		return "Export entries to (Enter to save, Esc to cancel):"
	default:
		return ""
	}
}

func describeOutcome(out timer.Outcome) string {
	var parts []string
	switch {
	case out.Entry != nil:
		parts = append(parts, fmt.Sprintf("Saved %s %s.", out.Entry.Category, entrylog.FormatDuration(out.Entry.Duration)))
	case out.Discarded:
		parts = append(parts, fmt.Sprintf("Discarded short run of %s.", out.Stopped))
	}
	if out.Started != "" {
		parts = append(parts, fmt.Sprintf("Started %s.", out.Started))
	}
	return strings.Join(parts, " ")
}

func formatEntry(e entrylog.Entry) string {
	line := fmt.Sprintf("%s  %-12s %s", e.Date.Format("2006-01-02 15:04:05"), e.Category, entrylog.FormatDuration(e.Duration))
	if e.Label != "" {
		line += "  " + e.Label
	}
	return line
}

func plural(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
