package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/podrun/internal/console"
	"github.com/five82/podrun/internal/state"
)

const defaultRefresh = 250 * time.Millisecond

// Options configures the watch view.
type Options struct {
	Store     *state.Store
	ThemeName string
	Title     string        // shown next to the logo, usually the input file
	Refresh   time.Duration // snapshot refresh interval; zero uses 250ms
	Now       func() time.Time
}

// Model is the Bubble Tea model of the watch view. Reported lines are printed
// above the view so they stay in the terminal scrollback after exit.
type Model struct {
	store   *state.Store
	title   string
	refresh time.Duration
	now     func() time.Time

	theme   Theme
	styles  Styles
	keys    keyMap
	spinner spinner.Model
	width   int

	snapshot    state.Snapshot
	printed     int // number of entries already printed
	interrupted bool
	done        bool
}

// New creates a watch model.
func New(opts Options) Model {
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	theme := GetTheme(opts.ThemeName)
	styles := theme.Styles()

	return Model{
		store:   opts.Store,
		title:   opts.Title,
		refresh: refresh,
		now:     now,
		theme:   theme,
		styles:  styles,
		keys:    defaultKeyMap(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.AccentText),
		),
	}
}

// Printed returns how many log entries the view has printed.
func (m Model) Printed() int {
	return m.printed
}

// Interrupted reports whether the user quit before the job finished.
func (m Model) Interrupted() bool {
	return m.interrupted
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, tickCmd(m.refresh)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		cmds := []tea.Cmd{tickCmd(m.refresh)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		return m.handleSnapshot(state.Snapshot(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleSnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap

	var cmds []tea.Cmd
	if lines := m.pendingLines(); len(lines) > 0 {
		cmds = append(cmds, tea.Println(strings.Join(lines, "\n")))
	}
	if snap.Done && !m.done {
		m.done = true
		cmds = append(cmds, tea.Quit)
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Sequence(cmds...)
}

// pendingLines formats entries not yet printed and marks them printed.
func (m *Model) pendingLines() []string {
	var lines []string
	for _, entry := range m.snapshot.EntriesSince(m.printed) {
		lines = append(lines, m.formatEntry(entry))
	}
	m.printed = m.snapshot.EntryCount
	return lines
}

func (m Model) formatEntry(entry state.Entry) string {
	line := console.FormatLine(entry.Level, entry.Message)
	name := entry.Level.String()
	return m.styles.LevelStyle(entry.Level).Render(name) + line[len(name):]
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.snapshot
	if snap.Done || m.interrupted {
		return ""
	}

	sep := "  "
	parts := []string{m.spinner.View() + m.styles.Logo.Render("podrun")}
	if m.title != "" {
		parts = append(parts, m.styles.MutedText.Render(m.title))
	}
	if snap.JobID == "" {
		parts = append(parts, m.styles.WarningText.Render("submitting..."))
		return strings.Join(parts, sep) + "\n"
	}

	parts = append(parts,
		m.styles.FaintText.Render("job")+" "+m.styles.Text.Render(snap.JobID),
		m.styles.StatusStyle(snap.Status).Render(string(snap.Status)),
		m.styles.FaintText.Render("polls")+" "+m.styles.Text.Render(fmt.Sprintf("%d", snap.Polls)),
	)
	if !snap.SubmittedAt.IsZero() {
		elapsed := m.now().Sub(snap.SubmittedAt)
		parts = append(parts, m.styles.FaintText.Render("elapsed")+" "+m.styles.Text.Render(formatElapsed(elapsed)))
	}
	view := strings.Join(parts, sep)

	if snap.Retrying() && snap.LastError != nil {
		view += "\n" + m.styles.DangerText.Render("retrying") + " " +
			m.styles.MutedText.Render(truncate(snap.LastError.Error(), m.maxWidth()-9))
	}
	view += "\n" + m.styles.FaintText.Render(m.keys.Quit.Help().Key+" "+m.keys.Quit.Help().Desc)
	return view + "\n"
}

func (m Model) maxWidth() int {
	if m.width <= 0 {
		return 120
	}
	return m.width
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	mnt := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mnt, s)
	}
	return fmt.Sprintf("%d:%02d", mnt, s)
}

func truncate(s string, limit int) string {
	if limit <= 3 {
		limit = 3
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// ErrInterrupted is returned by Run when the user quit before the job
// finished.
var ErrInterrupted = errors.New("interrupted")

// Run starts the Bubble Tea program and blocks until the job finishes, the
// user quits or ctx is cancelled. It returns the number of log entries
// printed so the caller can flush the rest.
func Run(ctx context.Context, opts Options) (int, error) {
	if opts.Store == nil {
		return 0, fmt.Errorf("ui requires a job store")
	}
	p := tea.NewProgram(New(opts), tea.WithContext(ctx))
	final, err := p.Run()
	m, _ := final.(Model)
	if err != nil {
		if ctx.Err() != nil {
			return m.Printed(), nil
		}
		return m.Printed(), err
	}
	if m.Interrupted() {
		return m.Printed(), ErrInterrupted
	}
	return m.Printed(), nil
}
