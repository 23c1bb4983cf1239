// Package ui provides the terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/query"
	"github.com/nibzard/clientdesk/internal/storage"
	"github.com/nibzard/clientdesk/internal/theme"
	"github.com/nibzard/clientdesk/internal/view"
)

// ErrNoTTY is returned by Run when stdout is not a terminal.
var ErrNoTTY = errors.New("tui requires a TTY")

// Options configures the TUI.
type Options struct {
	Store       *clients.Store
	Coordinator *view.Coordinator
	// KV persists the theme preference. Nil keeps theme changes in memory.
	KV       storage.KV
	Theme    theme.Mode
	IsDark   func() bool
	Today    func() string
	Interval time.Duration
	Logger   *log.Logger
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if !IsTTY(os.Stdout) {
		return ErrNoTTY
	}
	if opts.IsDark == nil {
		opts.IsDark = theme.TerminalIsDark
	}
	model := newModel(ctx, opts)
	if opts.Coordinator != nil {
		updates := make(chan view.State, 16)
		opts.Coordinator.Register(view.RefreshFunc(func(s view.State) {
			select {
			case updates <- s:
			default:
			}
		}))
		model.updates = updates
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type focus int

const (
	focusClients focus = iota
	focusTasks
)

type model struct {
	ctx      context.Context
	store    *clients.Store
	kv       storage.KV
	today    func() string
	isDark   func() bool
	logger   *log.Logger
	interval time.Duration
	updates  <-chan view.State

	mode   theme.Mode
	styles styles

	state      view.State
	cursor     int
	taskCursor int
	focus      focus
	report     query.Kind
	showHelp   bool
	message    string
	// staged is the task being edited with e. It is left out of the task
	// list until enter commits it at the end or esc drops it.
	staged *clients.StagedTaskEdit
}

type tickMsg time.Time

type stateMsg struct {
	state view.State
}

func newModel(ctx context.Context, opts Options) *model {
	m := &model{
		ctx:      ctx,
		store:    opts.Store,
		kv:       opts.KV,
		today:    opts.Today,
		isDark:   opts.IsDark,
		logger:   opts.Logger,
		interval: opts.Interval,
		mode:     opts.Theme,
	}
	if m.today == nil {
		m.today = func() string { return clients.Today(time.Now()) }
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.interval <= 0 {
		m.interval = 2 * time.Second
	}
	if m.mode == "" {
		m.mode = theme.Default
	}
	m.styles = newStyles(theme.Resolve(m.mode, m.isDark))
	m.setState(view.Build(m.store.All(), m.today()))
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.interval)}
	if m.updates != nil {
		cmds = append(cmds, waitForState(m.updates))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		// Another process may have written the dataset.
		m.reload()
		return m, tickCmd(m.interval)
	case stateMsg:
		m.setState(msg.state)
		return m, waitForState(m.updates)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.staged != nil {
		return m.handleEditKey(msg)
	}
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "r", "f5":
		m.reload()
	case "tab":
		if m.focus == focusClients {
			m.focus = focusTasks
		} else {
			m.focus = focusClients
		}
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "1", "2", "3", "4":
		m.report = query.Kinds()[msg.String()[0]-'1']
	case "0", "esc":
		m.report = ""
	case "x":
		m.removeTask()
	case "c":
		m.completeTask()
	case "e":
		m.beginEdit()
	case "t":
		m.cycleTheme()
	}
	return nil
}

func (m *model) move(delta int) {
	if m.focus == focusTasks {
		m.taskCursor = clamp(m.taskCursor+delta, len(m.selectedTasks()))
		return
	}
	m.cursor = clamp(m.cursor+delta, len(m.state.Sidebar))
	m.taskCursor = 0
}

// reload rereads the dataset. A failed read keeps what is on screen.
func (m *model) reload() {
	if err := m.store.Reload(m.ctx); err != nil {
		m.logger.Warn("reload failed", "err", err)
		m.message = "Error: " + err.Error()
		return
	}
	m.setState(view.Build(m.store.All(), m.today()))
}

func (m *model) setState(s view.State) {
	m.state = s
	m.cursor = clamp(m.cursor, len(s.Sidebar))
	m.taskCursor = clamp(m.taskCursor, len(m.selectedTasks()))
}

func (m *model) selection() clients.Selection {
	if m.cursor < 0 || m.cursor >= len(m.state.Sidebar) {
		return clients.Selection{}
	}
	return clients.Select(m.state.Sidebar[m.cursor].Code)
}

func (m *model) selectedTasks() []clients.Task {
	sel := m.selection()
	for _, c := range m.state.Clients {
		if c.Code == sel.Code {
			return c.Tasks
		}
	}
	return nil
}

func (m *model) removeTask() {
	sel := m.selection()
	if sel.IsZero() || len(m.selectedTasks()) == 0 {
		return
	}
	err := m.store.RemoveTaskAt(m.ctx, sel, m.taskCursor)
	m.afterMutation("task removed", err)
}

// completeTask marks the highlighted task completed. Like any task edit it
// moves to the end of the list.
func (m *model) completeTask() {
	sel := m.selection()
	if sel.IsZero() || len(m.selectedTasks()) == 0 {
		return
	}
	staged, err := m.store.BeginTaskEdit(sel, m.taskCursor)
	if err != nil {
		m.afterMutation("", err)
		return
	}
	staged.Task.Status = clients.StatusCompleted
	err = m.store.CommitTaskEdit(m.ctx, staged)
	m.afterMutation("task completed", err)
}

// nextStatus cycles the known statuses. Free-text statuses restart at
// pending.
func nextStatus(s clients.Status) clients.Status {
	switch s {
	case clients.StatusPending:
		return clients.StatusInProgress
	case clients.StatusInProgress:
		return clients.StatusCompleted
	}
	return clients.StatusPending
}

func (m *model) beginEdit() {
	sel := m.selection()
	if sel.IsZero() || len(m.selectedTasks()) == 0 {
		return
	}
	staged, err := m.store.BeginTaskEdit(sel, m.taskCursor)
	if err != nil {
		m.afterMutation("", err)
		return
	}
	m.staged = &staged
	m.focus = focusTasks
	m.message = "editing: space cycles status, enter saves, esc cancels"
}

func (m *model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case " ", "s":
		m.staged.Task.Status = nextStatus(m.staged.Task.Status)
	case "enter":
		staged := *m.staged
		m.staged = nil
		err := m.store.CommitTaskEdit(m.ctx, staged)
		m.afterMutation("task saved", err)
	case "esc":
		m.staged = nil
		m.message = "edit cancelled"
	}
	return nil
}

func (m *model) afterMutation(ok string, err error) {
	if err = clients.IgnoreNotFound(err); err != nil {
		m.message = "Error: " + err.Error()
		m.logger.Warn("tui mutation failed", "err", err)
		return
	}
	m.message = ok
	// The coordinator pushes the new state too; building it here keeps the
	// screen current when no coordinator is attached.
	m.setState(view.Build(m.store.All(), m.today()))
}

func (m *model) cycleTheme() {
	next := map[theme.Mode]theme.Mode{theme.Auto: theme.Light, theme.Light: theme.Dark, theme.Dark: theme.Auto}[m.mode]
	if next == "" {
		next = theme.Default
	}
	if m.kv != nil {
		if err := theme.Save(m.ctx, m.kv, next); err != nil {
			m.message = "Error: " + err.Error()
			return
		}
	}
	m.mode = next
	m.styles = newStyles(theme.Resolve(next, m.isDark))
	m.message = "theme: " + string(next)
}

func (m *model) View() string {
	var b strings.Builder
	m.writeHeader(&b)
	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	var right string
	if m.report != "" {
		right = m.renderReport()
	} else {
		right = m.renderClient()
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.sidebar.Render(m.renderSidebar()),
		m.styles.pane.Render(right),
	))
	b.WriteString("\n\n")
	if m.message != "" {
		b.WriteString(m.message + "\n")
	}
	m.writeFooter(&b)
	return b.String()
}

func (m *model) writeHeader(b *strings.Builder) {
	b.WriteString(m.styles.title.Render("clientdesk"))
	b.WriteString("  ")
	badge := view.FormatBadge(m.state.Overdue)
	if m.state.Overdue > 0 {
		badge = m.styles.badge.Render(badge)
	} else {
		badge = m.styles.muted.Render(badge)
	}
	b.WriteString(badge)
	b.WriteString(m.styles.muted.Render("  " + m.state.Today))
	b.WriteString("\n\n")
}

func (m *model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render("Clients") + "\n\n")
	if len(m.state.Sidebar) == 0 {
		b.WriteString(m.styles.muted.Render(view.NoClients) + "\n")
		return b.String()
	}
	for i, item := range m.state.Sidebar {
		line := fmt.Sprintf("%s (%s)", item.Name, item.Code)
		if item.Overdue > 0 {
			line += m.styles.overdue.Render(fmt.Sprintf(" !%d", item.Overdue))
		}
		if i == m.cursor {
			prefix := "> "
			if m.focus == focusTasks {
				prefix = "* "
			}
			b.WriteString(m.styles.selected.Render(prefix) + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m *model) renderClient() string {
	var b strings.Builder
	sel := m.selection()
	if sel.IsZero() {
		return m.styles.muted.Render("Select a client.")
	}
	today := m.state.Today
	summary, ok := query.New(m.state.Clients).Summarize(sel.Code, today)
	if !ok {
		return m.styles.muted.Render("Select a client.")
	}
	c := summary.Client
	b.WriteString(m.styles.heading.Render(c.ClientName) + "\n")
	fmt.Fprintf(&b, "Start: %s  Code: %s\n", c.StartDate, c.Code)
	fmt.Fprintf(&b, "Contact: %s\n", c.ContactName)
	fmt.Fprintf(&b, "E-mail: %s  Phone: %s\n\n", c.Email, c.Phone)
	b.WriteString(m.styles.heading.Render("Action plan") + "\n")
	b.WriteString(summary.Plan + "\n\n")

	fmt.Fprintf(&b, "%s (%d)\n", m.styles.heading.Render("Tasks"), summary.Tasks)
	tasks := c.Tasks
	if m.staged != nil && m.staged.Selection == sel {
		if visible, err := m.store.VisibleTasks(sel, m.staged); err == nil {
			tasks = visible
		}
	}
	if len(tasks) == 0 && m.staged == nil {
		b.WriteString(m.styles.muted.Render(view.NoTasks) + "\n")
		return b.String()
	}
	for i, t := range tasks {
		prefix := "  "
		if m.focus == focusTasks && i == m.taskCursor {
			prefix = m.styles.selected.Render("> ")
		}
		b.WriteString(prefix + m.formatTask(i, t, today) + "\n")
	}
	if m.staged != nil && m.staged.Selection == sel {
		b.WriteString("\n" + m.styles.selected.Render("Editing:") + " ")
		b.WriteString(m.formatTask(len(tasks), m.staged.Task, today) + "\n")
	}
	return b.String()
}

func (m *model) renderReport() string {
	var b strings.Builder
	r := query.New(m.state.Clients).Report(m.report, m.state.Today)
	b.WriteString(m.styles.heading.Render(r.Title) + "\n\n")
	if len(r.Rows) == 0 {
		b.WriteString(m.styles.muted.Render(query.EmptyMessage) + "\n")
		return b.String()
	}
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "  %-20s %s\n", row.ClientName, m.formatTask(row.Index, row.Task, m.state.Today))
		if row.Task.Description != "" {
			fmt.Fprintf(&b, "  %-20s    %s\n", "", m.styles.muted.Render(row.Task.Description))
		}
	}
	return b.String()
}

func (m *model) formatTask(i int, t clients.Task, today string) string {
	line := fmt.Sprintf("%d. %s  %s  [%s]", i+1, t.DueDate, t.Title, t.Status)
	switch {
	case t.IsOverdue(today):
		return line + " " + m.styles.overdue.Render("OVERDUE")
	case t.Status == clients.StatusCompleted:
		return m.styles.done.Render(line)
	}
	return line
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  j/k, arrows  Move selection\n")
	b.WriteString("  tab          Switch between clients and tasks\n")
	b.WriteString("  1            All tasks report\n")
	b.WriteString("  2            Tasks due today\n")
	b.WriteString("  3            Overdue tasks\n")
	b.WriteString("  4            Future tasks\n")
	b.WriteString("  0, esc       Back to the selected client\n")
	b.WriteString("  c            Mark highlighted task completed\n")
	b.WriteString("  e            Edit highlighted task status (space, enter, esc)\n")
	b.WriteString("  x            Remove highlighted task\n")
	b.WriteString("  t            Cycle theme (auto, light, dark)\n")
	b.WriteString("  r, F5        Reload data\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func (m *model) writeFooter(b *strings.Builder) {
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("Press h for help | q to quit | theme %s | reloading every %s", m.mode, m.interval)))
	b.WriteString("\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForState(ch <-chan view.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg{state: s}
	}
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
