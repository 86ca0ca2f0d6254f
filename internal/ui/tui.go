// Package ui provides the terminal interface for the task lists.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/ticklist/internal/logging"
	"github.com/nibzard/ticklist/internal/todo"
	"github.com/nibzard/ticklist/internal/utils"
)

// DefaultTimeFormat is used for due dates when no layout is configured.
const DefaultTimeFormat = "Jan 2, 2006 3:04 PM"

// Alerts shown by the due-date dialog.
const (
	alertNoDate   = "Please choose a due date"
	alertPastDate = "Due date cannot be in the past"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*Model)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TUIOption {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTimeFormat sets the Go layout used to print due dates.
func WithTimeFormat(layout string) TUIOption {
	return func(m *Model) {
		if strings.TrimSpace(layout) != "" {
			m.timeFormat = layout
		}
	}
}

// WithLocation sets the zone due dates are entered and shown in.
func WithLocation(loc *time.Location) TUIOption {
	return func(m *Model) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// WithLogger sets the logger for save failures and other events.
func WithLogger(logger *log.Logger) TUIOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// RunTUI starts the full-screen interface over list. It returns when the
// user quits or ctx is cancelled. Callers check IsTTY first.
func RunTUI(ctx context.Context, list *todo.List, opts ...TUIOption) error {
	model := NewModel(list, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type focusArea int

const (
	focusInput focusArea = iota
	focusPending
	focusCompleted
)

// Model is the bubbletea model. It reads from the List and sends it
// mutation requests; it never holds its own copy of the task state.
type Model struct {
	list       *todo.List
	logger     *log.Logger
	now        func() time.Time
	loc        *time.Location
	timeFormat string

	input  textinput.Model
	dialog *dueDialog
	focus  focusArea
	cursor [2]int
	offset [2]int

	status    string
	statusErr bool

	width        int
	height       int
	tickInterval time.Duration
}

// dueDialog is the date and time picker opened with ctrl+d.
type dueDialog struct {
	date  textinput.Model
	clock textinput.Model
	field int
	alert string
}

type tickMsg time.Time

// NewModel builds the model. The list should already be loaded.
func NewModel(list *todo.List, opts ...TUIOption) *Model {
	input := textinput.New()
	input.Placeholder = "Add your new task here (Press Enter to add)"
	input.Prompt = "> "
	input.Focus()

	m := &Model{
		list:         list,
		logger:       logging.Discard(),
		now:          time.Now,
		loc:          time.Local,
		timeFormat:   DefaultTimeFormat,
		input:        input,
		focus:        focusInput,
		tickInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(m.tickInterval))
}

// tickCmd re-renders periodically so overdue highlighting follows the clock.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 10 {
			m.input.Width = msg.Width - 6
		}
		return m, nil
	case tickMsg:
		return m, tickCmd(m.tickInterval)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.dialog != nil {
			return m.updateDialog(msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	switch {
	case m.dialog != nil && m.dialog.field == 0:
		m.dialog.date, cmd = m.dialog.date.Update(msg)
	case m.dialog != nil:
		m.dialog.clock, cmd = m.dialog.clock.Update(msg)
	case m.focus == focusInput:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submit()
		return m, nil
	case "ctrl+d":
		return m, m.openDialog()
	case "tab":
		m.setFocus(focusPending)
		return m, nil
	case "shift+tab":
		m.setFocus(focusCompleted)
		return m, nil
	case "esc":
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % 3)
	case "shift+tab":
		m.setFocus((m.focus + 2) % 3)
	case "i", "a", "esc":
		m.setFocus(focusInput)
		return m, textinput.Blink
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "home", "g":
		m.cursor[m.section()] = 0
	case "end", "G":
		m.cursor[m.section()] = len(m.tasks(m.focus)) - 1
		m.clampCursors()
	case " ", "space", "x", "enter":
		m.toggleSelected()
	}
	return m, nil
}

func (m *Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialog
	switch msg.String() {
	case "esc":
		m.closeDialog()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		d.field = 1 - d.field
		if d.field == 0 {
			d.clock.Blur()
			return m, d.date.Focus()
		}
		d.date.Blur()
		return m, d.clock.Focus()
	case "enter":
		m.submitDialog()
		return m, nil
	}

	var cmd tea.Cmd
	if d.field == 0 {
		d.date, cmd = d.date.Update(msg)
	} else {
		d.clock, cmd = d.clock.Update(msg)
	}
	return m, cmd
}

// submit adds the input text as a task without a due date.
func (m *Model) submit() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return
	}
	task, err := m.list.Add(text, nil)
	m.input.SetValue("")
	if err != nil {
		m.fail("save failed", err)
		return
	}
	m.setStatus(fmt.Sprintf("Added %q", task.Text))
}

func (m *Model) openDialog() tea.Cmd {
	if strings.TrimSpace(m.input.Value()) == "" {
		m.setStatus("Type a task before adding a due date")
		return nil
	}

	date := textinput.New()
	date.Prompt = ""
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = len(todo.DateLayout)

	clock := textinput.New()
	clock.Prompt = ""
	clock.Placeholder = "HH:MM"
	clock.CharLimit = len("15:04:05")

	m.dialog = &dueDialog{date: date, clock: clock}
	m.input.Blur()
	return m.dialog.date.Focus()
}

// closeDialog drops the dialog and with it any date or time typed so far.
func (m *Model) closeDialog() {
	m.dialog = nil
	m.input.Focus()
}

func (m *Model) submitDialog() {
	d := m.dialog
	dateText := strings.TrimSpace(d.date.Value())
	if dateText == "" {
		d.alert = alertNoDate
		return
	}
	date, err := todo.ParseDate(dateText, m.loc)
	if err != nil {
		d.alert = err.Error()
		return
	}
	if date.Before(todo.StartOfDay(m.now().In(m.loc))) {
		d.alert = alertPastDate
		return
	}
	due, err := todo.ComposeDue(date, d.clock.Value(), m.loc)
	if err != nil {
		d.alert = err.Error()
		return
	}

	text := strings.TrimSpace(m.input.Value())
	task, err := m.list.Add(text, &due)
	m.input.SetValue("")
	m.closeDialog()
	if err != nil {
		m.fail("save failed", err)
		return
	}
	m.setStatus(fmt.Sprintf("Added %q due %s", task.Text, due.Format(m.timeFormat)))
}

func (m *Model) toggleSelected() {
	tasks := m.tasks(m.focus)
	sec := m.section()
	if len(tasks) == 0 {
		return
	}
	task := tasks[m.cursor[sec]]
	moved, err := m.list.Toggle(task.ID)
	m.clampCursors()
	if err != nil {
		m.fail("save failed", err)
		return
	}
	if moved == todo.SectionCompleted {
		m.setStatus(fmt.Sprintf("Completed %q", task.Text))
	} else {
		m.setStatus(fmt.Sprintf("Reopened %q", task.Text))
	}
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.clampCursors()
}

// section maps the focused list to its cursor slot.
func (m *Model) section() int {
	if m.focus == focusCompleted {
		return 1
	}
	return 0
}

func (m *Model) tasks(f focusArea) []todo.Task {
	if f == focusCompleted {
		return m.list.Completed()
	}
	return m.list.Pending()
}

func (m *Model) moveCursor(delta int) {
	m.cursor[m.section()] += delta
	m.clampCursors()
}

func (m *Model) clampCursors() {
	counts := [2]int{len(m.list.Pending()), len(m.list.Completed())}
	for i := range m.cursor {
		if m.cursor[i] >= counts[i] {
			m.cursor[i] = counts[i] - 1
		}
		if m.cursor[i] < 0 {
			m.cursor[i] = 0
		}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) fail(what string, err error) {
	m.logger.Error(what, "err", err)
	m.status = fmt.Sprintf("%s: %v", what, err)
	m.statusErr = true
}

// visibleItems is how many tasks each list shows before scrolling.
func (m *Model) visibleItems() int {
	if m.height <= 0 {
		return 0
	}
	// Title, two headers with hints, input, help and status take ~14 lines;
	// a task takes up to two.
	n := (m.height - 14) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// window returns the [start, end) range of n items to draw so that cursor
// stays visible, and the updated offset.
func window(n, cursor, offset, size int) (start, end, newOffset int) {
	if size <= 0 || n <= size {
		return 0, n, 0
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+size {
		offset = cursor - size + 1
	}
	if offset > n-size {
		offset = n - size
	}
	if offset < 0 {
		offset = 0
	}
	return offset, offset + size, offset
}

func (m *Model) textWidth() int {
	if m.width <= 0 {
		return 0
	}
	return m.width - 8
}

// dueLabel returns the "due on" line for a task and whether it is overdue.
func dueLabel(t todo.Task, now time.Time, layout string, loc *time.Location) (string, bool) {
	if t.DueDate == nil {
		return "", false
	}
	return "due on " + t.DueDate.In(loc).Format(layout), t.IsOverdue(now)
}

func truncate(s string, width int) string {
	return utils.TruncateEnd(s, width)
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
