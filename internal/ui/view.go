package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/ticklist/internal/todo"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dialogStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 2)
)

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)

	pending := m.list.Pending()
	completed := m.list.Completed()

	b.WriteString(headerStyle.Render("Tasks that need to be done") + "\n")
	if len(pending) > 0 {
		b.WriteString(hintStyle.Render("Select a task to mark it as complete") + "\n\n")
	} else {
		b.WriteString(hintStyle.Render("You have no tasks to complete") + "\n\n")
	}
	m.writeTasks(&b, pending, focusPending)

	b.WriteString("\n")
	b.WriteString(m.input.View() + "\n")
	if m.dialog != nil {
		b.WriteString(m.dialogView() + "\n")
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Completed tasks") + "\n")
	if len(completed) > 0 {
		b.WriteString(hintStyle.Render("Select a task to mark it as incomplete") + "\n\n")
	} else {
		b.WriteString(hintStyle.Render("You have no completed tasks") + "\n\n")
	}
	m.writeTasks(&b, completed, focusCompleted)

	b.WriteString("\n")
	m.writeStatus(&b)
	m.writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "ticklist"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *Model) writeTasks(b *strings.Builder, tasks []todo.Task, area focusArea) {
	sec := 0
	if area == focusCompleted {
		sec = 1
	}
	start, end, offset := window(len(tasks), m.cursor[sec], m.offset[sec], m.visibleItems())
	m.offset[sec] = offset

	if start > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf("  ↑ %d more", start)) + "\n")
	}
	now := m.now()
	for i := start; i < end; i++ {
		selected := m.focus == area && i == m.cursor[sec]
		b.WriteString(m.formatTask(tasks[i], area == focusCompleted, selected, now))
		b.WriteString("\n")
	}
	if end < len(tasks) {
		b.WriteString(hintStyle.Render(fmt.Sprintf("  ↓ %d more", len(tasks)-end)) + "\n")
	}
}

func (m *Model) formatTask(t todo.Task, done, selected bool, now time.Time) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}

	text := truncate(t.Text, m.textWidth())
	if done {
		return marker + "[x] " + doneStyle.Render(text)
	}

	line := marker + "[ ] " + text
	label, overdue := dueLabel(t, now, m.timeFormat, m.loc)
	if label == "" {
		return line
	}
	style := dueStyle
	if overdue {
		style = overdueStyle
	}
	return line + "\n      " + style.Render(label)
}

func (m *Model) dialogView() string {
	d := m.dialog
	var b strings.Builder
	b.WriteString(headerStyle.Render("Choose date") + "\n\n")
	b.WriteString("Due date\n")
	b.WriteString(d.date.View() + "\n\n")
	b.WriteString("Due time\n")
	b.WriteString(d.clock.View() + "\n")
	if d.alert != "" {
		b.WriteString("\n" + errorStyle.Render(d.alert) + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("enter: add todo • tab: switch field • esc: cancel"))
	return dialogStyle.Render(b.String())
}

func (m *Model) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status) + "\n")
		return
	}
	b.WriteString(m.status + "\n")
}

func (m *Model) writeFooter(b *strings.Builder) {
	var help string
	switch {
	case m.dialog != nil:
		help = "ctrl+c quit"
	case m.focus == focusInput:
		help = "enter add • ctrl+d add due date • tab lists • ctrl+c quit"
	default:
		help = "↑/↓ move • space toggle • tab next • i new task • q quit"
	}
	b.WriteString(hintStyle.Render(help) + "\n")
}
