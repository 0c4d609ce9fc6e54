package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"forge/internal/events"
)

// taskTreeModel renders the Task Manager's pre-order tree as it evolves,
// grounded on cmd/nerd/ui/campaign_page.go's model/update/view split and
// lipgloss styling, but with the phase/progress dashboard replaced by a
// plain indented tree since the Task Manager's own RebuildOrder already
// carries the indentation-worthy parent/child structure.
type taskTreeModel struct {
	manager  *events.Manager
	ch       *events.Channel
	width    int
	height   int
	progress progress.Model

	header  lipgloss.Style
	running lipgloss.Style
	done    lipgloss.Style
	failed  lipgloss.Style
	pending lipgloss.Style

	diffAdded   lipgloss.Style
	diffRemoved lipgloss.Style
	diffHeader  lipgloss.Style

	// lastDiffTask is the ID of the task whose diff most recently arrived,
	// so View() shows one diff pane (the latest) rather than every task's.
	lastDiffTask string
}

func newTaskTreeModel(manager *events.Manager, ch *events.Channel) taskTreeModel {
	return taskTreeModel{
		manager:     manager,
		ch:          ch,
		width:       80,
		height:      24,
		progress:    progress.New(progress.WithDefaultGradient()),
		header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		running:     lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3")),
		done:        lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		failed:      lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
		pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		diffAdded:   lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
		diffRemoved: lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		diffHeader:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Bold(true),
	}
}

type eventMsg events.Event

func (m taskTreeModel) Init() tea.Cmd {
	return waitForEvent(m.ch)
}

func waitForEvent(ch *events.Channel) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch.Events()
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func (m taskTreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = m.width - 20
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil
	case eventMsg:
		e := events.Event(msg)
		m.manager.Observe(e)
		if e.Kind == events.KindToolCallCompleted && e.Diff != "" {
			m.lastDiffTask = e.TaskID
		}
		return m, waitForEvent(m.ch)
	default:
		return m, nil
	}
}

func (m taskTreeModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.header.Render(" forge — task manager ") + "\n\n")

	for _, d := range m.manager.RebuildOrder() {
		depth := 0
		cur := d
		for cur.ParentID != "" {
			if parent, ok := m.manager.Get(cur.ParentID); ok {
				depth++
				cur = parent
			} else {
				break
			}
		}
		indent := strings.Repeat("  ", depth)
		sb.WriteString(indent + m.statusLine(d) + "\n")
	}

	if m.lastDiffTask != "" {
		if d, ok := m.manager.Get(m.lastDiffTask); ok && d.LastDiff != "" {
			sb.WriteString("\n" + m.diffHeader.Render(fmt.Sprintf("--- %s ---", m.lastDiffTask)) + "\n")
			sb.WriteString(m.renderDiff(d.LastDiff))
		}
	}

	sb.WriteString("\n" + m.pending.Render("[q] quit"))
	return sb.String()
}

// renderDiff colorizes a unified-diff-style text (see internal/diff's
// Render) line by line, grounded on cmd/nerd/ui/diffview.go's
// renderHunkLines green-added/red-removed convention.
func (m taskTreeModel) renderDiff(rendered string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(rendered, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			sb.WriteString(m.diffAdded.Render(line) + "\n")
		case strings.HasPrefix(line, "-"):
			sb.WriteString(m.diffRemoved.Render(line) + "\n")
		default:
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

func (m taskTreeModel) statusLine(d events.TaskDisplay) string {
	switch d.Status {
	case "running":
		bar := m.progress.ViewAs(d.Percentage / 100)
		return m.running.Render(fmt.Sprintf("▶ %s (%s) ", d.ID, d.Tier)) + bar
	case "completed":
		return m.done.Render(fmt.Sprintf("✓ %s (%s)", d.ID, d.Tier))
	case "failed":
		return m.failed.Render(fmt.Sprintf("✗ %s: %s", d.ID, d.LastError))
	case "retrying":
		return m.running.Render(fmt.Sprintf("↻ %s (%s) retrying", d.ID, d.Tier))
	default:
		return m.pending.Render(fmt.Sprintf("○ %s", d.ID))
	}
}
