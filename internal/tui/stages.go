package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// stage tracks one pipeline step through its lifecycle.
type stage struct {
	name    string
	state   string // pending, running, done, failed, skipped
	detail  string
	started time.Time
	elapsed time.Duration
}

// StagesModel is a bubbletea model that renders the pipeline's stages as a
// checklist: finished stages with their timing, the running stage with a
// spinner, the rest pending.
type StagesModel struct {
	title   string
	stages  []stage
	index   map[string]int
	spinner spinner.Model
	done    bool
	err     error
}

// NewStagesModel creates a model with the given title and ordered stage names.
func NewStagesModel(title string, names []string) StagesModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	m := StagesModel{
		title:   title,
		index:   make(map[string]int, len(names)),
		spinner: sp,
	}
	for i, name := range names {
		m.index[name] = i
		m.stages = append(m.stages, stage{name: name, state: "pending"})
	}
	return m
}

func (m StagesModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m StagesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StageStartMsg:
		if i, ok := m.index[msg.Name]; ok {
			m.stages[i].state = "running"
			m.stages[i].started = time.Now()
		}
		return m, nil

	case StageDoneMsg:
		if i, ok := m.index[msg.Name]; ok {
			s := &m.stages[i]
			s.state = "done"
			s.detail = msg.Detail
			if !s.started.IsZero() {
				s.elapsed = time.Since(s.started)
			}
		}
		return m, nil

	case WorkDoneMsg:
		m.done = true
		m.finishPending("skipped")
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		m.finishPending("failed")
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// finishPending resolves any still-running stage when the program ends.
func (m *StagesModel) finishPending(state string) {
	for i := range m.stages {
		if m.stages[i].state == "running" {
			m.stages[i].state = state
		}
	}
}

func (m StagesModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteByte('\n')

	for _, s := range m.stages {
		marker := "  "
		switch s.state {
		case "running":
			marker = m.spinner.View()
		case "done":
			marker = StageStyle("done").Render("✓ ")
		case "failed":
			marker = StageStyle("failed").Render("✗ ")
		case "skipped":
			marker = StageStyle("skipped").Render("- ")
		}

		line := s.name
		if s.detail != "" {
			line += "  " + s.detail
		} else if s.state == "done" && s.elapsed > 0 {
			line += "  " + formatElapsed(s.elapsed)
		}
		fmt.Fprintf(&b, "%s%s\n", marker, StageStyle(s.state).Render(line))
	}

	if m.done && m.err != nil {
		fmt.Fprintf(&b, "\nError: %v\n", m.err)
	}
	return b.String()
}

// Done reports whether the model has finished.
func (m StagesModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m StagesModel) Err() error {
	return m.err
}
