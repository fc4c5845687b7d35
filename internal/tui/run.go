package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWithWork creates a bubbletea program, launches workFn in a goroutine,
// and blocks until the program exits. workFn receives a send callback that
// wraps tea.Program.Send with a small yield so the renderer can draw between
// rapid stage transitions.
func RunWithWork(out io.Writer, model StagesModel, workFn func(send func(tea.Msg))) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	go func() {
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)

		workFn(func(msg tea.Msg) {
			p.Send(msg)
			time.Sleep(5 * time.Millisecond)
		})

		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(StagesModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
