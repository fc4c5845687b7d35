package tui

// StageStartMsg marks a named stage as running.
type StageStartMsg struct {
	Name string
}

// StageDoneMsg marks a named stage as finished, with an optional detail
// shown next to it ("8h12m", "trimmed at 8h30m").
type StageDoneMsg struct {
	Name   string
	Detail string
}

// WorkDoneMsg signals that the whole run has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the program should quit.
type ErrorMsg struct {
	Err error
}
