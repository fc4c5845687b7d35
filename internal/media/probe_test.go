package media

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeRunner struct {
	calls   []string
	outputs map[string]string
	err     error
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, _ RunOptions) (RunResult, error) {
	path := args[len(args)-1]
	f.calls = append(f.calls, command+" "+path)
	if f.err != nil {
		return RunResult{}, f.err
	}
	return RunResult{Stdout: []byte(f.outputs[path])}, nil
}

func TestFFProbeDuration(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"/audio/a.mp3": "187.403000\n"}}
	probe := NewFFProbe(runner)

	seconds, err := probe.Duration(context.Background(), "/audio/a.mp3")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if seconds != 187.403 {
		t.Fatalf("seconds = %f; want 187.403", seconds)
	}
	if len(runner.calls) != 1 || !strings.HasPrefix(runner.calls[0], "ffprobe ") {
		t.Fatalf("calls = %v", runner.calls)
	}
}

func TestFFProbeDurationErrors(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"/audio/b.mp3": "N/A"}}
	probe := NewFFProbe(runner)
	if _, err := probe.Duration(context.Background(), "/audio/b.mp3"); err == nil {
		t.Fatal("expected parse error for non-numeric duration")
	}

	runner = &fakeRunner{err: errors.New("exit status 1")}
	probe = NewFFProbe(runner)
	if _, err := probe.Duration(context.Background(), "/audio/c.mp3"); err == nil {
		t.Fatal("expected error when ffprobe fails")
	}
}

func TestCachedProberProbesOnce(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"/audio/a.mp3": "10.0",
		"/audio/b.mp3": "20.0",
	}}
	cached := NewCachedProber(NewFFProbe(runner))

	for i := 0; i < 3; i++ {
		for path, want := range map[string]float64{"/audio/a.mp3": 10, "/audio/b.mp3": 20} {
			got, err := cached.Duration(context.Background(), path)
			if err != nil {
				t.Fatalf("Duration(%s): %v", path, err)
			}
			if got != want {
				t.Fatalf("Duration(%s) = %f; want %f", path, got, want)
			}
		}
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 probe invocations, got %d: %v", len(runner.calls), runner.calls)
	}
}

func TestFFmpegExecFoldsStderr(t *testing.T) {
	runner := &stderrRunner{}
	ff := NewFFmpeg(runner)
	err := ff.Exec(context.Background(), []string{"-i", "missing.mp3", "out.mp3"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "No such file or directory") {
		t.Fatalf("stderr not folded into error: %v", err)
	}
	if runner.args[0] != "-hide_banner" {
		t.Fatalf("quiet flags missing: %v", runner.args)
	}
}

type stderrRunner struct {
	args []string
}

func (s *stderrRunner) Run(_ context.Context, _ string, args []string, _ RunOptions) (RunResult, error) {
	s.args = args
	return RunResult{Stderr: []byte("missing.mp3: No such file or directory\n")}, errors.New("exit status 1")
}
