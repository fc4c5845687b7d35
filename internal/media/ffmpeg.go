package media

import (
	"context"
	"fmt"
	"strings"
)

// FFmpeg invokes the ffmpeg binary with prepared argument slices. Output is
// kept quiet except for errors; on failure the tail of stderr is folded into
// the returned error because ffmpeg reports everything there.
type FFmpeg struct {
	Binary string
	Runner Runner
}

func NewFFmpeg(runner Runner) *FFmpeg {
	return &FFmpeg{Binary: "ffmpeg", Runner: runner}
}

func (f *FFmpeg) Exec(ctx context.Context, args []string) error {
	binary := f.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	full := append([]string{"-hide_banner", "-loglevel", "error"}, args...)
	result, err := f.Runner.Run(ctx, binary, full, RunOptions{})
	if err != nil {
		return fmt.Errorf("ffmpeg: %w%s", err, stderrTail(result.Stderr))
	}
	return nil
}

// stderrTail keeps errors readable when ffmpeg dumps multi-screen output.
func stderrTail(stderr []byte) string {
	text := strings.TrimSpace(string(stderr))
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 8 {
		lines = lines[len(lines)-8:]
	}
	return ": " + strings.Join(lines, "; ")
}
