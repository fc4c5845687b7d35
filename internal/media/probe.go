package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Prober reports the duration of a media file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFProbe measures durations by invoking ffprobe.
type FFProbe struct {
	Binary string
	Runner Runner
}

func NewFFProbe(runner Runner) *FFProbe {
	return &FFProbe{Binary: "ffprobe", Runner: runner}
}

func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	binary := p.Binary
	if binary == "" {
		binary = "ffprobe"
	}
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	result, err := p.Runner.Run(ctx, binary, args, RunOptions{})
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	text := strings.TrimSpace(string(result.Stdout))
	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("probe %s: parse duration %q: %w", path, text, err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("probe %s: negative duration %f", path, seconds)
	}
	return seconds, nil
}

// CachedProber memoizes durations per path. A playlist that wraps around the
// track list probes each file once regardless of how many times it repeats.
type CachedProber struct {
	inner Prober

	mu        sync.Mutex
	durations map[string]float64
}

func NewCachedProber(inner Prober) *CachedProber {
	return &CachedProber{inner: inner, durations: make(map[string]float64)}
}

func (c *CachedProber) Duration(ctx context.Context, path string) (float64, error) {
	c.mu.Lock()
	if seconds, ok := c.durations[path]; ok {
		c.mu.Unlock()
		return seconds, nil
	}
	c.mu.Unlock()

	seconds, err := c.inner.Duration(ctx, path)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.durations[path] = seconds
	c.mu.Unlock()
	return seconds, nil
}

var (
	_ Prober = (*FFProbe)(nil)
	_ Prober = (*CachedProber)(nil)
)
