package playlist

import (
	"errors"
	"fmt"
)

// ErrNoAudio is returned when planning is attempted over an empty track list.
var ErrNoAudio = errors.New("no audio tracks available")

// Track is a single audio file with its probed duration.
type Track struct {
	Path     string
	Duration float64 // seconds
}

// Plan builds a playlist whose cumulative duration is at least minSeconds,
// cycling through tracks in order as many times as needed. With
// minSeconds <= 0 the input passes through unchanged and the exact sum of
// durations is reported.
func Plan(tracks []Track, minSeconds float64) ([]Track, float64, error) {
	if len(tracks) == 0 {
		return nil, 0, ErrNoAudio
	}

	if minSeconds <= 0 {
		total := 0.0
		for _, t := range tracks {
			total += t.Duration
		}
		return tracks, total, nil
	}

	cycle := 0.0
	for _, t := range tracks {
		cycle += t.Duration
	}
	if cycle <= 0 {
		return nil, 0, fmt.Errorf("cannot reach %.1f seconds: no track has a measurable duration", minSeconds)
	}

	var (
		out   []Track
		total float64
	)
	for i := 0; total < minSeconds; i++ {
		track := tracks[i%len(tracks)]
		out = append(out, track)
		total += track.Duration
	}
	return out, total, nil
}

// TrimPoint reports whether the realized total exceeds the maximum bound and,
// if so, the offset at which the rendered audio must be cut. maxSeconds <= 0
// disables the bound.
func TrimPoint(totalSeconds, maxSeconds float64) (float64, bool) {
	if maxSeconds <= 0 || totalSeconds <= maxSeconds {
		return 0, false
	}
	return maxSeconds, true
}

// EffectiveMax resolves the maximum-duration bound for a run. A test-mode
// minutes override wins over the configured maximum; when the override is
// unset and the test run disabled playlist repetition, no bound applies at
// all. configuredMax <= 0 means no configured maximum.
func EffectiveMax(configuredMax float64, testEnabled bool, testMinutes float64, repeat bool) float64 {
	if !testEnabled {
		return configuredMax
	}
	if testMinutes > 0 {
		return testMinutes * 60
	}
	if !repeat {
		return 0
	}
	return configuredMax
}
