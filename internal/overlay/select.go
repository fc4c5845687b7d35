// Package overlay resolves the rotating title text rendered onto a mix.
package overlay

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Select resolves the overlay text for a run. An explicit text always wins
// once trimmed; otherwise one of the candidates is chosen by mode. Mode
// "random" picks uniformly per invocation; anything else selects
// deterministically per calendar day, cycling through all candidates before
// repeating.
func Select(explicit string, candidates []string, mode string, today time.Time) string {
	if text := strings.TrimSpace(explicit); text != "" {
		return text
	}
	if len(candidates) == 0 {
		return ""
	}
	if strings.ToLower(strings.TrimSpace(mode)) == "random" {
		return candidates[rand.Intn(len(candidates))]
	}
	idx := dayOrdinal(today) % len(candidates)
	return candidates[idx]
}

// dayOrdinal maps a calendar date to a stable day count. Only the date
// matters; time of day and zone offsets within the day do not change it.
func dayOrdinal(t time.Time) int {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(midnight.Unix() / 86400)
}

// WriteTextfile writes the overlay payload to a side-channel file so the text
// never has to be escaped inside the filter expression. It returns the file
// path for use as a drawtext textfile argument.
func WriteTextfile(dir, text string) (string, error) {
	path := filepath.Join(dir, "overlay.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write overlay text: %w", err)
	}
	return path, nil
}
