package playlist

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Mark is a single chapter boundary: where a track starts in the mix.
type Mark struct {
	StartSeconds float64
	Title        string
}

// Marks walks the playlist in order and emits one chapter mark per track at
// the track's start offset. Titles are the file base name without extension.
func Marks(tracks []Track) []Mark {
	marks := make([]Mark, 0, len(tracks))
	offset := 0.0
	for _, t := range tracks {
		marks = append(marks, Mark{
			StartSeconds: offset,
			Title:        baseName(t.Path),
		})
		offset += t.Duration
	}
	return marks
}

// Timestamp formats an offset as zero-padded HH:MM:SS, rounding to the
// nearest whole second.
func Timestamp(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// Tracklist renders the human-readable tracklist, one "HH:MM:SS title" line
// per chapter mark.
func Tracklist(marks []Mark) string {
	var b strings.Builder
	for _, m := range marks {
		b.WriteString(Timestamp(m.StartSeconds))
		b.WriteByte(' ')
		b.WriteString(m.Title)
		b.WriteByte('\n')
	}
	return b.String()
}

// FFMetadata renders machine-readable chapter metadata in ffmpeg's
// FFMETADATA1 format. Offsets are in milliseconds; each chapter ends where
// the next begins, and every chapter spans at least one millisecond.
func FFMetadata(tracks []Track) string {
	lines := []string{";FFMETADATA1"}
	startMS := int64(0)
	for _, t := range tracks {
		durationMS := int64(math.Round(t.Duration * 1000))
		if durationMS < 1 {
			durationMS = 1
		}
		endMS := startMS + durationMS
		lines = append(lines,
			"[CHAPTER]",
			"TIMEBASE=1/1000",
			fmt.Sprintf("START=%d", startMS),
			fmt.Sprintf("END=%d", endMS),
			"title="+escapeMetadata(baseName(t.Path)),
		)
		startMS = endMS
	}
	return strings.Join(lines, "\n") + "\n"
}

// escapeMetadata escapes the characters the ffmetadata format reserves.
func escapeMetadata(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	value = strings.ReplaceAll(value, "=", `\=`)
	value = strings.ReplaceAll(value, ";", `\;`)
	return value
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
