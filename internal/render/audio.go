package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteConcatList writes an ffmpeg concat-demuxer list, one `file '...'`
// line per playlist entry. Single quotes inside paths use the shell-style
// '\'' escape the demuxer expects.
func WriteConcatList(listPath string, files []string) error {
	var b strings.Builder
	for _, path := range files {
		safe := strings.ReplaceAll(filepath.ToSlash(path), "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", safe)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

// BuildConcatAudioCmd assembles the ffmpeg arguments that concatenate the
// playlist into a single audio file.
func BuildConcatAudioCmd(listPath, outputPath, codec string, quality *int, bitrate string) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:a", codec,
	}
	args = append(args, audioQualityArgs(codec, quality, bitrate)...)
	return append(args, outputPath)
}

// BuildTrimAudioCmd assembles the ffmpeg arguments that cut the concatenated
// audio at the enforced maximum. The offset is formatted to millisecond
// precision so repeated runs do not drift.
func BuildTrimAudioCmd(inputPath, outputPath string, maxSeconds float64, codec string, quality *int, bitrate string) []string {
	args := []string{
		"-y",
		"-i", inputPath,
		"-t", fmt.Sprintf("%.3f", maxSeconds),
		"-c:a", codec,
	}
	args = append(args, audioQualityArgs(codec, quality, bitrate)...)
	return append(args, outputPath)
}

func audioQualityArgs(codec string, quality *int, bitrate string) []string {
	var args []string
	if codec == "libmp3lame" && quality != nil {
		args = append(args, "-q:a", strconv.Itoa(*quality))
	}
	if bitrate != "" {
		args = append(args, "-b:a", bitrate)
	}
	return args
}
