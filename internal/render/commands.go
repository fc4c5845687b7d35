package render

import (
	"errors"
	"fmt"
	"strconv"
)

// BuildColorImageCmd renders a flat background color as a still image.
func BuildColorImageCmd(outputPath, color, resolution string) []string {
	return []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%s", color, resolution),
		"-frames:v", "1",
		outputPath,
	}
}

// BuildLoopVideoCmd renders the short looping clip from a still image using
// the composed motion/effect filter graph.
func BuildLoopVideoCmd(imagePath, outputPath string, seconds, fps int, filterGraph string) ([]string, error) {
	if filterGraph == "" {
		return nil, errors.New("filter graph is empty")
	}
	if seconds <= 0 {
		return nil, errors.New("loop duration must be positive")
	}
	return []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-t", strconv.Itoa(seconds),
		"-vf", filterGraph,
		"-r", strconv.Itoa(fps),
		"-pix_fmt", "yuv420p",
		outputPath,
	}, nil
}

// BuildStillCmd renders a single frame with a drawtext stage applied, used
// for the thumbnail image.
func BuildStillCmd(imagePath, outputPath, drawtext string) []string {
	return []string{
		"-y",
		"-i", imagePath,
		"-vf", drawtext,
		"-frames:v", "1",
		outputPath,
	}
}

// RenderOptions carries the encoding parameters for the final mix render.
type RenderOptions struct {
	Resolution      string
	FPS             int
	VideoBitrate    string
	AudioBitrate    string
	DurationSeconds float64
	Drawtext        string
}

// BuildRenderCmd assembles the final render: the loop clip repeated for the
// full mix length, the concatenated audio, and optionally the text overlay.
func BuildRenderCmd(loopPath, audioPath, outputPath string, opts RenderOptions) ([]string, error) {
	if loopPath == "" || audioPath == "" || outputPath == "" {
		return nil, errors.New("loop, audio, and output paths are required")
	}

	filter := "scale=" + opts.Resolution
	if opts.Drawtext != "" {
		filter = filter + "," + opts.Drawtext
	}

	args := []string{
		"-y",
		"-stream_loop", "-1",
		"-i", loopPath,
		"-i", audioPath,
		"-vf", filter,
		"-r", strconv.Itoa(opts.FPS),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-b:v", opts.VideoBitrate,
		"-c:a", "aac",
		"-b:a", opts.AudioBitrate,
		"-shortest",
	}
	if opts.DurationSeconds > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", opts.DurationSeconds))
	}
	return append(args, outputPath), nil
}

// BuildMuxChaptersCmd remuxes the finished video with chapter metadata
// attached, copying streams without re-encoding.
func BuildMuxChaptersCmd(videoPath, metadataPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-f", "ffmetadata",
		"-i", metadataPath,
		"-map", "0",
		"-map_metadata", "1",
		"-codec", "copy",
		"-movflags", "+faststart",
		outputPath,
	}
}
