package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteConcatListQuoting(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "concat.txt")
	err := WriteConcatList(listPath, []string{
		"/audio/calm night.mp3",
		"/audio/it's late.mp3",
	})
	if err != nil {
		t.Fatalf("WriteConcatList: %v", err)
	}

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	want := "file '/audio/calm night.mp3'\n" +
		"file '/audio/it'\\''s late.mp3'\n"
	if string(data) != want {
		t.Fatalf("list = %q; want %q", data, want)
	}
}

func TestBuildConcatAudioCmdQualityArgs(t *testing.T) {
	quality := 2
	args := BuildConcatAudioCmd("concat.txt", "full.mp3", "libmp3lame", &quality, "")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-f concat -safe 0 -i concat.txt") {
		t.Fatalf("concat demuxer args missing: %q", joined)
	}
	if !strings.Contains(joined, "-c:a libmp3lame -q:a 2") {
		t.Fatalf("quality args missing: %q", joined)
	}
	if args[len(args)-1] != "full.mp3" {
		t.Fatalf("output must be last: %v", args)
	}

	// Quality only applies to libmp3lame; other codecs fall back to bitrate.
	args = BuildConcatAudioCmd("concat.txt", "full.m4a", "aac", &quality, "192k")
	joined = strings.Join(args, " ")
	if strings.Contains(joined, "-q:a") {
		t.Fatalf("unexpected quality arg for aac: %q", joined)
	}
	if !strings.Contains(joined, "-b:a 192k") {
		t.Fatalf("bitrate missing: %q", joined)
	}
}

func TestBuildTrimAudioCmdMillisecondPrecision(t *testing.T) {
	args := BuildTrimAudioCmd("full.mp3", "trim.mp3", 28800.5, "libmp3lame", nil, "")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-t 28800.500") {
		t.Fatalf("trim offset not millisecond precise: %q", joined)
	}
}

func TestBuildLoopVideoCmdValidation(t *testing.T) {
	if _, err := BuildLoopVideoCmd("bg.png", "loop.mp4", 5, 30, ""); err == nil {
		t.Fatal("expected error for empty filter graph")
	}
	if _, err := BuildLoopVideoCmd("bg.png", "loop.mp4", 0, 30, "scale=1920x1080"); err == nil {
		t.Fatal("expected error for non-positive duration")
	}

	args, err := BuildLoopVideoCmd("bg.png", "loop.mp4", 5, 30, "scale=1920x1080")
	if err != nil {
		t.Fatalf("BuildLoopVideoCmd: %v", err)
	}
	joined := strings.Join(args, " ")
	for _, part := range []string{"-loop 1", "-t 5", "-vf scale=1920x1080", "-r 30", "-pix_fmt yuv420p"} {
		if !strings.Contains(joined, part) {
			t.Errorf("missing %q in %q", part, joined)
		}
	}
}

func TestBuildRenderCmd(t *testing.T) {
	if _, err := BuildRenderCmd("", "audio.mp3", "out.mp4", RenderOptions{}); err == nil {
		t.Fatal("expected error for missing loop path")
	}

	args, err := BuildRenderCmd("loop.mp4", "audio.mp3", "out.mp4", RenderOptions{
		Resolution:      "1920x1080",
		FPS:             30,
		VideoBitrate:    "6000k",
		AudioBitrate:    "192k",
		DurationSeconds: 120.25,
		Drawtext:        "drawtext=textfile=t.txt:fontcolor=white:fontsize=96:x=(w-text_w)/2:y=(h-text_h)/2",
	})
	if err != nil {
		t.Fatalf("BuildRenderCmd: %v", err)
	}
	joined := strings.Join(args, " ")
	for _, part := range []string{
		"-stream_loop -1",
		"-vf scale=1920x1080,drawtext=",
		"-c:v libx264",
		"-shortest",
		"-t 120.250",
	} {
		if !strings.Contains(joined, part) {
			t.Errorf("missing %q in %q", part, joined)
		}
	}

	// Without a duration bound the render runs to -shortest alone.
	args, _ = BuildRenderCmd("loop.mp4", "audio.mp3", "out.mp4", RenderOptions{Resolution: "1920x1080", FPS: 30, VideoBitrate: "6000k", AudioBitrate: "192k"})
	if strings.Contains(strings.Join(args, " "), " -t ") {
		t.Fatalf("unexpected duration arg: %v", args)
	}
}

func TestBuildMuxChaptersCmdCopiesStreams(t *testing.T) {
	args := BuildMuxChaptersCmd("mix.mp4", "chapters.ffmeta", "final.mp4")
	joined := strings.Join(args, " ")
	for _, part := range []string{
		"-f ffmetadata -i chapters.ffmeta",
		"-map_metadata 1",
		"-codec copy",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, part) {
			t.Errorf("missing %q in %q", part, joined)
		}
	}
}
