package paths

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveWithFlag(t *testing.T) {
	root := t.TempDir()
	pp, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if pp.Root != root {
		t.Fatalf("expected root %s, got %s", root, pp.Root)
	}
	if pp.ConfigFile != filepath.Join(root, "chillmix.yaml") {
		t.Fatalf("unexpected config file %s", pp.ConfigFile)
	}
	if pp.RunsDir != filepath.Join(root, "runs") {
		t.Fatalf("unexpected runs dir %s", pp.RunsDir)
	}
}

func TestNewRunLaysOutArtifacts(t *testing.T) {
	root := t.TempDir()
	pp, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	now := time.Date(2024, 3, 9, 6, 30, 0, 0, time.UTC)
	rp, err := pp.NewRun("daily_chill_mix", now)
	if err != nil {
		t.Fatalf("NewRun: %v", err)
	}

	if filepath.Base(rp.Dir) != "20240309-063000" {
		t.Fatalf("expected timestamped run dir, got %s", rp.Dir)
	}
	for _, dir := range []string{rp.Dir, rp.DownloadDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
	if filepath.Base(rp.Output) != "daily_chill_mix_2024-03-09.mp4" {
		t.Fatalf("unexpected output name %s", rp.Output)
	}
	if filepath.Dir(rp.Chapters) != rp.Dir {
		t.Fatalf("chapters must live inside the run dir: %s", rp.Chapters)
	}
}

func TestOutputName(t *testing.T) {
	now := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	cases := map[string]string{
		"daily_chill_mix":    "daily_chill_mix_2024-03-09",
		"mix {date} evening": "mix 2024-03-09 evening",
		"":                   "chillmix_2024-03-09",
		"  ":                 "chillmix_2024-03-09",
	}
	for input, want := range cases {
		if got := OutputName(input, now); got != want {
			t.Errorf("OutputName(%q) = %q; want %q", input, got, want)
		}
	}
}

func TestResolveIn(t *testing.T) {
	if got := ResolveIn("/project", "audio/tracks"); got != filepath.Join("/project", "audio/tracks") {
		t.Fatalf("relative path not joined: %s", got)
	}
	abs := filepath.Join(t.TempDir(), "image.png")
	if got := ResolveIn("/project", abs); got != abs {
		t.Fatalf("absolute path rewritten: %s", got)
	}
	if got := ResolveIn("/project", "  "); got != "" {
		t.Fatalf("blank path should stay empty: %q", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, err := FileExists(file)
	if err != nil || !ok {
		t.Fatalf("expected file to exist: %v", err)
	}
	ok, err = FileExists(filepath.Join(dir, "missing.mp3"))
	if err != nil || ok {
		t.Fatalf("expected missing file: ok=%v err=%v", ok, err)
	}
	ok, err = FileExists(dir)
	if err != nil || ok {
		t.Fatalf("directory must not count as file: ok=%v err=%v", ok, err)
	}
}
