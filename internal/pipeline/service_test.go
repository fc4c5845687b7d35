package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"chillmix/internal/config"
	"chillmix/internal/media"
	"chillmix/internal/paths"
	"chillmix/internal/playlist"
	"chillmix/internal/upload"
)

// ffmpegFake records every invocation and creates the output file each
// command names, so later stages find their inputs on disk.
type ffmpegFake struct {
	invocations [][]string
}

func (f *ffmpegFake) Run(_ context.Context, _ string, args []string, _ media.RunOptions) (media.RunResult, error) {
	f.invocations = append(f.invocations, args)
	output := args[len(args)-1]
	if filepath.IsAbs(output) {
		os.WriteFile(output, []byte("artifact"), 0o644)
	}
	return media.RunResult{}, nil
}

func (f *ffmpegFake) joined() string {
	var all []string
	for _, inv := range f.invocations {
		all = append(all, strings.Join(inv, " "))
	}
	return strings.Join(all, "\n")
}

type proberFake struct {
	durations map[string]float64
}

func (p proberFake) Duration(_ context.Context, path string) (float64, error) {
	return p.durations[filepath.Base(path)], nil
}

type sourceFake struct {
	files []string
}

func (s sourceFake) Collect(_ context.Context, _ string) ([]string, error) {
	return s.files, nil
}

type publisherFake struct {
	uploaded   string
	thumbnails []string
	meta       upload.Metadata
}

func (p *publisherFake) UploadVideo(_ context.Context, videoPath string, meta upload.Metadata) (string, error) {
	p.uploaded = videoPath
	p.meta = meta
	return "vid123", nil
}

func (p *publisherFake) SetThumbnail(_ context.Context, _, thumbnailPath string) error {
	p.thumbnails = append(p.thumbnails, thumbnailPath)
	return nil
}

func newTestService(t *testing.T, cfg config.Config, files map[string]float64) (*Service, *ffmpegFake) {
	t.Helper()
	root := t.TempDir()
	pp, err := paths.Resolve(root)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	durations := make(map[string]float64, len(files))
	for name, seconds := range files {
		path := filepath.Join(root, name)
		if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
		names = append(names, path)
		durations[name] = seconds
	}
	sort.Strings(names)

	runner := &ffmpegFake{}
	svc := &Service{
		Config: cfg,
		Paths:  pp,
		FFmpeg: media.NewFFmpeg(runner),
		Prober: proberFake{durations: durations},
		Source: sourceFake{files: names},
		Now:    func() time.Time { return time.Date(2024, 3, 9, 6, 0, 0, 0, time.UTC) },
	}
	return svc, runner
}

func baseConfig() config.Config {
	cfg := config.Default()
	cfg.ApplyDefaults()
	cfg.Visuals.AutoBackground = true
	cfg.Audio.TargetHoursMin = nil
	cfg.Audio.TargetHoursMax = nil
	cfg.Upload.Enabled = new(bool)
	return cfg
}

func TestRunOnceProducesArtifacts(t *testing.T) {
	cfg := baseConfig()
	cfg.Overlay.Text = "Midnight Rain"

	svc, runner := newTestService(t, cfg, map[string]float64{
		"a.mp3": 30,
		"b.mp3": 45,
	})

	artifacts, err := svc.RunOnce(context.Background(), Options{})
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if artifacts.TotalSeconds != 75 {
		t.Fatalf("TotalSeconds = %f; want 75", artifacts.TotalSeconds)
	}
	if artifacts.Trimmed {
		t.Fatal("nothing should be trimmed without a maximum")
	}
	if artifacts.OverlayText != "Midnight Rain" {
		t.Fatalf("OverlayText = %q", artifacts.OverlayText)
	}
	if !strings.Contains(artifacts.Tracklist, "00:00:00 a\n00:00:30 b\n") {
		t.Fatalf("Tracklist = %q", artifacts.Tracklist)
	}

	joined := runner.joined()
	for _, fragment := range []string{
		"-f concat -safe 0",
		"zoompan=",
		"drawtext=",
		"-f ffmetadata",
		// The final render pins the mix length explicitly.
		"-t 75.000",
	} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("expected an invocation containing %q:\n%s", fragment, joined)
		}
	}

	if _, err := os.Stat(artifacts.Run.Output); err != nil {
		t.Fatalf("final output missing: %v", err)
	}
	data, err := os.ReadFile(artifacts.Run.ConcatList)
	if err != nil {
		t.Fatalf("concat list missing: %v", err)
	}
	if strings.Count(string(data), "file '") != 2 {
		t.Fatalf("concat list = %q", data)
	}
}

func TestRunOncePlansToMinimumAndTrimsAtMaximum(t *testing.T) {
	cfg := baseConfig()
	minMinutes, maxMinutes := 2.0, 2.25
	cfg.Audio.TargetMinutesMin = &minMinutes
	cfg.Audio.TargetMinutesMax = &maxMinutes

	svc, runner := newTestService(t, cfg, map[string]float64{
		"a.mp3": 50,
	})

	artifacts, err := svc.RunOnce(context.Background(), Options{})
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	// One 50s track wraps to 3 plays (150s >= 120s), then trims at 135s.
	if !artifacts.Trimmed {
		t.Fatal("expected trim at the configured maximum")
	}
	if artifacts.TotalSeconds != 135 {
		t.Fatalf("TotalSeconds = %f; want 135", artifacts.TotalSeconds)
	}
	if len(artifacts.Tracks) != 3 {
		t.Fatalf("expected 3 clamped tracks, got %d", len(artifacts.Tracks))
	}
	if last := artifacts.Tracks[2].Duration; last != 35 {
		t.Fatalf("last track duration = %f; want 35", last)
	}
	if !strings.Contains(runner.joined(), "-t 135.000") {
		t.Fatalf("trim command missing:\n%s", runner.joined())
	}
}

func TestRunOnceTestModeCapsAndSkipsUpload(t *testing.T) {
	cfg := baseConfig()
	cfg.Upload.Enabled = nil
	cfg.ApplyDefaults()

	publisher := &publisherFake{}
	svc, _ := newTestService(t, cfg, map[string]float64{"a.mp3": 120})
	svc.Publisher = publisher

	artifacts, err := svc.RunOnce(context.Background(), Options{Test: true, TestMinutes: 0.5})
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if artifacts.TotalSeconds != 30 {
		t.Fatalf("TotalSeconds = %f; want 30 in test mode", artifacts.TotalSeconds)
	}
	if publisher.uploaded != "" {
		t.Fatal("test mode must not upload")
	}
}

func TestRunOnceMinutesOverrideImpliesTestMode(t *testing.T) {
	cfg := baseConfig()
	cfg.Upload.Enabled = nil
	cfg.ApplyDefaults()

	publisher := &publisherFake{}
	svc, _ := newTestService(t, cfg, map[string]float64{"a.mp3": 120})
	svc.Publisher = publisher

	// The minutes override alone enters test mode; no flag required.
	artifacts, err := svc.RunOnce(context.Background(), Options{TestMinutes: 0.5})
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if artifacts.TotalSeconds != 30 {
		t.Fatalf("TotalSeconds = %f; want 30 with minutes override", artifacts.TotalSeconds)
	}
	if publisher.uploaded != "" {
		t.Fatal("minutes override must not upload")
	}
}

func TestRunOnceUploadsWithMetadata(t *testing.T) {
	cfg := baseConfig()
	cfg.Upload.Enabled = nil
	cfg.ApplyDefaults()
	cfg.Upload.TitleTemplate = "Chill Mix {date}"
	cfg.Upload.Tags = []string{"lofi", "ambient"}
	cfg.Overlay.Text = "Evening Mix"
	cfg.Overlay.UploadThumbnail = true

	publisher := &publisherFake{}
	svc, _ := newTestService(t, cfg, map[string]float64{"a.mp3": 60})
	svc.Publisher = publisher

	artifacts, err := svc.RunOnce(context.Background(), Options{})
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if artifacts.VideoID != "vid123" {
		t.Fatalf("VideoID = %q", artifacts.VideoID)
	}
	if publisher.uploaded != artifacts.Run.Output {
		t.Fatalf("uploaded %q; want %q", publisher.uploaded, artifacts.Run.Output)
	}
	if publisher.meta.Title != "Chill Mix 2024-03-09" {
		t.Fatalf("title = %q", publisher.meta.Title)
	}
	if !strings.Contains(publisher.meta.Description, "00:00:00 a") {
		t.Fatalf("description should carry the tracklist: %q", publisher.meta.Description)
	}
	if len(publisher.thumbnails) != 1 {
		t.Fatalf("thumbnail not uploaded: %v", publisher.thumbnails)
	}
}

func TestRunOnceNoAudio(t *testing.T) {
	svc, _ := newTestService(t, baseConfig(), nil)
	if _, err := svc.RunOnce(context.Background(), Options{}); err == nil {
		t.Fatal("expected error with no audio tracks")
	}
}

func TestClampTracks(t *testing.T) {
	tracks := []playlist.Track{
		{Path: "a.mp3", Duration: 30},
		{Path: "b.mp3", Duration: 30},
		{Path: "c.mp3", Duration: 30},
	}

	clamped := clampTracks(tracks, 45)
	if len(clamped) != 2 {
		t.Fatalf("len = %d; want 2", len(clamped))
	}
	if clamped[1].Duration != 15 {
		t.Fatalf("straddling track duration = %f; want 15", clamped[1].Duration)
	}

	if got := clampTracks(tracks, 0); len(got) != 3 {
		t.Fatalf("zero bound must keep everything, got %d", len(got))
	}
	if got := clampTracks(tracks, 200); len(got) != 3 || got[2].Duration != 30 {
		t.Fatalf("bound beyond total must not alter tracks: %v", got)
	}
}

func TestNextRun(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 9, 2, 0, 0, 0, loc)

	next := nextRun(now, 3, 0)
	if !next.Equal(time.Date(2024, 3, 9, 3, 0, 0, 0, loc)) {
		t.Fatalf("next = %s", next)
	}

	// A time already past today rolls to tomorrow.
	next = nextRun(now, 1, 30)
	if !next.Equal(time.Date(2024, 3, 10, 1, 30, 0, 0, loc)) {
		t.Fatalf("next = %s", next)
	}

	// Exactly now also rolls to tomorrow.
	next = nextRun(now, 2, 0)
	if !next.Equal(time.Date(2024, 3, 10, 2, 0, 0, 0, loc)) {
		t.Fatalf("next = %s", next)
	}
}
