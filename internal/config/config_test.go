package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chillmix.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Project.Name != "daily_chill_mix" {
		t.Fatalf("project name = %q", cfg.Project.Name)
	}
	if cfg.TargetMinSeconds() != 8*3600 {
		t.Fatalf("TargetMinSeconds = %f; want %f", cfg.TargetMinSeconds(), 8.0*3600)
	}
	if cfg.TargetMaxSeconds() != 9*3600 {
		t.Fatalf("TargetMaxSeconds = %f; want %f", cfg.TargetMaxSeconds(), 9.0*3600)
	}
	if !cfg.RepeatPlaylistValue() {
		t.Fatal("repeat_playlist should default to true")
	}
	if cfg.Resolution() != "1920x1080" {
		t.Fatalf("Resolution = %q", cfg.Resolution())
	}
}

func TestLoadMinutesWinOverHours(t *testing.T) {
	path := writeConfig(t, `
audio:
  target_hours_min: 8
  target_hours_max: 9
  target_minutes_min: 30
  target_minutes_max: 45
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TargetMinSeconds() != 1800 {
		t.Fatalf("TargetMinSeconds = %f; want 1800", cfg.TargetMinSeconds())
	}
	if cfg.TargetMaxSeconds() != 2700 {
		t.Fatalf("TargetMaxSeconds = %f; want 2700", cfg.TargetMaxSeconds())
	}
}

func TestLoadAppliesNestedDefaults(t *testing.T) {
	path := writeConfig(t, `
project:
  name: evening_mix
audio:
  source: local
  local_folder: tracks
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Project.Name != "evening_mix" {
		t.Fatalf("name = %q", cfg.Project.Name)
	}
	if cfg.Audio.LocalFolder != "tracks" {
		t.Fatalf("local_folder = %q", cfg.Audio.LocalFolder)
	}
	if cfg.Video.FPS != DefaultFPS {
		t.Fatalf("fps = %d", cfg.Video.FPS)
	}
	if cfg.Visuals.LoopSeconds != DefaultLoopSeconds {
		t.Fatalf("loop seconds = %d", cfg.Visuals.LoopSeconds)
	}
	if cfg.Overlay.SubtitleSize != DefaultFontSize/2 {
		t.Fatalf("subtitle size = %d", cfg.Overlay.SubtitleSize)
	}
	if cfg.Schedule.DailyTime != "03:00" {
		t.Fatalf("daily time = %q", cfg.Schedule.DailyTime)
	}
}

func TestSteamDefaults(t *testing.T) {
	var s SteamConfig
	if s.OpacityValue() != DefaultSteamOpacity {
		t.Fatalf("opacity = %f", s.OpacityValue())
	}
	if s.BlurValue() != DefaultSteamBlur {
		t.Fatalf("blur = %f", s.BlurValue())
	}
	if s.NoiseValue() != DefaultSteamNoise {
		t.Fatalf("noise = %d", s.NoiseValue())
	}

	custom := 0.2
	s.Opacity = &custom
	if s.OpacityValue() != 0.2 {
		t.Fatalf("explicit opacity = %f", s.OpacityValue())
	}
}

func TestZoomAmountValue(t *testing.T) {
	var v VisualsConfig
	if v.ZoomAmountValue() != DefaultZoomAmount {
		t.Fatalf("zoom = %f", v.ZoomAmountValue())
	}
	zero := 0.0
	v.ZoomAmount = &zero
	if v.ZoomAmountValue() != 0 {
		t.Fatal("explicit zero zoom must not fall back to the default")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Overlay.AutoTexts = []string{"Night Drive", "Slow Morning"}

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	path := writeConfig(t, string(data))
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Overlay.AutoTexts) != 2 || loaded.Overlay.AutoTexts[0] != "Night Drive" {
		t.Fatalf("auto texts = %v", loaded.Overlay.AutoTexts)
	}
	if loaded.TargetMinSeconds() != cfg.TargetMinSeconds() {
		t.Fatal("target duration changed across round trip")
	}
}
