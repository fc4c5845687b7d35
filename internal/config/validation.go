package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

var knownEffects = map[string]bool{
	"sway":        true,
	"flicker":     true,
	"color_drift": true,
	"hue":         true,
	"vignette":    true,
	"steam":       true,
}

// Validate runs all validations against the config and returns structured
// results. projectRoot anchors relative paths.
func (c Config) Validate(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateAudio(projectRoot)...)
	results = append(results, c.validateVideo()...)
	results = append(results, c.validateVisuals(projectRoot)...)
	results = append(results, c.validateOverlay()...)
	results = append(results, c.validateUpload(projectRoot)...)
	results = append(results, c.validateSchedule()...)
	return results
}

func (c Config) validateAudio(projectRoot string) []ValidationResult {
	var results []ValidationResult

	switch c.Audio.Source {
	case "local":
		folder := strings.TrimSpace(c.Audio.LocalFolder)
		if folder == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: "audio.local_folder is required when audio.source is \"local\"",
			})
		} else if _, err := os.Stat(resolvePath(projectRoot, folder)); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("audio folder %q not found", folder),
			})
		}
	case "drive":
		if strings.TrimSpace(c.Audio.DriveFolderID) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: "audio.drive_folder_id is required when audio.source is \"drive\"",
			})
		}
	default:
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("unsupported audio source %q (expected \"local\" or \"drive\")", c.Audio.Source),
		})
	}

	switch c.Audio.Ordering {
	case "name", "modifiedTime":
	default:
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("unknown audio ordering %q; files will be ordered by name", c.Audio.Ordering),
		})
	}

	minSec := c.TargetMinSeconds()
	maxSec := c.TargetMaxSeconds()
	if maxSec > 0 && minSec > maxSec {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "target minimum duration exceeds target maximum duration",
		})
	}

	return results
}

func (c Config) validateVideo() []ValidationResult {
	var results []ValidationResult
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "video.width and video.height must be positive",
		})
	}
	if c.Video.FPS <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "video.fps must be positive",
		})
	}
	return results
}

func (c Config) validateVisuals(projectRoot string) []ValidationResult {
	var results []ValidationResult

	hasImage := strings.TrimSpace(c.Visuals.ImagePath) != "" ||
		strings.TrimSpace(c.Visuals.ImagePrompt) != "" ||
		c.Visuals.AutoBackground
	hasLoop := strings.TrimSpace(c.Visuals.LoopVideoPath) != ""
	if !hasImage && !hasLoop {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "provide visuals.image_path, visuals.image_prompt, visuals.loop_video_path, or enable visuals.auto_background",
		})
	}

	if path := strings.TrimSpace(c.Visuals.ImagePath); path != "" {
		if _, err := os.Stat(resolvePath(projectRoot, path)); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("image %q not found", path),
			})
		}
	}
	if path := strings.TrimSpace(c.Visuals.LoopVideoPath); path != "" {
		if _, err := os.Stat(resolvePath(projectRoot, path)); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("loop video %q not found", path),
			})
		}
	}

	for _, name := range c.Visuals.Effects {
		if !knownEffects[strings.ToLower(strings.TrimSpace(name))] {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("unknown effect %q will be ignored", name),
			})
		}
	}

	return results
}

func (c Config) validateOverlay() []ValidationResult {
	mode := strings.ToLower(strings.TrimSpace(c.Overlay.AutoMode))
	if mode != "daily" && mode != "random" {
		return []ValidationResult{{
			Level:   "warning",
			Message: fmt.Sprintf("unknown overlay auto_mode %q; treating it as \"daily\"", c.Overlay.AutoMode),
		}}
	}
	return nil
}

func (c Config) validateUpload(projectRoot string) []ValidationResult {
	if c.Upload.Enabled != nil && !*c.Upload.Enabled {
		return nil
	}

	var results []ValidationResult
	if c.Upload.Provider != "youtube" {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("unsupported upload provider %q", c.Upload.Provider),
		})
		return results
	}
	for _, pair := range [][2]string{
		{"upload.credentials_json", c.Upload.CredentialsJSON},
		{"upload.token_json", c.Upload.TokenJSON},
	} {
		path := strings.TrimSpace(pair[1])
		if path == "" {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("%s is not set; upload will fail at run time", pair[0]),
			})
			continue
		}
		if _, err := os.Stat(resolvePath(projectRoot, path)); err != nil {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("%s %q not found", pair[0], path),
			})
		}
	}
	return results
}

func (c Config) validateSchedule() []ValidationResult {
	if _, err := time.Parse("15:04", c.Schedule.DailyTime); err != nil {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("schedule.daily_time %q is not a valid HH:MM time", c.Schedule.DailyTime),
		}}
	}
	return nil
}

// resolvePath returns path as-is if absolute, otherwise joins it with root.
func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
