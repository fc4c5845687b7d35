package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Baseline values applied wherever the YAML omits a field.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
	DefaultFPS    = 30

	DefaultTargetHoursMin = 8.0
	DefaultTargetHoursMax = 9.0

	DefaultLoopSeconds = 5
	DefaultZoomAmount  = 0.02

	DefaultFontSize     = 96
	DefaultOutlineWidth = 4

	DefaultSteamOpacity = 0.08
	DefaultSteamBlur    = 10.0
	DefaultSteamNoise   = 12
	DefaultSteamDriftX  = 0.02
	DefaultSteamDriftY  = 0.05
)

// Config captures the full per-project configuration for a mix run.
type Config struct {
	Version   int              `yaml:"version"`
	Project   ProjectConfig    `yaml:"project"`
	Audio     AudioConfig      `yaml:"audio"`
	Video     VideoConfig      `yaml:"video"`
	Visuals   VisualsConfig    `yaml:"visuals"`
	Overlay   OverlayConfig    `yaml:"text_overlay"`
	Tracklist TracklistConfig  `yaml:"tracklist"`
	Drive     DriveConfig      `yaml:"drive"`
	Upload    UploadConfig     `yaml:"upload"`
	Schedule  ScheduleConfig   `yaml:"schedule"`
	Test      TestConfig       `yaml:"test"`
	Generator GeneratorsConfig `yaml:"generators"`
}

// ProjectConfig names the project and the output location for runs.
type ProjectConfig struct {
	Name      string `yaml:"name"`
	OutputDir string `yaml:"output_dir"`
}

// AudioConfig describes where tracks come from and how long the mix should be.
// Minutes fields take precedence over the legacy hours fields when both are
// present.
type AudioConfig struct {
	Source        string `yaml:"source"` // "local" or "drive"
	LocalFolder   string `yaml:"local_folder"`
	Recursive     bool   `yaml:"recursive"`
	Ordering      string `yaml:"ordering"` // "name" or "modifiedTime"
	DriveFolderID string `yaml:"drive_folder_id"`

	RepeatPlaylist *bool `yaml:"repeat_playlist,omitempty"`

	TargetHoursMin   *float64 `yaml:"target_hours_min,omitempty"`
	TargetHoursMax   *float64 `yaml:"target_hours_max,omitempty"`
	TargetMinutesMin *float64 `yaml:"target_minutes_min,omitempty"`
	TargetMinutesMax *float64 `yaml:"target_minutes_max,omitempty"`

	ConcatCodec   string `yaml:"concat_codec"`
	ConcatQuality *int   `yaml:"concat_quality,omitempty"`
	ConcatBitrate string `yaml:"concat_bitrate"`
}

// VideoConfig contains output sizing, framerate and bitrates.
type VideoConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	FPS          int    `yaml:"fps"`
	VideoBitrate string `yaml:"video_bitrate"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

// VisualsConfig controls the background image, the looping clip and the
// animated camera motion and effects composited onto it.
type VisualsConfig struct {
	ImagePath       string `yaml:"image_path"`
	ImagePrompt     string `yaml:"image_prompt"`
	AutoBackground  bool   `yaml:"auto_background"`
	BackgroundColor string `yaml:"background_color"`

	LoopVideoPath string `yaml:"loop_video_path"`
	LoopProvider  string `yaml:"loop_provider"` // "", "ffmpeg" or "generate"
	VideoPrompt   string `yaml:"video_prompt"`
	LoopSeconds   int    `yaml:"loop_duration_seconds"`

	MotionStyle string   `yaml:"motion_style"` // smooth, cinematic, orbit
	ZoomAmount  *float64 `yaml:"loop_zoom_amount,omitempty"`
	PanAmount   float64  `yaml:"loop_pan_amount"`

	Effects       []string    `yaml:"effects"`
	SwayDegrees   float64     `yaml:"sway_degrees"`
	FlickerAmount float64     `yaml:"flicker_amount"`
	HueDegrees    float64     `yaml:"hue_degrees"`
	VignetteAngle string      `yaml:"vignette_angle"`
	Steam         SteamConfig `yaml:"steam"`
}

// SteamConfig parameterizes the translucent drifting steam layer.
type SteamConfig struct {
	Opacity *float64 `yaml:"opacity,omitempty"`
	Blur    *float64 `yaml:"blur,omitempty"`
	Noise   *int     `yaml:"noise,omitempty"`
	DriftX  *float64 `yaml:"drift_x,omitempty"`
	DriftY  *float64 `yaml:"drift_y,omitempty"`
}

// OverlayConfig styles the rotating title text burned into the video.
type OverlayConfig struct {
	Text      string   `yaml:"text"`
	AutoTexts []string `yaml:"auto_texts"`
	AutoMode  string   `yaml:"auto_mode"` // "daily" or "random"

	FontFile     string `yaml:"fontfile"`
	Font         string `yaml:"font"`
	FontSize     int    `yaml:"font_size"`
	FontColor    string `yaml:"font_color"`
	OutlineColor string `yaml:"outline_color"`
	OutlineWidth int    `yaml:"outline_width"`
	BoxColor     string `yaml:"box_color"`
	BoxBorderW   *int   `yaml:"box_borderw,omitempty"`
	ShadowColor  string `yaml:"shadow_color"`
	ShadowX      *int   `yaml:"shadow_x,omitempty"`
	ShadowY      *int   `yaml:"shadow_y,omitempty"`
	X            string `yaml:"x"`
	Y            string `yaml:"y"`

	Subtitle        string `yaml:"subtitle"`
	SubtitleSize    int    `yaml:"subtitle_size"`
	ApplyToVideo    *bool  `yaml:"apply_to_video,omitempty"`
	CreateThumbnail *bool  `yaml:"create_thumbnail,omitempty"`
	UploadThumbnail bool   `yaml:"upload_thumbnail"`
}

// TracklistConfig controls chapter metadata and the plain-text tracklist.
type TracklistConfig struct {
	Enabled             *bool `yaml:"enabled,omitempty"`
	EmbedChapters       *bool `yaml:"embed_chapters,omitempty"`
	AppendToDescription *bool `yaml:"append_to_description,omitempty"`
}

// DriveConfig holds Google Drive credentials for the audio source.
type DriveConfig struct {
	UseServiceAccount  *bool  `yaml:"use_service_account,omitempty"`
	ServiceAccountJSON string `yaml:"service_account_json"`
	OAuthClientJSON    string `yaml:"oauth_client_json"`
	TokenJSON          string `yaml:"token_json"`
}

// UploadConfig describes the publishing step.
type UploadConfig struct {
	Enabled             *bool    `yaml:"enabled,omitempty"`
	Provider            string   `yaml:"provider"`
	CredentialsJSON     string   `yaml:"credentials_json"`
	TokenJSON           string   `yaml:"token_json"`
	PrivacyStatus       string   `yaml:"privacy_status"`
	CategoryID          string   `yaml:"category_id"`
	TitleTemplate       string   `yaml:"title_template"`
	DescriptionTemplate string   `yaml:"description_template"`
	Tags                []string `yaml:"tags"`
}

// ScheduleConfig enables the built-in daily scheduler.
type ScheduleConfig struct {
	Enabled   *bool  `yaml:"enabled,omitempty"`
	DailyTime string `yaml:"daily_time"` // "HH:MM" local time
}

// TestConfig holds preview-run overrides.
type TestConfig struct {
	Enabled        bool     `yaml:"enabled"`
	MaxMinutes     *float64 `yaml:"max_minutes,omitempty"`
	RepeatPlaylist bool     `yaml:"repeat_playlist"`
	DisableUpload  *bool    `yaml:"disable_upload,omitempty"`
}

// GeneratorsConfig configures the pluggable image and loop-clip generators.
type GeneratorsConfig struct {
	Image GeneratorConfig `yaml:"image"`
	Loop  GeneratorConfig `yaml:"loop"`
}

// GeneratorConfig selects one generator variant. Mode "command" runs the
// argv template; mode "http" posts the prompt to the endpoint.
type GeneratorConfig struct {
	Mode      string   `yaml:"mode"`
	Command   []string `yaml:"command"`
	Endpoint  string   `yaml:"endpoint"`
	APIKeyEnv string   `yaml:"api_key_env"`
	Model     string   `yaml:"model"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Project: ProjectConfig{
			Name:      "daily_chill_mix",
			OutputDir: "runs",
		},
		Audio: AudioConfig{
			Source:         "local",
			LocalFolder:    "audio",
			Ordering:       "name",
			RepeatPlaylist: boolPtr(true),
			TargetHoursMin: floatPtr(DefaultTargetHoursMin),
			TargetHoursMax: floatPtr(DefaultTargetHoursMax),
			ConcatCodec:    "libmp3lame",
			ConcatQuality:  intPtr(2),
		},
		Video: VideoConfig{
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			FPS:          DefaultFPS,
			VideoBitrate: "4500k",
			AudioBitrate: "192k",
		},
		Visuals: VisualsConfig{
			BackgroundColor: "black",
			LoopSeconds:     DefaultLoopSeconds,
			MotionStyle:     "smooth",
			ZoomAmount:      floatPtr(DefaultZoomAmount),
		},
		Overlay: OverlayConfig{
			AutoMode:        "daily",
			FontSize:        DefaultFontSize,
			FontColor:       "white",
			OutlineColor:    "black",
			OutlineWidth:    DefaultOutlineWidth,
			X:               "(w-text_w)/2",
			Y:               "(h-text_h)/2",
			ApplyToVideo:    boolPtr(true),
			CreateThumbnail: boolPtr(true),
		},
		Tracklist: TracklistConfig{
			Enabled:             boolPtr(true),
			EmbedChapters:       boolPtr(true),
			AppendToDescription: boolPtr(true),
		},
		Drive: DriveConfig{
			UseServiceAccount: boolPtr(true),
		},
		Upload: UploadConfig{
			Enabled:       boolPtr(true),
			Provider:      "youtube",
			PrivacyStatus: "public",
			CategoryID:    "10",
		},
		Schedule: ScheduleConfig{
			Enabled:   boolPtr(true),
			DailyTime: "03:00",
		},
		Test: TestConfig{
			DisableUpload: boolPtr(true),
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Project.Name == "" {
		c.Project.Name = defaults.Project.Name
	}
	if c.Project.OutputDir == "" {
		c.Project.OutputDir = defaults.Project.OutputDir
	}
	if c.Audio.Source == "" {
		c.Audio.Source = defaults.Audio.Source
	}
	if c.Audio.Source == "local" && c.Audio.LocalFolder == "" {
		c.Audio.LocalFolder = defaults.Audio.LocalFolder
	}
	if c.Audio.Ordering == "" {
		c.Audio.Ordering = defaults.Audio.Ordering
	}
	if c.Audio.RepeatPlaylist == nil {
		c.Audio.RepeatPlaylist = boolPtr(true)
	}
	if c.Audio.ConcatCodec == "" {
		c.Audio.ConcatCodec = defaults.Audio.ConcatCodec
	}
	if c.Audio.ConcatQuality == nil {
		c.Audio.ConcatQuality = intPtr(2)
	}
	if c.Video.Width == 0 {
		c.Video.Width = defaults.Video.Width
	}
	if c.Video.Height == 0 {
		c.Video.Height = defaults.Video.Height
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = defaults.Video.FPS
	}
	if c.Video.VideoBitrate == "" {
		c.Video.VideoBitrate = defaults.Video.VideoBitrate
	}
	if c.Video.AudioBitrate == "" {
		c.Video.AudioBitrate = defaults.Video.AudioBitrate
	}
	if c.Visuals.BackgroundColor == "" {
		c.Visuals.BackgroundColor = defaults.Visuals.BackgroundColor
	}
	if c.Visuals.LoopSeconds == 0 {
		c.Visuals.LoopSeconds = defaults.Visuals.LoopSeconds
	}
	if c.Visuals.MotionStyle == "" {
		c.Visuals.MotionStyle = defaults.Visuals.MotionStyle
	}
	if c.Visuals.ZoomAmount == nil {
		c.Visuals.ZoomAmount = floatPtr(DefaultZoomAmount)
	}
	if c.Overlay.AutoMode == "" {
		c.Overlay.AutoMode = defaults.Overlay.AutoMode
	}
	if c.Overlay.FontSize == 0 {
		c.Overlay.FontSize = defaults.Overlay.FontSize
	}
	if c.Overlay.FontColor == "" {
		c.Overlay.FontColor = defaults.Overlay.FontColor
	}
	if c.Overlay.OutlineColor == "" {
		c.Overlay.OutlineColor = defaults.Overlay.OutlineColor
	}
	if c.Overlay.OutlineWidth == 0 {
		c.Overlay.OutlineWidth = defaults.Overlay.OutlineWidth
	}
	if c.Overlay.X == "" {
		c.Overlay.X = defaults.Overlay.X
	}
	if c.Overlay.Y == "" {
		c.Overlay.Y = defaults.Overlay.Y
	}
	if c.Overlay.SubtitleSize == 0 {
		c.Overlay.SubtitleSize = c.Overlay.FontSize / 2
	}
	if c.Overlay.ApplyToVideo == nil {
		c.Overlay.ApplyToVideo = boolPtr(true)
	}
	if c.Overlay.CreateThumbnail == nil {
		c.Overlay.CreateThumbnail = boolPtr(true)
	}
	if c.Tracklist.Enabled == nil {
		c.Tracklist.Enabled = boolPtr(true)
	}
	if c.Tracklist.EmbedChapters == nil {
		c.Tracklist.EmbedChapters = boolPtr(true)
	}
	if c.Tracklist.AppendToDescription == nil {
		c.Tracklist.AppendToDescription = boolPtr(true)
	}
	if c.Drive.UseServiceAccount == nil {
		c.Drive.UseServiceAccount = boolPtr(true)
	}
	if c.Upload.Enabled == nil {
		c.Upload.Enabled = boolPtr(true)
	}
	if c.Upload.Provider == "" {
		c.Upload.Provider = defaults.Upload.Provider
	}
	if c.Upload.PrivacyStatus == "" {
		c.Upload.PrivacyStatus = defaults.Upload.PrivacyStatus
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = defaults.Upload.CategoryID
	}
	if c.Schedule.Enabled == nil {
		c.Schedule.Enabled = boolPtr(true)
	}
	if c.Schedule.DailyTime == "" {
		c.Schedule.DailyTime = defaults.Schedule.DailyTime
	}
	if c.Test.DisableUpload == nil {
		c.Test.DisableUpload = boolPtr(true)
	}
}

// TargetMinSeconds returns the minimum mix duration in seconds. The minutes
// field wins over the legacy hours field when both are configured.
func (c Config) TargetMinSeconds() float64 {
	if c.Audio.TargetMinutesMin != nil {
		return *c.Audio.TargetMinutesMin * 60
	}
	if c.Audio.TargetHoursMin != nil {
		return *c.Audio.TargetHoursMin * 3600
	}
	return 0
}

// TargetMaxSeconds returns the maximum mix duration in seconds, or 0 when no
// maximum is configured. Minutes win over the legacy hours field.
func (c Config) TargetMaxSeconds() float64 {
	if c.Audio.TargetMinutesMax != nil {
		return *c.Audio.TargetMinutesMax * 60
	}
	if c.Audio.TargetHoursMax != nil {
		return *c.Audio.TargetHoursMax * 3600
	}
	return 0
}

// Resolution formats the output size the way ffmpeg filter args expect it.
func (c Config) Resolution() string {
	return fmt.Sprintf("%dx%d", c.Video.Width, c.Video.Height)
}

// RepeatPlaylistValue returns the effective repeat flag applying defaults.
func (c Config) RepeatPlaylistValue() bool {
	if c.Audio.RepeatPlaylist == nil {
		return true
	}
	return *c.Audio.RepeatPlaylist
}

// ZoomAmountValue returns the effective zoom amount applying defaults.
func (v VisualsConfig) ZoomAmountValue() float64 {
	if v.ZoomAmount == nil {
		return DefaultZoomAmount
	}
	return *v.ZoomAmount
}

// OpacityValue returns the effective steam opacity applying defaults.
func (s SteamConfig) OpacityValue() float64 {
	if s.Opacity == nil {
		return DefaultSteamOpacity
	}
	return *s.Opacity
}

// BlurValue returns the effective steam blur sigma applying defaults.
func (s SteamConfig) BlurValue() float64 {
	if s.Blur == nil {
		return DefaultSteamBlur
	}
	return *s.Blur
}

// NoiseValue returns the effective steam noise amount applying defaults.
func (s SteamConfig) NoiseValue() int {
	if s.Noise == nil {
		return DefaultSteamNoise
	}
	return *s.Noise
}

// DriftXValue returns the effective horizontal drift applying defaults.
func (s SteamConfig) DriftXValue() float64 {
	if s.DriftX == nil {
		return DefaultSteamDriftX
	}
	return *s.DriftX
}

// DriftYValue returns the effective vertical drift applying defaults.
func (s SteamConfig) DriftYValue() float64 {
	if s.DriftY == nil {
		return DefaultSteamDriftY
	}
	return *s.DriftY
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
