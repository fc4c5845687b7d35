// Package pipeline orchestrates one mix generation run end to end: collect
// audio, plan the playlist, render the loop clip, burn the overlay, mux the
// chapters, and optionally publish the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"chillmix/internal/config"
	"chillmix/internal/generate"
	"chillmix/internal/media"
	"chillmix/internal/overlay"
	"chillmix/internal/paths"
	"chillmix/internal/playlist"
	"chillmix/internal/render"
	"chillmix/internal/upload"
)

// Publisher is the publishing backend for finished mixes.
type Publisher interface {
	UploadVideo(ctx context.Context, videoPath string, meta upload.Metadata) (string, error)
	SetThumbnail(ctx context.Context, videoID, thumbnailPath string) error
}

// Service wires the pipeline stages together. Only Config, Paths, FFmpeg,
// Prober and Source are required; generators and the publisher are optional
// and their stages are skipped when absent.
type Service struct {
	Config config.Config
	Paths  paths.ProjectPaths

	FFmpeg *media.FFmpeg
	Prober media.Prober
	Source AudioSource

	ImageGen  generate.Generator
	LoopGen   generate.Generator
	Publisher Publisher

	Logger *log.Logger
	Report func(step string)
	Now    func() time.Time
}

// Stage names passed to Service.Report, in execution order. StageUpload is
// only reported when a run publishes.
const (
	StageCollect  = "Collecting audio"
	StageConcat   = "Concatenating audio"
	StageLoop     = "Rendering loop clip"
	StageOverlay  = "Preparing overlay"
	StageRender   = "Rendering mix"
	StageChapters = "Writing chapters"
	StageUpload   = "Uploading"
	StageDone     = "Done"
)

// Stages lists every reportable stage in order.
var Stages = []string{
	StageCollect,
	StageConcat,
	StageLoop,
	StageOverlay,
	StageRender,
	StageChapters,
	StageUpload,
}

// Options carries per-invocation overrides from the command line.
type Options struct {
	Test        bool
	TestMinutes float64
}

// Artifacts summarizes what a run produced.
type Artifacts struct {
	Run          paths.RunPaths
	Tracks       []playlist.Track
	TotalSeconds float64
	Trimmed      bool
	OverlayText  string
	Tracklist    string
	VideoID      string
}

// RunOnce executes a full generation run and returns the produced artifacts.
func (s *Service) RunOnce(ctx context.Context, opts Options) (Artifacts, error) {
	cfg := s.Config
	now := s.now()

	rp, err := s.Paths.NewRun(cfg.Project.Name, now)
	if err != nil {
		return Artifacts{}, err
	}

	// An explicit minutes override implies a test run even without the flag.
	testEnabled := cfg.Test.Enabled || opts.Test || opts.TestMinutes > 0
	repeat := cfg.RepeatPlaylistValue()
	if testEnabled {
		repeat = cfg.Test.RepeatPlaylist
	}
	testMinutes := opts.TestMinutes
	if testMinutes <= 0 && cfg.Test.MaxMinutes != nil {
		testMinutes = *cfg.Test.MaxMinutes
	}

	s.report(StageCollect)
	tracks, err := s.collectTracks(ctx, rp.DownloadDir)
	if err != nil {
		return Artifacts{}, err
	}

	minSeconds := 0.0
	if repeat {
		minSeconds = cfg.TargetMinSeconds()
	}
	planned, total, err := playlist.Plan(tracks, minSeconds)
	if err != nil {
		return Artifacts{}, err
	}
	s.logf("planned %d tracks, %.1f seconds", len(planned), total)

	s.report(StageConcat)
	audioPath, finalSeconds, trimmed, err := s.prepareAudio(ctx, rp, planned, total, testEnabled, testMinutes, repeat)
	if err != nil {
		return Artifacts{}, err
	}

	clamped := clampTracks(planned, finalSeconds)
	marks := playlist.Marks(clamped)

	s.report(StageLoop)
	loopPath, backgroundPath, err := s.ensureLoop(ctx, rp)
	if err != nil {
		return Artifacts{}, err
	}

	s.report(StageOverlay)
	text, drawtext, err := s.prepareOverlay(rp, now)
	if err != nil {
		return Artifacts{}, err
	}
	if err := s.createThumbnail(ctx, rp, backgroundPath, text); err != nil {
		return Artifacts{}, err
	}

	s.report(StageRender)
	renderArgs, err := render.BuildRenderCmd(loopPath, audioPath, rp.Mix, render.RenderOptions{
		Resolution:      cfg.Resolution(),
		FPS:             cfg.Video.FPS,
		VideoBitrate:    cfg.Video.VideoBitrate,
		AudioBitrate:    cfg.Video.AudioBitrate,
		DurationSeconds: finalSeconds,
		Drawtext:        drawtext,
	})
	if err != nil {
		return Artifacts{}, err
	}
	if err := s.FFmpeg.Exec(ctx, renderArgs); err != nil {
		return Artifacts{}, fmt.Errorf("render mix: %w", err)
	}

	s.report(StageChapters)
	tracklistText, err := s.finishOutput(ctx, rp, clamped, marks)
	if err != nil {
		return Artifacts{}, err
	}

	artifacts := Artifacts{
		Run:          rp,
		Tracks:       clamped,
		TotalSeconds: finalSeconds,
		Trimmed:      trimmed,
		OverlayText:  text,
		Tracklist:    tracklistText,
	}

	if s.shouldUpload(testEnabled) {
		s.report(StageUpload)
		videoID, err := s.publish(ctx, rp, tracklistText, now)
		if err != nil {
			return artifacts, err
		}
		artifacts.VideoID = videoID
	}

	s.report(StageDone)
	return artifacts, nil
}

// PlanPreview collects and probes the audio, then plans the playlist without
// rendering anything.
func (s *Service) PlanPreview(ctx context.Context) ([]playlist.Track, float64, error) {
	tracks, err := s.collectTracks(ctx, s.Paths.RunsDir)
	if err != nil {
		return nil, 0, err
	}
	minSeconds := 0.0
	if s.Config.RepeatPlaylistValue() {
		minSeconds = s.Config.TargetMinSeconds()
	}
	return playlist.Plan(tracks, minSeconds)
}

func (s *Service) collectTracks(ctx context.Context, destDir string) ([]playlist.Track, error) {
	files, err := s.Source.Collect(ctx, destDir)
	if err != nil {
		return nil, err
	}

	tracks := make([]playlist.Track, 0, len(files))
	for _, path := range files {
		duration, err := s.Prober.Duration(ctx, path)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, playlist.Track{Path: path, Duration: duration})
	}
	return tracks, nil
}

func (s *Service) prepareAudio(ctx context.Context, rp paths.RunPaths, planned []playlist.Track, total float64, testEnabled bool, testMinutes float64, repeat bool) (string, float64, bool, error) {
	cfg := s.Config

	files := make([]string, len(planned))
	for i, t := range planned {
		files[i] = t.Path
	}
	if err := render.WriteConcatList(rp.ConcatList, files); err != nil {
		return "", 0, false, err
	}

	concat := render.BuildConcatAudioCmd(rp.ConcatList, rp.FullAudio, cfg.Audio.ConcatCodec, cfg.Audio.ConcatQuality, cfg.Audio.ConcatBitrate)
	if err := s.FFmpeg.Exec(ctx, concat); err != nil {
		return "", 0, false, fmt.Errorf("concatenate audio: %w", err)
	}

	// Encoder padding can shift the realized duration off the planned sum.
	if realized, err := s.Prober.Duration(ctx, rp.FullAudio); err == nil && realized > 0 {
		total = realized
	}

	maxSeconds := playlist.EffectiveMax(cfg.TargetMaxSeconds(), testEnabled, testMinutes, repeat)
	trimAt, needsTrim := playlist.TrimPoint(total, maxSeconds)
	if !needsTrim {
		return rp.FullAudio, total, false, nil
	}

	s.logf("trimming audio at %.1f seconds (total %.1f)", trimAt, total)
	trim := render.BuildTrimAudioCmd(rp.FullAudio, rp.TrimmedAudio, trimAt, cfg.Audio.ConcatCodec, cfg.Audio.ConcatQuality, cfg.Audio.ConcatBitrate)
	if err := s.FFmpeg.Exec(ctx, trim); err != nil {
		return "", 0, false, fmt.Errorf("trim audio: %w", err)
	}
	return rp.TrimmedAudio, trimAt, true, nil
}

// ensureLoop resolves the looping clip: a preexisting file wins, then the
// configured generator, then an ffmpeg render over the background image.
func (s *Service) ensureLoop(ctx context.Context, rp paths.RunPaths) (loopPath, backgroundPath string, err error) {
	cfg := s.Config
	visuals := cfg.Visuals

	if visuals.LoopVideoPath != "" {
		path := paths.ResolveIn(s.Paths.Root, visuals.LoopVideoPath)
		ok, err := paths.FileExists(path)
		if err != nil {
			return "", "", err
		}
		if !ok {
			return "", "", fmt.Errorf("loop video %s does not exist", path)
		}
		return path, "", nil
	}

	if visuals.LoopProvider == "generate" {
		if s.LoopGen == nil {
			return "", "", errors.New("loop provider is \"generate\" but no loop generator is configured")
		}
		if err := s.LoopGen.Generate(ctx, visuals.VideoPrompt, rp.LoopVideo); err != nil {
			return "", "", err
		}
		return rp.LoopVideo, "", nil
	}

	backgroundPath, err = s.ensureBackground(ctx, rp)
	if err != nil {
		return "", "", err
	}

	graph := CompileLoopGraph(cfg)
	args, err := render.BuildLoopVideoCmd(backgroundPath, rp.LoopVideo, visuals.LoopSeconds, cfg.Video.FPS, graph)
	if err != nil {
		return "", "", err
	}
	if err := s.FFmpeg.Exec(ctx, args); err != nil {
		return "", "", fmt.Errorf("render loop clip: %w", err)
	}
	return rp.LoopVideo, backgroundPath, nil
}

func (s *Service) ensureBackground(ctx context.Context, rp paths.RunPaths) (string, error) {
	visuals := s.Config.Visuals

	if visuals.ImagePath != "" {
		path := paths.ResolveIn(s.Paths.Root, visuals.ImagePath)
		ok, err := paths.FileExists(path)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("background image %s does not exist", path)
		}
		return path, nil
	}

	if visuals.ImagePrompt != "" && s.ImageGen != nil {
		if err := s.ImageGen.Generate(ctx, visuals.ImagePrompt, rp.Background); err != nil {
			return "", err
		}
		return rp.Background, nil
	}

	if visuals.AutoBackground {
		args := render.BuildColorImageCmd(rp.Background, visuals.BackgroundColor, s.Config.Resolution())
		if err := s.FFmpeg.Exec(ctx, args); err != nil {
			return "", fmt.Errorf("render background: %w", err)
		}
		return rp.Background, nil
	}

	return "", errors.New("no background image configured: set image_path, image_prompt or auto_background")
}

func (s *Service) prepareOverlay(rp paths.RunPaths, now time.Time) (text, drawtext string, err error) {
	cfg := s.Config
	text = overlay.Select(cfg.Overlay.Text, cfg.Overlay.AutoTexts, cfg.Overlay.AutoMode, now)
	if text == "" {
		return "", "", nil
	}

	titleFile, err := overlay.WriteTextfile(rp.Dir, text)
	if err != nil {
		return "", "", err
	}

	subtitleFile := ""
	if cfg.Overlay.Subtitle != "" {
		subtitleFile = filepath.Join(rp.Dir, "subtitle.txt")
		if err := os.WriteFile(subtitleFile, []byte(cfg.Overlay.Subtitle), 0o644); err != nil {
			return "", "", fmt.Errorf("write subtitle text: %w", err)
		}
	}

	if cfg.Overlay.ApplyToVideo != nil && !*cfg.Overlay.ApplyToVideo {
		return text, "", nil
	}
	return text, CompileDrawtext(cfg, titleFile, subtitleFile), nil
}

// createThumbnail burns the overlay onto the background still. Runs that use
// a preexisting loop video have no background, so nothing is produced.
func (s *Service) createThumbnail(ctx context.Context, rp paths.RunPaths, backgroundPath, text string) error {
	cfg := s.Config
	if text == "" || backgroundPath == "" {
		return nil
	}
	if cfg.Overlay.CreateThumbnail != nil && !*cfg.Overlay.CreateThumbnail {
		return nil
	}

	titleFile, err := overlay.WriteTextfile(rp.Dir, text)
	if err != nil {
		return err
	}
	args := render.BuildStillCmd(backgroundPath, rp.Thumbnail, CompileDrawtext(cfg, titleFile, ""))
	if err := s.FFmpeg.Exec(ctx, args); err != nil {
		return fmt.Errorf("render thumbnail: %w", err)
	}
	return nil
}

// finishOutput writes the tracklist, embeds chapter metadata, and moves the
// rendered mix to its final name.
func (s *Service) finishOutput(ctx context.Context, rp paths.RunPaths, tracks []playlist.Track, marks []playlist.Mark) (string, error) {
	cfg := s.Config

	tracklistText := ""
	if boolValue(cfg.Tracklist.Enabled, true) {
		tracklistText = playlist.Tracklist(marks)
		if err := os.WriteFile(rp.Tracklist, []byte(tracklistText), 0o644); err != nil {
			return "", fmt.Errorf("write tracklist: %w", err)
		}
	}

	if boolValue(cfg.Tracklist.Enabled, true) && boolValue(cfg.Tracklist.EmbedChapters, true) {
		metadata := playlist.FFMetadata(tracks)
		if err := os.WriteFile(rp.Chapters, []byte(metadata), 0o644); err != nil {
			return "", fmt.Errorf("write chapter metadata: %w", err)
		}
		args := render.BuildMuxChaptersCmd(rp.Mix, rp.Chapters, rp.Output)
		if err := s.FFmpeg.Exec(ctx, args); err != nil {
			return "", fmt.Errorf("mux chapters: %w", err)
		}
		os.Remove(rp.Mix)
		return tracklistText, nil
	}

	if err := os.Rename(rp.Mix, rp.Output); err != nil {
		return "", fmt.Errorf("finalize output: %w", err)
	}
	return tracklistText, nil
}

func (s *Service) shouldUpload(testEnabled bool) bool {
	cfg := s.Config
	if s.Publisher == nil || !boolValue(cfg.Upload.Enabled, true) {
		return false
	}
	if testEnabled && boolValue(cfg.Test.DisableUpload, true) {
		return false
	}
	return true
}

func (s *Service) publish(ctx context.Context, rp paths.RunPaths, tracklistText string, now time.Time) (string, error) {
	cfg := s.Config

	title := cfg.Upload.TitleTemplate
	if title == "" {
		title = cfg.Project.Name + " {date}"
	}
	description := tracklistText
	if !boolValue(cfg.Tracklist.AppendToDescription, true) {
		description = ""
	}

	meta := upload.Metadata{
		Title:       upload.RenderTemplate(title, now),
		Description: upload.BuildDescription(cfg.Upload.DescriptionTemplate, description, now),
		Tags:        cfg.Upload.Tags,
		CategoryID:  cfg.Upload.CategoryID,
		Privacy:     cfg.Upload.PrivacyStatus,
	}

	videoID, err := s.Publisher.UploadVideo(ctx, rp.Output, meta)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	s.logf("uploaded video %s", videoID)

	if cfg.Overlay.UploadThumbnail {
		if ok, _ := paths.FileExists(rp.Thumbnail); ok {
			if err := s.Publisher.SetThumbnail(ctx, videoID, rp.Thumbnail); err != nil {
				return videoID, err
			}
		}
	}
	return videoID, nil
}

// clampTracks cuts the planned playlist at the enforced duration bound. The
// track straddling the bound keeps only its remaining portion so chapter
// offsets stay inside the final mix.
func clampTracks(tracks []playlist.Track, maxSeconds float64) []playlist.Track {
	if maxSeconds <= 0 {
		return tracks
	}
	var clamped []playlist.Track
	offset := 0.0
	for _, t := range tracks {
		if offset >= maxSeconds {
			break
		}
		remaining := maxSeconds - offset
		if t.Duration > remaining {
			t.Duration = remaining
		}
		clamped = append(clamped, t)
		offset += t.Duration
	}
	return clamped
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) report(step string) {
	if s.Report != nil {
		s.Report(step)
	}
	s.logf("%s", step)
}

func (s *Service) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func boolValue(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
