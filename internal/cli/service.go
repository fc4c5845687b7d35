package cli

import (
	"context"
	"fmt"
	"log"

	"chillmix/internal/config"
	"chillmix/internal/drive"
	"chillmix/internal/generate"
	"chillmix/internal/media"
	"chillmix/internal/paths"
	"chillmix/internal/pipeline"
	"chillmix/internal/upload"
)

// buildService assembles the pipeline from configuration: the audio source,
// the optional generators, and the optional publisher. Optional pieces are
// only constructed when configuration enables them, so a local-only project
// never touches Google credentials.
func buildService(ctx context.Context, pp paths.ProjectPaths, cfg config.Config, logger *log.Logger) (*pipeline.Service, error) {
	runner := media.CmdRunner{}

	source, err := buildSource(ctx, pp, cfg)
	if err != nil {
		return nil, err
	}

	svc := &pipeline.Service{
		Config: cfg,
		Paths:  pp,
		FFmpeg: media.NewFFmpeg(runner),
		Prober: media.NewCachedProber(media.NewFFProbe(runner)),
		Source: source,
		Logger: logger,
	}

	if cfg.Visuals.ImagePrompt != "" && cfg.Generator.Image.Mode != "" {
		gen, err := generate.New(cfg.Generator.Image, runner)
		if err != nil {
			return nil, fmt.Errorf("image generator: %w", err)
		}
		svc.ImageGen = gen
	}
	if cfg.Visuals.LoopProvider == "generate" && cfg.Generator.Loop.Mode != "" {
		gen, err := generate.New(cfg.Generator.Loop, runner)
		if err != nil {
			return nil, fmt.Errorf("loop generator: %w", err)
		}
		svc.LoopGen = gen
	}

	if boolOr(cfg.Upload.Enabled, true) && cfg.Upload.CredentialsJSON != "" {
		publisher, err := upload.New(ctx,
			paths.ResolveIn(pp.Root, cfg.Upload.CredentialsJSON),
			paths.ResolveIn(pp.Root, cfg.Upload.TokenJSON),
		)
		if err != nil {
			return nil, fmt.Errorf("publisher: %w", err)
		}
		svc.Publisher = publisher
	}

	return svc, nil
}

func buildSource(ctx context.Context, pp paths.ProjectPaths, cfg config.Config) (pipeline.AudioSource, error) {
	if cfg.Audio.Source == "drive" {
		client, err := drive.New(ctx, paths.ResolveIn(pp.Root, cfg.Drive.ServiceAccountJSON))
		if err != nil {
			return nil, fmt.Errorf("drive source: %w", err)
		}
		return pipeline.DriveSource{
			Client:   client,
			FolderID: cfg.Audio.DriveFolderID,
			Ordering: cfg.Audio.Ordering,
		}, nil
	}

	folder := pp.AudioDir
	if cfg.Audio.LocalFolder != "" {
		folder = paths.ResolveIn(pp.Root, cfg.Audio.LocalFolder)
	}
	return pipeline.LocalSource{
		Folder:    folder,
		Recursive: cfg.Audio.Recursive,
		Ordering:  cfg.Audio.Ordering,
	}, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
