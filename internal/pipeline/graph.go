package pipeline

import (
	"chillmix/internal/config"
	"chillmix/internal/render"
)

// CompileLoopGraph builds the complete loop-clip filter graph from visual
// configuration: motion expressions sized to the clip length, then the
// ordered effect chain.
func CompileLoopGraph(cfg config.Config) string {
	frames := cfg.Visuals.LoopSeconds * cfg.Video.FPS
	motion := render.BuildMotion(
		cfg.Visuals.MotionStyle,
		cfg.Visuals.ZoomAmountValue(),
		cfg.Visuals.PanAmount,
		frames,
	)
	chain := render.CompileEffects(cfg.Visuals.Effects, effectParams(cfg), float64(cfg.Visuals.LoopSeconds))
	return render.ComposeLoopFilter(cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS, motion, chain)
}

func effectParams(cfg config.Config) render.EffectParams {
	steam := cfg.Visuals.Steam
	return render.EffectParams{
		SwayDegrees:   cfg.Visuals.SwayDegrees,
		FlickerAmount: cfg.Visuals.FlickerAmount,
		HueDegrees:    cfg.Visuals.HueDegrees,
		VignetteAngle: cfg.Visuals.VignetteAngle,
		Steam: render.SteamParams{
			Opacity: steam.OpacityValue(),
			Blur:    steam.BlurValue(),
			Noise:   steam.NoiseValue(),
			DriftX:  steam.DriftXValue(),
			DriftY:  steam.DriftYValue(),
		},
	}
}

// CompileDrawtext builds the overlay filter chain from configuration and the
// side-channel text files written for the run. The subtitle file may be empty
// when no subtitle is configured.
func CompileDrawtext(cfg config.Config, titleFile, subtitleFile string) string {
	overlay := cfg.Overlay
	title := render.DrawtextOptions{
		TextFile:    titleFile,
		FontFile:    overlay.FontFile,
		Font:        overlay.Font,
		FontSize:    overlay.FontSize,
		FontColor:   overlay.FontColor,
		X:           overlay.X,
		Y:           overlay.Y,
		BorderColor: overlay.OutlineColor,
		BorderWidth: overlay.OutlineWidth,
		BoxColor:    overlay.BoxColor,
		BoxBorderW:  overlay.BoxBorderW,
		ShadowColor: overlay.ShadowColor,
		ShadowX:     overlay.ShadowX,
		ShadowY:     overlay.ShadowY,
	}
	subtitle := render.DrawtextOptions{
		TextFile:    subtitleFile,
		FontFile:    overlay.FontFile,
		Font:        overlay.Font,
		FontSize:    overlay.SubtitleSize,
		FontColor:   overlay.FontColor,
		X:           overlay.X,
		BorderColor: overlay.OutlineColor,
		BorderWidth: overlay.OutlineWidth,
	}
	return render.ChainDrawtext(title, subtitle)
}
