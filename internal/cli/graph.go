package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chillmix/internal/config"
	"chillmix/internal/overlay"
	"chillmix/internal/paths"
	"chillmix/internal/pipeline"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the compiled ffmpeg filter graphs",
		Long:  "Compiles the loop-clip filter graph and the text overlay chain from the current configuration and prints them, without invoking ffmpeg. Useful for checking motion and effect settings before a long render.",
		RunE:  runGraph,
	}
}

func runGraph(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	loopGraph := pipeline.CompileLoopGraph(cfg)

	text := overlay.Select(cfg.Overlay.Text, cfg.Overlay.AutoTexts, cfg.Overlay.AutoMode, time.Now())
	drawtext := ""
	if text != "" {
		subtitleFile := ""
		if cfg.Overlay.Subtitle != "" {
			subtitleFile = "subtitle.txt"
		}
		drawtext = pipeline.CompileDrawtext(cfg, "overlay.txt", subtitleFile)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return json.NewEncoder(out).Encode(struct {
			Loop     string `json:"loop_filter"`
			Drawtext string `json:"drawtext_filter,omitempty"`
			Text     string `json:"overlay_text,omitempty"`
		}{Loop: loopGraph, Drawtext: drawtext, Text: text})
	}

	fmt.Fprintln(out, "loop filter:")
	fmt.Fprintln(out, " ", loopGraph)
	if drawtext != "" {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "overlay text: %q\n", text)
		fmt.Fprintln(out, "drawtext filter:")
		fmt.Fprintln(out, " ", drawtext)
	}
	return nil
}
