package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"chillmix/internal/config"
	"chillmix/internal/logx"
	"chillmix/internal/paths"
	"chillmix/internal/pipeline"
	"chillmix/internal/playlist"
	"chillmix/internal/tui"
)

var (
	runTest        bool
	runTestMinutes float64
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a mix video",
		RunE:  runRun,
	}

	cmd.Flags().BoolVar(&runTest, "test", false, "Test mode: short mix, no upload")
	cmd.Flags().Float64Var(&runTestMinutes, "test-minutes", 0, "Duration cap in minutes for test mode")

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}
	if err := pp.EnsureDirs(); err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	for _, result := range cfg.Validate(pp.Root) {
		if result.Level == "error" {
			return fmt.Errorf("configuration: %s", result.Message)
		}
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("chillmix run: project=%s test=%v", pp.Root, runTest)

	svc, err := buildService(ctx, pp, cfg, logger)
	if err != nil {
		return err
	}
	opts := pipeline.Options{Test: runTest, TestMinutes: runTestMinutes}

	out := cmd.OutOrStdout()
	switch tui.DetectMode(out, noProgress, outputJSON) {
	case tui.ModeTUI:
		return runWithStages(ctx, out, svc, opts)
	case tui.ModeJSON:
		artifacts, err := svc.RunOnce(ctx, opts)
		if err != nil {
			return err
		}
		return writeRunJSON(out, artifacts)
	default:
		sw := tui.NewStatusWriter(os.Stderr)
		svc.Report = sw.Update
		artifacts, err := svc.RunOnce(ctx, opts)
		sw.Stop()
		if err != nil {
			return err
		}
		printRunSummary(out, artifacts)
		return nil
	}
}

// runWithStages drives the bubbletea stage display while the pipeline runs in
// the work goroutine.
func runWithStages(ctx context.Context, out io.Writer, svc *pipeline.Service, opts pipeline.Options) error {
	model := tui.NewStagesModel("Generating "+svc.Config.Project.Name, pipeline.Stages)

	var artifacts pipeline.Artifacts
	err := tui.RunWithWork(out, model, func(send func(tea.Msg)) {
		previous := ""
		svc.Report = func(step string) {
			if previous != "" {
				send(tui.StageDoneMsg{Name: previous})
			}
			previous = ""
			if step != pipeline.StageDone {
				send(tui.StageStartMsg{Name: step})
				previous = step
			}
		}

		var runErr error
		artifacts, runErr = svc.RunOnce(ctx, opts)
		if runErr != nil {
			send(tui.ErrorMsg{Err: runErr})
		}
	})
	if err != nil {
		return err
	}

	printRunSummary(out, artifacts)
	return nil
}

func printRunSummary(out io.Writer, a pipeline.Artifacts) {
	fmt.Fprintf(out, "mix: %s (%s", a.Run.Output, playlist.Timestamp(a.TotalSeconds))
	if a.Trimmed {
		fmt.Fprint(out, ", trimmed")
	}
	fmt.Fprintln(out, ")")
	if a.OverlayText != "" {
		fmt.Fprintf(out, "overlay: %s\n", a.OverlayText)
	}
	if a.VideoID != "" {
		fmt.Fprintf(out, "uploaded: https://youtu.be/%s\n", a.VideoID)
	}
}

func writeRunJSON(out io.Writer, a pipeline.Artifacts) error {
	return json.NewEncoder(out).Encode(struct {
		Output       string  `json:"output"`
		TotalSeconds float64 `json:"total_seconds"`
		Trimmed      bool    `json:"trimmed"`
		Tracks       int     `json:"tracks"`
		OverlayText  string  `json:"overlay_text,omitempty"`
		VideoID      string  `json:"video_id,omitempty"`
	}{
		Output:       a.Run.Output,
		TotalSeconds: a.TotalSeconds,
		Trimmed:      a.Trimmed,
		Tracks:       len(a.Tracks),
		OverlayText:  a.OverlayText,
		VideoID:      a.VideoID,
	})
}
