package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"chillmix/internal/config"
	"chillmix/internal/logx"
	"chillmix/internal/paths"
	"chillmix/internal/playlist"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Preview the playlist a run would produce",
		Long:  "Collects and probes the audio, plans the playlist to the configured minimum length, and prints the resulting track order with chapter timestamps. Nothing is rendered.",
		RunE:  runPlan,
	}
}

func runPlan(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	svc, err := buildService(cmd.Context(), pp, cfg, logx.Discard())
	if err != nil {
		return err
	}

	planned, total, err := svc.PlanPreview(cmd.Context())
	if err != nil {
		return err
	}
	marks := playlist.Marks(planned)

	maxSeconds := cfg.TargetMaxSeconds()
	trimAt, trims := playlist.TrimPoint(total, maxSeconds)

	out := cmd.OutOrStdout()
	if outputJSON {
		type entry struct {
			Start    string  `json:"start"`
			Title    string  `json:"title"`
			Duration float64 `json:"duration_seconds"`
		}
		payload := struct {
			Tracks       []entry `json:"tracks"`
			TotalSeconds float64 `json:"total_seconds"`
			TrimSeconds  float64 `json:"trim_seconds,omitempty"`
		}{TotalSeconds: total}
		for i, m := range marks {
			payload.Tracks = append(payload.Tracks, entry{
				Start:    playlist.Timestamp(m.StartSeconds),
				Title:    m.Title,
				Duration: planned[i].Duration,
			})
		}
		if trims {
			payload.TrimSeconds = trimAt
		}
		return json.NewEncoder(out).Encode(payload)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "START\tTRACK\tLENGTH")
	for i, m := range marks {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			playlist.Timestamp(m.StartSeconds),
			m.Title,
			playlist.Timestamp(planned[i].Duration),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d tracks, %s total", len(planned), playlist.Timestamp(total))
	if uniq := uniqueTracks(planned); uniq < len(planned) {
		fmt.Fprintf(out, " (%d unique, playlist wraps)", uniq)
	}
	fmt.Fprintln(out)
	if trims {
		fmt.Fprintf(out, "would trim at %s\n", playlist.Timestamp(trimAt))
	}
	return nil
}

func uniqueTracks(tracks []playlist.Track) int {
	seen := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		seen[filepath.Clean(strings.ToLower(t.Path))] = true
	}
	return len(seen)
}
