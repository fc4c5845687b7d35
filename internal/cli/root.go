package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectDir string
	outputJSON bool
	noProgress bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chillmix",
		Short: "Ambient mix video generator",
		Long:  "chillmix assembles long-form ambient music videos: it plans a playlist to a target length, renders an animated loop over a still image, burns in the title overlay, embeds chapter markers and optionally publishes the result.",
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to project directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable animated progress output")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newGraphCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newScheduleCmd())

	return cmd
}
