package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"chillmix/internal/config"
	"chillmix/internal/paths"
)

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the project configuration",
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	results := cfg.Validate(pp.Root)
	out := cmd.OutOrStdout()

	if outputJSON {
		return json.NewEncoder(out).Encode(results)
	}

	hasErrors := false
	for _, r := range results {
		switch r.Level {
		case "error":
			hasErrors = true
			fmt.Fprintf(out, "%s %s\n", errorStyle.Render("error:"), r.Message)
		default:
			fmt.Fprintf(out, "%s %s\n", warnStyle.Render("warning:"), r.Message)
		}
	}
	if len(results) == 0 {
		fmt.Fprintln(out, okStyle.Render("configuration OK"))
	}
	if hasErrors {
		return fmt.Errorf("configuration has errors")
	}
	return nil
}
