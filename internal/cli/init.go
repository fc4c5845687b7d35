package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chillmix/internal/config"
	"chillmix/internal/logx"
	"chillmix/internal/paths"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a chillmix project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return nextAvailableDir(cwd)
}

func nextAvailableDir(base string) (string, error) {
	for i := 1; ; i++ {
		candidate := filepath.Join(base, fmt.Sprintf("chillmix-%d", i))
		exists, err := paths.DirExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("chillmix init: project=%s", pp.Root)

	created := false
	if ok, err := paths.FileExists(pp.ConfigFile); err != nil {
		return err
	} else if !ok {
		data, err := config.Default().Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		created = true
	}

	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "Initialized project in %s\n", pp.Root)
		fmt.Fprintf(out, "Edit %s, drop tracks into %s, then run `chillmix run --test`.\n", pp.ConfigFile, pp.AudioDir)
	} else {
		fmt.Fprintf(out, "Project already initialized in %s\n", pp.Root)
	}
	return nil
}
