package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chillmix/internal/config"
	"chillmix/internal/logx"
	"chillmix/internal/paths"
	"chillmix/internal/pipeline"
)

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the generator daily at the configured time",
		Long:  "Blocks and generates one mix per day at schedule.daily_time, until interrupted. A failed run is logged and the next day's run still happens.",
		RunE:  runSchedule,
	}
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureDirs(); err != nil {
		return err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}
	if cfg.Schedule.Enabled != nil && !*cfg.Schedule.Enabled {
		return fmt.Errorf("scheduling is disabled in %s", pp.ConfigFile)
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "scheduling daily run at %s (ctrl-c to stop)\n", cfg.Schedule.DailyTime)

	err = pipeline.RunDaily(ctx, cfg.Schedule.DailyTime, func(runCtx context.Context) error {
		svc, err := buildService(runCtx, pp, cfg, logger)
		if err != nil {
			return err
		}
		_, err = svc.RunOnce(runCtx, pipeline.Options{})
		return err
	}, logger)

	if err == context.Canceled {
		return nil
	}
	return err
}
