package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Egor213/LogBoard/internal/app"
	"github.com/Egor213/LogBoard/internal/config"
	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	"github.com/Egor213/LogBoard/internal/seeder"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	"github.com/Egor213/LogBoard/pkg/logger"
	"github.com/Egor213/LogBoard/pkg/postgres"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		count    int
		daysBack int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "seeder",
		Short: "Fill the logs table with sample entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 || daysBack < 1 {
				return fmt.Errorf("count and days must be positive")
			}
			return run(cmd, count, daysBack, seed)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", seeder.DefaultCount, "number of entries to create")
	cmd.Flags().IntVarP(&daysBack, "days", "d", seeder.DefaultDaysBack, "spread timestamps over the last N days")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	return cmd
}

func run(cmd *cobra.Command, count, daysBack int, seed int64) error {
	cfg, err := config.New()
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	logger.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	if err := app.Migrate(cfg.PG.URL, cfg.PG.ConnAttempts); err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	pg, err := postgres.New(cfg.PG.URL,
		postgres.MaxPoolSize(cfg.PG.MaxPoolSize),
		postgres.ConnAttempts(cfg.PG.ConnAttempts),
		postgres.ConnTimeout(cfg.PG.ConnTimeout),
	)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	defer pg.Close()

	repos := repo.NewRepositories(pg)
	ctx := context.Background()

	log.Infof("Generating %d sample log entries over the last %d days...", count, daysBack)
	created, err := seeder.New(repos.Log, uint64(seed)).Seed(ctx, count, daysBack)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	return printSummary(ctx, cmd, repos.Analytics, created)
}

func printSummary(ctx context.Context, cmd *cobra.Command, analytics repo.Analytics, created int) error {
	bySeverity, err := analytics.CountBySeverity(ctx, repotypes.LogFilter{})
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	sources, err := analytics.DistinctSources(ctx)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	earliest, latest, err := analytics.TimestampRange(ctx)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully created %d sample log entries!\n\nSample data summary:\n", created)
	for _, c := range bySeverity {
		fmt.Fprintf(out, "  %s: %d logs\n", c.Severity, c.Count)
	}
	fmt.Fprintf(out, "  Total unique sources: %d\n", len(sources))
	if earliest != nil && latest != nil {
		fmt.Fprintf(out, "  Date range: %s to %s\n", earliest.Format(domain.TimeLayout), latest.Format(domain.TimeLayout))
	}
	return nil
}
