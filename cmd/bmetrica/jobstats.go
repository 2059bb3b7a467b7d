package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/indraniel/bmetrica/internal/collector"
	"github.com/indraniel/bmetrica/internal/report"
	"github.com/indraniel/bmetrica/pkg/config"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// defaultThreshold is the epoch as a wall-clock time, so every row qualifies.
var defaultThreshold = time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local)

// NewJobStatsCmd creates the jobstats command
func NewJobStatsCmd() *cobra.Command {
	var (
		opts      report.JobOptions
		threshold string
		melt      bool
		asJSON    bool
		rateLimit float64
	)

	cmd := &cobra.Command{
		Use:   "jobstats [flags] JOB_ID... | -",
		Short: "Show accounting statistics for LSF jobs",
		Long: `Show accounting statistics for one or more LSF jobs.

By default only the most recent record of each job is shown. Pass "-" to
read newline-separated job ids from standard input.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return bmerrors.NewUsageError("at least one job id (or '-') is required")
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.JobIDs = args

			shape, err := report.ShapeFromFlags(melt, asJSON, opts.Parse)
			if err != nil {
				return err
			}
			opts.Shape = shape

			opts.Threshold = defaultThreshold
			if threshold != "" {
				opts.Threshold, err = config.ParseTimestamp(threshold, time.Now())
				if err != nil {
					return bmerrors.NewUsageError("invalid --threshold: %v", err)
				}
			}

			if rateLimit < 0 && cmd.Flags().Changed("rate") {
				return bmerrors.NewUsageError("--rate must not be negative")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts.Debug)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rate") {
				cfg.QueryRate = rateLimit
			}

			limiter := collector.NewRateLimiter(cfg.QueryRate)
			return withSession(cmd, cfg, logger, func(ctx context.Context, exec collector.Executor, streams report.Streams) error {
				return report.NewJobStats(exec, opts, limiter, streams, logger).Run(ctx)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.ShowAll, "all", "a", false, "Show every historical record of each job")
	cmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Print the DSN and rendered SQL to stderr")
	cmd.Flags().BoolVarP(&opts.Recent, "recent", "r", false, "Only search the current job tables")
	cmd.Flags().StringVarP(&threshold, "threshold", "t", "", "Ignore jobs submitted before this time (YYYY-MM-DD [HH:MM:SS] or a duration like 90d)")
	cmd.Flags().BoolVarP(&melt, "melt", "m", false, "Display job stats in melted format")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Display job stats in JSON format")
	cmd.Flags().BoolVarP(&opts.Parse, "parse", "p", false, "Output columns in tab-delimited format")
	cmd.Flags().Float64Var(&rateLimit, "rate", 0, "Maximum job queries per second (0 = unlimited)")

	return cmd
}
