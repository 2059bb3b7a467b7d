package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/indraniel/bmetrica/internal/collector"
	"github.com/indraniel/bmetrica/internal/models"
	"github.com/indraniel/bmetrica/internal/report"
	"github.com/indraniel/bmetrica/pkg/config"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// NewHostgroupCmd creates the hostgroup command
func NewHostgroupCmd() *cobra.Command {
	var (
		opts  report.HostgroupOptions
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "hostgroup [flags] [HOSTGROUP]",
		Short: "Summarize LSF job counts per hostgroup, user or host",
		Long: `Summarize LSF job counts by status.

Without arguments the summary covers every hostgroup. With a hostgroup
name, --users or --hosts breaks that hostgroup down by user or by host.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return bmerrors.NewUsageError("at most one hostgroup may be given, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Hostgroup = args[0]
			}

			cfg, logger, err := setup(opts.Debug)
			if err != nil {
				return err
			}

			opts.Range, err = hostgroupRange(start, end, cfg.Lookback, time.Now())
			if err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			return withSession(cmd, cfg, logger, func(ctx context.Context, exec collector.Executor, streams report.Streams) error {
				return report.NewHostgroupStats(exec, opts, streams, logger).Run(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "Start of the window (default: lookback before now)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "End of the window (default: now)")
	cmd.Flags().BoolVarP(&opts.Users, "users", "u", false, "Break the hostgroup down by user")
	cmd.Flags().BoolVarP(&opts.Hosts, "hosts", "k", false, "Break the hostgroup down by host")
	cmd.Flags().BoolVar(&opts.Detail, "detail", false, "Show per-job detail (not yet implemented)")
	cmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Print the DSN and rendered SQL to stderr")
	cmd.Flags().BoolVarP(&opts.Parse, "parse", "p", false, "Output columns in tab-delimited format")

	return cmd
}

// hostgroupRange resolves the --start/--end flags. Defaults are the last
// lookback period ending now.
func hostgroupRange(start, end string, lookback time.Duration, now time.Time) (models.TimeRange, error) {
	r := models.LastPeriod(now, lookback)

	if end != "" {
		t, err := config.ParseTimestamp(end, now)
		if err != nil {
			return models.TimeRange{}, bmerrors.NewUsageError("invalid --end: %v", err)
		}
		r.End = t
	}
	if start != "" {
		t, err := config.ParseTimestamp(start, now)
		if err != nil {
			return models.TimeRange{}, bmerrors.NewUsageError("invalid --start: %v", err)
		}
		r.Start = t
	}
	return r, nil
}
