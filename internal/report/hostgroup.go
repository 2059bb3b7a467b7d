package report

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/indraniel/bmetrica/internal/collector"
	"github.com/indraniel/bmetrica/internal/models"
	"github.com/indraniel/bmetrica/internal/query"
	"github.com/indraniel/bmetrica/pkg/config"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// HostgroupOptions configures a host-group summary report.
type HostgroupOptions struct {
	Hostgroup string
	Users     bool
	Hosts     bool
	Detail    bool
	Range     models.TimeRange
	Parse     bool
	Debug     bool
}

// Validate rejects flag combinations the report cannot serve.
func (o HostgroupOptions) Validate() error {
	switch {
	case o.Detail:
		return bmerrors.NewUsageError("the detail option is not yet implemented")
	case o.Users && o.Hosts:
		return bmerrors.NewUsageError("--users and --hosts cannot be combined")
	case (o.Users || o.Hosts) && o.Hostgroup == "":
		return bmerrors.NewUsageError("a hostgroup name is required with --users or --hosts")
	case o.Hostgroup != "" && !o.Users && !o.Hosts:
		return bmerrors.NewUsageError("hostgroup %q given without --users or --hosts", o.Hostgroup)
	case !o.Range.End.After(o.Range.Start):
		return bmerrors.NewUsageError("start %s is not before end %s",
			config.FormatTimestamp(o.Range.Start), config.FormatTimestamp(o.Range.End))
	}
	return nil
}

// Dimension is what the summary aggregates over.
func (o HostgroupOptions) Dimension() models.Dimension {
	switch {
	case o.Users:
		return models.DimensionUser
	case o.Hosts:
		return models.DimensionHost
	default:
		return models.DimensionHostgroup
	}
}

// HostgroupStats reports job counts per host group, user, or host.
type HostgroupStats struct {
	base
	opts     HostgroupOptions
	resolver *collector.PartitionResolver
}

// NewHostgroupStats creates the host-group report controller.
func NewHostgroupStats(exec collector.Executor, opts HostgroupOptions, streams Streams, logger *zap.Logger) *HostgroupStats {
	b := newBase(exec, streams, opts.Debug, logger)
	return &HostgroupStats{
		base:     b,
		opts:     opts,
		resolver: collector.NewPartitionResolver(exec, b.logger),
	}
}

// Spec is the rendering spec of the selected summary.
func (h *HostgroupStats) Spec() models.ReportSpec {
	return models.ReportSpec{
		Columns: h.opts.Dimension().SummaryColumns(),
		Shape:   models.ShapeTable,
		Parse:   h.opts.Parse,
	}
}

// Run validates the options, then queries and renders the summary.
func (h *HostgroupStats) Run(ctx context.Context) error {
	if err := h.opts.Validate(); err != nil {
		return err
	}

	start := config.FormatTimestamp(h.opts.Range.Start)
	end := config.FormatTimestamp(h.opts.Range.End)

	tables, err := h.resolver.Resolve(ctx, query.PartitionFilter{
		Mode:  query.OverlapWithin,
		Start: start,
		End:   end,
	})
	if err != nil {
		return err
	}

	dim := h.opts.Dimension()
	stmt, err := query.BuildHostgroupStatement(models.HostgroupDetailColumns, query.HostgroupParams{
		Tables:    tables,
		Start:     start,
		End:       end,
		Hostgroup: h.opts.Hostgroup,
		Dimension: dim,
	})
	if err != nil {
		return fmt.Errorf("failed to build hostgroup statement: %w", err)
	}

	rows, err := h.run(ctx, stmt)
	if err != nil {
		return err
	}
	h.logger.Debug("hostgroup summary",
		zap.String("dimension", dim.String()),
		zap.String("hostgroup", h.opts.Hostgroup),
		zap.Int("rows", len(rows)),
	)

	return h.render(h.Spec(), rows)
}
