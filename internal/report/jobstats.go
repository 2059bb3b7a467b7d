package report

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/indraniel/bmetrica/internal/collector"
	"github.com/indraniel/bmetrica/internal/models"
	"github.com/indraniel/bmetrica/internal/query"
	"github.com/indraniel/bmetrica/pkg/config"
)

// StdinMarker as a job id means "read newline-separated ids from stdin".
const StdinMarker = "-"

// JobOptions configures a job statistics report.
type JobOptions struct {
	JobIDs    []string
	ShowAll   bool
	Recent    bool
	Threshold time.Time
	Shape     models.Shape
	Parse     bool
	Debug     bool
}

// JobStats reports accounting rows for individual jobs.
type JobStats struct {
	base
	opts     JobOptions
	resolver *collector.PartitionResolver
	limiter  *collector.RateLimiter
}

// NewJobStats creates the job report controller. A nil limiter disables
// throttling.
func NewJobStats(exec collector.Executor, opts JobOptions, limiter *collector.RateLimiter, streams Streams, logger *zap.Logger) *JobStats {
	b := newBase(exec, streams, opts.Debug, logger)
	if limiter == nil {
		limiter = collector.NewRateLimiter(0)
	}
	return &JobStats{
		base:     b,
		opts:     opts,
		resolver: collector.NewPartitionResolver(exec, b.logger),
		limiter:  limiter,
	}
}

// Spec is the rendering spec of the job report.
func (j *JobStats) Spec() models.ReportSpec {
	return models.ReportSpec{
		Columns:    models.JobColumns,
		Shape:      j.opts.Shape,
		Parse:      j.opts.Parse,
		IDColumn:   "jobid",
		TimeColumn: "submit_time",
	}
}

// Run queries every valid job id in argument order and renders the
// accumulated rows.
func (j *JobStats) Run(ctx context.Context) error {
	ids, err := j.jobIDs()
	if err != nil {
		return err
	}

	var rows []*models.Row
	if len(ids) > 0 {
		rows, err = j.collect(ctx, ids)
		if err != nil {
			return err
		}
	}

	return j.render(j.Spec(), rows)
}

func (j *JobStats) collect(ctx context.Context, ids []int64) ([]*models.Row, error) {
	threshold := config.FormatTimestamp(j.opts.Threshold)

	tables, err := j.tables(ctx, threshold)
	if err != nil {
		return nil, err
	}

	var rows []*models.Row
	for _, id := range ids {
		if err := j.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		stmt, err := query.BuildJobStatement(models.JobColumns, query.JobParams{
			Tables:    tables,
			JobID:     id,
			Threshold: threshold,
			ShowAll:   j.opts.ShowAll,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build job statement: %w", err)
		}

		result, err := j.run(ctx, stmt)
		if err != nil {
			return nil, err
		}
		j.logger.Debug("job rows", zap.Int64("jobid", id), zap.Int("rows", len(result)))
		rows = append(rows, result...)
	}
	return rows, nil
}

// tables resolves partitions once for the whole run.
func (j *JobStats) tables(ctx context.Context, threshold string) ([]models.TableRef, error) {
	if j.opts.Recent {
		return collector.CurrentTables(), nil
	}
	return j.resolver.Resolve(ctx, query.PartitionFilter{
		Mode:      query.OverlapAfterThreshold,
		Threshold: threshold,
	})
}

// jobIDs expands the stdin marker and drops ids that are not numeric,
// warning on stdout for each.
func (j *JobStats) jobIDs() ([]int64, error) {
	var ids []int64
	stdinRead := false

	for _, arg := range j.opts.JobIDs {
		if arg != StdinMarker {
			if id, ok := j.parseID(arg); ok {
				ids = append(ids, id)
			}
			continue
		}

		if stdinRead || j.streams.In == nil {
			continue
		}
		stdinRead = true

		scanner := bufio.NewScanner(j.streams.In)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if id, ok := j.parseID(line); ok {
				ids = append(ids, id)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read job ids from stdin: %w", err)
		}
	}
	return ids, nil
}

func (j *JobStats) parseID(s string) (int64, bool) {
	if isDigits(s) {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return id, true
		}
	}
	fmt.Fprintf(j.streams.Out, "[WARN] SKIPPING '%s' -- NOT LSF ID\n", s)
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
