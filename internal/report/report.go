// Package report orchestrates the job and host-group reports: it resolves
// tables, builds and runs the statements, and hands rows to the renderer.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/indraniel/bmetrica/internal/collector"
	"github.com/indraniel/bmetrica/internal/models"
	"github.com/indraniel/bmetrica/internal/query"
	"github.com/indraniel/bmetrica/internal/reporter"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// NoResultsNotice is written to stderr when a report matches nothing.
const NoResultsNotice = "Found no LSF job stats"

// Streams are the standard streams a report reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ShapeFromFlags maps the mutually exclusive output flags to a shape.
func ShapeFromFlags(melt, asJSON, parse bool) (models.Shape, error) {
	switch {
	case melt && asJSON:
		return models.ShapeTable, bmerrors.NewUsageError("--melt and --json cannot be combined")
	case asJSON && parse:
		return models.ShapeTable, bmerrors.NewUsageError("--json and --parse cannot be combined")
	case melt:
		return models.ShapeMelt, nil
	case asJSON:
		return models.ShapeJSON, nil
	default:
		return models.ShapeTable, nil
	}
}

// base holds what both controllers share.
type base struct {
	exec    collector.Executor
	streams Streams
	debug   bool
	logger  *zap.Logger
}

func newBase(exec collector.Executor, streams Streams, debug bool, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{exec: exec, streams: streams, debug: debug, logger: logger}
}

// run prints the statement to stderr in debug mode, then executes it.
func (b *base) run(ctx context.Context, stmt *query.Statement) ([]*models.Row, error) {
	if b.debug {
		if _, err := fmt.Fprintf(b.streams.Err, "%s\n-- params: %s\n", stmt.SQL, formatArgs(stmt.Args)); err != nil {
			return nil, err
		}
	}
	return b.exec.Query(ctx, stmt)
}

// render writes rows or the empty-result notice. An empty result is not an error.
func (b *base) render(spec models.ReportSpec, rows []*models.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(b.streams.Err, NoResultsNotice)
		return err
	}
	return reporter.New(b.streams.Out, spec).Render(rows)
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
