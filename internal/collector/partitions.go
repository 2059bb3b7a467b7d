package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/indraniel/bmetrica/internal/models"
	"github.com/indraniel/bmetrica/internal/query"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// Current tables are not sharded and are always part of a UNION. The tags
// alias them in host-group joins.
var currentTables = []models.TableRef{
	{Name: query.CurrentJobsTable, PartitionTag: "A"},
	{Name: query.FinishedJobsTable, PartitionTag: "B"},
}

// CurrentTables returns the open in-flight table and the recently
// finished table.
func CurrentTables() []models.TableRef {
	out := make([]models.TableRef, len(currentTables))
	copy(out, currentTables)
	return out
}

// PartitionResolver discovers which time-sharded tables a query must span.
type PartitionResolver struct {
	exec   Executor
	family string
	logger *zap.Logger
}

// NewPartitionResolver creates a resolver over the finished-jobs family.
func NewPartitionResolver(exec Executor, logger *zap.Logger) *PartitionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartitionResolver{
		exec:   exec,
		family: query.FinishedJobsTable,
		logger: logger,
	}
}

// Resolve returns the current tables followed by every shard matching f,
// most recent partition first. It runs exactly one metadata query.
func (r *PartitionResolver) Resolve(ctx context.Context, f query.PartitionFilter) ([]models.TableRef, error) {
	stmt, err := query.BuildPartitionStatement(r.family, f)
	if err != nil {
		return nil, err
	}

	rows, err := r.exec.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	tables := CurrentTables()
	for i, row := range rows {
		ref, err := r.shardRef(row)
		if err != nil {
			return nil, bmerrors.NewExecutionError("partition discovery", fmt.Errorf("row %d: %w", i+1, err))
		}
		tables = append(tables, ref)
	}

	r.logger.Debug("resolved tables",
		zap.Int("shards", len(tables)-len(currentTables)),
		zap.Strings("tables", tableNames(tables)),
	)
	return tables, nil
}

func (r *PartitionResolver) shardRef(row *models.Row) (models.TableRef, error) {
	name := fmt.Sprint(row.Value("fullname"))
	partition := fmt.Sprint(row.Value("partition"))

	ref := models.TableRef{Name: name, PartitionTag: partition}
	if err := query.ValidateTableRef(ref); err != nil {
		return models.TableRef{}, err
	}
	if !query.IsShardOf(r.family, name) || name != query.ShardName(r.family, partition) {
		return models.TableRef{}, fmt.Errorf("refusing unexpected shard table %q", name)
	}
	return ref, nil
}

func tableNames(tables []models.TableRef) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
