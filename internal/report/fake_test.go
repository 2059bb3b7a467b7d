package report

import (
	"context"
	"strings"

	"github.com/indraniel/bmetrica/internal/models"
	"github.com/indraniel/bmetrica/internal/query"
)

// fakeExecutor answers partition metadata queries with shards and every
// other statement from a queue of results.
type fakeExecutor struct {
	shards     []*models.Row
	results    [][]*models.Row
	err        error
	statements []*query.Statement
}

func (f *fakeExecutor) Query(ctx context.Context, stmt *query.Statement) ([]*models.Row, error) {
	f.statements = append(f.statements, stmt)
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(stmt.SQL, query.PartitionsTable) {
		return f.shards, nil
	}
	if len(f.results) == 0 {
		return nil, nil
	}
	next := f.results[0]
	f.results = f.results[1:]
	return next, nil
}

func (f *fakeExecutor) reportStatements() []*query.Statement {
	var out []*query.Statement
	for _, s := range f.statements {
		if !strings.Contains(s.SQL, query.PartitionsTable) {
			out = append(out, s)
		}
	}
	return out
}

func shardRow(partition string) *models.Row {
	return models.NewRow([]string{"fullname", "partition"},
		[]any{query.ShardName(query.FinishedJobsTable, partition), partition})
}
