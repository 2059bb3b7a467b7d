package collector

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/indraniel/bmetrica/internal/models"
	"github.com/indraniel/bmetrica/internal/query"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// Executor runs a statement and returns every row.
type Executor interface {
	Query(ctx context.Context, stmt *query.Statement) ([]*models.Row, error)
}

// Query binds stmt.Args, runs stmt.SQL and materializes the full result
// set as rows keyed by column name.
func (s *Session) Query(ctx context.Context, stmt *query.Statement) ([]*models.Row, error) {
	s.logger.Debug("executing statement", zap.Int("params", len(stmt.Args)))

	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, bmerrors.NewExecutionError("query failed", err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, bmerrors.NewExecutionError("failed to read results", err)
	}

	s.logger.Debug("statement returned", zap.Int("rows", len(result)))
	return result, nil
}

func scanRows(rows *sql.Rows) ([]*models.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []*models.Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(result)+1, err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		result = append(result, models.NewRow(columns, values))
	}

	return result, rows.Err()
}

// normalizeValue turns driver byte slices into strings so rendering never
// sees raw []byte.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case sql.RawBytes:
		return string(val)
	default:
		return v
	}
}
