package reporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/indraniel/bmetrica/internal/models"
	"github.com/indraniel/bmetrica/pkg/config"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// NullMarker is rendered for NULL values in nullable columns.
const NullMarker = "None"

type formatter func(v any) (string, error)

// formatters is the single dispatch table shared by every report shape.
var formatters = map[models.ColumnKind]formatter{
	models.KindText:      formatDefault,
	models.KindInteger:   formatDefault,
	models.KindFloat:     formatFloat,
	models.KindTimestamp: formatTimestamp,
}

// FormatValue renders one value of col. A NULL in a non-nullable column
// is an *errors.IntegrityError with Row left at zero.
func FormatValue(col models.Column, v any) (string, error) {
	if v == nil {
		if col.Nullable {
			return NullMarker, nil
		}
		return "", &bmerrors.IntegrityError{Column: col.Name}
	}

	format, ok := formatters[col.Kind]
	if !ok {
		format = formatDefault
	}
	s, err := format(v)
	if err != nil {
		return "", fmt.Errorf("column %q: %w", col.Name, err)
	}
	return s, nil
}

// renderRows formats every cell of rows in cols order. Rows are numbered
// from one in integrity errors.
func renderRows(cols models.ColumnSet, rows []*models.Row) ([][]string, error) {
	rendered := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(cols))
		for j, col := range cols {
			s, err := FormatValue(col, row.Value(col.Name))
			if err != nil {
				var ie *bmerrors.IntegrityError
				if errors.As(err, &ie) {
					ie.Row = i + 1
				}
				return nil, err
			}
			cells[j] = s
		}
		rendered[i] = cells
	}
	return rendered, nil
}

func formatDefault(v any) (string, error) {
	return fmt.Sprint(v), nil
}

// formatFloat uses the general format with the shortest representation.
// DECIMAL columns arrive as strings and are parsed first.
func formatFloat(v any) (string, error) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return "", fmt.Errorf("cannot format %q as float", val)
		}
		f = parsed
	default:
		return "", fmt.Errorf("cannot format %T as float", v)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func formatTimestamp(v any) (string, error) {
	switch val := v.(type) {
	case time.Time:
		return config.FormatTimestamp(val), nil
	case string:
		return val, nil
	default:
		return "", fmt.Errorf("cannot format %T as timestamp", v)
	}
}
