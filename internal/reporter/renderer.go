// Package reporter renders result rows to text in one of the report shapes.
package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/indraniel/bmetrica/internal/models"
)

const (
	fieldSeparator     = "\t"
	meltSeparator      = "  "
	jsonIndent         = "    "
	meltSeparatorGlyph = "="
)

var meltHeader = []string{"JobId", "SubmitTime", "Field", "Attribute"}

// Flusher is implemented by buffered writers. Render flushes after the
// header and after every row or row group when the writer supports it.
type Flusher interface {
	Flush() error
}

// Renderer writes rows in the shape selected by its ReportSpec.
type Renderer struct {
	out  io.Writer
	spec models.ReportSpec
}

// New creates a renderer writing to out.
func New(out io.Writer, spec models.ReportSpec) *Renderer {
	return &Renderer{out: out, spec: spec}
}

// Render writes rows. An empty result writes nothing.
func (r *Renderer) Render(rows []*models.Row) error {
	if len(rows) == 0 {
		return nil
	}

	cells, err := renderRows(r.spec.Columns, rows)
	if err != nil {
		return err
	}

	switch r.spec.Shape {
	case models.ShapeMelt:
		return r.renderMelt(cells)
	case models.ShapeJSON:
		return r.renderJSON(cells)
	default:
		if r.spec.Parse {
			return r.renderParse(cells)
		}
		return r.renderStandard(cells)
	}
}

func (r *Renderer) renderStandard(cells [][]string) error {
	header := r.spec.Columns.Names()
	widths := columnWidths(header, cells)

	if err := r.writeLine(padAll(header, widths), fieldSeparator); err != nil {
		return err
	}
	for _, row := range cells {
		if err := r.writeLine(padAll(row, widths), fieldSeparator); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderParse(cells [][]string) error {
	if err := r.writeLine(r.spec.Columns.Names(), fieldSeparator); err != nil {
		return err
	}
	for _, row := range cells {
		if err := r.writeLine(row, fieldSeparator); err != nil {
			return err
		}
	}
	return nil
}

// renderMelt writes one line per attribute, keyed by the id and time columns.
func (r *Renderer) renderMelt(cells [][]string) error {
	names := r.spec.Columns.Names()
	idIdx := indexOf(names, r.spec.IDColumn)
	timeIdx := indexOf(names, r.spec.TimeColumn)
	if idIdx < 0 || timeIdx < 0 {
		return fmt.Errorf("melt needs id column %q and time column %q", r.spec.IDColumn, r.spec.TimeColumn)
	}

	groups := make([][][]string, len(cells))
	for i, row := range cells {
		group := make([][]string, 0, len(names)-2)
		for j, name := range names {
			if j == idIdx || j == timeIdx {
				continue
			}
			group = append(group, []string{row[idIdx], row[timeIdx], name, row[j]})
		}
		groups[i] = group
	}

	if r.spec.Parse {
		if err := r.writeLine(meltHeader, fieldSeparator); err != nil {
			return err
		}
		for _, group := range groups {
			if err := r.writeGroup(group, fieldSeparator, nil); err != nil {
				return err
			}
		}
		return nil
	}

	var flat [][]string
	for _, group := range groups {
		flat = append(flat, group...)
	}
	widths := columnWidths(meltHeader, flat)

	separators := make([]string, len(widths))
	for i, w := range widths {
		separators[i] = strings.Repeat(meltSeparatorGlyph, w)
	}

	if err := r.writeLine(padLeading(meltHeader, widths), meltSeparator); err != nil {
		return err
	}
	if err := r.writeLine(separators, meltSeparator); err != nil {
		return err
	}
	for _, group := range groups {
		if err := r.writeGroup(group, meltSeparator, widths); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderJSON(cells [][]string) error {
	names := r.spec.Columns.Names()
	records := make([]map[string]string, len(cells))
	for i, row := range cells {
		record := make(map[string]string, len(names))
		for j, name := range names {
			record[name] = row[j]
		}
		records[i] = record
	}

	// map keys are emitted sorted
	data, err := json.MarshalIndent(records, "", jsonIndent)
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := r.out.Write(data); err != nil {
		return err
	}
	return r.flush()
}

func (r *Renderer) writeGroup(group [][]string, sep string, widths []int) error {
	for _, fields := range group {
		if widths != nil {
			fields = padLeading(fields, widths)
		}
		if _, err := io.WriteString(r.out, strings.Join(fields, sep)+"\n"); err != nil {
			return err
		}
	}
	return r.flush()
}

func (r *Renderer) writeLine(fields []string, sep string) error {
	if _, err := io.WriteString(r.out, strings.Join(fields, sep)+"\n"); err != nil {
		return err
	}
	return r.flush()
}

func (r *Renderer) flush() error {
	if f, ok := r.out.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// columnWidths returns max(header, widest cell) per column.
func columnWidths(header []string, cells [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}
	return widths
}

func padAll(fields []string, widths []int) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = fmt.Sprintf("%-*s", widths[i], f)
	}
	return out
}

// padLeading pads every field but the last.
func padLeading(fields []string, widths []int) []string {
	out := padAll(fields, widths)
	if n := len(out); n > 0 {
		out[n-1] = fields[n-1]
	}
	return out
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
