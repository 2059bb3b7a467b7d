// Package query assembles the UNION statements that span the current and
// partitioned accounting tables.
package query

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/valyala/fasttemplate"

	"github.com/indraniel/bmetrica/internal/models"
)

// Physical names in the accounting database.
const (
	CurrentJobsTable   = "grid_jobs"
	FinishedJobsTable  = "grid_jobs_finished"
	PartitionsTable    = "grid_table_partitions"
	HostgroupsTable    = "grid_hostgroups"
	mergedAlias        = "merged"
	hostgroupJoinTmpl  = "{{table}} v{{tag}} JOIN " + HostgroupsTable + " gh{{tag}} ON gh{{tag}}.host = v{{tag}}.exec_host"
	unionSeparator     = "\nUNION\n"
	jobBranchParams    = 1
	jobOuterParams     = 1
	hostgroupRangeArgs = 2
)

// ErrPlaceholderMismatch signals a statement whose placeholder count does
// not match its argument list. It is a bug, not a runtime condition.
var ErrPlaceholderMismatch = errors.New("placeholder count does not match parameters")

// Statement is a rendered SQL statement and its parameters in bind order.
type Statement struct {
	SQL  string
	Args []any
}

// JobParams filters a job statistics query.
type JobParams struct {
	Tables    []models.TableRef
	JobID     int64
	Threshold string
	ShowAll   bool
}

// HostgroupParams filters a host-group summary query.
type HostgroupParams struct {
	Tables    []models.TableRef
	Start     string
	End       string
	Hostgroup string
	Dimension models.Dimension
}

// BuildJobStatement unions cols across every table for one job id, keeps
// rows submitted at or after the threshold, and unless ShowAll is set
// returns only the most recent one.
func BuildJobStatement(cols models.ColumnSet, p JobParams) (*Statement, error) {
	quoted, err := quoteColumns("", cols)
	if err != nil {
		return nil, err
	}

	branches := make([]sq.Sqlizer, 0, len(p.Tables))
	for _, table := range p.Tables {
		if err := ValidateTableRef(table); err != nil {
			return nil, err
		}
		branches = append(branches, sq.Select(quoted...).
			From(mustQuote(table.Name)).
			Where(sq.Eq{mustQuote("jobid"): p.JobID}))
	}

	union, unionArgs, err := renderUnion(branches)
	if err != nil {
		return nil, err
	}

	submit := mergedAlias + "." + mustQuote("submit_time")
	start := mergedAlias + "." + mustQuote("start_time")

	outer := sq.Select(quoted...).
		From("(" + union + ") AS " + mergedAlias).
		Where(sq.GtOrEq{submit: p.Threshold}).
		OrderBy("DATE("+submit+") DESC", "DATE("+start+") DESC")
	if !p.ShowAll {
		outer = outer.Limit(1)
	}

	stmt, err := finish(outer, unionArgs)
	if err != nil {
		return nil, err
	}
	if err := checkArity(stmt, jobBranchParams*len(p.Tables)+jobOuterParams); err != nil {
		return nil, err
	}
	return stmt, nil
}

// BuildHostgroupStatement unions job rows joined to their host groups
// within (Start, End] and counts them per dimension and status.
func BuildHostgroupStatement(cols models.ColumnSet, p HostgroupParams) (*Statement, error) {
	quoted, err := quoteColumns("", cols)
	if err != nil {
		return nil, err
	}

	join := fasttemplate.New(hostgroupJoinTmpl, "{{", "}}")

	branches := make([]sq.Sqlizer, 0, len(p.Tables))
	for _, table := range p.Tables {
		if err := ValidateTableRef(table); err != nil {
			return nil, err
		}
		if table.PartitionTag == "" {
			return nil, fmt.Errorf("table %q has no partition tag", table.Name)
		}

		jobs := "v" + table.PartitionTag
		groups := "gh" + table.PartitionTag
		from := join.ExecuteString(map[string]any{
			"table": mustQuote(table.Name),
			"tag":   table.PartitionTag,
		})

		branch := sq.Select(quoted...).
			From(from).
			Where(sq.Gt{jobs + ".submit_time": p.Start}).
			Where(sq.LtOrEq{jobs + ".submit_time": p.End})
		if p.Hostgroup != "" {
			branch = branch.Where(sq.Eq{groups + ".groupName": p.Hostgroup})
		}
		branches = append(branches, branch)
	}

	union, unionArgs, err := renderUnion(branches)
	if err != nil {
		return nil, err
	}

	dim := mergedAlias + "." + mustQuote(p.Dimension.Source())
	stat := mergedAlias + "." + mustQuote("stat")

	outer := sq.Select(
		dim+" AS "+mustQuote(p.Dimension.Alias()),
		stat+" AS "+mustQuote("status"),
		"COUNT(*) AS "+mustQuote("counts"),
	).
		From("(" + union + ") AS " + mergedAlias).
		GroupBy(dim, stat).
		OrderBy(dim+" DESC", stat+" DESC")

	stmt, err := finish(outer, unionArgs)
	if err != nil {
		return nil, err
	}

	perTable := hostgroupRangeArgs
	if p.Hostgroup != "" {
		perTable++
	}
	if err := checkArity(stmt, perTable*len(p.Tables)); err != nil {
		return nil, err
	}
	return stmt, nil
}

func renderUnion(branches []sq.Sqlizer) (string, []any, error) {
	if len(branches) == 0 {
		return "", nil, errors.New("no tables to query")
	}

	parts := make([]string, 0, len(branches))
	var args []any
	for _, b := range branches {
		sql, branchArgs, err := b.ToSql()
		if err != nil {
			return "", nil, fmt.Errorf("failed to render union branch: %w", err)
		}
		parts = append(parts, "("+sql+")")
		args = append(args, branchArgs...)
	}
	return strings.Join(parts, unionSeparator), args, nil
}

// finish renders the outer query. The union text sits in the FROM clause,
// ahead of every outer placeholder, so its arguments bind first.
func finish(outer sq.SelectBuilder, unionArgs []any) (*Statement, error) {
	sql, outerArgs, err := outer.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	args := make([]any, 0, len(unionArgs)+len(outerArgs))
	args = append(args, unionArgs...)
	args = append(args, outerArgs...)
	return &Statement{SQL: sql, Args: args}, nil
}

func checkArity(stmt *Statement, expected int) error {
	placeholders := CountPlaceholders(stmt.SQL)
	if placeholders != expected || len(stmt.Args) != expected {
		return fmt.Errorf("%w: %d placeholders, %d args, expected %d",
			ErrPlaceholderMismatch, placeholders, len(stmt.Args), expected)
	}
	return nil
}

// CountPlaceholders counts '?' markers outside quoted literals and identifiers.
func CountPlaceholders(sql string) int {
	count := 0
	var quote rune
	for _, r := range sql {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '?':
			count++
		}
	}
	return count
}
