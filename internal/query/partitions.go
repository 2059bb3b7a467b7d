package query

import (
	sq "github.com/Masterminds/squirrel"
)

// OverlapMode picks which partitions are relevant to a time window.
type OverlapMode int

const (
	// OverlapAfterThreshold keeps partitions that could hold rows at or
	// after Threshold.
	OverlapAfterThreshold OverlapMode = iota
	// OverlapWithin keeps partitions whose whole window lies in (Start, End].
	OverlapWithin
)

// PartitionFilter selects partitions of a table family.
type PartitionFilter struct {
	Mode      OverlapMode
	Threshold string
	Start     string
	End       string
}

// BuildPartitionStatement lists the shards of family matching f, most
// recent partition first. Result columns: fullname, partition.
func BuildPartitionStatement(family string, f PartitionFilter) (*Statement, error) {
	minTime := mustQuote("min_time")
	maxTime := mustQuote("max_time")
	partition := mustQuote("partition")

	var overlap sq.Sqlizer
	switch f.Mode {
	case OverlapWithin:
		overlap = sq.And{
			sq.Gt{minTime: f.Start},
			sq.LtOrEq{maxTime: f.End},
		}
	default:
		// TODO: confirm with the scheduler admins whether both bounds should
		// exceed the threshold (AND); OR also keeps shards that merely end after it.
		overlap = sq.Or{
			sq.Gt{minTime: f.Threshold},
			sq.Gt{maxTime: f.Threshold},
		}
	}

	sql, args, err := sq.Select(
		"CONCAT("+mustQuote("table_name")+", '_v', "+partition+") AS "+mustQuote("fullname"),
		partition,
	).
		From(mustQuote(PartitionsTable)).
		Where(sq.Eq{mustQuote("table_name"): family}).
		Where(overlap).
		OrderBy(partition + " DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return &Statement{SQL: sql, Args: args}, nil
}
