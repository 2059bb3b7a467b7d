package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/indraniel/bmetrica/internal/models"
)

var (
	identifierPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	partitionTagPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// QuoteIdentifier backticks a column or table name after checking it
// against the allowed identifier pattern.
func QuoteIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("invalid SQL identifier %q", name)
	}
	return "`" + name + "`", nil
}

// ValidateTableRef rejects table names and partition tags that are not
// plain identifiers. Shard names come from partition metadata and are
// interpolated into the statement text, so they never bypass this check.
func ValidateTableRef(ref models.TableRef) error {
	if !identifierPattern.MatchString(ref.Name) {
		return fmt.Errorf("invalid table name %q", ref.Name)
	}
	if ref.PartitionTag != "" && !partitionTagPattern.MatchString(ref.PartitionTag) {
		return fmt.Errorf("invalid partition tag %q for table %q", ref.PartitionTag, ref.Name)
	}
	return nil
}

// ShardName returns the physical table name of a partition of family.
func ShardName(family, partition string) string {
	return family + "_v" + partition
}

// IsShardOf reports whether name is a well-formed shard of family.
func IsShardOf(family, name string) bool {
	suffix, ok := strings.CutPrefix(name, family+"_v")
	return ok && partitionTagPattern.MatchString(suffix)
}

func quoteColumns(prefix string, cols models.ColumnSet) ([]string, error) {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		q, err := QuoteIdentifier(c.Name)
		if err != nil {
			return nil, err
		}
		quoted[i] = prefix + q
	}
	return quoted, nil
}

func mustQuote(name string) string {
	q, err := QuoteIdentifier(name)
	if err != nil {
		panic(err)
	}
	return q
}
