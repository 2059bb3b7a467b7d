package models

// ColumnKind is the semantic type used to pick a value formatter.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInteger
	KindFloat
	KindTimestamp
)

func (k ColumnKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// Column describes one output column.
type Column struct {
	Name     string
	Kind     ColumnKind
	Nullable bool
}

// ColumnSet is an ordered, fixed list of columns. The same set drives SQL
// construction and rendering.
type ColumnSet []Column

// Names returns the column names in order.
func (cs ColumnSet) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a column by name.
func (cs ColumnSet) Lookup(name string) (Column, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Without returns the set minus the named columns, order preserved.
func (cs ColumnSet) Without(names ...string) ColumnSet {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := make(ColumnSet, 0, len(cs))
	for _, c := range cs {
		if !skip[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

func text(name string) Column      { return Column{Name: name, Kind: KindText} }
func integer(name string) Column   { return Column{Name: name, Kind: KindInteger} }
func float(name string) Column     { return Column{Name: name, Kind: KindFloat} }
func timestamp(name string) Column { return Column{Name: name, Kind: KindTimestamp} }

func nullable(c Column) Column {
	c.Nullable = true
	return c
}

// JobColumns is the per-job statistics column set.
var JobColumns = ColumnSet{
	integer("jobid"),
	text("user"),
	text("execUsername"),
	text("command"),
	text("execCwd"),
	text("cwd"),
	float("cpu_used"),
	float("efficiency"),
	timestamp("submit_time"),
	timestamp("start_time"),
	timestamp("end_time"),
	text("stat"),
	text("from_host"),
	nullable(text("exec_host")),
	integer("jobPid"),
	timestamp("last_updated"),
	float("mem_requested"),
	float("mem_reserved"),
	nullable(float("mem_used")),
	float("max_memory"),
	float("max_swap"),
	integer("numPIDS"),
	integer("numThreads"),
	integer("num_nodes"),
	integer("num_cpus"),
	text("res_requirements"),
	integer("rlimit_max_rss"),
	float("run_time"),
	float("stime"),
	float("utime"),
	text("queue"),
	text("errFile"),
	text("outFile"),
	nullable(text("projectName")),
	nullable(text("jobName")),
}

// HostgroupDetailColumns is selected from every branch of a host-group UNION.
var HostgroupDetailColumns = ColumnSet{
	text("groupName"),
	integer("jobid"),
	text("user"),
	text("command"),
	text("execCwd"),
	text("cwd"),
	timestamp("submit_time"),
	timestamp("start_time"),
	timestamp("end_time"),
	text("stat"),
	text("from_host"),
	nullable(text("exec_host")),
	nullable(text("projectName")),
	nullable(text("jobName")),
}

// Dimension selects what a host-group summary aggregates over.
type Dimension int

const (
	DimensionHostgroup Dimension = iota
	DimensionUser
	DimensionHost
)

// Source is the merged column the dimension groups on.
func (d Dimension) Source() string {
	switch d {
	case DimensionUser:
		return "user"
	case DimensionHost:
		return "exec_host"
	default:
		return "groupName"
	}
}

// Alias is the rendered column name of the dimension.
func (d Dimension) Alias() string {
	switch d {
	case DimensionUser:
		return "user"
	case DimensionHost:
		return "host"
	default:
		return "hostgroup"
	}
}

func (d Dimension) String() string {
	return d.Alias()
}

// SummaryColumns returns the rendered column set of a host-group summary.
func (d Dimension) SummaryColumns() ColumnSet {
	return ColumnSet{
		text(d.Alias()),
		text("status"),
		integer("counts"),
	}
}
