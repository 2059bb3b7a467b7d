package collector

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
)

type queryCall struct {
	query string
	args  []driver.NamedValue
}

type mockResult struct {
	columns []string
	values  [][]driver.Value
	err     error
}

type mockState struct {
	mu      sync.Mutex
	results []mockResult
	calls   []queryCall
}

func (s *mockState) Calls() []queryCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]queryCall(nil), s.calls...)
}

type mockDriver struct {
	state *mockState
}

func (d *mockDriver) Open(name string) (driver.Conn, error) {
	return &mockConn{state: d.state}, nil
}

type mockConn struct {
	state *mockState
}

func (c *mockConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *mockConn) Close() error {
	return nil
}

func (c *mockConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *mockConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	copiedArgs := make([]driver.NamedValue, len(args))
	copy(copiedArgs, args)
	c.state.calls = append(c.state.calls, queryCall{query: query, args: copiedArgs})
	idx := len(c.state.calls) - 1

	if idx >= len(c.state.results) {
		return &mockRows{}, nil
	}
	res := c.state.results[idx]
	if res.err != nil {
		return nil, res.err
	}
	return &mockRows{columns: res.columns, values: res.values}, nil
}

var _ driver.QueryerContext = (*mockConn)(nil)

var driverCounter uint64

func newMockDB(t *testing.T, state *mockState) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("bmetrica-mockdb-%d", atomic.AddUint64(&driverCounter, 1))
	sql.Register(name, &mockDriver{state: state})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close db: %v", err)
		}
	})
	return db
}

type mockRows struct {
	columns []string
	values  [][]driver.Value
	idx     int
}

func (r *mockRows) Columns() []string {
	return r.columns
}

func (r *mockRows) Close() error {
	return nil
}

func (r *mockRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.idx])
	r.idx++
	return nil
}
