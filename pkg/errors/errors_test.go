package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "config_no_value", err: NewConfigError("BMETRICA_DSN", "", "not set"), want: "BMETRICA_DSN: not set"},
		{name: "config_value", err: NewConfigError("port", "mysql://u:***@h:x/db", "port must be a positive integer"), want: `port: port must be a positive integer in "mysql://u:***@h:x/db"`},
		{name: "connection", err: NewConnectionError("db:3306", false, stderrors.New("refused")), want: "cannot connect to db:3306: refused"},
		{name: "connection_auth", err: NewConnectionError("db:3306", true, stderrors.New("denied")), want: "authentication to db:3306 failed: denied"},
		{name: "execution", err: NewExecutionError("query failed", stderrors.New("syntax")), want: "query failed: syntax"},
		{name: "usage", err: NewUsageError("hostgroup %q given without --users or --hosts", "g"), want: `hostgroup "g" given without --users or --hosts`},
		{name: "integrity", err: &IntegrityError{Column: "queue", Row: 2}, want: `data integrity: column "queue" is NULL in result row 2`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	cause := stderrors.New("driver: bad connection")

	wrapped := fmt.Errorf("job 12345: %w", NewExecutionError("query failed", cause))
	if !IsExecutionError(wrapped) || IsConnectionError(wrapped) {
		t.Fatalf("unexpected classification of %v", wrapped)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Fatal("expected the driver error to stay reachable")
	}

	conn := fmt.Errorf("open: %w", NewConnectionError("db:3306", false, cause))
	if !IsConnectionError(conn) || !stderrors.Is(conn, cause) {
		t.Fatalf("unexpected classification of %v", conn)
	}

	if !IsConfigError(fmt.Errorf("x: %w", NewConfigError("f", "", "r"))) {
		t.Fatal("expected ConfigError")
	}
	if !IsUsageError(fmt.Errorf("x: %w", NewUsageError("u"))) {
		t.Fatal("expected UsageError")
	}
	if !IsIntegrityError(fmt.Errorf("x: %w", &IntegrityError{Column: "c"})) {
		t.Fatal("expected IntegrityError")
	}
	if IsConfigError(nil) || IsUsageError(stderrors.New("plain")) {
		t.Fatal("plain errors must not classify")
	}
}
