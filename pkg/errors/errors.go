// Package errors defines the error taxonomy surfaced by bmetrica commands.
//
// Every failure that reaches the top level is one of these types (possibly
// wrapped). The command layer maps them to exit codes and prints a single
// "[err]: <message>" line.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ConfigError reports a missing or malformed configuration value.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func NewConfigError(field, value, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s in %q", e.Field, e.Reason, e.Value)
}

// ConnectionError reports an unreachable database or rejected credentials.
type ConnectionError struct {
	Host string
	Auth bool
	Err  error
}

func NewConnectionError(host string, auth bool, err error) *ConnectionError {
	return &ConnectionError{Host: host, Auth: auth, Err: err}
}

func (e *ConnectionError) Error() string {
	if e.Auth {
		return fmt.Sprintf("authentication to %s failed: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("cannot connect to %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ExecutionError reports a SQL or driver failure while running a query.
type ExecutionError struct {
	Op  string
	Err error
}

func NewExecutionError(op string, err error) *ExecutionError {
	return &ExecutionError{Op: op, Err: err}
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// UsageError reports a request the tool cannot serve, such as an
// unimplemented report or an invalid flag combination.
type UsageError struct {
	Msg string
}

func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string {
	return e.Msg
}

// IntegrityError reports a NULL in a column that must never be NULL.
type IntegrityError struct {
	Column string
	Row    int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity: column %q is NULL in result row %d", e.Column, e.Row)
}

func IsConfigError(err error) bool {
	var e *ConfigError
	return stderrors.As(err, &e)
}

func IsConnectionError(err error) bool {
	var e *ConnectionError
	return stderrors.As(err, &e)
}

func IsExecutionError(err error) bool {
	var e *ExecutionError
	return stderrors.As(err, &e)
}

func IsUsageError(err error) bool {
	var e *UsageError
	return stderrors.As(err, &e)
}

func IsIntegrityError(err error) bool {
	var e *IntegrityError
	return stderrors.As(err, &e)
}
