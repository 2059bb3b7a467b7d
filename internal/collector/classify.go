package collector

import (
	"errors"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-sql-driver/mysql"
)

var authErrorSubstrings = []string{
	"authentication failed",
	"authentication error",
	"invalid credentials",
	"invalid password",
	"password is incorrect",
	"wrong password",
	"unknown user",
	"unauthorized",
	"access denied",
	"sqlstate[28000]",
	"sqlstate 28000",
	"code: 516",
}

// isAuthError reports whether err means the server rejected the credentials.
func isAuthError(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, 1045, 1698:
			return true
		}
	}

	var chErr *clickhouse.Exception
	if errors.As(err, &chErr) {
		switch chErr.Code {
		case 193, 194, 497, 516:
			return true
		}
	}

	errText := strings.ToLower(err.Error())
	for _, marker := range authErrorSubstrings {
		if strings.Contains(errText, marker) {
			return true
		}
	}

	return false
}
