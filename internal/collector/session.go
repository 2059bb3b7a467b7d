// Package collector talks to the accounting database: it opens the session,
// discovers partition tables, and executes statements.
package collector

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/indraniel/bmetrica/pkg/config"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

const dialTimeout = 30 * time.Second

// opener builds a *sql.DB for one DSN scheme. It must not touch the network.
type opener func(spec *config.ConnectionSpec) (*sql.DB, error)

var openers = map[string]opener{
	"mysql":      openMySQL,
	"clickhouse": openClickHouse,
}

// SupportedDrivers lists the DSN schemes Open understands.
func SupportedDrivers() []string {
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Session is the single database session used by a report run.
type Session struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to the database described by spec and verifies the
// credentials with a ping.
func Open(ctx context.Context, spec *config.ConnectionSpec, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	open, ok := openers[spec.Driver]
	if !ok {
		return nil, bmerrors.NewConfigError("driver", spec.Redacted(),
			fmt.Sprintf("unsupported driver %q (want one of %s)", spec.Driver, strings.Join(SupportedDrivers(), ", ")))
	}

	db, err := open(spec)
	if err != nil {
		return nil, bmerrors.NewConnectionError(spec.Addr(), false, err)
	}

	// One connection, one query at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, bmerrors.NewConnectionError(spec.Addr(), isAuthError(err), err)
	}

	logger.Debug("connected to accounting database",
		zap.String("driver", spec.Driver),
		zap.String("dsn", spec.Redacted()),
	)

	return NewSession(db, logger), nil
}

// NewSession wraps an already opened database handle.
func NewSession(db *sql.DB, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{db: db, logger: logger}
}

// Close releases the session.
func (s *Session) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func openMySQL(spec *config.ConnectionSpec) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = spec.User
	cfg.Passwd = spec.Password
	cfg.Net = "tcp"
	cfg.Addr = spec.Addr()
	cfg.DBName = spec.Database
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Timeout = dialTimeout

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure mysql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

func openClickHouse(spec *config.ConnectionSpec) (*sql.DB, error) {
	return clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{spec.Addr()},
		Auth: clickhouse.Auth{
			Database: spec.Database,
			Username: spec.User,
			Password: spec.Password,
		},
		DialTimeout: dialTimeout,
	}), nil
}
