package main

import (
	"bufio"
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indraniel/bmetrica/internal/collector"
	"github.com/indraniel/bmetrica/internal/logging"
	"github.com/indraniel/bmetrica/internal/report"
	"github.com/indraniel/bmetrica/pkg/config"
	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// loadConfig builds the run configuration from the config file and the
// environment.
func loadConfig(debug bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Debug = debug
	cfg.ConfigFile = cfgFile

	var (
		fc   *config.FileConfig
		path string
		err  error
	)
	if cfg.ConfigFile != "" {
		path = cfg.ConfigFile
		fc, err = config.LoadFile(path)
	} else {
		fc, path, err = config.AutoLoadFile()
	}
	if err != nil {
		return nil, bmerrors.NewConfigError("config", path, err.Error())
	}

	if err := cfg.Apply(fc, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup initializes logging and loads the configuration.
func setup(debug bool) (*config.Config, *zap.Logger, error) {
	logger := logging.Init(debug)
	cfg, err := loadConfig(debug)
	if err != nil {
		return nil, nil, err
	}
	if cfg.ConfigFile != "" {
		logger.Debug("using config file", zap.String("path", cfg.ConfigFile))
	}
	return cfg, logger, nil
}

// withSession opens the accounting database, runs fn with buffered stdout,
// and flushes it before returning.
func withSession(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, fn func(ctx context.Context, exec collector.Executor, streams report.Streams) error) error {
	defer func() { _ = logger.Sync() }()

	spec, err := cfg.ConnectionSpec()
	if err != nil {
		return err
	}
	logger.Debug("dsn", zap.String("dsn", spec.Redacted()))

	ctx := cmd.Context()
	session, err := collector.Open(ctx, spec, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	streams := report.Streams{
		In:  cmd.InOrStdin(),
		Out: out,
		Err: cmd.ErrOrStderr(),
	}

	if err := fn(ctx, session, streams); err != nil {
		_ = out.Flush()
		return err
	}
	return out.Flush()
}
