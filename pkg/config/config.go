package config

import (
	"strings"
	"time"

	bmerrors "github.com/indraniel/bmetrica/pkg/errors"
)

// EnvDSN names the environment variable holding the accounting database DSN.
const EnvDSN = "BMETRICA_DSN"

// Config holds all runtime configuration
type Config struct {
	// Database settings
	DSN        string
	ConfigFile string

	// Hostgroup report window when --start is not given
	Lookback time.Duration

	// Job queries per second; 0 disables throttling
	QueryRate float64

	// Operational flags
	Debug bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Lookback:  30 * 24 * time.Hour, // 30 days
		QueryRate: 0,
		Debug:     false,
	}
}

// Apply fills unset values from the config file and the environment.
// The environment wins over the file for the DSN; explicit values already
// set on c win over both.
func (c *Config) Apply(fc *FileConfig, lookupEnv func(string) (string, bool)) error {
	if c.DSN == "" && lookupEnv != nil {
		if dsn, ok := lookupEnv(EnvDSN); ok {
			c.DSN = strings.TrimSpace(dsn)
		}
	}

	if fc == nil {
		return nil
	}

	if c.DSN == "" {
		c.DSN = fc.DSN
	}

	if fc.Lookback != "" {
		lookback, err := ParseDuration(fc.Lookback)
		if err != nil {
			return bmerrors.NewConfigError("lookback", fc.Lookback, "invalid duration")
		}
		c.Lookback = lookback
	}

	if fc.Rate != nil {
		if *fc.Rate < 0 {
			return bmerrors.NewConfigError("rate", "", "must not be negative")
		}
		c.QueryRate = *fc.Rate
	}

	return nil
}

// ConnectionSpec parses the configured DSN.
func (c *Config) ConnectionSpec() (*ConnectionSpec, error) {
	if strings.TrimSpace(c.DSN) == "" {
		return nil, bmerrors.NewConfigError(EnvDSN, "", "please set the '"+EnvDSN+"' shell environment variable")
	}
	return ParseDSN(c.DSN)
}
