package app

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// Config is the node configuration read from app.toml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Pool      PoolConfig      `mapstructure:"pool"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Server    ServerConfig    `mapstructure:"server"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DBConfig selects the key-value backend.
type DBConfig struct {
	Backend string `mapstructure:"backend"`
	Name    string `mapstructure:"name"`
}

// PoolConfig holds defaults applied to new pools.
type PoolConfig struct {
	DefaultPrecision uint8  `mapstructure:"default-precision"`
	DefaultFeeBps    uint16 `mapstructure:"default-fee-bps"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample-rate"`
	Environment string  `mapstructure:"environment"`
}

// ServerConfig configures the metrics and health listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
	// RateLimit is the sustained requests per second across all endpoints;
	// 0 disables limiting.
	RateLimit   int      `mapstructure:"rate-limit"`
	CORSOrigins []string `mapstructure:"cors-origins"`
}

// Log formats
const (
	LogFormatJSON  = "json"
	LogFormatPlain = "plain"
)

// DefaultConfig returns the configuration written by `ammd init`.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  zerolog.InfoLevel.String(),
			Format: LogFormatPlain,
		},
		DB: DBConfig{
			Backend: string(dbm.GoLevelDBBackend),
			Name:    "amm",
		},
		Pool: PoolConfig{
			DefaultPrecision: types.DefaultPrecision,
			DefaultFeeBps:    types.DefaultFeeBps,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "http://localhost:4318",
			SampleRate:  1.0,
			Environment: "local",
		},
		Server: ServerConfig{
			Address:     "127.0.0.1:26660",
			RateLimit:   20,
			CORSOrigins: []string{},
		},
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case LogFormatJSON, LogFormatPlain:
	default:
		return fmt.Errorf("log.format must be %q or %q, got %q", LogFormatJSON, LogFormatPlain, c.Log.Format)
	}

	switch dbm.BackendType(c.DB.Backend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend, dbm.PebbleDBBackend:
	default:
		return fmt.Errorf("db.backend %q is not supported", c.DB.Backend)
	}
	if strings.TrimSpace(c.DB.Name) == "" {
		return fmt.Errorf("db.name cannot be empty")
	}

	if c.Pool.DefaultPrecision != 0 {
		if err := types.ValidatePrecision(c.Pool.DefaultPrecision); err != nil {
			return fmt.Errorf("pool.default-precision: %w", err)
		}
	}
	if c.Pool.DefaultFeeBps > types.MaxFeeBps {
		return fmt.Errorf("pool.default-fee-bps must be at most %d", types.MaxFeeBps)
	}

	if c.Telemetry.Enabled {
		if _, err := url.Parse(c.Telemetry.Endpoint); err != nil || c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint %q is not a valid URL", c.Telemetry.Endpoint)
		}
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample-rate must be between 0 and 1")
	}

	if c.Server.Address != "" {
		if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
			return fmt.Errorf("server.address: %w", err)
		}
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate-limit cannot be negative")
	}

	return nil
}
