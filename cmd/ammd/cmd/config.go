package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/paw-chain/cpamm/app"
)

const (
	configDirName  = "config"
	configFileName = "app.toml"
	envPrefix      = "AMMD"
)

const configTemplate = `# ammd node configuration

[log]
# One of trace, debug, info, warn, error.
level = "{{ .Log.Level }}"
# json or plain.
format = "{{ .Log.Format }}"

[db]
# goleveldb, pebbledb or memdb.
backend = "{{ .DB.Backend }}"
name = "{{ .DB.Name }}"

[pool]
# Applied by init-pool when the flags leave them unset.
default-precision = {{ .Pool.DefaultPrecision }}
default-fee-bps = {{ .Pool.DefaultFeeBps }}

[telemetry]
enabled = {{ .Telemetry.Enabled }}
endpoint = "{{ .Telemetry.Endpoint }}"
sample-rate = {{ .Telemetry.SampleRate }}
environment = "{{ .Telemetry.Environment }}"

[server]
# Listen address of the metrics and health endpoints.
address = "{{ .Server.Address }}"
# Requests per second across all endpoints; 0 disables limiting.
rate-limit = {{ .Server.RateLimit }}
# Origins allowed to read the endpoints from a browser.
cors-origins = [{{ range $i, $o := .Server.CORSOrigins }}{{ if $i }}, {{ end }}"{{ $o }}"{{ end }}]
`

var appTemplate = template.Must(template.New("app.toml").Parse(configTemplate))

func configPath(home string) string {
	return filepath.Join(home, configDirName, configFileName)
}

// LoadConfig reads home/config/app.toml over the defaults. AMMD_-prefixed
// environment variables override file values, e.g. AMMD_LOG_LEVEL.
func LoadConfig(home string) (app.Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(configPath(home))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := app.DefaultConfig()
	setDefaults(v, defaults)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return app.Config{}, fmt.Errorf("read %s: %w", configPath(home), err)
		}
	}

	cfg := defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return app.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// AutomaticEnv only consults keys viper already knows about.
func setDefaults(v *viper.Viper, cfg app.Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("db.backend", cfg.DB.Backend)
	v.SetDefault("db.name", cfg.DB.Name)
	v.SetDefault("pool.default-precision", cfg.Pool.DefaultPrecision)
	v.SetDefault("pool.default-fee-bps", cfg.Pool.DefaultFeeBps)
	v.SetDefault("telemetry.enabled", cfg.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", cfg.Telemetry.Endpoint)
	v.SetDefault("telemetry.sample-rate", cfg.Telemetry.SampleRate)
	v.SetDefault("telemetry.environment", cfg.Telemetry.Environment)
	v.SetDefault("server.address", cfg.Server.Address)
	v.SetDefault("server.rate-limit", cfg.Server.RateLimit)
	v.SetDefault("server.cors-origins", cfg.Server.CORSOrigins)
}

// WriteConfig renders cfg to home/config/app.toml.
func WriteConfig(home string, cfg app.Config) error {
	var buf bytes.Buffer
	if err := appTemplate.Execute(&buf, cfg); err != nil {
		return err
	}

	path := configPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// NewLogger builds the node logger described by cfg.
func NewLogger(w io.Writer, cfg app.LogConfig) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := []log.Option{log.LevelOption(level)}
	if cfg.Format == app.LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...), nil
}
