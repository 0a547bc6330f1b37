package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Data source modes.
const (
	SourceRemote = "remote"
	SourceSample = "sample"
	SourceDemo   = "demo"
)

type Config struct {
	StoreURL             string        `mapstructure:"STORE_URL"`
	DataSource           string        `mapstructure:"DATA_SOURCE"`
	StoreTimeout         time.Duration `mapstructure:"STORE_TIMEOUT"`
	AppointmentsListPath string        `mapstructure:"APPOINTMENTS_LIST_PATH"`
	Env                  string        `mapstructure:"ENV"`
	LogLevel             string        `mapstructure:"LOG_LEVEL"`
	MetricsAddr          string        `mapstructure:"METRICS_ADDR"`
	StrictStatus         bool          `mapstructure:"STRICT_STATUS"`
}

// Load reads .env from the working directory, if present, then the
// environment. It does not validate; call Validate.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("STORE_URL", "http://localhost:5000")
	v.SetDefault("DATA_SOURCE", SourceRemote)
	v.SetDefault("STORE_TIMEOUT", "10s")
	v.SetDefault("APPOINTMENTS_LIST_PATH", "/appointments")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("STRICT_STATUS", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("STORE_URL")
	v.BindEnv("DATA_SOURCE")
	v.BindEnv("STORE_TIMEOUT")
	v.BindEnv("APPOINTMENTS_LIST_PATH")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("METRICS_ADDR")
	v.BindEnv("STRICT_STATUS")

	// Try reading the dotenv file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DataSource = strings.ToLower(strings.TrimSpace(cfg.DataSource))
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// NeedsStore reports whether the configured mode talks to the remote store.
func (c *Config) NeedsStore() bool {
	return c.DataSource == SourceRemote || c.DataSource == SourceDemo
}

// Level returns the zerolog level for LOG_LEVEL.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate checks that the configuration can run. STORE_URL must be an
// absolute http(s) URL whenever the store is used.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceRemote, SourceSample, SourceDemo:
	default:
		return fmt.Errorf("DATA_SOURCE must be %q, %q, or %q, got %q", SourceRemote, SourceSample, SourceDemo, c.DataSource)
	}

	if c.NeedsStore() {
		if c.StoreURL == "" {
			return fmt.Errorf("STORE_URL is required when DATA_SOURCE is %q", c.DataSource)
		}
		u, err := url.Parse(c.StoreURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("STORE_URL must be an absolute http(s) URL, got %q", c.StoreURL)
		}
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}

	if !strings.HasPrefix(c.AppointmentsListPath, "/") {
		return fmt.Errorf("APPOINTMENTS_LIST_PATH must start with /, got %q", c.AppointmentsListPath)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL is not a valid level: %w", err)
	}

	return nil
}
