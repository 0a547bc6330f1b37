package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func validConfig() *Config {
	return &Config{
		StoreURL:             "http://localhost:5000",
		DataSource:           SourceRemote,
		StoreTimeout:         10 * time.Second,
		AppointmentsListPath: "/appointments",
		Env:                  "development",
		LogLevel:             "info",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StoreURL != "http://localhost:5000" {
		t.Errorf("expected default store url, got %s", cfg.StoreURL)
	}
	if cfg.DataSource != SourceRemote {
		t.Errorf("expected default data source remote, got %s", cfg.DataSource)
	}
	if cfg.StoreTimeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %s", cfg.StoreTimeout)
	}
	if cfg.AppointmentsListPath != "/appointments" {
		t.Errorf("expected default list path, got %s", cfg.AppointmentsListPath)
	}
	if cfg.StrictStatus {
		t.Error("expected strict status off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_URL", "https://store.clinic.example")
	t.Setenv("DATA_SOURCE", "Demo")
	t.Setenv("STORE_TIMEOUT", "3s")
	t.Setenv("APPOINTMENTS_LIST_PATH", "/appointments/all")
	t.Setenv("STRICT_STATUS", "true")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StoreURL != "https://store.clinic.example" {
		t.Errorf("expected STORE_URL from env, got %s", cfg.StoreURL)
	}
	if cfg.DataSource != SourceDemo {
		t.Errorf("expected normalised demo source, got %s", cfg.DataSource)
	}
	if cfg.StoreTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.StoreTimeout)
	}
	if cfg.AppointmentsListPath != "/appointments/all" {
		t.Errorf("expected /appointments/all, got %s", cfg.AppointmentsListPath)
	}
	if !cfg.StrictStatus {
		t.Error("expected STRICT_STATUS true")
	}
}

func TestLoad_FromDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DATA_SOURCE=sample\nLOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("DATA_SOURCE")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource != SourceSample {
		t.Errorf("expected sample from file, got %s", cfg.DataSource)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", cfg.Level())
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_NeedsStore(t *testing.T) {
	cases := map[string]bool{
		SourceRemote: true,
		SourceDemo:   true,
		SourceSample: false,
	}
	for src, want := range cases {
		c := &Config{DataSource: src}
		if got := c.NeedsStore(); got != want {
			t.Errorf("NeedsStore(%s) = %v, want %v", src, got, want)
		}
	}
}

func TestConfig_Level(t *testing.T) {
	c := &Config{LogLevel: "warn"}
	if c.Level() != zerolog.WarnLevel {
		t.Errorf("expected warn, got %s", c.Level())
	}
	c.LogLevel = "bogus"
	if c.Level() != zerolog.InfoLevel {
		t.Errorf("expected info fallback, got %s", c.Level())
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownDataSource(t *testing.T) {
	c := validConfig()
	c.DataSource = "mock"
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "DATA_SOURCE") {
		t.Fatalf("expected DATA_SOURCE error, got %v", err)
	}
}

func TestValidate_StoreURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "ftp://store", "http://"} {
		c := validConfig()
		c.StoreURL = u
		if err := c.Validate(); err == nil {
			t.Errorf("expected error for STORE_URL %q", u)
		}
	}

	c := validConfig()
	c.DataSource = SourceSample
	c.StoreURL = ""
	if err := c.Validate(); err != nil {
		t.Errorf("sample mode must not need STORE_URL, got %v", err)
	}
}

func TestValidate_Timeout(t *testing.T) {
	c := validConfig()
	c.StoreTimeout = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero timeout")
	}
}

func TestValidate_ListPath(t *testing.T) {
	c := validConfig()
	c.AppointmentsListPath = "appointments/all"
	if err := c.Validate(); err == nil {
		t.Error("expected error for relative list path")
	}
}

func TestValidate_LogLevel(t *testing.T) {
	c := validConfig()
	c.LogLevel = "loud"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}
