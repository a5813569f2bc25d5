package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/pulse/internal/config"
	"github.com/JaimeStill/pulse/internal/sentiment"
	"github.com/JaimeStill/pulse/pkg/database"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// unsetAfter removes variables a .env file may have introduced into the process.
func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %s, want 30s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Database.Driver != database.DriverSQLite {
		t.Errorf("driver: got %s, want %s", cfg.Database.Driver, database.DriverSQLite)
	}
	if cfg.Classifier.Primary != sentiment.ModelVader {
		t.Errorf("primary: got %s, want %s", cfg.Classifier.Primary, sentiment.ModelVader)
	}
	if cfg.API.MaxTextLength != 5000 {
		t.Errorf("max_text_length: got %d, want 5000", cfg.API.MaxTextLength)
	}
	if cfg.API.MaxBatchSize != 100 {
		t.Errorf("max_batch_size: got %d, want 100", cfg.API.MaxBatchSize)
	}
	if cfg.API.MaxBodySizeBytes() != 1024*1024 {
		t.Errorf("max body bytes: got %d, want %d", cfg.API.MaxBodySizeBytes(), 1024*1024)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("PULSE_CLASSIFIER_PRIMARY", "keyword")
	t.Setenv("PULSE_API_MAX_BATCH_SIZE", "10")
	t.Setenv("PULSE_SERVER_PORT", "9090")
	t.Setenv("PULSE_SHUTDOWN_TIMEOUT", "5s")

	cfg := &config.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Classifier.Primary != sentiment.ModelKeyword {
		t.Errorf("primary: got %s, want keyword", cfg.Classifier.Primary)
	}
	if cfg.API.MaxBatchSize != 10 {
		t.Errorf("max_batch_size: got %d, want 10", cfg.API.MaxBatchSize)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.ShutdownTimeoutDuration() != 5*time.Second {
		t.Errorf("shutdown timeout: got %s, want 5s", cfg.ShutdownTimeoutDuration())
	}
}

func TestFinalizeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown classifier", key: "PULSE_CLASSIFIER_PRIMARY", val: "textblob"},
		{name: "bad body size", key: "PULSE_API_MAX_BODY_SIZE", val: "lots"},
		{name: "bad shutdown timeout", key: "PULSE_SHUTDOWN_TIMEOUT", val: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			cfg := &config.Config{}
			if err := cfg.Finalize(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestServerTimeouts(t *testing.T) {
	t.Setenv("PULSE_SERVER_IDLE_TIMEOUT", "45s")

	cfg := &config.ServerConfig{Host: "127.0.0.1", WriteTimeout: "90s"}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	got := cfg.Timeouts()
	want := config.ServerTimeouts{
		Read:       30 * time.Second,
		ReadHeader: 5 * time.Second,
		Write:      90 * time.Second,
		Idle:       45 * time.Second,
		Shutdown:   30 * time.Second,
	}
	if got != want {
		t.Errorf("timeouts: got %+v, want %+v", got, want)
	}
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("addr: got %s, want 127.0.0.1:8080", cfg.Addr())
	}
}

func TestServerMergeTimeouts(t *testing.T) {
	base := &config.ServerConfig{ReadTimeout: "10s", IdleTimeout: "1m"}
	base.Merge(&config.ServerConfig{IdleTimeout: "3m", Port: 9000})

	if base.ReadTimeout != "10s" || base.IdleTimeout != "3m" || base.Port != 9000 {
		t.Errorf("merge: got %+v", base)
	}
}

func TestServerRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{name: "non-numeric port", key: "PULSE_SERVER_PORT", val: "http", want: "PULSE_SERVER_PORT"},
		{name: "port out of range", key: "PULSE_SERVER_PORT", val: "70000", want: "invalid port"},
		{name: "bad header timeout", key: "PULSE_SERVER_READ_HEADER_TIMEOUT", val: "fast", want: "read_header_timeout"},
		{name: "negative idle timeout", key: "PULSE_SERVER_IDLE_TIMEOUT", val: "-1s", want: "idle_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			err := (&config.ServerConfig{}).Finalize()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestFinalizeUnknownClassifierWraps(t *testing.T) {
	t.Setenv("PULSE_CLASSIFIER_PRIMARY", "textblob")

	err := (&config.Config{}).Finalize()
	if !errors.Is(err, sentiment.ErrUnknownModel) {
		t.Errorf("got %v, want ErrUnknownModel", err)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PULSE_ENV", "staging")

	writeFile(t, dir, config.BaseConfigFile, `
version = "1.2.3"

[api]
max_batch_size = 50

[logging]
level = "warn"
`)
	writeFile(t, dir, "config.staging.toml", `
[api]
max_batch_size = 25
`)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Version != "1.2.3" {
		t.Errorf("version: got %s, want 1.2.3", cfg.Version)
	}
	if cfg.API.MaxBatchSize != 25 {
		t.Errorf("overlay max_batch_size: got %d, want 25", cfg.API.MaxBatchSize)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("base logging level: got %s, want warn", cfg.Logging.Level)
	}
	if cfg.Env() != "staging" {
		t.Errorf("env: got %s, want staging", cfg.Env())
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.MaxTextLength != 5000 {
		t.Errorf("max_text_length: got %d, want 5000", cfg.API.MaxTextLength)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PULSE_ENV", "dev")
	t.Setenv("PULSE_API_MAX_TEXT_LENGTH", "300")
	unsetAfter(t, "PULSE_CLASSIFIER_PRIMARY", "PULSE_API_BATCH_CONCURRENCY")

	writeFile(t, dir, ".env.dev", "PULSE_CLASSIFIER_PRIMARY=keyword\n")
	writeFile(t, dir, config.BaseEnvFile, "PULSE_CLASSIFIER_PRIMARY=openai\nPULSE_API_BATCH_CONCURRENCY=2\nPULSE_API_MAX_TEXT_LENGTH=100\n")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Classifier.Primary != sentiment.ModelKeyword {
		t.Errorf("environment file must win over base file: got %s", cfg.Classifier.Primary)
	}
	if cfg.API.BatchConcurrency != 2 {
		t.Errorf("batch_concurrency: got %d, want 2", cfg.API.BatchConcurrency)
	}
	if cfg.API.MaxTextLength != 300 {
		t.Errorf("real environment must win over files: got %d", cfg.API.MaxTextLength)
	}
}
