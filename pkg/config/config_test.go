package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Admin.Port != 9000 {
		t.Errorf("Admin.Port = %d, want 9000", cfg.Admin.Port)
	}
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("Search.DefaultLimit = %d, want 10", cfg.Search.DefaultLimit)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("Search.MaxResults = %d, want 50", cfg.Search.MaxResults)
	}
	if cfg.Kafka.Topics.SearchAnalytics != "search-analytics" {
		t.Errorf("SearchAnalytics topic = %q, want search-analytics", cfg.Kafka.Topics.SearchAnalytics)
	}
	if cfg.Analytics.SnapshotInterval != time.Minute {
		t.Errorf("SnapshotInterval = %v, want 1m", cfg.Analytics.SnapshotInterval)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerWindow != 120 {
		t.Errorf("RateLimit = %+v, want enabled with 120/window", cfg.RateLimit)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("server:\n  port: 9999\nsearch:\n  defaultLimit: 5\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 from file", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 5 {
		t.Errorf("Search.DefaultLimit = %d, want 5 from file", cfg.Search.DefaultLimit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug from file", cfg.Logging.Level)
	}
	// Values the file does not mention keep their defaults.
	if cfg.Search.MaxResults != 50 {
		t.Errorf("Search.MaxResults = %d, want default 50", cfg.Search.MaxResults)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PS_SERVER_PORT", "7070")
	t.Setenv("PS_SEARCH_DEFAULT_LIMIT", "3")
	t.Setenv("PS_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("PS_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from env", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 3 {
		t.Errorf("Search.DefaultLimit = %d, want 3 from env", cfg.Search.DefaultLimit)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("Kafka.Brokers = %v, want two brokers from env", cfg.Kafka.Brokers)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn from env", cfg.Logging.Level)
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("PS_SERVER_PORT", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080 when override is unparseable", cfg.Server.Port)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db", Port: 5433, Database: "gallery",
		User: "app", Password: "secret", SSLMode: "disable",
	}
	want := "host=db port=5433 user=app password=secret dbname=gallery sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
