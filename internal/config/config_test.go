package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "STORE_DRIVER", "SQLITE_PATH", "DATABASE_URL", "KAFKA_BROKERS",
		"KAFKA_TOPIC", "TRANSFER_MAX_ATTEMPTS", "OTEL_ENDPOINT", "SEED_DEMO", "LOG_LEVEL",
		"SERVICE_VERSION", "APP_ENV",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreDriver != "sqlite" || cfg.SQLitePath != "funds.db" || cfg.MaxAttempts != 3 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !cfg.Durable() {
		t.Fatal("default store should be durable")
	}
	if cfg.ServiceVersion != "dev" || cfg.Environment != "development" {
		t.Fatalf("resource defaults = %q/%q", cfg.ServiceVersion, cfg.Environment)
	}
	if len(cfg.KafkaBrokers) != 0 || cfg.SeedDemo {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
}

func TestLoadDotenvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "STORE_DRIVER=sqlite\nSQLITE_PATH=/tmp/x.db\nKAFKA_BROKERS=a:9092,b:9092\nSEED_DEMO=true\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != "sqlite" || cfg.SQLitePath != "/tmp/x.db" || !cfg.SeedDemo {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
}

func TestLoadEnvironmentWinsOverDotenv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=1111\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "unknown driver", cfg: Config{StoreDriver: "mongo", MaxAttempts: 1}, want: "unknown STORE_DRIVER"},
		{name: "postgres without url", cfg: Config{StoreDriver: "postgres", MaxAttempts: 1}, want: "DATABASE_URL"},
		{name: "sqlite without path", cfg: Config{StoreDriver: "sqlite", MaxAttempts: 1}, want: "SQLITE_PATH"},
		{name: "zero attempts", cfg: Config{StoreDriver: "memory"}, want: "TRANSFER_MAX_ATTEMPTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestParseEnvError(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSFER_MAX_ATTEMPTS", "many")

	var cfg Config
	err := ParseEnv(&cfg)
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("err = %v, want parse env error", err)
	}
}

func TestDurable(t *testing.T) {
	for driver, want := range map[string]bool{"memory": false, "sqlite": true, "postgres": true} {
		if got := (Config{StoreDriver: driver}).Durable(); got != want {
			t.Errorf("Durable(%s) = %v, want %v", driver, got, want)
		}
	}
}
