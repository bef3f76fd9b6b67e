package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HOST", "PORT", "DB_DRIVER", "DATABASE_PATH", "DATABASE_URL", "MIN_SCORE",
		"MAX_RESULTS", "FORM_MAX_RESULTS", "TOLERANCE_BANDS", "SYNC_WORKERS",
		"SYNC_ERROR_CAP", "CONFIG_FILE", "OLLAMA_URL", "OLLAMA_MODEL",
		"MAX_UPLOAD_MB", "LLM_TIMEOUT_SEC",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8082 || cfg.DBDriver != "sqlite" {
		t.Errorf("port=%d driver=%q", cfg.Port, cfg.DBDriver)
	}
	if cfg.MinScore != 0.3 || cfg.MaxResults != 5 || cfg.FormMaxResults != 10 {
		t.Errorf("search defaults: %+v", cfg)
	}
	if cfg.ToleranceBands {
		t.Error("tolerance bands should be off by default")
	}
	if cfg.OllamaURL != "http://localhost:11434" || cfg.OllamaModel != "llama3.2" {
		t.Errorf("llm defaults: %q %q", cfg.OllamaURL, cfg.OllamaModel)
	}
	if cfg.DSN() != cfg.DatabasePath {
		t.Errorf("sqlite DSN = %q", cfg.DSN())
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MIN_SCORE", "0.5")
	t.Setenv("TOLERANCE_BANDS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.MinScore != 0.5 || !cfg.ToleranceBands {
		t.Errorf("got %+v", cfg)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoad_FileOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("PG_URL", "postgres://u@db/designs")

	path := filepath.Join(t.TempDir(), "local.yaml")
	body := strings.Join([]string{
		"db_driver: postgres",
		"database_url: ${PG_URL}",
		"ollama_model: ${MISSING_MODEL:-mistral}",
		"max_results: 7",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBDriver != "postgres" || cfg.DSN() != "postgres://u@db/designs" {
		t.Errorf("driver=%q dsn=%q", cfg.DBDriver, cfg.DSN())
	}
	if cfg.OllamaModel != "mistral" {
		t.Errorf("default expansion: %q", cfg.OllamaModel)
	}
	if cfg.MaxResults != 7 {
		t.Errorf("MaxResults = %d", cfg.MaxResults)
	}
	// ключей нет в файле: остаются из окружения
	if cfg.Port != 9000 || cfg.FormMaxResults != 10 {
		t.Errorf("env values lost: port=%d form=%d", cfg.Port, cfg.FormMaxResults)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_MalformedEnv(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"MIN_SCORE", "abc"},
		{"PORT", "x"},
		{"SYNC_WORKERS", "4.5"},
		{"TOLERANCE_BANDS", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("%s=%q: expected error", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error should name the variable: %v", err)
			}
		})
	}
}

func TestFromEnv_ReportsEveryBadVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIN_SCORE", "abc")
	t.Setenv("MAX_RESULTS", "five")

	_, err := fromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, k := range []string{"MIN_SCORE", "MAX_RESULTS"} {
		if !strings.Contains(err.Error(), k) {
			t.Errorf("missing %s in %v", k, err)
		}
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := fromEnv()
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = 0 }},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"postgres without url", func(c *Config) { c.DBDriver = "postgres"; c.DatabaseURL = "" }},
		{"score above one", func(c *Config) { c.MinScore = 1.5 }},
		{"zero results", func(c *Config) { c.MaxResults = 0 }},
		{"zero workers", func(c *Config) { c.SyncWorkers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
