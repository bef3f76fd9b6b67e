package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
	LogLevel     string   `yaml:"log_level"`
	MaxUploadMB  int      `yaml:"max_upload_mb"`
	LogFile      string   `yaml:"log_file"`

	DesignsDirectory string `yaml:"designs_directory"`

	// sqlite | postgres
	DBDriver     string `yaml:"db_driver"`
	DatabasePath string `yaml:"database_path"`
	DatabaseURL  string `yaml:"database_url"`

	OllamaURL     string `yaml:"ollama_url"`
	OllamaModel   string `yaml:"ollama_model"`
	LLMAPIKey     string `yaml:"llm_api_key"`
	LLMTimeoutSec int    `yaml:"llm_timeout_sec"`

	MinScore       float64 `yaml:"min_score"`
	MaxResults     int     `yaml:"max_results"`
	FormMaxResults int     `yaml:"form_max_results"`
	ToleranceBands bool    `yaml:"tolerance_bands"`

	SyncErrorCap int `yaml:"sync_error_cap"`
	SyncWorkers  int `yaml:"sync_workers"`
}

// Load: значения из окружения, поверх них (если задан CONFIG_FILE) yaml-файл.
func Load() (Config, error) {
	cfg, err := fromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func fromEnv() (Config, error) {
	var p envParser
	cfg := Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         p.atoi("PORT", "8082"),
		AllowOrigins: strings.Split(getenv("ALLOW_ORIGINS", "*"), ","),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  p.atoi("MAX_UPLOAD_MB", "16"),
		LogFile:      getenv("LOG_FILE", "logs/trafo-matcher.log"),

		DesignsDirectory: getenv("DESIGNS_DIRECTORY", "designs"),

		DBDriver:     getenv("DB_DRIVER", "sqlite"),
		DatabasePath: getenv("DATABASE_PATH", "data/designs.db"),
		DatabaseURL:  getenv("DATABASE_URL", ""),

		OllamaURL:     getenv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   getenv("OLLAMA_MODEL", "llama3.2"),
		LLMAPIKey:     getenv("LLM_API_KEY", ""),
		LLMTimeoutSec: p.atoi("LLM_TIMEOUT_SEC", "30"),

		MinScore:       p.atof("MIN_SCORE", "0.3"),
		MaxResults:     p.atoi("MAX_RESULTS", "5"),
		FormMaxResults: p.atoi("FORM_MAX_RESULTS", "10"),
		ToleranceBands: p.bool("TOLERANCE_BANDS", false),

		SyncErrorCap: p.atoi("SYNC_ERROR_CAP", "10"),
		SyncWorkers:  p.atoi("SYNC_WORKERS", "4"),
	}
	return cfg, errors.Join(p.errs...)
}

// overlay перекрывает только ключи, присутствующие в файле.
func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	data = expandEnvVars(data)
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	switch c.DBDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			return errors.New("database_path is required for sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required for postgres")
		}
	default:
		return fmt.Errorf("db_driver must be \"sqlite\" or \"postgres\", got %q", c.DBDriver)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min_score must be in [0,1], got %v", c.MinScore)
	}
	if c.MaxResults <= 0 || c.FormMaxResults <= 0 {
		return errors.New("max_results and form_max_results must be positive")
	}
	if c.SyncWorkers <= 0 {
		return fmt.Errorf("sync_workers must be positive, got %d", c.SyncWorkers)
	}
	if c.SyncErrorCap < 0 {
		return fmt.Errorf("sync_error_cap must not be negative, got %d", c.SyncErrorCap)
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// DSN для выбранного драйвера.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envParser копит ошибки разбора, чтобы сообщить обо всех переменных сразу.
type envParser struct {
	errs []error
}

func (p *envParser) atoi(k, def string) int {
	s := strings.TrimSpace(getenv(k, def))
	n, err := strconv.Atoi(s)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s=%q: not an integer", k, s))
	}
	return n
}

func (p *envParser) atof(k, def string) float64 {
	s := strings.TrimSpace(getenv(k, def))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s=%q: not a number", k, s))
	}
	return f
}

func (p *envParser) bool(k string, def bool) bool {
	s := strings.TrimSpace(os.Getenv(k))
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s=%q: not a boolean", k, s))
	}
	return b
}

// ${VAR} и ${VAR:-default}
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
