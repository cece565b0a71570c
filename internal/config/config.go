package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when CONFIG_FILE points at a missing file.
var ErrConfigNotFound = errors.New("configuration file not found")

type Config struct {
	Addr           string        `yaml:"addr"`            // API bind address, e.g., "127.0.0.1:8080" or ":8080" (Docker)
	LogDir         string        `yaml:"log_dir"`         // logs directory
	LogStdout      bool          `yaml:"log_stdout"`      // also write logs to stderr
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`   // bound on the page GET
	UserAgent      string        `yaml:"user_agent"`      // sent with every fetch
	RateLimitRPM   int           `yaml:"rate_limit_rpm"`  // audits per minute per client IP; 0 disables
	RateLimitBurst int           `yaml:"rate_limit_burst"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // CORS; empty allows all
}

func Default() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		LogDir:         "logs",
		FetchTimeout:   10 * time.Second,
		RateLimitRPM:   60,
		RateLimitBurst: 10,
	}
}

// FromEnv returns defaults overridden by environment variables.
func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// Load reads the optional YAML file named by CONFIG_FILE, then applies
// environment overrides and validates the result.
func Load() (Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.RateLimitRPM > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("rate limit burst must be at least 1 when rpm is %d", c.RateLimitRPM))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) {
	// Bind address
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.Addr = v
	}

	// Logs
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("LOG_STDOUT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogStdout = b
		}
	}

	// Fetch tuning
	if v := os.Getenv("FETCH_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.FetchTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RateLimitRPM = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitBurst = n
		}
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
