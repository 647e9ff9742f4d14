package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the contentrun runtime configuration
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Log       LogConfig       `yaml:"log"`
}

// AnalysisConfig controls the orchestration of one analysis
type AnalysisConfig struct {
	SuggestionCount  int           `yaml:"suggestion_count"`  // ranked suggestions returned
	GeneratorTimeout time.Duration `yaml:"generator_timeout"` // per collaborator call
	CacheTTL         time.Duration `yaml:"cache_ttl"`         // generated narrative lifetime
}

// BreakerConfig configures the circuit breaker around the text generator
type BreakerConfig struct {
	Name                string        `yaml:"name"`
	Interval            time.Duration `yaml:"interval"`
	Timeout             time.Duration `yaml:"timeout"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
	MinRequests         uint32        `yaml:"min_requests"`
	FailureRatio        float64       `yaml:"failure_ratio"`
}

// RateLimitConfig is the token bucket in front of the text generator
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// RedisConfig enables the shared narrative cache
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MonitorConfig is the /health and /metrics listener
type MonitorConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// LogConfig controls zerolog output
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns production defaults
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			SuggestionCount:  5,
			GeneratorTimeout: 20 * time.Second,
			CacheTTL:         6 * time.Hour,
		},
		Breaker: BreakerConfig{
			Name:                "text-generator",
			Interval:            60 * time.Second,
			Timeout:             60 * time.Second,
			ConsecutiveFailures: 3,
			MinRequests:         20,
			FailureRatio:        0.05,
		},
		RateLimit: RateLimitConfig{
			RPS:   2,
			Burst: 4,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		Monitor: MonitorConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads a YAML config over the defaults. An empty path or a missing
// file returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid config %s: %v", path, problems)
	}
	return cfg, nil
}

// Validate returns every problem found, or nil
func (c *Config) Validate() []string {
	var problems []string

	if c.Analysis.SuggestionCount < 1 || c.Analysis.SuggestionCount > 20 {
		problems = append(problems, fmt.Sprintf("analysis.suggestion_count %d outside [1, 20]", c.Analysis.SuggestionCount))
	}
	if c.Analysis.GeneratorTimeout <= 0 {
		problems = append(problems, "analysis.generator_timeout must be positive")
	}
	if c.Analysis.CacheTTL < 0 {
		problems = append(problems, "analysis.cache_ttl must not be negative")
	}

	if c.Breaker.ConsecutiveFailures == 0 {
		problems = append(problems, "breaker.consecutive_failures must be at least 1")
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		problems = append(problems, fmt.Sprintf("breaker.failure_ratio %.2f outside (0, 1]", c.Breaker.FailureRatio))
	}

	if c.RateLimit.RPS <= 0 {
		problems = append(problems, "rate_limit.rps must be positive")
	}
	if c.RateLimit.Burst < 1 {
		problems = append(problems, "rate_limit.burst must be at least 1")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}

	return problems
}
