package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"godesign/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Solver   SolverConfig   `json:"solver"`
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
}

// SolverConfig holds exploration engine settings
type SolverConfig struct {
	Strategy           string        `json:"strategy"`
	AssignmentStrategy string        `json:"assignment_strategy"`
	FingerprintScope   string        `json:"fingerprint_scope"`
	MaxIterations      int           `json:"max_iterations"`
	MaxSolutions       int           `json:"max_solutions"`
	Timeout            time.Duration `json:"timeout"`
	Seed               int64         `json:"seed"`
	SeedCandidates     int           `json:"seed_candidates"`
	StructureBranch    int           `json:"structure_branch"`
	VariableBranch     int           `json:"variable_branch"`
	ParallelWorkers    int           `json:"parallel_workers"`
	CacheEvaluations   bool          `json:"cache_evaluations"`
	CacheSize          int           `json:"cache_size"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `json:"port"`
	GinMode string `json:"gin_mode"`
}

// DatabaseConfig holds optional persistence settings; empty URL disables it
type DatabaseConfig struct {
	URL string `json:"url"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		Solver: SolverConfig{
			Strategy:           "breadth_first",
			AssignmentStrategy: "random",
			FingerprintScope:   "structure_variables",
			MaxIterations:      1000,
			MaxSolutions:       10,
			Timeout:            60 * time.Second,
			StructureBranch:    3,
			VariableBranch:     2,
			ParallelWorkers:    1,
			CacheEvaluations:   true,
			CacheSize:          1024,
		},
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
	}
}

// Load reads configuration from the environment, with .env support, and
// validates it
func Load() (*Config, error) {
	// missing .env files are fine; env vars may come from the process
	_ = godotenv.Load()

	cfg := Default()
	cfg.Solver.Strategy = getEnvOrDefault("STRATEGY", cfg.Solver.Strategy)
	cfg.Solver.AssignmentStrategy = getEnvOrDefault("ASSIGNMENT_STRATEGY", cfg.Solver.AssignmentStrategy)
	cfg.Solver.FingerprintScope = getEnvOrDefault("FINGERPRINT_SCOPE", cfg.Solver.FingerprintScope)
	cfg.Solver.MaxIterations = getEnvIntOrDefault("MAX_ITERATIONS", cfg.Solver.MaxIterations)
	cfg.Solver.MaxSolutions = getEnvIntOrDefault("MAX_SOLUTIONS", cfg.Solver.MaxSolutions)
	cfg.Solver.Timeout = getEnvDurationOrDefault("SOLVE_TIMEOUT", cfg.Solver.Timeout)
	cfg.Solver.Seed = int64(getEnvIntOrDefault("SEED", int(cfg.Solver.Seed)))
	cfg.Solver.SeedCandidates = getEnvIntOrDefault("SEED_CANDIDATES", cfg.Solver.SeedCandidates)
	cfg.Solver.StructureBranch = getEnvIntOrDefault("STRUCTURE_BRANCH", cfg.Solver.StructureBranch)
	cfg.Solver.VariableBranch = getEnvIntOrDefault("VARIABLE_BRANCH", cfg.Solver.VariableBranch)
	cfg.Solver.ParallelWorkers = getEnvIntOrDefault("PARALLEL_WORKERS", cfg.Solver.ParallelWorkers)
	cfg.Solver.CacheEvaluations = getEnvBoolOrDefault("CACHE_EVALUATIONS", cfg.Solver.CacheEvaluations)
	cfg.Solver.CacheSize = getEnvIntOrDefault("CACHE_SIZE", cfg.Solver.CacheSize)

	cfg.Server.Port = getEnvOrDefault("PORT", cfg.Server.Port)
	cfg.Server.GinMode = getEnvOrDefault("GIN_MODE", cfg.Server.GinMode)
	cfg.Database.URL = getEnvOrDefault("DATABASE_URL", cfg.Database.URL)

	if preset := os.Getenv("EXPLORATION_PRESET"); preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

// LoadFile overlays JSON file settings onto the current configuration
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("config file %s: %v", path, err))
	}
	return c.Validate()
}

// ApplyPreset applies a named exploration preset
func (c *Config) ApplyPreset(name string) error {
	switch name {
	case "fast":
		c.Solver.MaxIterations = 100
		c.Solver.MaxSolutions = 3
		c.Solver.Timeout = 10 * time.Second
		c.Solver.Strategy = "depth_first"
		c.Solver.StructureBranch = 2
	case "balanced":
		c.Solver.MaxIterations = 1000
		c.Solver.MaxSolutions = 10
		c.Solver.Timeout = 60 * time.Second
		c.Solver.Strategy = "breadth_first"
		c.Solver.StructureBranch = 3
	case "thorough":
		c.Solver.MaxIterations = 10000
		c.Solver.MaxSolutions = 50
		c.Solver.Timeout = 10 * time.Minute
		c.Solver.Strategy = "best_first"
		c.Solver.StructureBranch = 5
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown exploration preset %q", name))
	}
	return nil
}

// Validate rejects invalid parameter combinations
func (c *Config) Validate() error {
	switch c.Solver.Strategy {
	case "breadth_first", "depth_first", "best_first", "random":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown strategy %q", c.Solver.Strategy))
	}
	switch c.Solver.AssignmentStrategy {
	case "random", "systematic", "heuristic":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown assignment strategy %q", c.Solver.AssignmentStrategy))
	}
	switch c.Solver.FingerprintScope {
	case "structure", "structure_variables":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown fingerprint scope %q", c.Solver.FingerprintScope))
	}
	if c.Solver.MaxIterations <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("max_iterations must be positive, got %d", c.Solver.MaxIterations))
	}
	if c.Solver.MaxSolutions <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("max_solutions must be positive, got %d", c.Solver.MaxSolutions))
	}
	if c.Solver.Timeout < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("timeout cannot be negative, got %s", c.Solver.Timeout))
	}
	if c.Solver.CacheEvaluations && c.Solver.CacheSize <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("cache_size must be positive when caching is enabled, got %d", c.Solver.CacheSize))
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
