// Package config loads the peak-prophet service configuration from
// environment-keyed YAML files with ${VAR} expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

// Config holds the peak-prophet API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Matching MatchingConfig `yaml:"matching"`
	Runs     RunsConfig     `yaml:"runs"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds run-store connection settings. Leaving addrs empty
// disables run persistence; matching itself needs no database.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// MatchingConfig holds default matching parameters. Per-request parameters
// override these.
type MatchingConfig struct {
	Weights     map[string]float64 `yaml:"weights"`      // ms, rt, lmax
	MzTolDa     float64            `yaml:"mz_tol_da"`    // absolute Da window
	MzTolPPM    float64            `yaml:"mz_tol_ppm"`   // relative ppm window, excludes mz_tol_da
	RTSigma     float64            `yaml:"rt_sigma"`     // minutes
	LambdaSigma float64            `yaml:"lmax_sigma"`   // nm
	Strategy    string             `yaml:"strategy"`     // hungarian, greedy
	Workers     int                `yaml:"workers"`      // matrix build parallelism, 0 = NumCPU
	MaxRecords  int                `yaml:"max_records"`  // per-side request cap
}

// RunsConfig holds run persistence settings.
type RunsConfig struct {
	TTLHours int `yaml:"ttl_hours"` // 0 = keep forever
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Matching.Weights == nil {
		def := match.DefaultWeights()
		c.Matching.Weights = map[string]float64{
			string(match.ChannelMS):        def[match.ChannelMS],
			string(match.ChannelRT):        def[match.ChannelRT],
			string(match.ChannelLambdaMax): def[match.ChannelLambdaMax],
		}
	}
	if c.Matching.MzTolDa == 0 && c.Matching.MzTolPPM == 0 {
		c.Matching.MzTolDa = 0.01
	}
	if c.Matching.RTSigma == 0 {
		c.Matching.RTSigma = 0.5
	}
	if c.Matching.LambdaSigma == 0 {
		c.Matching.LambdaSigma = 15.0
	}
	if c.Matching.Strategy == "" {
		c.Matching.Strategy = "hungarian"
	}
	if c.Matching.MaxRecords <= 0 {
		c.Matching.MaxRecords = 2000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "redis", "valkey":
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"valkey\", got %q", c.Database.Driver)
	}
	switch c.Matching.Strategy {
	case "hungarian", "greedy":
	default:
		return fmt.Errorf("matching.strategy must be \"hungarian\" or \"greedy\", got %q", c.Matching.Strategy)
	}
	if c.Matching.MzTolDa > 0 && c.Matching.MzTolPPM > 0 {
		return fmt.Errorf("matching.mz_tol_da and matching.mz_tol_ppm are mutually exclusive")
	}
	if err := c.MatchParams().Validate(); err != nil {
		return err
	}
	return nil
}

// MatchParams converts the matching section into core parameters.
func (c *Config) MatchParams() match.Params {
	w := match.Weights{}
	for ch, v := range c.Matching.Weights {
		w[match.Channel(ch)] = v
	}
	tol := match.AbsoluteDa(c.Matching.MzTolDa)
	if c.Matching.MzTolPPM > 0 {
		tol = match.PartsPerMillion(c.Matching.MzTolPPM)
	}
	return match.Params{
		Weights:     w,
		Tolerance:   tol,
		RTSigma:     c.Matching.RTSigma,
		LambdaSigma: c.Matching.LambdaSigma,
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(m []byte) []byte {
		expr := string(m[2 : len(m)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
