package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the caskbook API configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Database     DatabaseConfig     `yaml:"database"`
	Storage      StorageConfig      `yaml:"storage"`
	Auth         AuthConfig         `yaml:"auth"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	CORS         CORSConfig         `yaml:"cors"`
	Pagination   PaginationConfig   `yaml:"pagination"`
	Similarity   SimilarityConfig   `yaml:"similarity"`
	CatalogCache CatalogCacheConfig `yaml:"catalog_cache"`
	Suggest      SuggestConfig      `yaml:"suggest"`
	Logging      LoggingConfig      `yaml:"logging"`
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

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// AuthConfig holds JWT and password hashing settings.
type AuthConfig struct {
	JWTSecret           string `yaml:"jwt_secret"`
	AccessTokenTTLMin   int    `yaml:"access_token_ttl_min"`
	RefreshTokenTTLDays int    `yaml:"refresh_token_ttl_days"`
	BcryptCost          int    `yaml:"bcrypt_cost"`
}

// AccessTTL returns the access token lifetime.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMin) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLDays) * 24 * time.Hour
}

// RateLimitConfig holds per-IP limits for the auth endpoints. Negative disables a limit.
type RateLimitConfig struct {
	LoginPerMinute       int `yaml:"login_per_minute"`
	RegisterPerHour      int `yaml:"register_per_hour"`
	PasswordResetPerHour int `yaml:"password_reset_per_hour"`
}

// CORSConfig holds browser origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// PaginationConfig holds list page sizes.
type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// SimilarityConfig tunes flavor ranking.
type SimilarityConfig struct {
	Weights      map[string]float64 `yaml:"weights"` // per-dimension overrides
	DefaultLimit int                `yaml:"default_limit"`
	MaxLimit     int                `yaml:"max_limit"`
	Shards       int                `yaml:"shards"`
}

// CatalogCacheConfig holds the in-process catalog snapshot cache settings.
type CatalogCacheConfig struct {
	TTLSec int `yaml:"ttl_sec"`
}

// TTL returns the snapshot lifetime.
func (c CatalogCacheConfig) TTL() time.Duration { return time.Duration(c.TTLSec) * time.Second }

// SuggestConfig holds the flavor suggestion provider settings. An empty
// api_key disables suggestions.
type SuggestConfig struct {
	Provider    string       `yaml:"provider"`
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"`
	Model       string       `yaml:"model"`
	CacheTTLSec int          `yaml:"cache_ttl_sec"`
	Budget      BudgetConfig `yaml:"budget"`
}

// Enabled reports whether a provider is configured.
func (s SuggestConfig) Enabled() bool { return s.APIKey != "" }

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, decodes it and applies defaults.
func Parse(data []byte) (Config, error) {
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "caskbook:"
	}

	if c.Auth.AccessTokenTTLMin <= 0 {
		c.Auth.AccessTokenTTLMin = 30
	}
	if c.Auth.RefreshTokenTTLDays <= 0 {
		c.Auth.RefreshTokenTTLDays = 7
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}

	if c.RateLimit.LoginPerMinute == 0 {
		c.RateLimit.LoginPerMinute = 5
	}
	if c.RateLimit.RegisterPerHour == 0 {
		c.RateLimit.RegisterPerHour = 3
	}
	if c.RateLimit.PasswordResetPerHour == 0 {
		c.RateLimit.PasswordResetPerHour = 3
	}

	if c.Pagination.DefaultLimit <= 0 {
		c.Pagination.DefaultLimit = 20
	}
	if c.Pagination.MaxLimit <= 0 {
		c.Pagination.MaxLimit = 100
	}
	if c.Similarity.DefaultLimit <= 0 {
		c.Similarity.DefaultLimit = 10
	}
	if c.Similarity.MaxLimit <= 0 {
		c.Similarity.MaxLimit = 50
	}
	if c.Similarity.Shards <= 0 {
		c.Similarity.Shards = 1
	}
	if c.CatalogCache.TTLSec <= 0 {
		c.CatalogCache.TTLSec = 300
	}

	if c.Suggest.Provider == "" {
		c.Suggest.Provider = "openai"
	}
	if c.Suggest.Model == "" {
		c.Suggest.Model = "gpt-4o-mini"
	}
	if c.Suggest.CacheTTLSec <= 0 {
		c.Suggest.CacheTTLSec = 7 * 24 * 3600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("pagination.default_limit (%d) exceeds max_limit (%d)",
			c.Pagination.DefaultLimit, c.Pagination.MaxLimit)
	}
	if c.Similarity.DefaultLimit > c.Similarity.MaxLimit {
		return fmt.Errorf("similarity.default_limit (%d) exceeds max_limit (%d)",
			c.Similarity.DefaultLimit, c.Similarity.MaxLimit)
	}
	switch c.Suggest.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("suggest.budget.action must be \"warn\" or \"reject\", got %q", c.Suggest.Budget.Action)
	}
	return nil
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
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
