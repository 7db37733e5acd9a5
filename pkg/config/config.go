package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName is used for the config directory under XDG_CONFIG_HOME.
const AppName = "ghcollect"

// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	HTTP   HTTPConfig   `yaml:"http"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

type GitHubConfig struct {
	Token  string `yaml:"token"`
	APIURL string `yaml:"api_url"`
	WebURL string `yaml:"web_url"`
}

type HTTPConfig struct {
	// RequestDelay and ScraperDelay are in seconds.
	RequestDelay float64 `yaml:"request_delay"`
	ScraperDelay float64 `yaml:"scraper_delay"`
	MaxRetries   int     `yaml:"max_retries"`
	Timeout      int     `yaml:"timeout"`
	UserAgent    string  `yaml:"user_agent"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIURL: "https://api.github.com",
			WebURL: "https://github.com",
		},
		HTTP: HTTPConfig{
			RequestDelay: 0.5,
			ScraperDelay: 1.0,
			MaxRetries:   3,
			Timeout:      30,
			UserAgent:    "ghcollect/1.0",
		},
		Output: OutputConfig{
			Dir:    "output",
			Format: "json",
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// the .env file if present and the process environment, in that order.
// An empty path means the XDG config file is used when it exists.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	file, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := cfg.loadFile(file); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigPath returns where the config file is looked up when --config is not given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

func findConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return "", err
		}
		return path, nil
	}

	found, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml"))
	if err != nil {
		return "", nil
	}
	return found, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.GitHub.Token = getEnv("GITHUB_TOKEN", c.GitHub.Token)
	c.GitHub.APIURL = getEnv("GITHUB_API_URL", c.GitHub.APIURL)
	c.GitHub.WebURL = getEnv("GITHUB_WEB_URL", c.GitHub.WebURL)

	c.HTTP.RequestDelay = getEnvAsFloat("RATE_LIMIT_DELAY", c.HTTP.RequestDelay)
	c.HTTP.ScraperDelay = getEnvAsFloat("SCRAPER_DELAY", c.HTTP.ScraperDelay)
	c.HTTP.MaxRetries = getEnvAsInt("MAX_RETRIES", c.HTTP.MaxRetries)
	c.HTTP.Timeout = getEnvAsInt("REQUEST_TIMEOUT", c.HTTP.Timeout)
	c.HTTP.UserAgent = getEnv("USER_AGENT", c.HTTP.UserAgent)

	c.Output.Dir = getEnv("OUTPUT_DIR", c.Output.Dir)
	c.Output.Format = getEnv("OUTPUT_FORMAT", c.Output.Format)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.HTTP.RequestDelay < 0 || c.HTTP.ScraperDelay < 0 {
		return fmt.Errorf("request delays must not be negative")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.HTTP.MaxRetries)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", c.HTTP.Timeout)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// RequestDelayDuration is the fixed pause before each API request.
func (c *Config) RequestDelayDuration() time.Duration {
	return seconds(c.HTTP.RequestDelay)
}

// ScraperDelayDuration is the fixed pause before each trending page request.
func (c *Config) ScraperDelayDuration() time.Duration {
	return seconds(c.HTTP.ScraperDelay)
}

// TimeoutDuration is the per-request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.HTTP.Timeout) * time.Second
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
