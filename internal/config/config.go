// Package config loads planboard settings with precedence
// defaults → YAML file → PLANBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/planboard/internal/llm"
)

// Config is the root configuration structure. It is read-only after Load returns.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Remote   RemoteConfig   `yaml:"remote"`
	Sync     SyncConfig     `yaml:"sync"`
	Log      LogConfig      `yaml:"log"`
	LLM      llm.LLMConfig  `yaml:"llm"`
}

// ServerConfig contains settings for `planboard serve`.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	APIKey          string   `yaml:"-"` // env-only, never in YAML
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains local SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig points the CLI at a hosted store. An empty URL means the
// local database is used.
type RemoteConfig struct {
	URL     string   `yaml:"url"`
	APIKey  string   `yaml:"-"` // env-only
	Timeout Duration `yaml:"timeout"`
}

// SyncConfig tunes the save indicator and per-call timeout.
type SyncConfig struct {
	SettleDelay Duration `yaml:"settle_delay"`
	CallTimeout Duration `yaml:"call_timeout"`
}

// LogConfig contains logging settings. Logs go to stderr unless File is
// set, in which case they go to a size-rotated file.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UsesRemote reports whether the CLI should talk to a hosted store.
func (c *Config) UsesRemote() bool { return c.Remote.URL != "" }

// Load loads configuration from path, or from PLANBOARD_CONFIG or
// ~/.planboard/config.yaml when path is empty. A missing default file is not
// an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("PLANBOARD_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = filepath.Join(homeDir(), ".planboard", "config.yaml")
	}

	if err := loadYAMLFile(cfg, path, explicit); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir(), ".planboard", "planboard.db"),
		},
		Remote: RemoteConfig{
			Timeout: Duration(10 * time.Second),
		},
		Sync: SyncConfig{
			SettleDelay: Duration(600 * time.Millisecond),
			CallTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:      "warn",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		LLM: llm.DefaultConfig(),
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func loadYAMLFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLANBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PLANBOARD_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("PLANBOARD_DB"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("PLANBOARD_REMOTE_URL"); v != "" {
		cfg.Remote.URL = v
	}
	if v := os.Getenv("PLANBOARD_REMOTE_API_KEY"); v != "" {
		cfg.Remote.APIKey = v
	}
	envDuration("PLANBOARD_REMOTE_TIMEOUT", &cfg.Remote.Timeout)

	envDuration("PLANBOARD_SETTLE_DELAY", &cfg.Sync.SettleDelay)
	envDuration("PLANBOARD_CALL_TIMEOUT", &cfg.Sync.CallTimeout)

	if v := os.Getenv("PLANBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PLANBOARD_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("PLANBOARD_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	llm.ApplyEnv(&cfg.LLM)
}

func envDuration(key string, dst *Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}

func (c *Config) validate() error {
	var errs []error
	if !c.UsesRemote() && c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required when no remote url is set"))
	}
	if c.UsesRemote() && !strings.HasPrefix(c.Remote.URL, "http://") && !strings.HasPrefix(c.Remote.URL, "https://") {
		errs = append(errs, fmt.Errorf("remote.url %q must start with http:// or https://", c.Remote.URL))
	}
	if c.Sync.SettleDelay < 0 {
		errs = append(errs, errors.New("sync.settle_delay must not be negative"))
	}
	if c.Sync.CallTimeout <= 0 {
		errs = append(errs, errors.New("sync.call_timeout must be positive"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}
	if c.Log.File != "" && (c.Log.MaxSizeMB <= 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0) {
		errs = append(errs, errors.New("log rotation needs max_size_mb > 0 and non-negative max_backups, max_age_days"))
	}
	switch c.LLM.Provider {
	case llm.ProviderOllama, llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q must be ollama, openai or anthropic", c.LLM.Provider))
	}
	return errors.Join(errs...)
}
