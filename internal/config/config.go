// Package config handles configuration management for thisismy.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	DB       DBConfig       `mapstructure:"db"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Prepared PreparedConfig `mapstructure:"prepared"`
	Walk     WalkConfig     `mapstructure:"walk"`
	Output   OutputConfig   `mapstructure:"output"`
}

// DBConfig holds the session database location.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// FetchConfig holds URL fetching configuration.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// PreparedConfig holds the prepared briefings location.
type PreparedConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// WalkConfig holds directory traversal configuration.
type WalkConfig struct {
	MaxWorkers    int `mapstructure:"max_workers"`
	MaxFileSizeKB int `mapstructure:"max_file_size_kb"`
}

// OutputConfig holds rendering defaults.
type OutputConfig struct {
	CollapseWhitespace bool `mapstructure:"collapse_whitespace"`
	SplitChars         int  `mapstructure:"split_chars"` // 0 disables splitting
}

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".thisismy")
		v.AddConfigPath("$HOME/.thisismy")
	}

	v.SetEnvPrefix("THISISMY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - not an error if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := postProcess(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("fetch.timeout", "10s")

	v.SetDefault("prepared.base_url", "https://raw.githubusercontent.com/franzenzenhofer/thisismy-briefings/main/")

	v.SetDefault("walk.max_workers", runtime.NumCPU())
	v.SetDefault("walk.max_file_size_kb", 4096)

	v.SetDefault("output.collapse_whitespace", false)
	v.SetDefault("output.split_chars", 0)
}

// postProcess resolves derived values.
func postProcess(cfg *Config) error {
	if cfg.DB.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DB.Path = filepath.Join(home, ".thisismy", "thisismy.db")
	}
	cfg.DB.Path = expandHome(cfg.DB.Path)
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
