package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`
	Packaging PackagingConfig `mapstructure:"packaging"`
	Testing   TestingConfig   `mapstructure:"testing"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	DataDir string `mapstructure:"data_dir"`
	DBFile  string `mapstructure:"db_file"`
	LogFile string `mapstructure:"log_file"`
}

// PackagingConfig controls the content prep tool invocation
type PackagingConfig struct {
	ToolPath       string `mapstructure:"tool_path"`
	OutputDir      string `mapstructure:"output_dir"`
	TimeoutMinutes int    `mapstructure:"timeout_minutes"`
}

// TestingConfig controls live install testing of candidate switches
type TestingConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	TimeoutMinutes int  `mapstructure:"timeout_minutes"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".config", "winpack"))
	}
	viper.AddConfigPath(".")

	setDefaults()

	// Environment variable overrides
	viper.SetEnvPrefix("WINPACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	cfg.Packaging.ToolPath = expandPath(cfg.Packaging.ToolPath)
	cfg.Packaging.OutputDir = expandPath(cfg.Packaging.OutputDir)

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}

	viper.SetDefault("paths.data_dir", filepath.Join(homeDir, ".local", "share", "winpack"))
	viper.SetDefault("paths.db_file", filepath.Join(homeDir, ".local", "share", "winpack", "history.db"))
	viper.SetDefault("paths.log_file", filepath.Join(homeDir, ".local", "share", "winpack", "winpack.log"))

	viper.SetDefault("packaging.tool_path", "IntuneWinAppUtil.exe")
	viper.SetDefault("packaging.output_dir", "intunewin")
	viper.SetDefault("packaging.timeout_minutes", 30)

	viper.SetDefault("testing.enabled", false)
	viper.SetDefault("testing.timeout_minutes", 10)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	path = os.ExpandEnv(path)

	return path
}
