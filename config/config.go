// Package config provides CLI configuration management for the chatview command-line tool.
// It supports loading configuration from YAML files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	cverrors "github.com/otherjamesbrown/chatview/pkg/errors"
	"github.com/otherjamesbrown/chatview/pkg/logging"
)

// OutputFormat defines the supported output formats for rendered transcripts.
type OutputFormat string

const (
	// OutputFormatChatView is the annotated chat-view markup.
	OutputFormatChatView OutputFormat = "chatview"
	// OutputFormatJSON is the utterance list as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is the utterance list as YAML.
	OutputFormatYAML OutputFormat = "yaml"
)

// IconOutputMode selects how speaker portraits are emitted.
type IconOutputMode string

const (
	// IconModeFile copies portraits into an icons/ directory next to the output.
	IconModeFile IconOutputMode = "file"
	// IconModeInline embeds portraits as base64 data references.
	IconModeInline IconOutputMode = "inline"
)

// Default configuration values.
const (
	DefaultOutputFormat   = OutputFormatChatView
	DefaultIconOutputMode = IconModeFile
	DefaultLogLevel       = logging.LevelInfo
	DefaultConfigDir      = ".chatview"
	DefaultConfigFile     = "config.yaml"
)

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// MergeConsecutiveSpeakers coalesces back-to-back turns by the same speaker.
	MergeConsecutiveSpeakers bool `yaml:"merge_consecutive_speakers"`

	// ShowTimestamp appends {start} to each rendered header.
	ShowTimestamp bool `yaml:"show_timestamp"`

	// ShowIcon includes the speaker icon in each rendered header.
	ShowIcon bool `yaml:"show_icon"`

	// IconOutputMode is file or inline.
	IconOutputMode IconOutputMode `yaml:"icon_output_mode"`

	// OutputDirectory is where converted files and icons are written when no
	// explicit output path is given. Supports ~ for home directory expansion.
	OutputDirectory string `yaml:"output_directory,omitempty"`

	// OutputFormat specifies the default output format.
	OutputFormat OutputFormat `yaml:"output_format"`

	// LogLevel is the minimum log level written to stderr.
	LogLevel logging.Level `yaml:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `yaml:"log_json,omitempty"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		ShowTimestamp:  true,
		ShowIcon:       true,
		IconOutputMode: DefaultIconOutputMode,
		OutputFormat:   DefaultOutputFormat,
		LogLevel:       DefaultLogLevel,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $CHATVIEW_CONFIG_DIR if set, otherwise ~/.chatview
func ConfigDir() (string, error) {
	if dir := os.Getenv("CHATVIEW_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.chatview/config.yaml or $CHATVIEW_CONFIG_DIR/config.yaml)
// 3. Environment variables (CHATVIEW_*)
func LoadConfig() (*CLIConfig, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom is LoadConfig with an explicit file path. A missing file is
// not an error; defaults and environment still apply.
func LoadConfigFrom(configPath string) (*CLIConfig, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// configFile mirrors CLIConfig with pointer booleans so that keys absent from
// the file keep their defaults.
type configFile struct {
	MergeConsecutiveSpeakers *bool          `yaml:"merge_consecutive_speakers"`
	ShowTimestamp            *bool          `yaml:"show_timestamp"`
	ShowIcon                 *bool          `yaml:"show_icon"`
	IconOutputMode           IconOutputMode `yaml:"icon_output_mode"`
	OutputDirectory          string         `yaml:"output_directory"`
	OutputFormat             OutputFormat   `yaml:"output_format"`
	LogLevel                 logging.Level  `yaml:"log_level"`
	LogJSON                  bool           `yaml:"log_json"`
	Debug                    bool           `yaml:"debug"`
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.MergeConsecutiveSpeakers != nil {
		cfg.MergeConsecutiveSpeakers = *fileCfg.MergeConsecutiveSpeakers
	}
	if fileCfg.ShowTimestamp != nil {
		cfg.ShowTimestamp = *fileCfg.ShowTimestamp
	}
	if fileCfg.ShowIcon != nil {
		cfg.ShowIcon = *fileCfg.ShowIcon
	}
	if fileCfg.IconOutputMode != "" {
		cfg.IconOutputMode = fileCfg.IconOutputMode
	}
	if fileCfg.OutputDirectory != "" {
		cfg.OutputDirectory = fileCfg.OutputDirectory
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	cfg.LogJSON = fileCfg.LogJSON
	cfg.Debug = fileCfg.Debug

	return nil
}

// LoadDotEnv loads variables from a dotenv file into the process environment
// so that CHATVIEW_* settings can live next to a batch of transcripts.
// Variables already set in the environment win. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v, ok := envBool("CHATVIEW_MERGE_SPEAKERS"); ok {
		cfg.MergeConsecutiveSpeakers = v
	}

	if v, ok := envBool("CHATVIEW_SHOW_TIMESTAMP"); ok {
		cfg.ShowTimestamp = v
	}

	if v, ok := envBool("CHATVIEW_SHOW_ICON"); ok {
		cfg.ShowIcon = v
	}

	if v := os.Getenv("CHATVIEW_ICON_MODE"); v != "" {
		cfg.IconOutputMode = IconOutputMode(v)
	}

	if v := os.Getenv("CHATVIEW_OUTPUT_DIR"); v != "" {
		cfg.OutputDirectory = v
	}

	if v := os.Getenv("CHATVIEW_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("CHATVIEW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = logging.Level(v)
	}

	if v, ok := envBool("CHATVIEW_LOG_JSON"); ok {
		cfg.LogJSON = v
	}

	if v := os.Getenv("CHATVIEW_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
}

// envBool reads a boolean environment variable. The second result is false
// when the variable is unset or not a recognised boolean.
func envBool(key string) (bool, bool) {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if !c.IconOutputMode.IsValid() {
		return fmt.Errorf("invalid icon_output_mode: %q (must be file or inline): %w", c.IconOutputMode, cverrors.ErrValidation)
	}

	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be chatview, json, or yaml): %w", c.OutputFormat, cverrors.ErrValidation)
	}

	if !c.LogLevel.IsValid() {
		return fmt.Errorf("invalid log_level: %q (must be debug, info, warn, or error): %w", c.LogLevel, cverrors.ErrValidation)
	}

	return nil
}

// EffectiveLogLevel returns the log level, forced to debug when Debug is set.
func (c *CLIConfig) EffectiveLogLevel() logging.Level {
	if c.Debug {
		return logging.LevelDebug
	}
	return c.LogLevel
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatChatView, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks if the icon output mode is valid.
func (m IconOutputMode) IsValid() bool {
	return m == IconModeFile || m == IconModeInline
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
