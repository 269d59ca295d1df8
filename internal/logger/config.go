package logger

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	FileCompress   bool   `yaml:"file_compress"`
}

// loggingFile is the top-level shape of the logging YAML file.
type loggingFile struct {
	Logging *Config `yaml:"logging"`
}

// DefaultConfig returns console-only INFO logging.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/tractorquests.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from a YAML file and applies
// QT_LOG_* environment overrides. A missing or unparseable file leaves the
// defaults in place.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Decode over the defaults so absent keys keep their default value.
			file := loggingFile{Logging: &config}
			if err := yaml.Unmarshal(data, &file); err != nil {
				config = DefaultConfig()
			}
		}
	}

	applyEnv(&config)
	return config, nil
}

func applyEnv(config *Config) {
	if level := os.Getenv("QT_LOG_LEVEL"); level != "" {
		config.Level = level
	}

	if format := os.Getenv("QT_LOG_CONSOLE_FORMAT"); format != "" {
		config.ConsoleFormat = format
	}

	if fileEnabled := os.Getenv("QT_LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			config.FileEnabled = enabled
		}
	}

	if path := os.Getenv("QT_LOG_FILE_PATH"); path != "" {
		config.FilePath = path
	}
}
