// Package config handles converter configuration loading and management.
package config

import "github.com/Faultbox/ply2gltf/internal/logger"

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds pipeline settings.
type ConvertConfig struct {
	ZUpToYUp  bool   `yaml:"convert"`    // Convert from z-up to y-up
	Dump      bool   `yaml:"dump"`       // Also write <stem>_dump.ply
	Workers   int    `yaml:"workers"`    // Parallel transcode chunks, 1 = sequential
	OutputDir string `yaml:"output_dir"` // Empty means current directory
}

// SceneConfig holds glTF document settings.
type SceneConfig struct {
	Generator  string `yaml:"generator"`
	Kernel     string `yaml:"kernel"`
	ColorSpace string `yaml:"color_space"`
	JSONIndent int    `yaml:"json_indent"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// FileConfig returns the rotating file settings, or a zero FileConfig when
// no log file is set.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	if l.LogFile == "" {
		return logger.FileConfig{}
	}
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			ZUpToYUp:  false,
			Dump:      false,
			Workers:   1,
			OutputDir: "",
		},
		Scene: SceneConfig{
			Generator:  "3DGS PLY to glTF converter",
			Kernel:     "ellipse",
			ColorSpace: "srgb_rec709_display",
			JSONIndent: 3,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
