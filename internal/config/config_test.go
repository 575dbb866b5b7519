package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test convert defaults
	if cfg.Convert.ZUpToYUp {
		t.Error("expected convert to be false by default")
	}
	if cfg.Convert.Dump {
		t.Error("expected dump to be false by default")
	}
	if cfg.Convert.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Convert.Workers)
	}
	if cfg.Convert.OutputDir != "" {
		t.Errorf("expected empty output dir, got %s", cfg.Convert.OutputDir)
	}

	// Test scene defaults
	if cfg.Scene.Kernel != "ellipse" {
		t.Errorf("expected kernel 'ellipse', got %s", cfg.Scene.Kernel)
	}
	if cfg.Scene.ColorSpace != "srgb_rec709_display" {
		t.Errorf("expected color space 'srgb_rec709_display', got %s", cfg.Scene.ColorSpace)
	}
	if cfg.Scene.JSONIndent != 3 {
		t.Errorf("expected json indent 3, got %d", cfg.Scene.JSONIndent)
	}
	if cfg.Scene.Generator == "" {
		t.Error("expected a default generator")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("expected max size 50, got %d", cfg.Logging.MaxSizeMB)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
convert:
  convert: true
  dump: true
  workers: 8
  output_dir: "out"

scene:
  generator: "custom"
  kernel: "gaussian"
  color_space: "lin_rec709_display"
  json_indent: 0

logging:
  level: "debug"
  log_file: "ply2gltf.log"
  compress: false
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if !cfg.Convert.ZUpToYUp {
		t.Error("expected convert to be true")
	}
	if !cfg.Convert.Dump {
		t.Error("expected dump to be true")
	}
	if cfg.Convert.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Convert.Workers)
	}
	if cfg.Convert.OutputDir != "out" {
		t.Errorf("expected output dir 'out', got %s", cfg.Convert.OutputDir)
	}

	if cfg.Scene.Generator != "custom" {
		t.Errorf("expected generator 'custom', got %s", cfg.Scene.Generator)
	}
	if cfg.Scene.Kernel != "gaussian" {
		t.Errorf("expected kernel 'gaussian', got %s", cfg.Scene.Kernel)
	}
	if cfg.Scene.ColorSpace != "lin_rec709_display" {
		t.Errorf("expected color space 'lin_rec709_display', got %s", cfg.Scene.ColorSpace)
	}
	if cfg.Scene.JSONIndent != 0 {
		t.Errorf("expected json indent 0, got %d", cfg.Scene.JSONIndent)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "ply2gltf.log" {
		t.Errorf("expected log file 'ply2gltf.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.Compress {
		t.Error("expected compress to be false")
	}

	// Keys absent from the file keep their defaults
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("expected max backups 3, got %d", cfg.Logging.MaxBackups)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
convert:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/ply2gltf.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Keep the user's real config dir out of the lookup
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create ply2gltf.yaml in current directory
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("convert:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		flags  Flags
		verify func(*testing.T, *Config)
	}{
		{
			name:  "debug flag",
			flags: Flags{Debug: true},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name:  "convert and dump flags",
			flags: Flags{Convert: true, Dump: true},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Convert.ZUpToYUp {
					t.Error("expected convert to be enabled")
				}
				if !cfg.Convert.Dump {
					t.Error("expected dump to be enabled")
				}
			},
		},
		{
			name:  "output dir and workers",
			flags: Flags{OutputDir: "/tmp/out", Workers: 4},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Convert.OutputDir != "/tmp/out" {
					t.Errorf("expected output dir /tmp/out, got %s", cfg.Convert.OutputDir)
				}
				if cfg.Convert.Workers != 4 {
					t.Errorf("expected 4 workers, got %d", cfg.Convert.Workers)
				}
			},
		},
		{
			name:  "zero values keep defaults",
			flags: Flags{},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Convert.Workers != 1 {
					t.Errorf("expected 1 worker, got %d", cfg.Convert.Workers)
				}
				if cfg.Logging.Level != "info" {
					t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Apply flags to default config
			cfg := Default()
			tt.flags.apply(cfg)

			// Verify
			tt.verify(t, cfg)
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	var flags Flags
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags.Register(fs)

	err := fs.Parse([]string{"-convert", "-dump", "-o", "out", "-workers", "3", "-debug", "scene.ply"})
	if err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	if !flags.Convert || !flags.Dump || !flags.Debug {
		t.Errorf("expected boolean flags to be set, got %+v", flags)
	}
	if flags.OutputDir != "out" {
		t.Errorf("expected output dir 'out', got %s", flags.OutputDir)
	}
	if flags.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", flags.Workers)
	}
	if fs.Arg(0) != "scene.ply" {
		t.Errorf("expected positional scene.ply, got %s", fs.Arg(0))
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
convert:
  workers: 2
  output_dir: "from-file"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Flag overrides the config file
	cfg, err := Load(&Flags{Config: configPath, Workers: 6})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers should be from flag (6), not file (2)
	if cfg.Convert.Workers != 6 {
		t.Errorf("expected 6 workers from flag, got %d", cfg.Convert.Workers)
	}

	// Output dir should be from file since no flag override
	if cfg.Convert.OutputDir != "from-file" {
		t.Errorf("expected output dir from file, got %s", cfg.Convert.OutputDir)
	}
}

func TestLoadBadPath(t *testing.T) {
	_, err := Load(&Flags{Config: filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Error("expected error for missing explicit config, got nil")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Convert.Workers = 12
	cfg.Scene.Generator = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Convert.Workers != 12 {
		t.Errorf("expected 12 workers, got %d", loaded.Convert.Workers)
	}
	if loaded.Scene.Generator != "saved" {
		t.Errorf("expected generator 'saved', got %s", loaded.Scene.Generator)
	}
}

func TestLoggingFileConfig(t *testing.T) {
	cfg := Default()
	if fc := cfg.Logging.FileConfig(); fc.Path != "" {
		t.Errorf("expected no file output by default, got %+v", fc)
	}

	cfg.Logging.LogFile = "/tmp/ply2gltf.log"
	fc := cfg.Logging.FileConfig()
	if fc.Path != "/tmp/ply2gltf.log" {
		t.Errorf("expected path /tmp/ply2gltf.log, got %s", fc.Path)
	}
	if fc.MaxSizeMB != 50 || fc.MaxBackups != 3 || fc.MaxAgeDays != 7 || !fc.Compress {
		t.Errorf("unexpected rotation settings %+v", fc)
	}
}
