package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/objshot/pkg/render"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Render.Backend != BackendSoftware {
		t.Errorf("expected backend %q, got %q", BackendSoftware, cfg.Render.Backend)
	}
	if cfg.Render.Layer != render.DefaultLayer {
		t.Errorf("expected layer %d, got %d", render.DefaultLayer, cfg.Render.Layer)
	}
	if !cfg.Render.Clone {
		t.Error("expected clone to be true by default")
	}
	if cfg.Render.Lighting != "unchanged" {
		t.Errorf("expected lighting 'unchanged', got %s", cfg.Render.Lighting)
	}
	if cfg.Output.Dir != "shots" {
		t.Errorf("expected output dir 'shots', got %s", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
render:
  backend: opengl
  lighting: isolate
  layer: 12
  clone: false
  standoff: 2.5

output:
  dir: "out"
  prefix: "icon"
  write_mipmaps: true

logging:
  level: "debug"
  log_file: "objshot.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Render.Backend != BackendOpenGL {
		t.Errorf("expected backend opengl, got %s", cfg.Render.Backend)
	}
	if cfg.Render.Layer != 12 {
		t.Errorf("expected layer 12, got %d", cfg.Render.Layer)
	}
	if cfg.Render.Clone {
		t.Error("expected clone to be false")
	}
	if cfg.Render.Standoff != 2.5 {
		t.Errorf("expected standoff 2.5, got %f", cfg.Render.Standoff)
	}
	if cfg.Output.Prefix != "icon" || !cfg.Output.WriteMipmaps {
		t.Errorf("unexpected output section: %+v", cfg.Output)
	}
	if cfg.Logging.LogFile != "objshot.log" {
		t.Errorf("expected log file 'objshot.log', got %s", cfg.Logging.LogFile)
	}

	opts, err := cfg.RenderOptions()
	if err != nil {
		t.Fatalf("RenderOptions: %v", err)
	}
	if opts.Lighting != render.LightingIsolateObject {
		t.Errorf("expected isolate lighting, got %v", opts.Lighting)
	}
	if opts.CloneObject {
		t.Error("expected CloneObject false")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
render:
  layer: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Render.Backend = "vulkan" }},
		{"unknown lighting", func(c *Config) { c.Render.Lighting = "dim" }},
		{"layer too high", func(c *Config) { c.Render.Layer = 32 }},
		{"negative layer", func(c *Config) { c.Render.Layer = -1 }},
		{"negative standoff", func(c *Config) { c.Render.Standoff = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
			if _, err := cfg.RenderOptions(); err == nil {
				t.Error("expected RenderOptions error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("objshot.yaml", []byte("render:\n  layer: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find objshot.yaml in current directory")
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "backend and output",
			args: []string{"-backend", "opengl", "-out", "/tmp/shots"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Backend != BackendOpenGL {
					t.Errorf("expected backend opengl, got %s", cfg.Render.Backend)
				}
				if cfg.Output.Dir != "/tmp/shots" {
					t.Errorf("expected output dir /tmp/shots, got %s", cfg.Output.Dir)
				}
			},
		},
		{
			name: "layer zero overrides",
			args: []string{"-layer", "0", "-lighting", "none"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Layer != 0 {
					t.Errorf("expected layer 0, got %d", cfg.Render.Layer)
				}
				if cfg.Render.Lighting != "none" {
					t.Errorf("expected lighting none, got %s", cfg.Render.Lighting)
				}
			},
		},
		{
			name: "no flags keeps defaults",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.Layer != render.DefaultLayer {
					t.Errorf("expected default layer, got %d", cfg.Render.Layer)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			flags := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}

			cfg := Default()
			flags.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
render:
  layer: 12
output:
  dir: from-file
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-layer", "20"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Layer from flag, not file
	if cfg.Render.Layer != 20 {
		t.Errorf("expected layer 20 from flag, got %d", cfg.Render.Layer)
	}
	if cfg.Output.Dir != "from-file" {
		t.Errorf("expected output dir from file, got %s", cfg.Output.Dir)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", filepath.Join(t.TempDir(), "none.yaml")}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Load(flags); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Render.Layer = 7
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Render.Layer != 7 {
		t.Errorf("expected layer 7 after reload, got %d", loaded.Render.Layer)
	}
}
