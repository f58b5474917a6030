// Package config handles objshot configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/objshot/pkg/render"
)

// Rasterizer backends.
const (
	BackendSoftware = "software"
	BackendOpenGL   = "opengl"
)

// Config holds all tool settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds the batch-wide render options.
type RenderConfig struct {
	Backend  string  `yaml:"backend"`  // software or opengl
	Lighting string  `yaml:"lighting"` // unchanged, isolate or none
	Layer    int     `yaml:"layer"`    // isolation layer, 0-31
	Clone    bool    `yaml:"clone"`
	Standoff float32 `yaml:"standoff"`
}

// OutputConfig holds where and how images are written.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	Prefix       string `yaml:"prefix"`
	WriteMipmaps bool   `yaml:"write_mipmaps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := render.DefaultOptions()
	return &Config{
		Render: RenderConfig{
			Backend:  BackendSoftware,
			Lighting: opts.Lighting.String(),
			Layer:    opts.Layer,
			Clone:    opts.CloneObject,
			Standoff: opts.Standoff,
		},
		Output: OutputConfig{
			Dir:    "shots",
			Prefix: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values a YAML file or flag may have set wrongly.
func (c *Config) Validate() error {
	switch c.Render.Backend {
	case BackendSoftware, BackendOpenGL:
	default:
		return fmt.Errorf("render.backend: unknown backend %q", c.Render.Backend)
	}
	if _, ok := render.ParseLightingMode(c.Render.Lighting); !ok {
		return fmt.Errorf("render.lighting: unknown mode %q", c.Render.Lighting)
	}
	if c.Render.Layer < 0 || c.Render.Layer > 31 {
		return fmt.Errorf("render.layer: %d out of range [0, 31]", c.Render.Layer)
	}
	if c.Render.Standoff < 0 {
		return fmt.Errorf("render.standoff: must not be negative")
	}
	return nil
}

// RenderOptions converts the render section to render.Options.
func (c *Config) RenderOptions() (render.Options, error) {
	if err := c.Validate(); err != nil {
		return render.Options{}, err
	}
	mode, _ := render.ParseLightingMode(c.Render.Lighting)
	return render.Options{
		CloneObject: c.Render.Clone,
		Lighting:    mode,
		Layer:       c.Render.Layer,
		Standoff:    c.Render.Standoff,
	}, nil
}
