package config

import "flag"

// Flags are the command-line overrides. Zero values leave the config as is.
type Flags struct {
	Config   string
	Debug    bool
	Backend  string
	Out      string
	Lighting string
	Layer    int
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Backend, "backend", "", "Rasterizer backend (software, opengl)")
	fs.StringVar(&f.Out, "out", "", "Output directory")
	fs.StringVar(&f.Lighting, "lighting", "", "Lighting mode (unchanged, isolate, none)")
	fs.IntVar(&f.Layer, "layer", -1, "Isolation layer (0-31)")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Backend != "" {
		cfg.Render.Backend = f.Backend
	}
	if f.Out != "" {
		cfg.Output.Dir = f.Out
	}
	if f.Lighting != "" {
		cfg.Render.Lighting = f.Lighting
	}
	if f.Layer >= 0 {
		cfg.Render.Layer = f.Layer
	}
}
