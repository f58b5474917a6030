// objshot renders tightly cropped images of 3D objects described in YAML.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/objshot/internal/config"
	"github.com/Faultbox/objshot/internal/export"
	"github.com/Faultbox/objshot/internal/glraster"
	"github.com/Faultbox/objshot/internal/logger"
	"github.com/Faultbox/objshot/internal/raster"
	"github.com/Faultbox/objshot/internal/scene"
	"github.com/Faultbox/objshot/internal/sceneio"
	"github.com/Faultbox/objshot/pkg/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "render":
		os.Exit(cmdRender(args))
	case "info":
		cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objshot - object image renderer

Usage:
  objshot <command> [options]

Commands:
  render [options] <scene.yaml>   Render every shot of a scene to PNG
  info <scene.yaml>               Show the object tree, bounds and shots
  help                            Show this help

Render options:
  -config <file>     Config file (default ./objshot.yaml or user config dir)
  -backend <name>    Rasterizer: software or opengl
  -out <dir>         Output directory
  -lighting <mode>   unchanged, isolate or none
  -layer <n>         Isolation layer (0-31)
  -debug             Enable debug logging

Examples:
  objshot render lamp.yaml
  objshot render -backend opengl -out icons -lighting isolate lamp.yaml
  objshot info lamp.yaml`)
}

// cmdRender returns the process exit code.
func cmdRender(args []string) int {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objshot render [options] <scene.yaml>")
		return 1
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	opts, err := cfg.RenderOptions()
	if err != nil {
		logger.Error("invalid render options", zap.Error(err))
		return 1
	}

	doc, err := sceneio.Load(fs.Arg(0))
	if err != nil {
		logger.Error("failed to load scene", zap.Error(err))
		return 1
	}
	logger.Debug("scene loaded",
		zap.String("path", fs.Arg(0)),
		zap.String("object", doc.Object.Name),
		zap.Int("shots", len(doc.Shots)),
		zap.String("backend", cfg.Render.Backend),
		zap.Stringer("lighting", opts.Lighting),
	)

	rast, closeRast, err := newRasterizer(cfg.Render.Backend, doc.World)
	if err != nil {
		logger.Error("failed to create rasterizer", zap.String("backend", cfg.Render.Backend), zap.Error(err))
		return 1
	}
	defer closeRast()

	reqs := make([]render.Request, len(doc.Shots))
	for i, shot := range doc.Shots {
		reqs[i] = shot.Request()
	}

	r := render.New(doc.World, rast, logger.Named("render"))
	outcomes, err := r.RenderImages(doc.Object, reqs, opts)
	if err != nil {
		logger.Error("render batch failed", zap.Error(err))
		return 1
	}

	writer := &export.Writer{
		Dir:     cfg.Output.Dir,
		Prefix:  cfg.Output.Prefix,
		Mipmaps: cfg.Output.WriteMipmaps,
	}

	failed := 0
	for i, o := range outcomes {
		name := doc.Shots[i].Name
		if o.Err != nil {
			failed++
			logger.Warn("shot failed", zap.String("shot", name), zap.Error(o.Err))
			continue
		}
		paths, err := writer.Write(name, o.Image)
		if err != nil {
			failed++
			logger.Warn("failed to write shot", zap.String("shot", name), zap.Error(err))
			continue
		}
		logger.Info("shot written",
			zap.String("shot", name),
			zap.Int("width", o.Image.Width()),
			zap.Int("height", o.Image.Height()),
			zap.Strings("files", paths),
		)
	}

	logger.Info("render finished",
		zap.Int("shots", len(outcomes)),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return 1
	}
	return 0
}

func newRasterizer(backend string, world *scene.World) (render.Rasterizer, func(), error) {
	switch backend {
	case config.BackendOpenGL:
		r, err := glraster.New(world, logger.Named("gl"))
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	default:
		return raster.New(world), func() {}, nil
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objshot info <scene.yaml>")
		os.Exit(1)
	}

	doc, err := sceneio.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	w := doc.World
	fmt.Printf("Scene:      %s\n", args[0])
	fmt.Printf("Ambient:    %s\n", hexColor(w.Ambient.R, w.Ambient.G, w.Ambient.B, w.Ambient.A))
	if w.Skybox != nil {
		t := w.Skybox.Tint()
		fmt.Printf("Skybox:     %s\n", hexColor(t.R, t.G, t.B, t.A))
	}
	fmt.Printf("Lights:     %d\n", len(w.ActiveLights()))
	fmt.Println()

	fmt.Println("Object:")
	printNode(doc.Object, 1)
	fmt.Println()

	fmt.Printf("Shots (%d):\n", len(doc.Shots))
	for _, s := range doc.Shots {
		req := s.Request()
		margins := "none"
		if m := req.Margins; m != nil {
			margins = fmt.Sprintf("l=%d b=%d r=%d t=%d", m.Left, m.Bottom, m.Right, m.Top)
		}
		fmt.Printf("  %-16s %4dx%-4d margins %-20s", s.Name, req.Width, req.Height, margins)
		if len(s.Hide) > 0 {
			fmt.Printf(" hide %s", strings.Join(s.Hide, ","))
		}
		fmt.Println()
	}
}

func printNode(n *scene.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	state := ""
	if !n.Active() {
		state = " (inactive)"
	}
	fmt.Printf("%s%s%s\n", indent, n.Name, state)

	for _, r := range n.OwnRenderers() {
		b := r.WorldBounds()
		kind := "mesh"
		if r.Particle() {
			kind = "particles"
		}
		c, e := b.Center(), b.Extents()
		fmt.Printf("%s  - %s layer %d center (%.2f, %.2f, %.2f) extents (%.2f, %.2f, %.2f)\n",
			indent, kind, r.Layer(), c.X, c.Y, c.Z, e.X, e.Y, e.Z)
	}
	for _, c := range n.Children() {
		printNode(c, depth+1)
	}
}

func hexColor(r, g, b, a uint8) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}
