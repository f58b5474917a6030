// Package export writes rendered images to disk as PNG files.
package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/Faultbox/objshot/pkg/render"
)

// Writer saves rendered images into a directory.
type Writer struct {
	Dir    string
	Prefix string
	// Mipmaps also writes every mip level after the base.
	Mipmaps bool
}

// Write saves img under name and returns the written paths, base level first.
func (w *Writer) Write(name string, img *render.Image) ([]string, error) {
	if img == nil || len(img.Levels) == 0 {
		return nil, fmt.Errorf("writing %s: no image", name)
	}
	if w.Dir != "" {
		if err := os.MkdirAll(w.Dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	levels := img.Levels
	if !w.Mipmaps {
		levels = levels[:1]
	}

	paths := make([]string, 0, len(levels))
	for i, level := range levels {
		path := w.Filename(name, i)
		if err := writePNG(path, level); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Filename returns the path of a mip level. Level 0 is the base image.
func (w *Writer) Filename(name string, level int) string {
	base := sanitize(name)
	if w.Prefix != "" {
		base = w.Prefix + "_" + base
	}
	if level > 0 {
		base = fmt.Sprintf("%s_mip%d", base, level)
	}
	return filepath.Join(w.Dir, base+".png")
}

func writePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("writing PNG %s: %w", path, err)
	}
	return nil
}

// sanitize keeps a shot name from escaping the output directory.
func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "shot"
	}
	return name
}
