// Package raster is a software rasterizer drawing a scene.World through
// orthographic cameras.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/objshot/internal/scene"
	"github.com/Faultbox/objshot/pkg/math"
	"github.com/Faultbox/objshot/pkg/render"
)

// ErrCameraDestroyed is returned when rendering through a destroyed camera.
var ErrCameraDestroyed = errors.New("camera destroyed")

// Rasterizer creates software cameras for a world.
type Rasterizer struct {
	world *scene.World
}

// New creates a rasterizer drawing world.
func New(world *scene.World) *Rasterizer {
	return &Rasterizer{world: world}
}

// NewCamera implements render.Rasterizer.
func (r *Rasterizer) NewCamera() (render.Camera, error) {
	return &Camera{world: r.world}, nil
}

// Camera renders into CPU buffers. The depth buffer is reused between
// renders of the same size.
type Camera struct {
	world     *scene.World
	depth     []float32
	destroyed bool
}

// Render implements render.Camera.
func (c *Camera) Render(view render.View, width, height int) (*image.RGBA, error) {
	if c.destroyed {
		return nil, ErrCameraDestroyed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillBackground(img, view.Background)

	n := width * height
	if cap(c.depth) < n {
		c.depth = make([]float32, n)
	}
	c.depth = c.depth[:n]
	for i := range c.depth {
		c.depth[i] = gomath.MaxFloat32
	}

	rot := view.Rotation.Normalize()
	halfWidth := view.HalfHeight * view.Aspect
	proj := math.Ortho(-halfWidth, halfWidth, -view.HalfHeight, view.HalfHeight, view.Near, view.Far)
	vp := proj.Mul(math.ViewFromPose(view.Position, rot))
	forward := rot.Forward()

	t := target{img: img, depth: c.depth, width: width, height: height}
	for _, tri := range c.world.Triangles(view.CullingMask, rot.Right(), rot.Up()) {
		col := tri.Albedo
		if !tri.Unlit {
			normal := tri.Normal
			if normal.Dot(forward) > 0 {
				normal = normal.Neg()
			}
			col = c.world.Shade(normal, col)
		}
		if col.A == 0 {
			continue
		}

		var screen [3]math.Vec3
		for i, v := range tri.V {
			ndc := vp.TransformVec3(v)
			screen[i] = math.Vec3{
				X: (ndc.X + 1) / 2 * float32(width),
				Y: (1 - ndc.Y) / 2 * float32(height),
				Z: ndc.Z,
			}
		}
		t.fill(screen, premultiply(col))
	}
	return img, nil
}

// Destroy implements render.Camera.
func (c *Camera) Destroy() {
	c.destroyed = true
	c.depth = nil
}

func fillBackground(img *image.RGBA, bg color.NRGBA) {
	px := color.RGBAModel.Convert(bg).(color.RGBA)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = px.R
		img.Pix[i+1] = px.G
		img.Pix[i+2] = px.B
		img.Pix[i+3] = px.A
	}
}

func premultiply(c color.NRGBA) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
