package raster

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/objshot/pkg/math"
)

// target is the colour and depth buffer pair a camera draws into.
type target struct {
	img    *image.RGBA
	depth  []float32
	width  int
	height int
}

// fill draws a screen-space triangle with depth testing. Pixels are sampled
// at their centres and pixels exactly on an edge are included. Depth is
// interpolated in NDC, nearer is smaller, and anything outside [-1, 1] is
// clipped.
func (t *target) fill(v [3]math.Vec3, c color.RGBA) {
	area := edge(v[0], v[1], v[2].X, v[2].Y)
	if area == 0 {
		return
	}
	if area < 0 {
		v[1], v[2] = v[2], v[1]
		area = -area
	}

	minX := max(int(gomath.Floor(float64(min(v[0].X, v[1].X, v[2].X)))), 0)
	maxX := min(int(gomath.Ceil(float64(max(v[0].X, v[1].X, v[2].X)))), t.width-1)
	minY := max(int(gomath.Floor(float64(min(v[0].Y, v[1].Y, v[2].Y)))), 0)
	maxY := min(int(gomath.Ceil(float64(max(v[0].Y, v[1].Y, v[2].Y)))), t.height-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(v[1], v[2], px, py)
			w1 := edge(v[2], v[0], px, py)
			w2 := edge(v[0], v[1], px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := (w0*v[0].Z + w1*v[1].Z + w2*v[2].Z) / area
			if z < -1 || z > 1 {
				continue
			}
			i := y*t.width + x
			if z >= t.depth[i] {
				continue
			}
			t.depth[i] = z
			t.blend(x, y, c)
		}
	}
}

// blend composites premultiplied c over the pixel at x, y.
func (t *target) blend(x, y int, c color.RGBA) {
	off := t.img.PixOffset(x, y)
	p := t.img.Pix[off : off+4 : off+4]
	if c.A == 255 {
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		return
	}
	inv := 255 - uint32(c.A)
	p[0] = uint8(uint32(c.R) + (uint32(p[0])*inv+127)/255)
	p[1] = uint8(uint32(c.G) + (uint32(p[1])*inv+127)/255)
	p[2] = uint8(uint32(c.B) + (uint32(p[2])*inv+127)/255)
	p[3] = uint8(uint32(c.A) + (uint32(p[3])*inv+127)/255)
}

// edge is twice the signed area of the triangle a, b, p.
func edge(a, b math.Vec3, px, py float32) float32 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}
