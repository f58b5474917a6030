package scene

import (
	"image/color"

	"github.com/Faultbox/objshot/pkg/math"
	"github.com/Faultbox/objshot/pkg/render"
)

// Triangle is a world-space triangle ready for rasterisation.
type Triangle struct {
	V      [3]math.Vec3
	Normal math.Vec3
	Albedo color.NRGBA
	// Unlit triangles are drawn with their albedo as is.
	Unlit bool
}

// drawable is a renderer that can emit triangles.
type drawable interface {
	render.Renderer
	visible(mask uint32) bool
	triangles(world math.Mat4, right, up math.Vec3, out []Triangle) []Triangle
	cloneTo(owner *Node) drawable
}

// layered holds the render.Renderer state shared by every renderer kind.
type layered struct {
	node      *Node
	layer     int
	forcedOff bool
}

func (l *layered) Layer() int            { return l.layer }
func (l *layered) SetLayer(layer int)    { l.layer = layer }
func (l *layered) ForcedOff() bool       { return l.forcedOff }
func (l *layered) SetForcedOff(off bool) { l.forcedOff = off }
func (l *layered) visible(mask uint32) bool {
	return !l.forcedOff && mask&render.LayerMask(l.layer) != 0
}

// MeshRenderer draws a flat-shaded triangle mesh.
type MeshRenderer struct {
	layered
	Mesh   Mesh
	Albedo color.NRGBA
}

// WorldBounds returns the world-space box around the transformed mesh bounds.
func (r *MeshRenderer) WorldBounds() math.AABB {
	return r.Mesh.Bounds().Transform(r.node.WorldMatrix())
}

func (r *MeshRenderer) Particle() bool { return false }

func (r *MeshRenderer) triangles(world math.Mat4, _, _ math.Vec3, out []Triangle) []Triangle {
	for i := 0; i+2 < len(r.Mesh.Indices); i += 3 {
		a := world.TransformVec3(r.Mesh.Vertices[r.Mesh.Indices[i]])
		b := world.TransformVec3(r.Mesh.Vertices[r.Mesh.Indices[i+1]])
		c := world.TransformVec3(r.Mesh.Vertices[r.Mesh.Indices[i+2]])
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Length() == 0 {
			continue
		}
		out = append(out, Triangle{
			V:      [3]math.Vec3{a, b, c},
			Normal: n.Normalize(),
			Albedo: r.Albedo,
		})
	}
	return out
}

func (r *MeshRenderer) cloneTo(owner *Node) drawable {
	c := *r
	c.node = owner
	return &c
}

// ParticleRenderer draws camera-facing square sprites.
type ParticleRenderer struct {
	layered
	// Points are sprite centres in node space.
	Points []math.Vec3
	// Size is the world-space edge length of each sprite.
	Size  float32
	Color color.NRGBA
}

// WorldBounds returns the box around every sprite, padded by half the size.
func (r *ParticleRenderer) WorldBounds() math.AABB {
	world := r.node.WorldMatrix()
	half := math.Vec3{X: r.Size / 2, Y: r.Size / 2, Z: r.Size / 2}
	b := math.EmptyAABB()
	for _, p := range r.Points {
		wp := world.TransformVec3(p)
		b = b.Encapsulate(wp.Sub(half)).Encapsulate(wp.Add(half))
	}
	return b
}

func (r *ParticleRenderer) Particle() bool { return true }

func (r *ParticleRenderer) triangles(world math.Mat4, right, up math.Vec3, out []Triangle) []Triangle {
	rx := right.Scale(r.Size / 2)
	uy := up.Scale(r.Size / 2)
	n := right.Cross(up)
	for _, p := range r.Points {
		c := world.TransformVec3(p)
		p0 := c.Sub(rx).Sub(uy)
		p1 := c.Add(rx).Sub(uy)
		p2 := c.Add(rx).Add(uy)
		p3 := c.Sub(rx).Add(uy)
		out = append(out,
			Triangle{V: [3]math.Vec3{p0, p1, p2}, Normal: n, Albedo: r.Color, Unlit: true},
			Triangle{V: [3]math.Vec3{p0, p2, p3}, Normal: n, Albedo: r.Color, Unlit: true},
		)
	}
	return out
}

func (r *ParticleRenderer) cloneTo(owner *Node) drawable {
	c := *r
	c.node = owner
	c.Points = append([]math.Vec3(nil), r.Points...)
	return &c
}
