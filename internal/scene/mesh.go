package scene

import (
	gomath "math"

	"github.com/Faultbox/objshot/pkg/math"
)

// Mesh is an indexed triangle list in node space.
type Mesh struct {
	Vertices []math.Vec3
	Indices  []uint32
}

// Bounds returns the node-space bounding box of the mesh.
func (m Mesh) Bounds() math.AABB {
	b := math.EmptyAABB()
	for _, v := range m.Vertices {
		b = b.Encapsulate(v)
	}
	return b
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Box returns an axis-aligned box centred on the origin.
func Box(size math.Vec3) Mesh {
	h := size.Scale(0.5)
	verts := []math.Vec3{
		{X: -h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: h.Y, Z: -h.Z}, {X: -h.X, Y: h.Y, Z: -h.Z},
		{X: -h.X, Y: -h.Y, Z: h.Z}, {X: h.X, Y: -h.Y, Z: h.Z}, {X: h.X, Y: h.Y, Z: h.Z}, {X: -h.X, Y: h.Y, Z: h.Z},
	}
	idx := []uint32{
		4, 5, 6, 4, 6, 7, // +Z
		1, 0, 3, 1, 3, 2, // -Z
		5, 1, 2, 5, 2, 6, // +X
		0, 4, 7, 0, 7, 3, // -X
		7, 6, 2, 7, 2, 3, // +Y
		0, 1, 5, 0, 5, 4, // -Y
	}
	return Mesh{Vertices: verts, Indices: idx}
}

// Sphere returns a UV sphere centred on the origin. rings is the number of
// latitude bands, segments the number of longitude slices.
func Sphere(radius float32, rings, segments int) Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	var m Mesh
	for r := 0; r <= rings; r++ {
		theta := gomath.Pi * float64(r) / float64(rings)
		y := float32(gomath.Cos(theta)) * radius
		ring := float32(gomath.Sin(theta)) * radius
		for s := 0; s <= segments; s++ {
			phi := 2 * gomath.Pi * float64(s) / float64(segments)
			m.Vertices = append(m.Vertices, math.Vec3{
				X: ring * float32(gomath.Cos(phi)),
				Y: y,
				Z: ring * float32(gomath.Sin(phi)),
			})
		}
	}

	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}

// Quad returns a w x h rectangle in the XY plane facing +Z.
func Quad(w, h float32) Mesh {
	x, y := w/2, h/2
	return Mesh{
		Vertices: []math.Vec3{{X: -x, Y: -y, Z: 0}, {X: x, Y: -y, Z: 0}, {X: x, Y: y, Z: 0}, {X: -x, Y: y, Z: 0}},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
}
