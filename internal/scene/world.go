// Package scene implements a small in-memory scene graph that objects are
// rendered from.
package scene

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/Faultbox/objshot/pkg/math"
	"github.com/Faultbox/objshot/pkg/render"
)

// skyWeight scales the skybox tint's contribution to lit surfaces.
const skyWeight = 0.25

// World is the scene: global settings, global lights and root nodes.
type World struct {
	Ambient        color.NRGBA
	Skybox         render.Skybox
	TimeScale      float32
	FixedDeltaTime float32

	lights []*Light
	roots  []*Node
}

// NewWorld creates an empty world with a dim grey ambient and running time.
func NewWorld() *World {
	return &World{
		Ambient:        color.NRGBA{R: 51, G: 51, B: 51, A: 255},
		TimeScale:      1,
		FixedDeltaTime: 0.02,
	}
}

// Add makes node a root of the world.
func (w *World) Add(node *Node) {
	w.roots = append(w.roots, node)
}

// Remove detaches a root node. It reports whether node was a root.
func (w *World) Remove(node *Node) bool {
	for i, r := range w.roots {
		if r == node {
			w.roots = append(w.roots[:i], w.roots[i+1:]...)
			return true
		}
	}
	return false
}

// Roots returns the root nodes.
func (w *World) Roots() []*Node { return w.roots }

// AddLight adds a light that does not belong to any node.
func (w *World) AddLight(l *Light) {
	w.lights = append(w.lights, l)
}

// Environment implements render.Scene.
func (w *World) Environment() render.Environment {
	return render.Environment{
		Ambient:        w.Ambient,
		Skybox:         w.Skybox,
		TimeScale:      w.TimeScale,
		FixedDeltaTime: w.FixedDeltaTime,
	}
}

// SetEnvironment implements render.Scene.
func (w *World) SetEnvironment(env render.Environment) {
	w.Ambient = env.Ambient
	w.Skybox = env.Skybox
	w.TimeScale = env.TimeScale
	w.FixedDeltaTime = env.FixedDeltaTime
}

// ActiveLights returns the global lights and every light on an active node.
func (w *World) ActiveLights() []render.Light {
	out := make([]render.Light, 0, len(w.lights))
	for _, l := range w.lights {
		out = append(out, l)
	}
	for _, r := range w.roots {
		out = append(out, r.Lights()...)
	}
	return out
}

// Clone copies obj, which must be a *Node, into the world as a new root at
// the same world position.
func (w *World) Clone(obj render.Object) (render.Object, error) {
	node, ok := obj.(*Node)
	if !ok {
		return nil, fmt.Errorf("clone: unsupported object type %T", obj)
	}
	if node == nil {
		return nil, errors.New("clone: nil node")
	}
	c := node.clone()
	switch {
	case node.parent != nil:
		origin := node.parent.WorldMatrix()
		c.origin = &origin
	case node.origin != nil:
		origin := *node.origin
		c.origin = &origin
	}
	w.Add(c)
	return c, nil
}

// Destroy removes a node created by Clone.
func (w *World) Destroy(obj render.Object) {
	if node, ok := obj.(*Node); ok {
		w.Remove(node)
	}
}

// Shade returns the lit colour of a surface with the given world normal.
// The albedo alpha is kept.
func (w *World) Shade(normal math.Vec3, albedo color.NRGBA) color.NRGBA {
	r := unit(w.Ambient.R)
	g := unit(w.Ambient.G)
	b := unit(w.Ambient.B)
	if w.Skybox != nil {
		sky := w.Skybox.Tint()
		r += skyWeight * unit(sky.R)
		g += skyWeight * unit(sky.G)
		b += skyWeight * unit(sky.B)
	}
	for _, rl := range w.ActiveLights() {
		l, ok := rl.(*Light)
		if !ok || !l.Enabled() {
			continue
		}
		d := max(0, normal.Dot(l.Direction.Neg())) * l.Intensity
		r += d * unit(l.Color.R)
		g += d * unit(l.Color.G)
		b += d * unit(l.Color.B)
	}
	return color.NRGBA{
		R: scale8(albedo.R, r),
		G: scale8(albedo.G, g),
		B: scale8(albedo.B, b),
		A: albedo.A,
	}
}

// Triangles returns the world-space triangles of every visible renderer on
// a layer in mask. right and up orient particle sprites.
func (w *World) Triangles(mask uint32, right, up math.Vec3) []Triangle {
	var out []Triangle
	for _, root := range w.roots {
		root.Walk(func(n *Node) {
			if len(n.drawables) == 0 {
				return
			}
			world := n.WorldMatrix()
			for _, d := range n.drawables {
				if !d.visible(mask) {
					continue
				}
				out = d.triangles(world, right, up, out)
			}
		})
	}
	return out
}

func unit(v uint8) float32 {
	return float32(v) / 255
}

func scale8(v uint8, f float32) uint8 {
	return uint8(min(max(float32(v)*f, 0), 255) + 0.5)
}
