package scene

import (
	"image/color"

	"github.com/Faultbox/objshot/pkg/math"
	"github.com/Faultbox/objshot/pkg/render"
)

// Node is a scene-graph node with a local transform.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	active    bool
	parent    *Node
	origin    *math.Mat4
	children  []*Node
	drawables []drawable
	lights    []*Light
}

// NewNode creates an active node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		active:   true,
	}
}

// AddChild attaches child under n, detaching it from its previous parent.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// Active reports the node's own active flag.
func (n *Node) Active() bool { return n.active }

// SetActive toggles the node and with it its whole subtree.
func (n *Node) SetActive(active bool) { n.active = active }

// ActiveInHierarchy reports whether n and all of its ancestors are active.
func (n *Node) ActiveInHierarchy() bool {
	for p := n; p != nil; p = p.parent {
		if !p.active {
			return false
		}
	}
	return true
}

// AddMesh attaches a mesh renderer on layer 0.
func (n *Node) AddMesh(mesh Mesh, albedo color.NRGBA) *MeshRenderer {
	r := &MeshRenderer{layered: layered{node: n}, Mesh: mesh, Albedo: albedo}
	n.drawables = append(n.drawables, r)
	return r
}

// AddParticles attaches a particle renderer on layer 0.
func (n *Node) AddParticles(points []math.Vec3, size float32, c color.NRGBA) *ParticleRenderer {
	r := &ParticleRenderer{layered: layered{node: n}, Points: points, Size: size, Color: c}
	n.drawables = append(n.drawables, r)
	return r
}

// AddLight attaches a light to the node.
func (n *Node) AddLight(l *Light) {
	n.lights = append(n.lights, l)
}

// LocalMatrix returns the node's TRS matrix.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.TRS(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node-to-world transform.
func (n *Node) WorldMatrix() math.Mat4 {
	m := math.Identity()
	for p := n; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
		if p.parent == nil && p.origin != nil {
			m = p.origin.Mul(m)
		}
	}
	return m
}

// Find returns the first node in the subtree, n included, named name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for n and every active descendant. Inactive subtrees are skipped.
func (n *Node) Walk(fn func(*Node)) {
	if !n.active {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Renderers lists the renderers of n and its active descendants.
func (n *Node) Renderers() []render.Renderer {
	var out []render.Renderer
	n.Walk(func(node *Node) {
		for _, d := range node.drawables {
			out = append(out, d)
		}
	})
	return out
}

// OwnRenderers lists the renderers attached directly to n, active or not.
func (n *Node) OwnRenderers() []render.Renderer {
	out := make([]render.Renderer, len(n.drawables))
	for i, d := range n.drawables {
		out[i] = d
	}
	return out
}

// Lights lists the lights of n and its active descendants.
func (n *Node) Lights() []render.Light {
	var out []render.Light
	n.Walk(func(node *Node) {
		for _, l := range node.lights {
			out = append(out, l)
		}
	})
	return out
}

// clone deep-copies the subtree. The copy has no parent.
func (n *Node) clone() *Node {
	c := &Node{
		Name:     n.Name,
		Position: n.Position,
		Rotation: n.Rotation,
		Scale:    n.Scale,
		active:   n.active,
	}
	for _, d := range n.drawables {
		c.drawables = append(c.drawables, d.cloneTo(c))
	}
	for _, l := range n.lights {
		c.lights = append(c.lights, l.clone())
	}
	for _, child := range n.children {
		cc := child.clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}
