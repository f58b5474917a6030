package scene

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/objshot/pkg/math"
	"github.com/Faultbox/objshot/pkg/render"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func TestMeshBuilders(t *testing.T) {
	tests := []struct {
		name      string
		mesh      Mesh
		triangles int
		min, max  math.Vec3
	}{
		{"box", Box(math.Vec3{X: 2, Y: 4, Z: 6}), 12, math.Vec3{X: -1, Y: -2, Z: -3}, math.Vec3{X: 1, Y: 2, Z: 3}},
		{"quad", Quad(2, 1), 2, math.Vec3{X: -1, Y: -0.5}, math.Vec3{X: 1, Y: 0.5}},
		{"sphere", Sphere(0.5, 8, 16), 8 * 16 * 2, math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.triangles, tt.mesh.TriangleCount())
			b := tt.mesh.Bounds()
			assert.InDelta(t, tt.min.X, b.Min.X, 1e-5)
			assert.InDelta(t, tt.min.Y, b.Min.Y, 1e-5)
			assert.InDelta(t, tt.min.Z, b.Min.Z, 1e-5)
			assert.InDelta(t, tt.max.X, b.Max.X, 1e-5)
			assert.InDelta(t, tt.max.Y, b.Max.Y, 1e-5)
			assert.InDelta(t, tt.max.Z, b.Max.Z, 1e-5)
		})
	}
}

func TestNodeHierarchy(t *testing.T) {
	root := NewNode("root")
	root.Position = math.Vec3{X: 10}
	child := NewNode("child")
	child.Position = math.Vec3{Y: 2}
	root.AddChild(child)
	grandchild := NewNode("grandchild")
	child.AddChild(grandchild)

	mesh := grandchild.AddMesh(Box(math.Vec3{X: 1, Y: 1, Z: 1}), white)
	grandchild.AddLight(NewLight("lamp", math.Vec3{Y: -1}, white, 1))

	t.Run("world bounds follow parents", func(t *testing.T) {
		b := mesh.WorldBounds()
		assert.InDelta(t, 10, b.Center().X, 1e-5)
		assert.InDelta(t, 2, b.Center().Y, 1e-5)
	})

	t.Run("find", func(t *testing.T) {
		assert.Same(t, grandchild, root.Find("grandchild"))
		assert.Nil(t, root.Find("missing"))
	})

	t.Run("inactive subtree is skipped", func(t *testing.T) {
		assert.Len(t, root.Renderers(), 1)
		assert.Len(t, root.Lights(), 1)
		child.SetActive(false)
		assert.Empty(t, root.Renderers())
		assert.Empty(t, root.Lights())
		assert.False(t, grandchild.ActiveInHierarchy())
		child.SetActive(true)
		assert.True(t, grandchild.ActiveInHierarchy())
	})

	t.Run("reparent", func(t *testing.T) {
		other := NewNode("other")
		other.AddChild(grandchild)
		assert.Empty(t, child.Children())
		assert.Same(t, other, grandchild.Parent())
		child.AddChild(grandchild)
	})
}

func TestWorldMatrix(t *testing.T) {
	root := NewNode("root")
	root.Position = math.Vec3{X: 1}
	root.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	child := NewNode("child")
	child.Position = math.Vec3{Y: 1}
	root.AddChild(child)

	assert.Equal(t, root.LocalMatrix(), root.WorldMatrix())
	assert.Equal(t, math.Vec3{X: 1, Y: 2}, child.WorldMatrix().TransformVec3(math.Vec3{}))
	assert.Equal(t, math.Vec3{X: 3, Y: 2}, child.WorldMatrix().TransformVec3(math.Vec3{X: 1}))
}

func TestWorldEnvironment(t *testing.T) {
	w := NewWorld()
	sky := &Skybox{Color: color.NRGBA{B: 255, A: 255}}
	w.Skybox = sky

	env := w.Environment()
	assert.Equal(t, float32(1), env.TimeScale)
	assert.Same(t, sky, env.Skybox)

	env.Skybox = nil
	env.TimeScale = 0
	w.SetEnvironment(env)
	assert.Nil(t, w.Skybox)
	assert.Equal(t, float32(0), w.TimeScale)
}

func TestWorldActiveLights(t *testing.T) {
	w := NewWorld()
	sun := NewLight("sun", math.Vec3{Y: -1}, white, 1)
	w.AddLight(sun)

	node := NewNode("lamp")
	lamp := NewLight("lamp", math.Vec3{Z: -1}, white, 1)
	lamp.SetEnabled(false)
	node.AddLight(lamp)
	w.Add(node)

	lights := w.ActiveLights()
	assert.ElementsMatch(t, []render.Light{sun, lamp}, lights)

	node.SetActive(false)
	assert.ElementsMatch(t, []render.Light{sun}, w.ActiveLights())
}

func TestWorldClone(t *testing.T) {
	w := NewWorld()
	parent := NewNode("parent")
	parent.Position = math.Vec3{X: 3}
	w.Add(parent)

	obj := NewNode("obj")
	parent.AddChild(obj)
	r := obj.AddMesh(Box(math.Vec3{X: 1, Y: 1, Z: 1}), white)
	r.SetLayer(5)

	cloned, err := w.Clone(obj)
	require.NoError(t, err)
	c := cloned.(*Node)
	require.Len(t, w.Roots(), 2)

	renderers := c.Renderers()
	require.Len(t, renderers, 1)
	assert.NotSame(t, r, renderers[0])
	assert.Equal(t, 5, renderers[0].Layer())
	assert.Equal(t, r.WorldBounds(), renderers[0].WorldBounds())

	renderers[0].SetLayer(30)
	assert.Equal(t, 5, r.Layer())

	w.Destroy(cloned)
	assert.Len(t, w.Roots(), 1)

	_, err = w.Clone(nil)
	assert.Error(t, err)
}

func TestShade(t *testing.T) {
	w := NewWorld()
	w.Ambient = color.NRGBA{A: 255}
	w.AddLight(NewLight("sun", math.Vec3{Z: -1}, white, 1))

	albedo := color.NRGBA{R: 200, G: 100, B: 50, A: 128}
	tests := []struct {
		name   string
		normal math.Vec3
		want   color.NRGBA
	}{
		{"facing light", math.Vec3{Z: 1}, color.NRGBA{R: 200, G: 100, B: 50, A: 128}},
		{"facing away", math.Vec3{Z: -1}, color.NRGBA{A: 128}},
		{"grazing", math.Vec3{X: 1}, color.NRGBA{A: 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Shade(tt.normal, albedo))
		})
	}

	t.Run("skybox adds a quarter of its tint", func(t *testing.T) {
		w := NewWorld()
		w.Ambient = color.NRGBA{A: 255}
		w.Skybox = &Skybox{Color: white}
		got := w.Shade(math.Vec3{Y: 1}, white)
		assert.Equal(t, color.NRGBA{R: 64, G: 64, B: 64, A: 255}, got)
	})
}

func TestTriangles(t *testing.T) {
	w := NewWorld()
	node := NewNode("obj")
	w.Add(node)
	mesh := node.AddMesh(Box(math.Vec3{X: 1, Y: 1, Z: 1}), white)
	particles := node.AddParticles([]math.Vec3{{}, {X: 1}}, 0.5, white)
	particles.SetLayer(3)

	right, up := math.Vec3Right, math.Vec3Up

	assert.Len(t, w.Triangles(render.LayerMask(0), right, up), 12)
	assert.Len(t, w.Triangles(render.LayerMask(3), right, up), 4)
	assert.Len(t, w.Triangles(render.LayerMask(0)|render.LayerMask(3), right, up), 16)

	mesh.SetForcedOff(true)
	assert.Empty(t, w.Triangles(render.LayerMask(0), right, up))

	for _, tri := range w.Triangles(render.LayerMask(3), right, up) {
		assert.True(t, tri.Unlit)
	}

	t.Run("particle bounds include sprite size", func(t *testing.T) {
		b := particles.WorldBounds()
		assert.InDelta(t, -0.25, b.Min.X, 1e-6)
		assert.InDelta(t, 1.25, b.Max.X, 1e-6)
		assert.True(t, particles.Particle())
		assert.False(t, mesh.Particle())
	})
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		want     math.Vec3
	}{
		{"overhead", 0, 90, math.Vec3{Y: -1}},
		{"south horizon", 0, 0, math.Vec3{Z: -1}},
		{"east horizon", 90, 0, math.Vec3{X: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.lon, tt.lat)
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-6)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-6)
		})
	}
}

func TestOwnRenderers(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)
	parent.AddMesh(Quad(1, 1), white)
	child.AddMesh(Quad(1, 1), white)

	assert.Len(t, parent.OwnRenderers(), 1)
	assert.Len(t, parent.Renderers(), 2)

	parent.SetActive(false)
	assert.Len(t, parent.OwnRenderers(), 1)
	assert.Empty(t, parent.Renderers())
}
