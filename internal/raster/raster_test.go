package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/objshot/internal/scene"
	"github.com/Faultbox/objshot/pkg/math"
	"github.com/Faultbox/objshot/pkg/render"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// frontView looks down -Z from z=5 at a 2x2 world-unit window.
func frontView(mask uint32) render.View {
	return render.View{
		Position:    math.Vec3{Z: 5},
		Rotation:    math.QuatIdentity(),
		HalfHeight:  1,
		Aspect:      1,
		Near:        0.1,
		Far:         10,
		CullingMask: mask,
	}
}

func fullBright() *scene.World {
	w := scene.NewWorld()
	w.Ambient = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	return w
}

func TestRenderBox(t *testing.T) {
	w := fullBright()
	node := scene.NewNode("box")
	node.AddMesh(scene.Box(math.Vec3{X: 1, Y: 1, Z: 1}), red)
	w.Add(node)

	cam, err := New(w).NewCamera()
	require.NoError(t, err)
	defer cam.Destroy()

	img, err := cam.Render(frontView(render.LayerMask(0)), 32, 32)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"centre", 16, 16, color.RGBA{R: 255, A: 255}},
		{"left edge inside", 8, 16, color.RGBA{R: 255, A: 255}},
		{"left edge outside", 7, 16, color.RGBA{}},
		{"right edge inside", 23, 16, color.RGBA{R: 255, A: 255}},
		{"right edge outside", 24, 16, color.RGBA{}},
		{"corner", 0, 0, color.RGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, img.RGBAAt(tt.x, tt.y))
		})
	}
}

func TestRenderDepth(t *testing.T) {
	w := fullBright()
	near := scene.NewNode("near")
	near.Position = math.Vec3{Z: 1}
	near.AddMesh(scene.Quad(1, 1), red)
	far := scene.NewNode("far")
	far.AddMesh(scene.Quad(2, 2), blue)

	// Insertion order must not matter.
	w.Add(near)
	w.Add(far)

	cam, err := New(w).NewCamera()
	require.NoError(t, err)
	img, err := cam.Render(frontView(render.LayerMask(0)), 16, 16)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(8, 8))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(1, 1))
}

func TestRenderCullingMask(t *testing.T) {
	w := fullBright()
	node := scene.NewNode("box")
	r := node.AddMesh(scene.Box(math.Vec3{X: 1, Y: 1, Z: 1}), red)
	r.SetLayer(30)
	w.Add(node)

	cam, err := New(w).NewCamera()
	require.NoError(t, err)

	bg := color.NRGBA{G: 255, A: 128}
	view := frontView(render.LayerMask(0))
	view.Background = bg
	img, err := cam.Render(view, 8, 8)
	require.NoError(t, err)
	// Premultiplied background everywhere.
	assert.Equal(t, color.RGBA{G: 128, A: 128}, img.RGBAAt(4, 4))

	img, err = cam.Render(frontView(render.LayerMask(30)), 8, 8)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(4, 4))
}

func TestRenderClipsOutsideDepthRange(t *testing.T) {
	w := fullBright()
	node := scene.NewNode("behind")
	node.Position = math.Vec3{Z: 6}
	node.AddMesh(scene.Quad(1, 1), red)
	w.Add(node)

	cam, err := New(w).NewCamera()
	require.NoError(t, err)
	img, err := cam.Render(frontView(render.LayerMask(0)), 8, 8)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(4, 4))
}

func TestCameraDestroy(t *testing.T) {
	cam, err := New(scene.NewWorld()).NewCamera()
	require.NoError(t, err)
	cam.Destroy()
	_, err = cam.Render(frontView(1), 4, 4)
	assert.ErrorIs(t, err, ErrCameraDestroyed)
}

func TestRenderInvalidSize(t *testing.T) {
	cam, err := New(scene.NewWorld()).NewCamera()
	require.NoError(t, err)
	_, err = cam.Render(frontView(1), 0, 4)
	assert.Error(t, err)
}
