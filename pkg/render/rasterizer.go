package render

import (
	"image"
	"image/color"

	"github.com/Faultbox/objshot/pkg/math"
)

// Rasterizer creates cameras that draw the host scene.
type Rasterizer interface {
	NewCamera() (Camera, error)
}

// Camera is a temporary orthographic camera.
type Camera interface {
	// Render draws every renderer on a layer in view.CullingMask into a
	// width x height premultiplied RGBA buffer cleared to view.Background.
	// The image origin is the top-left corner.
	Render(view View, width, height int) (*image.RGBA, error)
	// Destroy releases the camera and its render targets.
	Destroy()
}

// View is the full camera setup for one render pass.
type View struct {
	Position math.Vec3
	Rotation math.Quat

	// HalfHeight is the orthographic half-height in world units.
	HalfHeight float32
	// Aspect is width / height.
	Aspect float32
	Near   float32
	Far    float32

	Background  color.NRGBA
	CullingMask uint32
}

// LayerMask returns the culling mask selecting a single layer.
func LayerMask(layer int) uint32 {
	return 1 << uint(layer)
}
