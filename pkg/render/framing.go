package render

import (
	"fmt"
	"image"

	"github.com/Faultbox/objshot/pkg/math"
)

// framing is an orthographic camera placement around an object.
type framing struct {
	position   math.Vec3
	rotation   math.Quat
	halfHeight float32
	aspect     float32
	near       float32
	far        float32
}

// frameBounds fits an orthographic camera with the given rotation around
// bounds so that the whole box is visible in a width x height image.
func frameBounds(bounds math.AABB, rotation math.Quat, width, height int, standoff float32) (framing, error) {
	rotation = rotation.Normalize()
	ext := bounds.Extents()

	// Extent of the box along the camera's own axes.
	inv := rotation.Conjugate()
	var view math.Vec3
	for _, c := range (math.AABB{Min: ext.Neg(), Max: ext}).Corners() {
		view = view.Max(inv.Rotate(c).Abs())
	}

	aspect := float32(width) / float32(height)
	halfHeight := max(view.Y, view.X/aspect)
	if !math.IsFinite(halfHeight) || halfHeight <= 0 {
		return framing{}, fmt.Errorf("%w: framing size %v", ErrInvalidBounds, halfHeight)
	}

	radius := ext.Length()
	distance := radius + standoff
	position := bounds.Center().Sub(rotation.Forward().Scale(distance))
	if !position.IsFinite() {
		return framing{}, fmt.Errorf("%w: camera position %v", ErrInvalidBounds, position)
	}

	return framing{
		position:   position,
		rotation:   rotation,
		halfHeight: halfHeight,
		aspect:     aspect,
		near:       max(distance-view.Z-standoff, 0),
		far:        distance + view.Z + standoff,
	}, nil
}

// refit re-centres the camera on content and zooms so the content fills
// inner. Both rectangles are in canvas pixels.
func (f framing) refit(content, inner image.Rectangle) framing {
	innerW := float32(inner.Dx())
	innerH := float32(inner.Dy())
	scale := max(float32(content.Dx())/innerW, float32(content.Dy())/innerH)

	worldPerPixel := 2 * f.halfHeight / innerH
	dx := float32(content.Min.X+content.Max.X-inner.Min.X-inner.Max.X) / 2 * worldPerPixel
	dy := float32(content.Min.Y+content.Max.Y-inner.Min.Y-inner.Max.Y) / 2 * worldPerPixel

	// Image rows grow downwards, the camera's up axis does not.
	f.position = f.position.
		Add(f.rotation.Right().Scale(dx)).
		Sub(f.rotation.Up().Scale(dy))
	f.halfHeight *= scale
	return f
}

func (f framing) view(mask uint32) View {
	return View{
		Position:    f.position,
		Rotation:    f.rotation,
		HalfHeight:  f.halfHeight,
		Aspect:      f.aspect,
		Near:        f.near,
		Far:         f.far,
		CullingMask: mask,
	}
}
