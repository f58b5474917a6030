package render

import (
	"image"
	"image/color"

	"github.com/Faultbox/objshot/pkg/math"
)

// DefaultLayer is the isolation layer used when none is configured.
const DefaultLayer = 30

// Supersample is the per-axis factor the rasterizer renders at before the
// result is resolved down to the requested size.
const Supersample = 4

// LightingMode selects which light sources take part in a render.
// Modes are ordered: each level suppresses more than the previous one.
type LightingMode int

const (
	// LightingUnchanged leaves every light source as it is.
	LightingUnchanged LightingMode = iota
	// LightingIsolateObject keeps only lights belonging to the object and
	// suppresses the skybox.
	LightingIsolateObject
	// LightingNone disables every light and suppresses the skybox.
	LightingNone
)

func (m LightingMode) String() string {
	switch m {
	case LightingUnchanged:
		return "unchanged"
	case LightingIsolateObject:
		return "isolate"
	case LightingNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseLightingMode converts a config string to a LightingMode.
func ParseLightingMode(s string) (LightingMode, bool) {
	switch s {
	case "", "unchanged":
		return LightingUnchanged, true
	case "isolate":
		return LightingIsolateObject, true
	case "none":
		return LightingNone, true
	}
	return LightingUnchanged, false
}

// ColorSpace is the encoding of the produced image.
type ColorSpace int

const (
	// SRGB keeps the perceptual encoding produced by the rasterizer.
	SRGB ColorSpace = iota
	// Linear stores linear-light values.
	Linear
)

// Margins are the pixel borders kept free around the object's silhouette.
type Margins struct {
	Left, Bottom, Right, Top int
}

// Request describes one image to produce.
type Request struct {
	Width  int
	Height int

	// Rotation orients the camera; the position is derived from the bounds.
	Rotation math.Quat

	// Background is composited behind the object. Alpha below 255 yields a
	// translucent or transparent image.
	Background color.NRGBA

	// Margins enables silhouette cropping. Nil skips margin checks.
	Margins *Margins

	// MipmapCount is the number of levels including the base image.
	// Values of 0 or 1 produce the base level only, -1 a full chain.
	MipmapCount int
	ColorSpace  ColorSpace

	// IncludeParticles makes particle renderers contribute to the bounds.
	IncludeParticles bool

	// ComplexTransparency recovers edge alpha from three renders against
	// pure red, green and blue backgrounds. Only used with margins and a
	// background that is not fully opaque.
	ComplexTransparency bool

	// Ambient overrides the scene ambient light for this request.
	Ambient *color.NRGBA

	// BeforeRender runs first; its error fails the request.
	BeforeRender func(obj Object) error
	// AfterRender always runs last; its error is logged and dropped.
	AfterRender func(obj Object) error
}

// NewRequest returns a request with zero margins and a transparent background.
func NewRequest(width, height int, rotation math.Quat) Request {
	return Request{
		Width:    width,
		Height:   height,
		Rotation: rotation,
		Margins:  &Margins{},
	}
}

// innerRect returns the canvas area left after margins, in image
// coordinates with the origin at the top left.
func (r Request) innerRect() image.Rectangle {
	if r.Margins == nil {
		return image.Rect(0, 0, r.Width, r.Height)
	}
	m := r.Margins
	return image.Rect(m.Left, m.Top, r.Width-m.Right, r.Height-m.Bottom)
}

// Outcome is the result of one request. Exactly one field is set.
type Outcome struct {
	Image *Image
	Err   error
}
