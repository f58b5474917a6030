package scene

import (
	"image/color"
	gomath "math"

	"github.com/Faultbox/objshot/pkg/math"
)

// Light is a directional light. Direction is the world-space direction the
// light travels in.
type Light struct {
	Name      string
	Direction math.Vec3
	Color     color.NRGBA
	Intensity float32

	enabled bool
}

// NewLight creates an enabled directional light.
func NewLight(name string, direction math.Vec3, c color.NRGBA, intensity float32) *Light {
	return &Light{
		Name:      name,
		Direction: direction.Normalize(),
		Color:     c,
		Intensity: intensity,
		enabled:   true,
	}
}

func (l *Light) Enabled() bool { return l.enabled }

func (l *Light) SetEnabled(enabled bool) { l.enabled = enabled }

func (l *Light) clone() *Light {
	c := *l
	return &c
}

// SunDirection returns the direction light travels from a sun at the given
// longitude (degrees around +Y) and latitude (degrees above the horizon).
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := float64(longitude) * gomath.Pi / 180
	lat := float64(latitude) * gomath.Pi / 180
	towards := math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
	return towards.Neg()
}

// Skybox is a uniform sky that tints every lit surface.
type Skybox struct {
	Color color.NRGBA
}

// Tint returns the sky colour.
func (s *Skybox) Tint() color.NRGBA { return s.Color }
