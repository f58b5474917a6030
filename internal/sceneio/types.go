package sceneio

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objshot/pkg/math"
)

// Color is a YAML colour written as "#rgb", "#rrggbb", "#rrggbbaa" or
// "transparent".
type Color color.NRGBA

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = Color(parsed)
	return nil
}

// ParseColor parses a colour string.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return color.NRGBA{}, nil
	}

	alpha := uint8(255)
	if len(s) == 9 && s[0] == '#' {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in colour %q", s)
		}
		alpha = a
		s = s[:7]
	}

	if len(s) != 4 && len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// marginSpec is a shot's margins: a single pixel count, four counts
// [left, bottom, right, top], or "none" to skip margin tightening. Absent
// margins are zero on every side.
type marginSpec struct {
	none   bool
	values []int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *marginSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Value == "none" {
			m.none = true
			return nil
		}
		var n int
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("margins: want none, a pixel count or [left, bottom, right, top], got %q", node.Value)
		}
		m.values = []int{n}
		return nil
	}
	return node.Decode(&m.values)
}

// Vec3 is a YAML [x, y, z] triple.
type Vec3 [3]float32

func (v Vec3) vec() math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

type lightSpec struct {
	Name      string `yaml:"name"`
	Direction Vec3   `yaml:"direction"`
	// Sun is [longitude, latitude] in degrees, used instead of direction.
	Sun       []float32 `yaml:"sun"`
	Color     *Color    `yaml:"color"`
	Intensity *float32  `yaml:"intensity"`
	Enabled   *bool     `yaml:"enabled"`
}

type nodeSpec struct {
	Name  string `yaml:"name"`
	Shape string `yaml:"shape"`

	Size     *Vec3   `yaml:"size"`
	Radius   float32 `yaml:"radius"`
	Rings    int     `yaml:"rings"`
	Segments int     `yaml:"segments"`

	Points       []Vec3  `yaml:"points"`
	ParticleSize float32 `yaml:"particle_size"`

	Position  Vec3   `yaml:"position"`
	Rotation  Vec3   `yaml:"rotation"`
	Scale     *Vec3  `yaml:"scale"`
	Color     *Color `yaml:"color"`
	Layer     int    `yaml:"layer"`
	ForcedOff bool   `yaml:"forced_off"`
	Active    *bool  `yaml:"active"`

	Lights   []lightSpec `yaml:"lights"`
	Children []nodeSpec  `yaml:"children"`
}

type shotSpec struct {
	Name                string     `yaml:"name"`
	Width               *int       `yaml:"width"`
	Height              *int       `yaml:"height"`
	Background          *Color     `yaml:"background"`
	Rotation            Vec3       `yaml:"rotation"`
	Margins             marginSpec `yaml:"margins"`
	Mipmaps             int        `yaml:"mipmaps"`
	Linear              bool       `yaml:"linear"`
	Particles           bool       `yaml:"particles"`
	ComplexTransparency bool       `yaml:"complex_transparency"`
	Ambient             *Color     `yaml:"ambient"`
	Hide                []string   `yaml:"hide"`
}

type documentSpec struct {
	Ambient        *Color      `yaml:"ambient"`
	Skybox         *Color      `yaml:"skybox"`
	TimeScale      *float32    `yaml:"time_scale"`
	FixedDeltaTime *float32    `yaml:"fixed_delta_time"`
	Lights         []lightSpec `yaml:"lights"`
	Object         *nodeSpec   `yaml:"object"`
	Shots          []shotSpec  `yaml:"shots"`
}
