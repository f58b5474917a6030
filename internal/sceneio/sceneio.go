// Package sceneio loads scene and shot descriptions from YAML.
package sceneio

import (
	"errors"
	"fmt"
	"image/color"
	gomath "math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objshot/internal/scene"
	"github.com/Faultbox/objshot/pkg/math"
	"github.com/Faultbox/objshot/pkg/render"
)

// Shot sizes used when a shot leaves width or height out.
const (
	DefaultShotWidth  = 128
	DefaultShotHeight = 128
)

var defaultAlbedo = color.NRGBA{R: 200, G: 200, B: 200, A: 255}

// Document is a loaded scene with the object to render and its shots.
type Document struct {
	World  *scene.World
	Object *scene.Node
	Shots  []Shot
}

// Shot is one named render request.
type Shot struct {
	Name string
	// Hide lists nodes under the object deactivated while this shot renders.
	Hide []string

	request render.Request
}

// Load reads and parses a scene file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse builds a document from YAML.
func Parse(data []byte) (*Document, error) {
	var spec documentSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	if spec.Object == nil {
		return nil, errors.New("object: missing")
	}

	world := scene.NewWorld()
	if spec.Ambient != nil {
		world.Ambient = color.NRGBA(*spec.Ambient)
	}
	if spec.Skybox != nil {
		world.Skybox = &scene.Skybox{Color: color.NRGBA(*spec.Skybox)}
	}
	if spec.TimeScale != nil {
		world.TimeScale = *spec.TimeScale
	}
	if spec.FixedDeltaTime != nil {
		world.FixedDeltaTime = *spec.FixedDeltaTime
	}
	for i, ls := range spec.Lights {
		l, err := buildLight(ls, fmt.Sprintf("lights[%d]", i))
		if err != nil {
			return nil, err
		}
		world.AddLight(l)
	}

	obj, err := buildNode(*spec.Object, "object")
	if err != nil {
		return nil, err
	}
	world.Add(obj)

	doc := &Document{World: world, Object: obj}
	seen := make(map[string]bool)
	for i, ss := range spec.Shots {
		path := fmt.Sprintf("shots[%d]", i)
		shot, err := buildShot(ss, path)
		if err != nil {
			return nil, err
		}
		if seen[shot.Name] {
			return nil, fmt.Errorf("%s.name: duplicate shot %q", path, shot.Name)
		}
		seen[shot.Name] = true
		for _, name := range shot.Hide {
			if obj.Find(name) == nil {
				return nil, fmt.Errorf("%s.hide: no node named %q under the object", path, name)
			}
		}
		doc.Shots = append(doc.Shots, shot)
	}
	return doc, nil
}

func buildLight(ls lightSpec, path string) (*scene.Light, error) {
	dir := ls.Direction.vec()
	if ls.Sun != nil {
		if len(ls.Sun) != 2 {
			return nil, fmt.Errorf("%s.sun: want [longitude, latitude], got %d values", path, len(ls.Sun))
		}
		dir = scene.SunDirection(ls.Sun[0], ls.Sun[1])
	}
	if dir.Length() == 0 {
		return nil, fmt.Errorf("%s.direction: must not be zero", path)
	}
	c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if ls.Color != nil {
		c = color.NRGBA(*ls.Color)
	}
	intensity := float32(1)
	if ls.Intensity != nil {
		intensity = *ls.Intensity
	}
	l := scene.NewLight(ls.Name, dir, c, intensity)
	if ls.Enabled != nil {
		l.SetEnabled(*ls.Enabled)
	}
	return l, nil
}

func buildNode(ns nodeSpec, path string) (*scene.Node, error) {
	n := scene.NewNode(ns.Name)
	n.Position = ns.Position.vec()
	n.Rotation = eulerDegrees(ns.Rotation)
	if ns.Scale != nil {
		n.Scale = ns.Scale.vec()
	}
	if ns.Active != nil {
		n.SetActive(*ns.Active)
	}
	if ns.Layer < 0 || ns.Layer > 31 {
		return nil, fmt.Errorf("%s.layer: %d out of range [0, 31]", path, ns.Layer)
	}

	albedo := defaultAlbedo
	if ns.Color != nil {
		albedo = color.NRGBA(*ns.Color)
	}

	var r render.Renderer
	switch ns.Shape {
	case "", "empty":
	case "box":
		size := math.Vec3{X: 1, Y: 1, Z: 1}
		if ns.Size != nil {
			size = ns.Size.vec()
		}
		r = n.AddMesh(scene.Box(size), albedo)
	case "sphere":
		radius := ns.Radius
		if radius == 0 {
			radius = 0.5
		}
		rings, segments := ns.Rings, ns.Segments
		if rings == 0 {
			rings = 12
		}
		if segments == 0 {
			segments = 24
		}
		r = n.AddMesh(scene.Sphere(radius, rings, segments), albedo)
	case "quad":
		w, h := float32(1), float32(1)
		if ns.Size != nil {
			w, h = ns.Size[0], ns.Size[1]
		}
		r = n.AddMesh(scene.Quad(w, h), albedo)
	case "particles":
		if len(ns.Points) == 0 {
			return nil, fmt.Errorf("%s.points: particles need at least one point", path)
		}
		size := ns.ParticleSize
		if size == 0 {
			size = 0.1
		}
		points := make([]math.Vec3, len(ns.Points))
		for i, p := range ns.Points {
			points[i] = p.vec()
		}
		r = n.AddParticles(points, size, albedo)
	default:
		return nil, fmt.Errorf("%s.shape: unknown shape %q", path, ns.Shape)
	}
	if r != nil {
		r.SetLayer(ns.Layer)
		r.SetForcedOff(ns.ForcedOff)
	}

	for i, ls := range ns.Lights {
		l, err := buildLight(ls, fmt.Sprintf("%s.lights[%d]", path, i))
		if err != nil {
			return nil, err
		}
		n.AddLight(l)
	}
	for i, cs := range ns.Children {
		child, err := buildNode(cs, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func buildShot(ss shotSpec, path string) (Shot, error) {
	if ss.Name == "" {
		return Shot{}, fmt.Errorf("%s.name: missing", path)
	}

	width, height := DefaultShotWidth, DefaultShotHeight
	if ss.Width != nil {
		width = *ss.Width
	}
	if ss.Height != nil {
		height = *ss.Height
	}

	req := render.Request{
		Width:               width,
		Height:              height,
		Rotation:            eulerDegrees(ss.Rotation),
		MipmapCount:         ss.Mipmaps,
		IncludeParticles:    ss.Particles,
		ComplexTransparency: ss.ComplexTransparency,
	}
	if ss.Background != nil {
		req.Background = color.NRGBA(*ss.Background)
	}
	if ss.Linear {
		req.ColorSpace = render.Linear
	}
	if ss.Ambient != nil {
		ambient := color.NRGBA(*ss.Ambient)
		req.Ambient = &ambient
	}

	margins := ss.Margins.values
	switch {
	case ss.Margins.none:
	case len(margins) == 0:
		req.Margins = &render.Margins{}
	case len(margins) == 1:
		m := margins[0]
		req.Margins = &render.Margins{Left: m, Bottom: m, Right: m, Top: m}
	case len(margins) == 4:
		req.Margins = &render.Margins{
			Left:   margins[0],
			Bottom: margins[1],
			Right:  margins[2],
			Top:    margins[3],
		}
	default:
		return Shot{}, fmt.Errorf("%s.margins: want 1 or 4 values [left, bottom, right, top], got %d", path, len(margins))
	}

	return Shot{Name: ss.Name, Hide: ss.Hide, request: req}, nil
}

// eulerDegrees converts [pitch, yaw, roll] in degrees to a rotation.
func eulerDegrees(v Vec3) math.Quat {
	const rad = gomath.Pi / 180
	return math.QuatFromEuler(v[0]*rad, v[1]*rad, v[2]*rad)
}

// Request returns the render request for the shot. When the shot hides
// nodes, its hooks deactivate them before rendering and reactivate them
// afterwards. Each call returns hooks with their own state.
func (s Shot) Request() render.Request {
	req := s.request
	if len(s.Hide) == 0 {
		return req
	}

	var hidden []*scene.Node
	req.BeforeRender = func(obj render.Object) error {
		root, ok := obj.(*scene.Node)
		if !ok {
			return fmt.Errorf("hide: unsupported object type %T", obj)
		}
		for _, name := range s.Hide {
			n := root.Find(name)
			if n == nil {
				return fmt.Errorf("hide: no node named %q", name)
			}
			if n.Active() {
				n.SetActive(false)
				hidden = append(hidden, n)
			}
		}
		return nil
	}
	req.AfterRender = func(render.Object) error {
		for _, n := range hidden {
			n.SetActive(true)
		}
		hidden = hidden[:0]
		return nil
	}
	return req
}
