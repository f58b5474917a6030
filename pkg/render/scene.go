package render

import (
	"image/color"

	"github.com/Faultbox/objshot/pkg/math"
)

// Scene is the host scene an object is rendered in.
type Scene interface {
	// Environment returns the global render settings.
	Environment() Environment
	// SetEnvironment replaces the global render settings.
	SetEnvironment(env Environment)
	// ActiveLights lists every light in the active scene hierarchy,
	// enabled or not.
	ActiveLights() []Light
	// Clone duplicates obj into the scene.
	Clone(obj Object) (Object, error)
	// Destroy removes an object created by Clone.
	Destroy(obj Object)
}

// Environment is the scene-global state a render batch touches.
type Environment struct {
	Ambient color.NRGBA
	// Skybox is the global reflective light source; nil disables it.
	Skybox         Skybox
	TimeScale      float32
	FixedDeltaTime float32
}

// Skybox contributes sky light to everything in the scene.
type Skybox interface {
	Tint() color.NRGBA
}

// Object is a renderable scene-graph node.
type Object interface {
	// Renderers lists the renderers of the object and its active descendants.
	Renderers() []Renderer
	// Lights lists the lights of the object and its active descendants.
	Lights() []Light
}

// Renderer is a drawable primitive with world-space bounds.
type Renderer interface {
	WorldBounds() math.AABB
	// Particle reports whether the renderer draws a particle system.
	Particle() bool
	Layer() int
	SetLayer(layer int)
	ForcedOff() bool
	SetForcedOff(off bool)
}

// Light is a scene light source.
type Light interface {
	Enabled() bool
	SetEnabled(enabled bool)
}
