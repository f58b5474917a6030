package render

import "image/color"

// sceneState is the snapshot of everything a batch mutates. It is captured
// once at batch entry and restored exactly once at batch exit.
type sceneState struct {
	scene    Scene
	original Environment
	current  Environment

	disabledLights []Light

	trackLayers bool
	layers      map[Renderer]int

	forcedOff []Renderer
	seen      map[Renderer]struct{}
}

// captureState snapshots the environment and freezes simulation time.
func captureState(scene Scene) *sceneState {
	env := scene.Environment()
	s := &sceneState{
		scene:    scene,
		original: env,
		current:  env,
		layers:   make(map[Renderer]int),
		seen:     make(map[Renderer]struct{}),
	}
	s.current.TimeScale = 0
	s.current.FixedDeltaTime = 0
	scene.SetEnvironment(s.current)
	return s
}

// suppressLights disables every enabled light not in keep and removes the skybox.
func (s *sceneState) suppressLights(keep map[Light]struct{}) {
	for _, l := range s.scene.ActiveLights() {
		if _, ok := keep[l]; ok || !l.Enabled() {
			continue
		}
		l.SetEnabled(false)
		s.disabledLights = append(s.disabledLights, l)
	}
	s.current.Skybox = nil
	s.scene.SetEnvironment(s.current)
}

// setAmbient applies a request's ambient override, or the original ambient.
func (s *sceneState) setAmbient(ambient *color.NRGBA) {
	want := s.original.Ambient
	if ambient != nil {
		want = *ambient
	}
	if want == s.current.Ambient {
		return
	}
	s.current.Ambient = want
	s.scene.SetEnvironment(s.current)
}

// isolate moves r onto layer and clears its forced-off flag, remembering
// the original values the first time r is seen.
func (s *sceneState) isolate(r Renderer, layer int) {
	if _, ok := s.seen[r]; !ok {
		s.seen[r] = struct{}{}
		if s.trackLayers {
			s.layers[r] = r.Layer()
		}
		if r.ForcedOff() {
			r.SetForcedOff(false)
			s.forcedOff = append(s.forcedOff, r)
		}
	}
	r.SetLayer(layer)
}

// restore puts back everything captured or changed since captureState.
func (s *sceneState) restore() {
	s.scene.SetEnvironment(s.original)
	for _, l := range s.disabledLights {
		l.SetEnabled(true)
	}
	for r, layer := range s.layers {
		r.SetLayer(layer)
	}
	for _, r := range s.forcedOff {
		r.SetForcedOff(true)
	}
}
