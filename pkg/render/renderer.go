package render

import (
	"fmt"
	"image"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/objshot/pkg/math"
)

// Options control a render batch.
type Options struct {
	// CloneObject renders a private copy of the object. Required when the
	// object is a template that must not be mutated.
	CloneObject bool
	Lighting    LightingMode
	// Layer is the isolation layer the object is moved to for capture.
	Layer int
	// Standoff is the extra distance in world units between the camera,
	// the clip planes and the object's bounding sphere.
	Standoff float32
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		CloneObject: true,
		Lighting:    LightingUnchanged,
		Layer:       DefaultLayer,
		Standoff:    1,
	}
}

// ImageRenderer renders images of objects living in one scene.
// An ImageRenderer is not safe for concurrent use; batches against the same
// scene must not overlap.
type ImageRenderer struct {
	scene Scene
	rast  Rasterizer
	log   *zap.Logger
}

// New creates a renderer. A nil logger disables logging.
func New(scene Scene, rast Rasterizer, log *zap.Logger) *ImageRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImageRenderer{scene: scene, rast: rast, log: log}
}

// RenderImage renders a single image. It is RenderImages with one request.
func (r *ImageRenderer) RenderImage(obj Object, req Request, opts Options) (*Image, error) {
	outcomes, err := r.RenderImages(obj, []Request{req}, opts)
	if err != nil {
		return nil, err
	}
	return outcomes[0].Image, outcomes[0].Err
}

// RenderImages renders one image per request. The returned slice always has
// one outcome per request, in order. A failing request does not stop the
// batch; the returned error is set only when the batch itself could not run,
// in which case every unprocessed outcome carries ErrBatchAborted.
//
// Scene state changed during the batch is restored before returning, also
// when a panic unwinds through it.
func (r *ImageRenderer) RenderImages(obj Object, reqs []Request, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, len(reqs))
	if len(reqs) == 0 {
		return outcomes, nil
	}
	if obj == nil {
		return abort(outcomes, 0, fmt.Errorf("nil object"))
	}
	if opts.Layer < 0 || opts.Layer > 31 {
		return abort(outcomes, 0, fmt.Errorf("render layer %d out of range [0, 31]", opts.Layer))
	}

	r.log.Debug("render batch started",
		zap.Int("requests", len(reqs)),
		zap.Stringer("lighting", opts.Lighting),
		zap.Bool("clone", opts.CloneObject),
		zap.Int("layer", opts.Layer),
	)

	state := captureState(r.scene)
	defer state.restore()

	b := &batch{renderer: r, opts: opts, state: state}
	defer b.teardown()
	if err := b.setup(obj); err != nil {
		return abort(outcomes, 0, err)
	}

	failed := 0
	for i, req := range reqs {
		img, err := b.render(req)
		if err != nil {
			failed++
			r.log.Debug("render request failed", zap.Int("index", i), zap.Error(err))
		}
		outcomes[i] = Outcome{Image: img, Err: err}
	}

	r.log.Debug("render batch finished",
		zap.Int("requests", len(reqs)),
		zap.Int("failed", failed),
	)
	return outcomes, nil
}

func abort(outcomes []Outcome, from int, err error) ([]Outcome, error) {
	for i := from; i < len(outcomes); i++ {
		outcomes[i] = Outcome{Err: fmt.Errorf("%w: %w", ErrBatchAborted, err)}
	}
	return outcomes, fmt.Errorf("render batch: %w", err)
}

// batch holds the per-call resources of RenderImages.
type batch struct {
	renderer *ImageRenderer
	opts     Options
	state    *sceneState

	target Object
	clone  Object
	camera Camera
}

func (b *batch) setup(obj Object) error {
	b.target = obj
	if b.opts.CloneObject {
		clone, err := b.renderer.scene.Clone(obj)
		if err != nil {
			return fmt.Errorf("cloning object: %w", err)
		}
		b.clone = clone
		b.target = clone
	} else {
		b.state.trackLayers = true
	}

	if b.opts.Lighting >= LightingIsolateObject {
		keep := make(map[Light]struct{})
		if b.opts.Lighting == LightingIsolateObject {
			for _, l := range b.target.Lights() {
				keep[l] = struct{}{}
			}
		}
		b.state.suppressLights(keep)
	}

	cam, err := b.renderer.rast.NewCamera()
	if err != nil {
		return fmt.Errorf("creating camera: %w", err)
	}
	b.camera = cam
	return nil
}

func (b *batch) teardown() {
	if b.camera != nil {
		b.camera.Destroy()
	}
	if b.clone != nil {
		b.renderer.scene.Destroy(b.clone)
	}
}

// render produces the image for one request. The after-render hook runs on
// every path out of it.
func (b *batch) render(req Request) (*Image, error) {
	defer b.afterRender(req)
	if err := b.beforeRender(req); err != nil {
		return nil, err
	}

	if req.Width <= 0 || req.Height <= 0 {
		return nil, fmt.Errorf("%w [width=%d, height=%d]", ErrImageTooSmall, req.Width, req.Height)
	}
	inner := req.innerRect()
	if inner.Empty() || !inner.In(image.Rect(0, 0, req.Width, req.Height)) {
		return nil, fmt.Errorf("%w [width=%d, height=%d, inner width=%d, inner height=%d]",
			ErrImageTooSmall, req.Width, req.Height, inner.Dx(), inner.Dy())
	}

	bounds, err := b.isolate(req)
	if err != nil {
		return nil, err
	}
	frame, err := frameBounds(bounds, req.Rotation, inner.Dx(), inner.Dy(), b.opts.Standoff)
	if err != nil {
		return nil, err
	}
	b.state.setAmbient(req.Ambient)

	canvas := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(req.Background), image.Point{}, xdraw.Src)

	if err := b.capture(frame, req, canvas, inner); err != nil {
		return nil, err
	}
	if req.Margins != nil {
		content, ok := findEdges(canvas, req.Background)
		if ok && !spansAxis(content, inner) {
			frame = frame.refit(content, inner)
			if err := b.capture(frame, req, canvas, inner); err != nil {
				return nil, err
			}
		}
	}

	return newImage(canvas, req.MipmapCount, req.ColorSpace), nil
}

// isolate moves the object's renderers onto the isolation layer and returns
// their combined world bounds.
func (b *batch) isolate(req Request) (math.AABB, error) {
	bounds := math.EmptyAABB()
	count := 0
	for _, rend := range b.target.Renderers() {
		b.state.isolate(rend, b.opts.Layer)
		if rend.Particle() && !req.IncludeParticles {
			continue
		}
		bounds = bounds.Union(rend.WorldBounds())
		count++
	}
	if count == 0 {
		return bounds, ErrNoBoundsFound
	}
	return bounds, nil
}

// capture renders the framed object into canvas at rect.
func (b *batch) capture(f framing, req Request, canvas *image.RGBA, rect image.Rectangle) error {
	view := f.view(LayerMask(b.opts.Layer))

	if req.Margins != nil && req.ComplexTransparency && req.Background.A != 255 {
		var passes [3]*image.RGBA
		for i, key := range keyBackgrounds {
			view.Background = key
			pass, err := b.pass(view, rect.Dx(), rect.Dy())
			if err != nil {
				return err
			}
			passes[i] = pass
		}
		composeKeyed(canvas, rect, passes, req.Background)
		return nil
	}

	view.Background = req.Background
	pass, err := b.pass(view, rect.Dx(), rect.Dy())
	if err != nil {
		return err
	}
	xdraw.Draw(canvas, rect, pass, image.Point{}, xdraw.Src)
	return nil
}

// pass renders one supersampled frame and resolves it to width x height.
func (b *batch) pass(view View, width, height int) (*image.RGBA, error) {
	hi, err := b.camera.Render(view, width*Supersample, height*Supersample)
	if err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	if hi.Bounds().Dx() != width*Supersample || hi.Bounds().Dy() != height*Supersample {
		return nil, fmt.Errorf("rasterizer returned %v, want %dx%d",
			hi.Bounds().Size(), width*Supersample, height*Supersample)
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(out, out.Bounds(), hi, hi.Bounds(), xdraw.Src, nil)
	return out, nil
}

func (b *batch) beforeRender(req Request) (err error) {
	if req.BeforeRender == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = &HookError{Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	if err := req.BeforeRender(b.target); err != nil {
		return &HookError{Err: err}
	}
	return nil
}

func (b *batch) afterRender(req Request) {
	if req.AfterRender == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			b.renderer.log.Warn("after-render hook panicked", zap.Any("panic", p))
		}
	}()
	if err := req.AfterRender(b.target); err != nil {
		b.renderer.log.Warn("after-render hook failed", zap.Error(err))
	}
}
