package glraster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objshot/internal/scene"
	"github.com/Faultbox/objshot/pkg/math"
	"github.com/Faultbox/objshot/pkg/render"
)

// floatsPerVertex is position (3) followed by premultiplied colour (4).
const floatsPerVertex = 7

// ErrClosed is returned when the rasterizer or a camera is used after release.
var ErrClosed = errors.New("glraster: closed")

// Rasterizer owns the GL context and the shared shader program.
// All methods must be called from the thread that created it.
type Rasterizer struct {
	world *scene.World
	log   *zap.Logger

	ctx         *glContext
	program     uint32
	locViewProj int32
	vao         uint32
	vbo         uint32
}

// New creates a hidden OpenGL context and compiles the draw program.
func New(world *scene.World, log *zap.Logger) (*Rasterizer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, err := newContext(log)
	if err != nil {
		return nil, err
	}

	program, err := compileProgram(vertexShader, fragmentShader)
	if err != nil {
		ctx.close()
		return nil, fmt.Errorf("compiling shaders: %w", err)
	}

	r := &Rasterizer{
		world:       world,
		log:         log,
		ctx:         ctx,
		program:     program,
		locViewProj: gl.GetUniformLocation(program, gl.Str("uViewProj\x00")),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	return r, nil
}

// NewCamera implements render.Rasterizer.
func (r *Rasterizer) NewCamera() (render.Camera, error) {
	if r.ctx == nil {
		return nil, ErrClosed
	}
	fb, err := newFramebuffer(1, 1)
	if err != nil {
		return nil, err
	}
	return &Camera{rast: r, fb: fb}, nil
}

// Close releases the program, buffers and context.
func (r *Rasterizer) Close() {
	if r.ctx == nil {
		return
	}
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
	r.ctx.close()
	r.ctx = nil
	r.log.Debug("OpenGL rasterizer closed")
}

// Camera renders into its own framebuffer.
type Camera struct {
	rast     *Rasterizer
	fb       *framebuffer
	vertices []float32
}

// Render implements render.Camera.
func (c *Camera) Render(view render.View, width, height int) (*image.RGBA, error) {
	if c.fb == nil || c.rast.ctx == nil {
		return nil, ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	rot := view.Rotation.Normalize()
	halfWidth := view.HalfHeight * view.Aspect
	vp := math.Ortho(-halfWidth, halfWidth, -view.HalfHeight, view.HalfHeight, view.Near, view.Far).
		Mul(math.ViewFromPose(view.Position, rot))

	c.vertices = c.buildVertices(view.CullingMask, rot)

	c.fb.resize(int32(width), int32(height))
	c.fb.bind()

	bg := color.RGBAModel.Convert(view.Background).(color.RGBA)
	gl.ClearColor(unit(bg.R), unit(bg.G), unit(bg.B), unit(bg.A))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	if len(c.vertices) > 0 {
		gl.UseProgram(c.rast.program)
		gl.UniformMatrix4fv(c.rast.locViewProj, 1, false, vp.Ptr())
		gl.BindVertexArray(c.rast.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, c.rast.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(c.vertices)*4, gl.Ptr(c.vertices), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(c.vertices)/floatsPerVertex))
		gl.BindVertexArray(0)
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("OpenGL error 0x%x", code)
	}
	return c.fb.readImage(), nil
}

// buildVertices shades every visible triangle on the CPU, two-sided with
// the normal turned towards the camera.
func (c *Camera) buildVertices(mask uint32, rot math.Quat) []float32 {
	world := c.rast.world
	forward := rot.Forward()
	out := c.vertices[:0]
	for _, tri := range world.Triangles(mask, rot.Right(), rot.Up()) {
		col := tri.Albedo
		if !tri.Unlit {
			n := tri.Normal
			if n.Dot(forward) > 0 {
				n = n.Neg()
			}
			col = world.Shade(n, col)
		}
		p := color.RGBAModel.Convert(col).(color.RGBA)
		for _, v := range tri.V {
			out = append(out, v.X, v.Y, v.Z, unit(p.R), unit(p.G), unit(p.B), unit(p.A))
		}
	}
	return out
}

// Destroy implements render.Camera.
func (c *Camera) Destroy() {
	if c.fb != nil {
		c.fb.destroy()
		c.fb = nil
	}
}

func unit(v uint8) float32 {
	return float32(v) / 255
}
