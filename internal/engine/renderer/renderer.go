// Package renderer draws uploaded models through OpenGL 4.1 core.
package renderer

import (
	_ "embed"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

//go:embed shaders/model.vert
var vertexShaderSource string

//go:embed shaders/model.frag
var fragmentShaderSource string

//go:embed shaders/line.vert
var lineVertexShaderSource string

//go:embed shaders/line.frag
var lineFragmentShaderSource string

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns the shader programs and per-frame GL state.
type Renderer struct {
	config Config

	program uint32

	locModel        int32
	locView         int32
	locProjection   int32
	locNormalMatrix int32

	// Wireframe overlay for bounding boxes.
	lineProgram       uint32
	lineArray         uint32
	lineBuffer        uint32
	locLineModel      int32
	locLineView       int32
	locLineProjection int32
	locLineColor      int32
}

// New initializes OpenGL and compiles the shader programs.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	gpu := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", gpu),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	program, err := shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("model program: %w", err)
	}
	r.program = program
	r.locModel = shader.MustGetUniform(program, "uModel")
	r.locView = shader.MustGetUniform(program, "uView")
	r.locProjection = shader.MustGetUniform(program, "uProjection")
	r.locNormalMatrix = shader.MustGetUniform(program, "uNormalMatrix")

	// The light never changes, set it once.
	light := lighting.Default()
	gl.UseProgram(program)
	gl.Uniform3f(shader.MustGetUniform(program, "uLightDir"),
		light.Direction[0], light.Direction[1], light.Direction[2])
	gl.Uniform3f(shader.MustGetUniform(program, "uAmbient"),
		light.Ambient[0], light.Ambient[1], light.Ambient[2])
	gl.Uniform3f(shader.MustGetUniform(program, "uDiffuse"),
		light.Diffuse[0], light.Diffuse[1], light.Diffuse[2])

	if err := r.initLineProgram(); err != nil {
		gl.DeleteProgram(r.program)
		return nil, err
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

func (r *Renderer) initLineProgram() error {
	program, err := shader.CompileProgram(lineVertexShaderSource, lineFragmentShaderSource)
	if err != nil {
		return fmt.Errorf("line program: %w", err)
	}
	r.lineProgram = program
	r.locLineModel = shader.MustGetUniform(program, "uModel")
	r.locLineView = shader.MustGetUniform(program, "uView")
	r.locLineProjection = shader.MustGetUniform(program, "uProjection")
	r.locLineColor = shader.MustGetUniform(program, "uColor")

	gl.GenVertexArrays(1, &r.lineArray)
	gl.GenBuffers(1, &r.lineBuffer)

	gl.BindVertexArray(r.lineArray)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineBuffer)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return nil
}

// Close releases the shader programs and line geometry.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	if r.lineProgram != 0 {
		gl.DeleteProgram(r.lineProgram)
	}
	if r.lineBuffer != 0 {
		gl.DeleteBuffers(1, &r.lineBuffer)
	}
	if r.lineArray != 0 {
		gl.DeleteVertexArrays(1, &r.lineArray)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the current width to height ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders one uploaded model as a single indexed triangle batch.
func (r *Renderer) Draw(h *mesh.Handle, model, view, projection, normal math.Mat4) {
	gl.UseProgram(r.program)

	gl.UniformMatrix4fv(r.locModel, 1, false, model.Ptr())
	gl.UniformMatrix4fv(r.locView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.locProjection, 1, false, projection.Ptr())
	gl.UniformMatrix4fv(r.locNormalMatrix, 1, false, normal.Ptr())

	gl.BindVertexArray(h.Array())
	gl.DrawElements(gl.TRIANGLES, h.IndexCount(), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawBounds renders a wireframe box between min and max under the same
// model transform as the mesh it belongs to.
func (r *Renderer) DrawBounds(min, max [3]float32, model, view, projection math.Mat4) {
	verts := debug.WireframeVertices(min, max)

	gl.UseProgram(r.lineProgram)
	gl.UniformMatrix4fv(r.locLineModel, 1, false, model.Ptr())
	gl.UniformMatrix4fv(r.locLineView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.locLineProjection, 1, false, projection.Ptr())
	gl.Uniform3f(r.locLineColor, 1.0, 0.85, 0.1)

	gl.BindVertexArray(r.lineArray)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.LINES, 0, debug.WireframeVertexCount)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// ReadPixels reads the back buffer as tightly packed RGBA, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	width, height := r.config.Width, r.config.Height
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}
