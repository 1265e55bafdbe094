package viewer

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/mesh"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

// Renderer draws one uploaded model with the prepared matrices. The GL
// implementation lives in internal/engine/renderer.
type Renderer interface {
	Draw(h *mesh.Handle, model, view, projection, normal math.Mat4)
	DrawBounds(min, max [3]float32, model, view, projection math.Mat4)
}

// Viewer owns one model slot: its GPU handle, its load cycle, its spin
// animation and the camera watching it.
type Viewer struct {
	dev    mesh.Device
	r      Renderer
	loader *Loader
	handle *mesh.Handle
	cam    *camera.OrbitCamera

	angle            float64 // degrees, [0, 360)
	degreesPerSecond float64

	boundsMin  [3]float32
	boundsMax  [3]float32
	hasBounds  bool
	showBounds bool
}

// New allocates the model's buffer objects up front, empty, so a draw
// can never observe missing buffers.
func New(dev mesh.Device, r Renderer, src Source, degreesPerSecond float64) (*Viewer, error) {
	h, err := mesh.NewHandle(dev)
	if err != nil {
		return nil, fmt.Errorf("allocate model buffers: %w", err)
	}
	return &Viewer{
		dev:              dev,
		r:                r,
		loader:           NewLoader(src),
		handle:           h,
		cam:              camera.NewOrbitCamera(),
		degreesPerSecond: degreesPerSecond,
	}, nil
}

// Load begins loading a model in the background and reports whether
// the load was accepted.
func (v *Viewer) Load(resource string, scale float32, reverse bool) bool {
	return v.loader.Begin(resource, scale, reverse)
}

func (v *Viewer) State() LoadState { return v.loader.State() }

// Resource returns the identifier of the current or most recent load.
func (v *Viewer) Resource() string { return v.loader.Resource() }

// Angle returns the current spin angle in degrees.
func (v *Viewer) Angle() float64 { return v.angle }

// Camera returns the orbit camera so input can steer it.
func (v *Viewer) Camera() *camera.OrbitCamera { return v.cam }

// ToggleBounds switches the bounding box overlay on or off.
func (v *Viewer) ToggleBounds() {
	v.showBounds = !v.showBounds
	logger.Debug("bounds overlay toggled", zap.Bool("visible", v.showBounds))
}

// Tick advances one frame: spin the model by dt seconds, apply any
// finished load, upload staged geometry and draw. Until a model has
// been uploaded the draw is skipped.
func (v *Viewer) Tick(dt float64, aspect float32) {
	v.angle = gomath.Mod(v.angle+v.degreesPerSecond*dt, 360)

	v.loader.Poll()

	if v.loader.State() == ParsedReady {
		v.upload()
	}

	if v.handle.IndexCount() == 0 {
		return
	}

	rad := math.Radians(float32(v.angle))
	model := math.RotateX(rad).Mul(math.RotateY(rad)).Mul(math.RotateZ(rad))
	normal := model.Inverse().Transpose()

	view := v.cam.ViewMatrix()
	projection := v.cam.Projection(aspect)

	v.r.Draw(v.handle, model, view, projection, normal)
	if v.showBounds && v.hasBounds {
		v.r.DrawBounds(v.boundsMin, v.boundsMax, model, view, projection)
	}
}

// upload pushes the staged model into the buffer objects. On failure
// the loader stays in ParsedReady so the next frame retries, and any
// previously uploaded model keeps drawing.
func (v *Viewer) upload() {
	data := v.loader.Parsed()
	if err := v.handle.Upload(v.dev, data); err != nil {
		logger.Warn("model upload failed, will retry",
			zap.String("resource", v.loader.Resource()),
			zap.Error(err))
		return
	}

	v.loader.MarkUploaded()
	v.boundsMin, v.boundsMax = data.Bounds()
	v.hasBounds = true
	logger.Info("model uploaded",
		zap.String("resource", v.loader.Resource()),
		zap.Int32("indices", v.handle.IndexCount()))
}

// FitView reframes the camera on the last uploaded model. Without an
// uploaded model it does nothing.
func (v *Viewer) FitView() {
	if !v.hasBounds {
		return
	}
	v.cam.FitToBounds(
		math.Vec3{X: v.boundsMin[0], Y: v.boundsMin[1], Z: v.boundsMin[2]},
		math.Vec3{X: v.boundsMax[0], Y: v.boundsMax[1], Z: v.boundsMax[2]},
	)
}

// Destroy releases the model's buffer objects.
func (v *Viewer) Destroy() {
	v.handle.Destroy(v.dev)
}
