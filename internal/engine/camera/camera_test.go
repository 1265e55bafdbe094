package camera

import (
	"testing"

	"github.com/Faultbox/objview/pkg/math"
)

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestNewOrbitCamera_StartPosition(t *testing.T) {
	c := NewOrbitCamera()
	pos := c.Position()

	// Looking down at the origin from (0, 500, 200).
	if absf(pos.X) > 1 || absf(pos.Y-500) > 1 || absf(pos.Z-200) > 1 {
		t.Errorf("unexpected start position (%f, %f, %f)", pos.X, pos.Y, pos.Z)
	}
}

func TestOrbitCamera_ViewMatrixCentersTarget(t *testing.T) {
	c := NewOrbitCamera()
	view := c.ViewMatrix()

	// The orbit center ends up straight ahead on the view axis.
	p := view.TransformVec3(math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ})
	if absf(p.X) > 0.001 || absf(p.Y) > 0.001 || absf(p.Z+c.Distance) > 0.5 {
		t.Errorf("center transformed to (%f, %f, %f), want (0, 0, %f)", p.X, p.Y, p.Z, -c.Distance)
	}
}

func TestOrbitCamera_DragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 10000)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch not clamped to max: %f", c.RotationX)
	}

	c.HandleDrag(0, -10000)
	if c.RotationX != c.MinPitch {
		t.Errorf("pitch not clamped to min: %f", c.RotationX)
	}
}

func TestOrbitCamera_ZoomClampsDistance(t *testing.T) {
	c := NewOrbitCamera()

	for i := 0; i < 100; i++ {
		c.HandleZoom(10)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("distance not clamped to min: %f", c.Distance)
	}

	for i := 0; i < 100; i++ {
		c.HandleZoom(-10)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("distance not clamped to max: %f", c.Distance)
	}
}

func TestOrbitCamera_FitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.SetCenter(100, 100, 100)

	c.FitToBounds(math.Vec3{X: -60, Y: -60, Z: -60}, math.Vec3{X: 60, Y: 60, Z: 60})

	if c.CenterX != 0 || c.CenterY != 0 || c.CenterZ != 0 {
		t.Errorf("center not moved to bounds center: (%f, %f, %f)", c.CenterX, c.CenterY, c.CenterZ)
	}
	if c.Distance < c.MinDistance || c.Distance > c.MaxDistance {
		t.Errorf("fitted distance %f outside limits", c.Distance)
	}
	// The whole cube has to fit in front of the near plane.
	if c.Distance < 104 {
		t.Errorf("fitted distance %f would clip the model", c.Distance)
	}
}
