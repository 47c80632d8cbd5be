package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/stretchr/testify/assert"
)

func TestNewPerspectiveCameraDefaults(t *testing.T) {
	c := NewPerspectiveCamera()
	assert.Equal(t, common.IdentityMatrix(), c.WorldToLocal)
	assert.Equal(t, float32(0.1), c.Near)
	assert.Equal(t, float32(3.0), c.Far)
	assert.Equal(t, float32(1.0), c.Aspect)
}

func TestProjectionColumns(t *testing.T) {
	c := NewPerspectiveCamera(WithNear(0.5), WithFar(2.5), WithAspect(1.5))
	p := c.Projection()
	assert.Equal(t, [4]float32{1, 0, 0, 0}, [4]float32(p[0:4]))
	assert.InDelta(t, 1/1.5, p[5], 1e-6)
	assert.InDelta(t, -3.0/2.0, p[10], 1e-6)
	assert.Equal(t, float32(-1), p[11])
	assert.InDelta(t, -2*0.5*2.5/2.0, p[14], 1e-6)
	assert.Equal(t, float32(0), p[15])
}

func TestCombinedMatrix(t *testing.T) {
	c := NewPerspectiveCamera(WithLookAt(common.Vec3{1.2, 0.5, 0.5}, common.Vec3{}, common.Vec3{0, 1, 0}))
	assert.True(t, c.CombinedMatrix().ApproxEqual(c.Projection().Mul(c.WorldToLocal), 1e-6))
}

func TestEyePosition(t *testing.T) {
	eye := common.Vec3{4, 0.5, 0.5}
	c := NewPerspectiveCamera(WithLookAt(eye, common.Vec3{}, common.Vec3{0, 1, 0}))
	got := c.EyePosition()
	assert.InDelta(t, eye[0], got[0], 1e-5)
	assert.InDelta(t, eye[1], got[1], 1e-5)
	assert.InDelta(t, eye[2], got[2], 1e-5)
	assert.InDelta(t, 1, got[3], 1e-6)
}

func TestMouseStateDeltas(t *testing.T) {
	m := NewMouseState()
	var events []MouseAction
	m.AddHandler(func(e MouseEvent) { events = append(events, e.Action) })

	m.Move(10, 20)
	m.Down()
	m.Move(15, 18)
	dx, dy := m.Delta()
	assert.Equal(t, 5.0, dx)
	assert.Equal(t, -2.0, dy)
	gx, gy := m.GestureStart()
	assert.Equal(t, 10.0, gx)
	assert.Equal(t, 20.0, gy)
	assert.True(t, m.IsDown())

	m.ClearDeltas()
	dx, dy = m.Delta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
	m.Up()
	assert.False(t, m.IsDown())
	assert.Equal(t, []MouseAction{MouseActionMove, MouseActionDown, MouseActionMove, MouseActionUp}, events)
}

func TestOrbitIgnoresMotionWhileUp(t *testing.T) {
	c := NewPerspectiveCamera(WithLookAt(common.Vec3{0, 0, 4}, common.Vec3{}, common.Vec3{0, 1, 0}))
	before := c.WorldToLocal
	m := NewMouseState()
	m.Move(100, 0)
	NewOrbitControls().Update(c, m)
	assert.Equal(t, before, c.WorldToLocal)
	dx, _ := m.Delta()
	assert.Equal(t, 100.0, dx)
}

func TestOrbitRotatesAroundCenterAndConsumesDelta(t *testing.T) {
	c := NewPerspectiveCamera(WithLookAt(common.Vec3{0, 0, 4}, common.Vec3{}, common.Vec3{0, 1, 0}))
	m := NewMouseState()
	m.Down()
	m.Move(200*math.Pi/2, 0)

	NewOrbitControls().Update(c, m)

	eye := c.EyePosition()
	assert.InDelta(t, 4, common.Vec3Length(eye.XYZ()), 1e-4)
	assert.InDelta(t, 0, eye[1], 1e-4)
	assert.InDelta(t, 0, eye[2], 1e-4)
	dx, dy := m.Delta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestOrbitPitchKeepsDistance(t *testing.T) {
	c := NewPerspectiveCamera(WithLookAt(common.Vec3{0, 0, 4}, common.Vec3{}, common.Vec3{0, 1, 0}))
	m := NewMouseState()
	m.Down()
	m.Move(0, 40)
	NewOrbitControls().Update(c, m)

	eye := c.EyePosition()
	assert.InDelta(t, 4, common.Vec3Length(eye.XYZ()), 1e-4)
	assert.NotZero(t, eye[1])
	assert.InDelta(t, 0, eye[0], 1e-4)
}

func TestZoomMovesTowardScene(t *testing.T) {
	c := NewPerspectiveCamera(WithLookAt(common.Vec3{0, 0, 4}, common.Vec3{}, common.Vec3{0, 1, 0}))
	NewOrbitControls(WithZoomSpeed(0.5)).Zoom(c, 2)
	assert.InDelta(t, 3, c.EyePosition()[2], 1e-5)
}
