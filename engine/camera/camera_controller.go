package camera

import (
	"github.com/Carmen-Shannon/oxy-phong/common"
)

// OrbitControls rotates a PerspectiveCamera around a center point while the mouse button is
// held. Horizontal motion turns about the world Y axis; vertical motion pitches about the axis
// perpendicular to Y and the center-to-eye direction.
type OrbitControls struct {
	// Center is the pivot point.
	Center common.Vec3
	// Sensitivity is the number of pixels per radian of rotation.
	Sensitivity float32
	// ZoomSpeed is the distance moved per scroll step.
	ZoomSpeed float32
}

// NewOrbitControls creates orbit controls around the origin with a sensitivity of 200.
//
// Parameters:
//   - options: functional options to configure the controls
//
// Returns:
//   - *OrbitControls: the newly created controls
func NewOrbitControls(options ...OrbitControlsOption) *OrbitControls {
	o := &OrbitControls{
		Sensitivity: 200,
		ZoomSpeed:   0.1,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// Update applies the pending mouse delta to cam and clears it. Nothing happens while the
// button is up.
//
// Parameters:
//   - cam: the camera to rotate
//   - mouse: the application's mouse state
func (o *OrbitControls) Update(cam *PerspectiveCamera, mouse *MouseState) {
	if !mouse.IsDown() {
		return
	}
	dx, dy := mouse.Delta()
	mouse.ClearDeltas()
	if dx == 0 && dy == 0 {
		return
	}
	azimuth := float32(dx) / o.Sensitivity
	pitch := float32(dy) / o.Sensitivity

	eye := cam.EyePosition().XYZ()
	pitchAxis := common.Vec3Normalize(common.Vec3Cross(common.Vec3{0, 1, 0}, common.Vec3Sub(eye, o.Center)))

	negCenter := common.Vec3{-o.Center[0], -o.Center[1], -o.Center[2]}
	cam.WorldToLocal = cam.WorldToLocal.
		Mul(common.TranslationMatrix(negCenter)).
		Mul(common.RotationMatrix(pitchAxis, pitch)).
		Mul(common.RotationMatrix(common.Vec3{0, 1, 0}, azimuth)).
		Mul(common.TranslationMatrix(o.Center))
}

// Zoom moves the camera along its view axis. Positive steps move toward the scene.
//
// Parameters:
//   - cam: the camera to move
//   - steps: scroll steps
func (o *OrbitControls) Zoom(cam *PerspectiveCamera, steps float64) {
	if steps == 0 {
		return
	}
	d := float32(steps) * o.ZoomSpeed
	cam.WorldToLocal = common.TranslationMatrix(common.Vec3{0, 0, d}).Mul(cam.WorldToLocal)
}

// OrbitControlsOption is a functional option for configuring OrbitControls.
type OrbitControlsOption func(*OrbitControls)

// WithCenter sets the pivot point.
//
// Parameters:
//   - center: the pivot in world space
//
// Returns:
//   - OrbitControlsOption: functional option to set the center
func WithCenter(center common.Vec3) OrbitControlsOption {
	return func(o *OrbitControls) {
		o.Center = center
	}
}

// WithSensitivity sets the number of pixels per radian.
//
// Parameters:
//   - sensitivity: pixels per radian, must be positive
//
// Returns:
//   - OrbitControlsOption: functional option to set the sensitivity
func WithSensitivity(sensitivity float32) OrbitControlsOption {
	return func(o *OrbitControls) {
		o.Sensitivity = sensitivity
	}
}

// WithZoomSpeed sets the distance moved per scroll step.
//
// Parameters:
//   - speed: distance per step
//
// Returns:
//   - OrbitControlsOption: functional option to set the zoom speed
func WithZoomSpeed(speed float32) OrbitControlsOption {
	return func(o *OrbitControls) {
		o.ZoomSpeed = speed
	}
}
