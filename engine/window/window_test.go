package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowOptions(t *testing.T) {
	w := &engineWindow{}
	for _, opt := range []WindowBuilderOption{
		WithTitle("Dice"),
		WithSize(1024, 768),
		WithMinSize(320, 240),
		WithMaxSize(1920, 1080),
	} {
		opt(w)
	}

	assert.Equal(t, "Dice", w.title)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 240, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, 1080, w.maxHeight)
}

func TestClampSize(t *testing.T) {
	w := &engineWindow{minWidth: 200, minHeight: 100, maxWidth: 1600, maxHeight: 1200}

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"within bounds", 800, 600, 800, 600},
		{"below minimum", 10, 10, 200, 100},
		{"above maximum", 4000, 3000, 1600, 1200},
		{"mixed", 10, 3000, 200, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := w.clampSize(tt.width, tt.height)
			assert.Equal(t, tt.wantW, gotW)
			assert.Equal(t, tt.wantH, gotH)
		})
	}
}

// recordingTracker logs MouseTracker calls in order.
type recordingTracker struct {
	calls []string
	x, y  float64
}

func (r *recordingTracker) Down() { r.calls = append(r.calls, "down") }
func (r *recordingTracker) Up() { r.calls = append(r.calls, "up") }
func (r *recordingTracker) Move(x, y float64) {
	r.calls = append(r.calls, "move")
	r.x, r.y = x, y
}

func TestMouseDispatch(t *testing.T) {
	w := &engineWindow{}
	var downX, downY, moveX float64
	var up bool

	w.SetMouseDownCallback(func(x, y float64) { downX, downY = x, y })
	w.SetMouseUpCallback(func(x, y float64) { up = true })
	w.SetMouseMoveCallback(func(x, y float64) { moveX = x })

	w.dispatchMouseButton(inputPress, 12.5, 7)
	w.dispatchMouseButton(inputRelease, 0, 0)
	w.dispatchCursor(3.25, 1)

	assert.Equal(t, 12.5, downX)
	assert.Equal(t, 7.0, downY)
	assert.True(t, up)
	assert.Equal(t, 3.25, moveX)
}

func TestBindMouseFeedsTracker(t *testing.T) {
	w := &engineWindow{}
	tracker := &recordingTracker{}
	var downs int
	w.SetMouseDownCallback(func(x, y float64) { downs++ })
	w.BindMouse(tracker)

	w.dispatchCursor(4, 5)
	w.dispatchMouseButton(inputPress, 10, 20)
	w.dispatchMouseButton(inputRepeat, 11, 21)
	w.dispatchMouseButton(inputRelease, 10, 20)

	// The press position is recorded before Down so a gesture starts where the button went down.
	assert.Equal(t, []string{"move", "move", "down", "up"}, tracker.calls)
	assert.Equal(t, 10.0, tracker.x)
	assert.Equal(t, 20.0, tracker.y)
	assert.Equal(t, 1, downs)

	w.BindMouse(nil)
	assert.NotPanics(t, func() {
		w.dispatchCursor(1, 1)
		w.dispatchMouseButton(inputPress, 1, 1)
	})
}

func TestKeyScrollAndResizeDispatch(t *testing.T) {
	w := &engineWindow{width: 800, height: 600}
	var down, up []uint32
	var scroll float32
	var resized [2]int

	// No callbacks registered yet.
	assert.NotPanics(t, func() {
		w.dispatchKey(65, inputPress)
		w.dispatchScroll(1)
		w.dispatchResize(640, 480)
	})
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())

	w.SetKeyDownCallback(func(code uint32) { down = append(down, code) })
	w.SetKeyUpCallback(func(code uint32) { up = append(up, code) })
	w.SetScrollCallback(func(delta float32) { scroll = delta })
	w.SetResizeCallback(func(width, height int) { resized = [2]int{width, height} })

	w.dispatchKey(87, inputPress)
	w.dispatchKey(87, inputRepeat)
	w.dispatchKey(87, inputRelease)
	w.dispatchScroll(-1.5)
	w.dispatchResize(1024, 768)

	assert.Equal(t, []uint32{87, 87}, down)
	assert.Equal(t, []uint32{87}, up)
	assert.Equal(t, float32(-1.5), scroll)
	assert.Equal(t, [2]int{1024, 768}, resized)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{}

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	assert.NotPanics(t, w.RequestClose)
}
