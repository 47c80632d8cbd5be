package engine

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/profiler"
	"github.com/Carmen-Shannon/oxy-phong/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs the update callback a fixed number of times or until closed.
type fakeWindow struct {
	frames  int
	running bool
	closes  int

	onUpdate func()
	onResize func(width, height int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(callback func())                  { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(func(delta float32))              {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32))            {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))              {}
func (w *fakeWindow) SetMouseDownCallback(func(x, y float64))            {}
func (w *fakeWindow) SetMouseUpCallback(func(x, y float64))              {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y float64))            {}
func (w *fakeWindow) BindMouse(window.MouseTracker)                      {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor         { return nil }
func (w *fakeWindow) IsRunning() bool                                    { return w.running }
func (w *fakeWindow) RequestClose()                                      { w.running = false; w.closes++ }
func (w *fakeWindow) Close() error                                       { return nil }
func (w *fakeWindow) Width() int                                         { return 800 }
func (w *fakeWindow) Height() int                                        { return 600 }

func (w *fakeWindow) ProcessMessages() {
	w.running = true
	for i := 0; i < w.frames && w.running; i++ {
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
	w.running = false
}

// steppedClock returns times advancing by step on every call.
func steppedClock(step time.Duration) func() time.Time {
	t := time.Unix(1000, 0)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func TestFrameClock(t *testing.T) {
	var c FrameClock
	start := time.Unix(0, 0)

	assert.Zero(t, c.Delta(start))
	assert.InDelta(t, 0.016, c.Delta(start.Add(16*time.Millisecond)), 1e-6)
	assert.InDelta(t, 0.5, c.Delta(start.Add(516*time.Millisecond)), 1e-6)

	c.Reset()
	assert.Zero(t, c.Delta(start.Add(time.Hour)))
}

func TestRunCallsFrameCallbackPerUpdate(t *testing.T) {
	w := &fakeWindow{frames: 4}
	var deltas []float32
	e := NewEngine(WithWindow(w), WithFrameCallback(func(dt float32) {
		deltas = append(deltas, dt)
	})).(*engine)
	e.now = steppedClock(10 * time.Millisecond)

	e.Run()

	require.Len(t, deltas, 4)
	assert.Zero(t, deltas[0])
	for _, dt := range deltas[1:] {
		assert.InDelta(t, 0.01, dt, 1e-6)
	}
	assert.False(t, e.Running())
}

func TestRunWithoutWindow(t *testing.T) {
	e := NewEngine()
	assert.NotPanics(t, e.Run)
	assert.Nil(t, e.Window())
}

func TestFramePanicQuits(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })

	w := &fakeWindow{frames: 10}
	calls := 0
	e := NewEngine(WithWindow(w), WithFrameCallback(func(float32) {
		calls++
		if calls == 2 {
			panic("boom")
		}
	}))

	e.Run()

	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, w.closes)
	assert.Contains(t, buf.String(), "frame recovered from panic")
	assert.Contains(t, buf.String(), "panic=boom")
}

func TestQuitIsIdempotent(t *testing.T) {
	w := &fakeWindow{frames: 10}
	var e Engine
	calls := 0
	e = NewEngine(WithWindow(w), WithFrameCallback(func(float32) {
		calls++
		e.Quit()
		e.Quit()
	}))

	e.Run()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, w.closes)
}

func TestResizeForwardsNonZeroSizes(t *testing.T) {
	w := &fakeWindow{}
	var sizes [][2]int
	NewEngine(WithWindow(w), WithResizeCallback(func(width, height int) {
		sizes = append(sizes, [2]int{width, height})
	}))

	require.NotNil(t, w.onResize)
	w.onResize(1024, 768)
	w.onResize(0, 0)
	w.onResize(640, 0)

	assert.Equal(t, [][2]int{{1024, 768}}, sizes)
}

func TestFrameLimitSleepsRemainder(t *testing.T) {
	w := &fakeWindow{frames: 3}
	var slept []time.Duration
	e := NewEngine(WithWindow(w), WithRenderFrameLimit(50)).(*engine)
	e.now = steppedClock(5 * time.Millisecond)
	e.sleep = func(d time.Duration) { slept = append(slept, d) }

	e.Run()

	assert.Equal(t, []time.Duration{15 * time.Millisecond, 15 * time.Millisecond, 15 * time.Millisecond}, slept)

	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}

func TestProfilerToggle(t *testing.T) {
	var buf bytes.Buffer
	p := profiler.NewProfiler(
		profiler.WithInterval(time.Nanosecond),
		profiler.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	w := &fakeWindow{frames: 3}
	e := NewEngine(WithWindow(w), WithProfiler(p))

	e.Run()
	assert.Empty(t, buf.String())

	e.EnableProfiler()
	w.frames = 3
	e.Run()
	assert.Contains(t, buf.String(), "msg=profiler")

	e.DisableProfiler()
	buf.Reset()
	e.Run()
	assert.Empty(t, buf.String())
}
