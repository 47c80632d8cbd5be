package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/profiler"
	"github.com/Carmen-Shannon/oxy-phong/engine/window"
)

// engine implements the Engine interface.
// Drives frames from the window message loop on the calling goroutine.
type engine struct {
	running  bool
	quitOnce sync.Once

	window window.Window
	clock  FrameClock

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback  func(deltaTime float32)
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	now   func() time.Time
	sleep func(time.Duration)
}

// Engine is the main entry point for the engine.
// It pumps the window and calls the frame callback once per message loop iteration.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function called each frame.
	// Use this for input handling, scene updates and rendering.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous frame in seconds (0 on the first frame)
	SetFrameCallback(callback func(deltaTime float32))

	// SetResizeCallback registers the function called when the window framebuffer changes size.
	// Zero sizes, reported while minimized, are not forwarded.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Running reports whether Run is active and Quit has not been called.
	//
	// Returns:
	//   - bool: true while frames are being driven
	Running() bool

	// Run starts the message loop and blocks until the window closes.
	Run()

	// Quit asks the window to close; the loop exits after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(),
		now:      time.Now,
		sleep:    time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if width <= 0 || height <= 0 || e.resizeCallback == nil {
				return
			}
			e.resizeCallback(width, height)
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	if e.window == nil {
		common.Logger().Error("engine has no window")
		return
	}
	e.running = true
	e.clock.Reset()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.running = false
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.running = false
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

func (e *engine) Running() bool {
	return e.running
}

// frame runs one iteration: callback, profiler, then the frame limit.
// A panic in the callback is logged and stops the engine.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("frame recovered from panic", "panic", r)
			e.Quit()
		}
	}()

	start := e.now()
	dt := e.clock.Delta(start)

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameLimit(fps)
}

// frameLimit converts a frames-per-second cap into a minimum frame duration.
func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
