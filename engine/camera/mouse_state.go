package camera

// MouseAction identifies a mouse event kind.
type MouseAction int

const (
	MouseActionDown MouseAction = iota
	MouseActionUp
	MouseActionMove
)

// MouseEvent is passed to handlers registered on a MouseState.
type MouseEvent struct {
	Action MouseAction
	X, Y   float64
}

// MouseState tracks the cursor and the primary button between frames. It is owned by the
// application and fed from window callbacks.
type MouseState struct {
	lastX, lastY       float64
	deltaX, deltaY     float64
	gestureX, gestureY float64
	down               bool
	handlers           []func(MouseEvent)
}

// NewMouseState creates a MouseState with the button up and the cursor at the origin.
func NewMouseState() *MouseState {
	return &MouseState{}
}

// Down records a button press at the last cursor position.
func (m *MouseState) Down() {
	m.down = true
	m.gestureX, m.gestureY = m.lastX, m.lastY
	m.dispatch(MouseEvent{Action: MouseActionDown, X: m.lastX, Y: m.lastY})
}

// Up records a button release.
func (m *MouseState) Up() {
	m.down = false
	m.dispatch(MouseEvent{Action: MouseActionUp, X: m.lastX, Y: m.lastY})
}

// Move records a cursor move. The delta is measured from the previous position.
//
// Parameters:
//   - x, y: the new cursor position
func (m *MouseState) Move(x, y float64) {
	m.deltaX = x - m.lastX
	m.deltaY = y - m.lastY
	m.lastX, m.lastY = x, y
	m.dispatch(MouseEvent{Action: MouseActionMove, X: x, Y: y})
}

// IsDown reports whether the button is held.
func (m *MouseState) IsDown() bool {
	return m.down
}

// Delta returns the cursor movement since the last ClearDeltas.
func (m *MouseState) Delta() (dx, dy float64) {
	return m.deltaX, m.deltaY
}

// Position returns the last cursor position.
func (m *MouseState) Position() (x, y float64) {
	return m.lastX, m.lastY
}

// GestureStart returns the cursor position at the last Down.
func (m *MouseState) GestureStart() (x, y float64) {
	return m.gestureX, m.gestureY
}

// ClearDeltas zeroes the movement delta.
func (m *MouseState) ClearDeltas() {
	m.deltaX, m.deltaY = 0, 0
}

// AddHandler registers fn to be called on every event, in registration order.
func (m *MouseState) AddHandler(fn func(MouseEvent)) {
	m.handlers = append(m.handlers, fn)
}

func (m *MouseState) dispatch(e MouseEvent) {
	for _, fn := range m.handlers {
		fn(e)
	}
}
