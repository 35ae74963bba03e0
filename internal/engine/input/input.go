// Package input turns SDL2 events into a per-frame input snapshot.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Key names a key the games react to.
type Key int

const (
	KeyNone Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyF1
	KeyF12
	KeyM
	keyCount
)

var keyNames = [keyCount]string{
	"none", "w", "a", "s", "d", "up", "down", "left", "right", "escape", "f1", "f12", "m",
}

// String returns the key name.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

var scancodes = map[sdl.Scancode]Key{
	sdl.SCANCODE_W:      KeyW,
	sdl.SCANCODE_A:      KeyA,
	sdl.SCANCODE_S:      KeyS,
	sdl.SCANCODE_D:      KeyD,
	sdl.SCANCODE_UP:     KeyUp,
	sdl.SCANCODE_DOWN:   KeyDown,
	sdl.SCANCODE_LEFT:   KeyLeft,
	sdl.SCANCODE_RIGHT:  KeyRight,
	sdl.SCANCODE_ESCAPE: KeyEscape,
	sdl.SCANCODE_F1:     KeyF1,
	sdl.SCANCODE_F12:    KeyF12,
	sdl.SCANCODE_M:      KeyM,
}

// wheelPixelsPerNotch converts wheel notches to the pixel deltas the camera
// sensitivities are tuned for.
const wheelPixelsPerNotch = 100

// State is the input for one frame. Held keys persist across frames; the
// deltas and edge flags cover only events since the previous Update.
type State struct {
	held    [keyCount]bool
	pressed [keyCount]bool

	Dragging bool
	DragX    float32 // horizontal pointer movement while dragging, pixels
	DragY    float32
	Wheel    float32 // positive when scrolling towards the user, pixels

	Quit    bool
	Resized bool
	Width   int
	Height  int
}

// Held reports whether k is down.
func (s *State) Held(k Key) bool {
	return s.held[k]
}

// Pressed reports whether k went down this frame.
func (s *State) Pressed(k Key) bool {
	return s.pressed[k]
}

// Axis returns -1, 0 or 1 from a pair of opposing keys.
func (s *State) Axis(neg, pos Key) float32 {
	var v float32
	if s.held[neg] {
		v--
	}
	if s.held[pos] {
		v++
	}
	return v
}

// Press marks k down as a key-down event would. Out of range keys are
// ignored.
func (s *State) Press(k Key) {
	if k <= KeyNone || k >= keyCount {
		return
	}
	if !s.held[k] {
		s.pressed[k] = true
	}
	s.held[k] = true
}

// Release marks k up.
func (s *State) Release(k Key) {
	if k <= KeyNone || k >= keyCount {
		return
	}
	s.held[k] = false
}

// beginFrame clears the per-frame fields.
func (s *State) beginFrame() {
	s.pressed = [keyCount]bool{}
	s.DragX, s.DragY, s.Wheel = 0, 0, 0
	s.Quit, s.Resized = false, false
}

// Input polls SDL events.
type Input struct {
	state State
}

// New creates a new input handler.
func New() *Input {
	return &Input{}
}

// Update drains the SDL event queue and returns the frame's state.
func (i *Input) Update() *State {
	i.state.beginFrame()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.apply(event)
	}
	return &i.state
}

// State returns the state from the last Update.
func (i *Input) State() *State {
	return &i.state
}

func (i *Input) apply(event sdl.Event) {
	s := &i.state
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.Quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			s.Resized = true
			s.Width, s.Height = int(e.Data1), int(e.Data2)
		}

	case *sdl.KeyboardEvent:
		k, ok := scancodes[e.Keysym.Scancode]
		if !ok {
			return
		}
		if e.Type == sdl.KEYDOWN {
			s.Press(k)
		} else if e.Type == sdl.KEYUP {
			s.Release(k)
		}

	case *sdl.MouseButtonEvent:
		switch e.Button {
		case sdl.BUTTON_LEFT:
			s.Dragging = e.State == sdl.PRESSED
		}

	case *sdl.MouseMotionEvent:
		if s.Dragging {
			s.DragX += float32(e.XRel)
			s.DragY += float32(e.YRel)
		}

	case *sdl.MouseWheelEvent:
		dy := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		s.Wheel -= dy * wheelPixelsPerNotch
	}
}
