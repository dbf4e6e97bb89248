// Package view renders the calculator on a display surface and turns
// surface events into control activations and key presses.
//
// The View knows nothing about the model or the controller. Callers bind
// callbacks with Bind and AttachKeyboard, push display text with Refresh and
// hand the goroutine to Start, which runs the event loop until Close.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/calcmvc/internal/renderer/backend"
)

// Title is the window title.
const Title = "MVC example: Calculator"

// InitialDisplay is the display text before the first refresh.
const InitialDisplay = "0"

// View errors.
var (
	// ErrAlreadyRunning indicates Start was called while the loop runs.
	ErrAlreadyRunning = errors.New("view already running")

	// ErrUnknownControl indicates a control name that is not on the keypad.
	ErrUnknownControl = errors.New("unknown control")
)

// KeyPress is a physical key press delivered to the keyboard callback.
type KeyPress struct {
	// Name is the key's textual identifier ("7", "+", "Enter", "Up").
	Name string
	Rune rune
	Key  backend.Key
	Mod  backend.ModMask
}

// quitRequest is posted by Close to stop the loop.
type quitRequest struct{}

// View owns the display surface and the keypad controls.
type View struct {
	surface  backend.Backend
	theme    Theme
	controls []*Control
	byName   map[ControlName]*Control
	keyboard func(KeyPress)

	display   string
	pressed   ControlName
	mouseDown bool
	dirty     bool

	running atomic.Bool

	// Fallbacks for Close and Post when the surface queue is full. The loop
	// keeps waking up while the queue is non-empty, so it sees them soon.
	quit     atomic.Bool
	mu       sync.Mutex
	overflow []func()
}

// Option configures a View.
type Option func(*View)

// WithTheme sets the initial theme.
func WithTheme(theme Theme) Option {
	return func(v *View) {
		v.theme = theme
	}
}

// New creates a View drawing on surface.
func New(surface backend.Backend, opts ...Option) *View {
	v := &View{
		surface: surface,
		theme:   DefaultTheme(),
		display: InitialDisplay,
		byName:  make(map[ControlName]*Control),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.controls = keypad()
	for _, c := range v.controls {
		v.byName[c.Name] = c
	}
	v.layout()

	return v
}

// Title returns the window title.
func (v *View) Title() string {
	return Title
}

// Display returns the text currently shown.
func (v *View) Display() string {
	return v.display
}

// Controls returns the keypad controls in keypad order.
func (v *View) Controls() []*Control {
	out := make([]*Control, len(v.controls))
	copy(out, v.controls)
	return out
}

// Control looks up a control by name.
func (v *View) Control(name ControlName) (*Control, bool) {
	c, ok := v.byName[name]
	return c, ok
}

// Bind sets the activation callback of a control.
func (v *View) Bind(name ControlName, fn func()) error {
	c, ok := v.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	c.onActivate = fn
	return nil
}

// AttachKeyboard registers the callback invoked for every key press.
func (v *View) AttachKeyboard(fn func(KeyPress)) {
	v.keyboard = fn
}

// Refresh shows value on the display. It must be called on the event loop
// once Start is running.
func (v *View) Refresh(value string) {
	v.display = value
	v.dirty = true
}

// ApplyTheme replaces the theme. Like Refresh, it belongs on the event loop;
// other goroutines go through Post.
func (v *View) ApplyTheme(theme Theme) {
	v.theme = theme
	v.dirty = true
}

// Theme returns the active theme.
func (v *View) Theme() Theme {
	return v.theme
}

// Post schedules fn to run on the event loop. Safe from any goroutine.
func (v *View) Post(fn func()) {
	if err := v.surface.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: fn}); err != nil {
		v.mu.Lock()
		v.overflow = append(v.overflow, fn)
		v.mu.Unlock()
	}
}

// Close asks the event loop to stop. Safe from any goroutine.
func (v *View) Close() {
	if err := v.surface.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: quitRequest{}}); err != nil {
		v.quit.Store(true)
	}
}

// IsRunning reports whether the event loop is running.
func (v *View) IsRunning() bool {
	return v.running.Load()
}

// Start initializes the surface and runs the event loop on the calling
// goroutine until Close, a quit key, or ctx cancellation.
func (v *View) Start(ctx context.Context) error {
	if !v.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer v.running.Store(false)
	defer v.quit.Store(false)

	if err := v.surface.Init(); err != nil {
		return fmt.Errorf("init display surface: %w", err)
	}
	defer v.surface.Shutdown()

	v.surface.SetTitle(Title)
	v.surface.HideCursor()
	v.draw()

	stop := context.AfterFunc(ctx, v.Close)
	defer stop()

	for {
		ev := v.surface.PollEvent()
		if ev.Type == backend.EventNone {
			// Surface finalized
			return nil
		}
		if v.handleEvent(ev) || v.quit.Load() {
			return nil
		}
		v.runOverflow()
		if v.dirty {
			v.draw()
		}
	}
}

// runOverflow runs functions Post could not queue on the surface.
func (v *View) runOverflow() {
	v.mu.Lock()
	pending := v.overflow
	v.overflow = nil
	v.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// handleEvent processes one surface event. Returns true when the loop
// should stop.
func (v *View) handleEvent(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventKey:
		return v.handleKey(ev)
	case backend.EventMouse:
		v.handleMouse(ev)
	case backend.EventResize:
		v.surface.Clear()
		v.dirty = true
	case backend.EventInterrupt:
		switch data := ev.Data.(type) {
		case quitRequest:
			return true
		case func():
			data()
		}
	}
	return false
}

func (v *View) handleKey(ev backend.Event) bool {
	if ev.Key == backend.KeyCtrlC || ev.Key == backend.KeyCtrlQ {
		return true
	}

	v.setPressed("")
	if v.keyboard != nil {
		v.keyboard(KeyPress{
			Name: ev.Name,
			Rune: ev.Rune,
			Key:  ev.Key,
			Mod:  ev.Mod,
		})
	}
	return false
}

// handleMouse activates a control on the press edge of the left button.
func (v *View) handleMouse(ev backend.Event) {
	if ev.MouseButton != backend.MouseLeft {
		v.mouseDown = false
		return
	}
	if v.mouseDown {
		return
	}
	v.mouseDown = true

	for _, c := range v.controls {
		if c.bounds.Contains(ev.MouseX, ev.MouseY) {
			v.activate(c)
			return
		}
	}
}

// Activate triggers a control as if it were clicked. It belongs on the
// event loop.
func (v *View) Activate(name ControlName) error {
	c, ok := v.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, name)
	}
	v.activate(c)
	return nil
}

func (v *View) activate(c *Control) {
	v.setPressed(c.Name)
	if c.onActivate != nil {
		c.onActivate()
	}
}

func (v *View) setPressed(name ControlName) {
	if v.pressed != name {
		v.pressed = name
		v.dirty = true
	}
}
