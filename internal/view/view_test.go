package view

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/calcmvc/internal/renderer/backend"
	"github.com/dshills/calcmvc/internal/renderer/core"
)

// run starts v, posts events, closes it and waits for the loop to exit.
func run(t *testing.T, v *View, nb *backend.NullBackend, events ...backend.Event) {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- v.Start(context.Background())
	}()

	for _, ev := range events {
		nb.PostEvent(ev)
	}
	v.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not stop")
	}
}

func click(c *Control) []backend.Event {
	b := c.Bounds()
	x := b.Left + b.Width()/2
	return []backend.Event{
		{Type: backend.EventMouse, MouseX: x, MouseY: b.Top, MouseButton: backend.MouseLeft},
		{Type: backend.EventMouse, MouseX: x, MouseY: b.Top, MouseButton: backend.MouseNone},
	}
}

func key(name string, k backend.Key, r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k, Rune: r, Name: name}
}

func TestViewStartDraws(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	run(t, v, nb)

	if nb.Title() != Title {
		t.Errorf("title = %q, want %q", nb.Title(), Title)
	}
	if v.Title() != "MVC example: Calculator" {
		t.Errorf("Title() = %q", v.Title())
	}
	if !strings.Contains(nb.Line(titleRow), Title) {
		t.Errorf("title row = %q", nb.Line(titleRow))
	}
	if got := strings.TrimSpace(nb.Line(displayRow)); got != InitialDisplay {
		t.Errorf("display row = %q, want %q", got, InitialDisplay)
	}
	if !strings.Contains(nb.Line(hintRow), HintText) {
		t.Errorf("hint row = %q", nb.Line(hintRow))
	}
	if nb.ShowCount() == 0 {
		t.Error("expected Show to be called")
	}
	if v.IsRunning() {
		t.Error("view should not be running after Close")
	}
}

func TestViewKeypadLabels(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)
	run(t, v, nb)

	rows := []struct {
		row  int
		want []string
	}{
		{1, []string{"1", "2", "3", "."}},
		{2, []string{"4", "5", "6", "+", "×"}},
		{3, []string{"7", "8", "9", "−", "÷"}},
		{4, []string{"C", "0", "="}},
	}
	for _, tt := range rows {
		line := nb.Line(keypadTop + (tt.row-1)*rowSpacing)
		fields := strings.Fields(line)
		if strings.Join(fields, " ") != strings.Join(tt.want, " ") {
			t.Errorf("row %d = %q, want %v", tt.row, line, tt.want)
		}
	}
}

func TestViewControls(t *testing.T) {
	v := New(backend.NewNullBackend(40, 16))
	controls := v.Controls()
	if len(controls) != 17 {
		t.Fatalf("got %d controls, want 17", len(controls))
	}

	seen := make(map[ControlName]bool)
	for i, c := range controls {
		if seen[c.Name] {
			t.Errorf("duplicate control %s", c.Name)
		}
		seen[c.Name] = true

		b := c.Bounds()
		if b.Width() != buttonWidth || b.Height() != 1 {
			t.Errorf("%s bounds = %+v", c.Name, b)
		}
		if b.Right > marginLeft+keypadWidth {
			t.Errorf("%s extends past keypad: %+v", c.Name, b)
		}
		for _, other := range controls[i+1:] {
			ob := other.Bounds()
			if b.Top == ob.Top && b.Left < ob.Right && ob.Left < b.Right {
				t.Errorf("%s overlaps %s", c.Name, other.Name)
			}
		}
	}

	tokens := map[ControlName]string{
		ControlMul: "*", ControlDiv: "/", ControlSub: "-", ControlAdd: "+", ControlDec: ".", ControlZero: "0",
	}
	for name, want := range tokens {
		c, ok := v.Control(name)
		if !ok {
			t.Fatalf("Control(%s) not found", name)
		}
		if c.Token != want {
			t.Errorf("%s token = %q, want %q", name, c.Token, want)
		}
	}

	if _, ok := v.Control("sqrt"); ok {
		t.Error("Control(sqrt) should not exist")
	}
}

func TestViewBindUnknownControl(t *testing.T) {
	v := New(backend.NewNullBackend(40, 16))
	err := v.Bind("percent", func() {})
	if !errors.Is(err, ErrUnknownControl) {
		t.Errorf("Bind error = %v, want ErrUnknownControl", err)
	}
	if err := v.Activate("percent"); !errors.Is(err, ErrUnknownControl) {
		t.Errorf("Activate error = %v, want ErrUnknownControl", err)
	}
}

func TestViewMouseActivatesControl(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	var sevens, equals int
	if err := v.Bind(ControlSeven, func() { sevens++ }); err != nil {
		t.Fatal(err)
	}
	if err := v.Bind(ControlEqual, func() { equals++ }); err != nil {
		t.Fatal(err)
	}

	seven, _ := v.Control(ControlSeven)
	equal, _ := v.Control(ControlEqual)

	var events []backend.Event
	events = append(events, click(seven)...)
	events = append(events, click(seven)...)
	events = append(events, click(equal)...)
	// Click outside every control.
	events = append(events, backend.Event{Type: backend.EventMouse, MouseX: 0, MouseY: 0, MouseButton: backend.MouseLeft})

	run(t, v, nb, events...)

	if sevens != 2 {
		t.Errorf("seven activated %d times, want 2", sevens)
	}
	if equals != 1 {
		t.Errorf("equal activated %d times, want 1", equals)
	}
}

func TestViewMouseHoldActivatesOnce(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	count := 0
	_ = v.Bind(ControlOne, func() { count++ })
	one, _ := v.Control(ControlOne)
	b := one.Bounds()

	press := backend.Event{Type: backend.EventMouse, MouseX: b.Left, MouseY: b.Top, MouseButton: backend.MouseLeft}
	run(t, v, nb, press, press, press)

	if count != 1 {
		t.Errorf("activated %d times, want 1", count)
	}
}

func TestViewPressedHighlight(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)
	five, _ := v.Control(ControlFive)

	run(t, v, nb, click(five)...)

	b := five.Bounds()
	got := nb.GetCell(b.Left, b.Top).Style.Background
	normal := v.Theme().Digit.Background
	if got.Equals(normal) {
		t.Errorf("pressed control background = %v, want highlight", got)
	}

	six, _ := v.Control(ControlSix)
	if bg := nb.GetCell(six.Bounds().Left, six.Bounds().Top).Style.Background; !bg.Equals(normal) {
		t.Errorf("unpressed control background = %v, want %v", bg, normal)
	}
}

func TestViewKeyboard(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	var names []string
	v.AttachKeyboard(func(kp KeyPress) {
		names = append(names, kp.Name)
	})

	run(t, v, nb,
		key("5", backend.KeyRune, '5'),
		key("+", backend.KeyRune, '+'),
		key("Enter", backend.KeyEnter, 0),
		key("Up", backend.KeyUp, 0),
	)

	want := []string{"5", "+", "Enter", "Up"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %v, want %v", names, want)
	}
}

func TestViewQuitKeys(t *testing.T) {
	for _, k := range []backend.Key{backend.KeyCtrlC, backend.KeyCtrlQ} {
		nb := backend.NewNullBackend(40, 16)
		v := New(nb)

		called := false
		v.AttachKeyboard(func(KeyPress) { called = true })

		done := make(chan error, 1)
		go func() { done <- v.Start(context.Background()) }()
		nb.PostEvent(key("", k, 0))

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Start() error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("key %v did not stop the loop", k)
		}
		if called {
			t.Errorf("key %v reached the keyboard callback", k)
		}
	}
}

func TestViewContextCancel(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancel did not stop the loop")
	}
}

func TestViewAlreadyRunning(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	done := make(chan error, 1)
	go func() { done <- v.Start(context.Background()) }()

	started := make(chan struct{})
	v.Post(func() { close(started) })
	<-started

	if err := v.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}

	v.Close()
	if err := <-done; err != nil {
		t.Errorf("Start() error = %v", err)
	}
}

func TestViewRefreshOnLoop(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	run(t, v, nb, backend.Event{
		Type: backend.EventInterrupt,
		Data: func() { v.Refresh("12+3") },
	})

	if v.Display() != "12+3" {
		t.Errorf("Display() = %q", v.Display())
	}
	line := strings.TrimRight(nb.Line(displayRow), " ")
	if !strings.HasSuffix(line, "12+3") {
		t.Errorf("display row = %q", line)
	}
	// Right aligned with one cell of padding.
	if nb.GetCell(marginLeft+keypadWidth-2, displayRow).Rune != '3' {
		t.Errorf("last digit not at right edge: %q", nb.Line(displayRow))
	}
}

func TestViewLongDisplayKeepsTail(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)
	long := strings.Repeat("1234567890", 4)
	v.Refresh(long)

	run(t, v, nb)

	got := strings.TrimSpace(nb.Line(displayRow))
	want := long[len(long)-(keypadWidth-2):]
	if got != want {
		t.Errorf("display = %q, want %q", got, want)
	}
}

func TestViewApplyTheme(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	theme := DefaultTheme()
	theme.Digit = theme.Digit.WithBackground(core.ColorFromRGB(0x10, 0x20, 0x30))
	v.Post(func() { v.ApplyTheme(theme) })

	run(t, v, nb)

	one, _ := v.Control(ControlOne)
	got := nb.GetCell(one.Bounds().Left, one.Bounds().Top).Style.Background
	if !got.Equals(theme.Digit.Background) {
		t.Errorf("background = %v, want %v", got, theme.Digit.Background)
	}
}

func TestViewResizeRedraws(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	run(t, v, nb, backend.Event{Type: backend.EventResize, Width: 40, Height: 16})

	if !strings.Contains(nb.Line(titleRow), Title) {
		t.Errorf("title row after resize = %q", nb.Line(titleRow))
	}
}

// fillQueue posts no-op interrupts until the surface drops one.
func fillQueue(t *testing.T, nb *backend.NullBackend) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if err := nb.PostEvent(backend.Event{Type: backend.EventInterrupt}); err != nil {
			return
		}
	}
	t.Fatal("queue never filled")
}

func waitStart(t *testing.T, v *View) {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		done <- v.Start(context.Background())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not stop")
	}
}

func TestViewCloseWithFullQueue(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	fillQueue(t, nb)
	v.Close()
	waitStart(t, v)

	if v.IsRunning() {
		t.Error("view should not be running after Close")
	}
}

func TestViewPostWithFullQueue(t *testing.T) {
	nb := backend.NewNullBackend(40, 16)
	v := New(nb)

	fillQueue(t, nb)
	ran := false
	v.Post(func() {
		ran = true
		v.Refresh("7")
		v.Close()
	})
	waitStart(t, v)

	if !ran {
		t.Fatal("posted function did not run")
	}
	if got := strings.TrimSpace(nb.Line(displayRow)); got != "7" {
		t.Errorf("display row = %q, want 7", got)
	}
}
