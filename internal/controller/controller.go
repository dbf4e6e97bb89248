// Package controller connects the calculator model to its view.
//
// The controller is the only component that knows about both sides: it binds
// every keypad control and the keyboard, performs the matching model call and
// pushes the new display value back to the view.
package controller

import (
	"context"
	"fmt"

	"github.com/dshills/calcmvc/internal/model"
	"github.com/dshills/calcmvc/internal/view"
)

// Logger is the subset of the application logger used here.
type Logger interface {
	Debug(msg string, args ...any)
}

// Metrics receives interaction counts.
type Metrics interface {
	RecordButton()
	RecordKey(ignored bool)
	RecordEvaluation(ok bool)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

type nopMetrics struct{}

func (nopMetrics) RecordButton()         {}
func (nopMetrics) RecordKey(bool)        {}
func (nopMetrics) RecordEvaluation(bool) {}

// Controller wires a Model to a View.
type Controller struct {
	model    *model.Model
	view     *view.View
	keyboard KeyboardPolicy
	logger   Logger
	metrics  Metrics
}

// Option configures a Controller.
type Option func(*Controller)

// WithKeyboardPolicy selects how key presses reach the model.
func WithKeyboardPolicy(p KeyboardPolicy) Option {
	return func(c *Controller) {
		c.keyboard = p
	}
}

// WithLogger sets the interaction logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the interaction counters.
func WithMetrics(m Metrics) Option {
	return func(c *Controller) {
		if m != nil {
			c.metrics = m
		}
	}
}

// New binds every control of v and the keyboard to m.
func New(m *model.Model, v *view.View, opts ...Option) *Controller {
	c := &Controller{
		model:    m,
		view:     v,
		keyboard: KeyboardRestricted,
		logger:   nopLogger{},
		metrics:  nopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, ctl := range v.Controls() {
		ctl := ctl // per-iteration copy; go.mod targets go1.21 loop semantics
		var handler func()
		switch ctl.Kind {
		case view.KindDigit, view.KindOperator:
			handler = func() { c.press(ctl.Name, ctl.Token) }
		case view.KindEqual:
			handler = func() { c.equal(string(ctl.Name)) }
		case view.KindClear:
			handler = func() { c.clear(string(ctl.Name)) }
		default:
			c.logger.Debug("control not bound {control=%s, kind=%s}", ctl.Name, ctl.Kind)
			continue
		}
		// Names come from the view's own keypad, so Bind cannot fail.
		_ = v.Bind(ctl.Name, func() {
			c.metrics.RecordButton()
			handler()
		})
	}
	v.AttachKeyboard(c.keystroke)

	return c
}

// Run hands the calling goroutine to the view's event loop.
func (c *Controller) Run(ctx context.Context) error {
	c.view.Refresh(c.model.Value())
	return c.view.Start(ctx)
}

// KeyboardPolicy returns the active keyboard policy.
func (c *Controller) KeyboardPolicy() KeyboardPolicy {
	return c.keyboard
}

func (c *Controller) press(name view.ControlName, token string) {
	c.model.Event(token)
	c.refresh(string(name), token)
}

func (c *Controller) equal(source string) {
	out := c.model.Calculate()
	c.metrics.RecordEvaluation(out.OK)
	if !out.OK {
		c.logger.Debug("evaluation failed {control=%s, input=%q, error=%v}", source, out.Input, out.Err)
	}
	c.refresh(source, "=")
}

func (c *Controller) clear(source string) {
	c.model.Clear()
	c.refresh(source, "")
}

// keystroke applies a key press according to the keyboard policy.
func (c *Controller) keystroke(kp view.KeyPress) {
	if c.keyboard == KeyboardRaw {
		c.metrics.RecordKey(false)
		c.model.Event(kp.Name)
		c.refresh("key", kp.Name)
		return
	}

	action, token := classify(kp)
	c.metrics.RecordKey(action == actionIgnore)
	switch action {
	case actionAppend:
		c.model.Event(token)
		c.refresh("key", token)
	case actionCalculate:
		c.equal("key")
	case actionClear:
		c.clear("key")
	default:
		c.logger.Debug("key ignored {key=%q}", kp.Name)
	}
}

func (c *Controller) refresh(source, token string) {
	value := c.model.Value()
	c.view.Refresh(value)
	c.logger.Debug("interaction {control=%s, token=%q, display=%q, state=%s}",
		source, token, value, c.model.State())
}

// String describes the controller for logs.
func (c *Controller) String() string {
	return fmt.Sprintf("controller(keyboard=%s)", c.keyboard)
}
