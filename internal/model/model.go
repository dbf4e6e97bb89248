// Package model holds the calculator's expression and evaluates it.
//
// The Model never calls the controller or the view. Callers read the
// display string through Value after every mutation.
package model

import (
	"github.com/dshills/calcmvc/internal/expr"
)

// EmptyDisplay is shown when the expression is empty.
const EmptyDisplay = "0"

// State is the logical state of the expression.
type State int

const (
	// Accumulating means the expression holds raw input (possibly empty).
	Accumulating State = iota
	// Evaluated means the expression holds the last result.
	Evaluated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Accumulating:
		return "accumulating"
	case Evaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// Evaluator turns an expression into its rendered result.
type Evaluator func(expression string) (string, error)

// Outcome describes what Calculate did. Nothing in the UI branches on it;
// it exists for logging.
type Outcome struct {
	// Input is the expression that was evaluated.
	Input string
	// Result is the rendered value on success.
	Result string
	// OK is false when evaluation failed and the expression was reset.
	OK bool
	// Err is the evaluation failure, if any.
	Err error
}

// Model owns the expression string. It is not safe for concurrent use;
// all calls are expected on the UI event loop.
type Model struct {
	expression string
	state      State
	evaluate   Evaluator
}

// Option configures a Model.
type Option func(*Model)

// WithEvaluator replaces the arithmetic evaluator.
func WithEvaluator(fn Evaluator) Option {
	return func(m *Model) {
		if fn != nil {
			m.evaluate = fn
		}
	}
}

// New creates an empty Model.
func New(opts ...Option) *Model {
	m := &Model{
		state:    Accumulating,
		evaluate: expr.EvaluateString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Event appends token to the expression verbatim.
// Appending to an evaluated result continues from the result text.
func (m *Model) Event(token string) {
	m.expression += token
	m.state = Accumulating
}

// Calculate evaluates the expression. On success the expression becomes the
// result; on failure it is reset to empty.
func (m *Model) Calculate() Outcome {
	out := Outcome{Input: m.expression}

	result, err := m.evaluate(m.expression)
	if err != nil {
		m.expression = ""
		m.state = Accumulating
		out.Err = err
		return out
	}

	m.expression = result
	m.state = Evaluated
	out.Result = result
	out.OK = true
	return out
}

// Clear resets the expression.
func (m *Model) Clear() {
	m.expression = ""
	m.state = Accumulating
}

// Value returns the display string: EmptyDisplay when the expression is
// empty, otherwise the expression itself.
func (m *Model) Value() string {
	if m.expression == "" {
		return EmptyDisplay
	}
	return m.expression
}

// Expression returns the raw expression.
func (m *Model) Expression() string {
	return m.expression
}

// IsEmpty reports whether the expression is empty.
func (m *Model) IsEmpty() bool {
	return m.expression == ""
}

// State returns the current state.
func (m *Model) State() State {
	return m.state
}
