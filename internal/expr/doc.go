// Package expr evaluates arithmetic expressions typed on the calculator.
//
// The package replaces a general-purpose evaluator with a small, closed
// grammar. Only numbers, parentheses and the following operators are
// accepted:
//
//   - Additive: "+", "-" (also "−")
//   - Multiplicative: "*", "/", "//", "%" (also "×", "÷")
//   - Power: "**" (right associative, binds tighter than unary minus on its left)
//   - Unary: "+", "-"
//
// # Numbers
//
// Integer literals evaluate to arbitrary-precision integers and stay integers
// under "+", "-", "*", "//", "%" and "**" with a non-negative exponent.
// True division "/" always produces a float, as does any expression with a
// float operand. Integer literals with leading zeros ("05") are rejected,
// while "0", "00" and float literals such as "05.5" are accepted.
//
// # Rendering
//
// Results are rendered by Number.String: integers in base 10, floats as the
// shortest round-trip decimal with a mandatory fractional part ("3.0") and
// exponent notation outside [1e-4, 1e16) ("1e+16", "1.5e-05").
//
// Float "//" and "%" derive the quotient from the exact remainder, so
// "1//0.1" is 9.0 and a zero remainder takes the sign of the divisor.
//
// # Limits
//
// EvaluateString rejects integer results longer than 4300 digits with
// ErrOverflow. Intermediate values are allowed to grow much further
// ("10**5000//10**4999" is 10) but are still bounded so that a single
// expression cannot stall the caller.
package expr
