package expr

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Integer limits. maxIntDigits applies to the rendered result only;
// intermediate values may grow up to maxWorkBits so the event loop never
// stalls on a huge product or power.
const (
	maxIntDigits = 4300
	maxWorkBits  = 1 << 20
)

// Number is either an arbitrary-precision integer or a float64.
type Number struct {
	i       *big.Int
	f       float64
	isFloat bool
}

// Int returns an integer Number.
func Int(v int64) Number {
	return Number{i: big.NewInt(v)}
}

// BigInt returns an integer Number holding a copy of v.
func BigInt(v *big.Int) Number {
	return Number{i: new(big.Int).Set(v)}
}

// Float returns a float Number.
func Float(v float64) Number {
	return Number{f: v, isFloat: true}
}

// IsFloat reports whether n is a float.
func (n Number) IsFloat() bool {
	return n.isFloat
}

// Float64 returns n as a float64. Integers too large for a float64 return
// ErrOverflow.
func (n Number) Float64() (float64, error) {
	if n.isFloat {
		return n.f, nil
	}
	f, _ := new(big.Float).SetInt(n.i).Float64()
	if math.IsInf(f, 0) {
		return 0, ErrOverflow
	}
	return f, nil
}

// BigInt returns a copy of the integer value, or nil for floats.
func (n Number) BigInt() *big.Int {
	if n.isFloat {
		return nil
	}
	return new(big.Int).Set(n.i)
}

// String renders n the way the calculator displays results.
func (n Number) String() string {
	if !n.isFloat {
		return n.i.String()
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func parseNumber(tok Token) (Number, error) {
	text := tok.Text
	if !strings.ContainsAny(text, ".eE") {
		v, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return Number{}, syntaxErrorf(tok.Pos, "invalid integer literal %q", text)
		}
		return Number{i: v}, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// ParseFloat reports out-of-range literals as errors and returns
		// ±Inf, which is what the literal evaluates to.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return Float(f), nil
		}
		return Number{}, syntaxErrorf(tok.Pos, "invalid float literal %q", text)
	}
	return Float(f), nil
}

// checkInt rejects intermediate integers beyond the work bound.
func checkInt(v *big.Int) (Number, error) {
	if v.BitLen() > maxWorkBits {
		return Number{}, ErrOverflow
	}
	return Number{i: v}, nil
}

// displayable reports whether n renders within maxIntDigits digits.
func displayable(n Number) bool {
	if n.isFloat {
		return true
	}
	// BitLen*log10(2) is within one digit of the real count.
	if float64(n.i.BitLen())*math.Log10(2) < maxIntDigits-1 {
		return true
	}
	return len(new(big.Int).Abs(n.i).String()) <= maxIntDigits
}

// floats converts both operands to float64.
func floats(a, b Number) (float64, float64, error) {
	x, err := a.Float64()
	if err != nil {
		return 0, 0, err
	}
	y, err := b.Float64()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func neg(a Number) Number {
	if a.isFloat {
		return Float(-a.f)
	}
	return Number{i: new(big.Int).Neg(a.i)}
}

func add(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat {
		return checkInt(new(big.Int).Add(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return Float(x + y), nil
}

func sub(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat {
		return checkInt(new(big.Int).Sub(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return Float(x - y), nil
}

func mul(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat {
		return checkInt(new(big.Int).Mul(a.i, b.i))
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	return Float(x * y), nil
}

// trueDiv always yields a float.
func trueDiv(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat {
		if b.i.Sign() == 0 {
			return Number{}, ErrDivisionByZero
		}
		f, _ := new(big.Rat).SetFrac(a.i, b.i).Float64()
		if math.IsInf(f, 0) {
			return Number{}, ErrOverflow
		}
		return Float(f), nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	if y == 0 {
		return Number{}, ErrDivisionByZero
	}
	return Float(x / y), nil
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat {
		if b.i.Sign() == 0 {
			return Number{}, ErrDivisionByZero
		}
		q, r := new(big.Int).QuoRem(a.i, b.i, new(big.Int))
		if r.Sign() != 0 && r.Sign() != b.i.Sign() {
			q.Sub(q, big.NewInt(1))
		}
		return Number{i: q}, nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	if y == 0 {
		return Number{}, ErrDivisionByZero
	}
	q, _ := floatDivmod(x, y)
	return Float(q), nil
}

// mod takes the sign of the divisor.
func mod(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat {
		if b.i.Sign() == 0 {
			return Number{}, ErrDivisionByZero
		}
		r := new(big.Int).Rem(a.i, b.i)
		if r.Sign() != 0 && r.Sign() != b.i.Sign() {
			r.Add(r, b.i)
		}
		return Number{i: r}, nil
	}
	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	if y == 0 {
		return Number{}, ErrDivisionByZero
	}
	_, m := floatDivmod(x, y)
	return Float(m), nil
}

// floatDivmod returns the floored quotient and the remainder of x/y, with
// the remainder taking the sign of y. The quotient is derived from the
// exact remainder, so 1//0.1 is 9.0 rather than the rounded 10.0. y must be
// non-zero.
func floatDivmod(x, y float64) (float64, float64) {
	m := math.Mod(x, y)
	div := (x - m) / y
	if m != 0 {
		if (y < 0) != (m < 0) {
			m += y
			div--
		}
	} else {
		m = math.Copysign(0, y)
	}

	var q float64
	if div != 0 {
		q = math.Floor(div)
		if div-q > 0.5 {
			q++
		}
	} else {
		q = math.Copysign(0, x/y)
	}
	return q, m
}

func pow(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat && b.i.Sign() >= 0 {
		return intPow(a.i, b.i)
	}

	x, y, err := floats(a, b)
	if err != nil {
		return Number{}, err
	}
	if x == 0 && y < 0 {
		return Number{}, ErrDivisionByZero
	}
	if x < 0 && y != math.Trunc(y) {
		return Number{}, ErrDomain
	}
	r := math.Pow(x, y)
	if math.IsInf(r, 0) && !math.IsInf(x, 0) && !math.IsInf(y, 0) {
		return Number{}, ErrOverflow
	}
	return Float(r), nil
}

func intPow(base, exp *big.Int) (Number, error) {
	// 0, 1 and -1 stay small for any exponent.
	if base.CmpAbs(big.NewInt(1)) <= 0 {
		if base.Sign() < 0 && exp.Bit(0) == 0 {
			return Int(1), nil
		}
		if base.Sign() == 0 && exp.Sign() == 0 {
			return Int(1), nil
		}
		return BigInt(base), nil
	}
	if !exp.IsInt64() || exp.Int64() > maxWorkBits || exp.Int64()*int64(base.BitLen()) > maxWorkBits {
		return Number{}, ErrOverflow
	}
	return checkInt(new(big.Int).Exp(base, exp, nil))
}
