package expr

import (
	"errors"
	"strings"
	"testing"
)

func TestEvaluateString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2", "3"},
		{"7*6", "42"},
		{"2+3*4", "14"},
		{"(2+3)*4", "20"},
		{"10-4-3", "3"},
		{"2**3**2", "512"},
		{"-2**2", "-4"},
		{"2**-1", "0.5"},
		{"--5", "5"},
		{"5--3", "8"},
		{"+7", "7"},
		{"7/2", "3.5"},
		{"6/2", "3.0"},
		{"1/3", "0.3333333333333333"},
		{"-7//2", "-4"},
		{"7//2", "3"},
		{"7.0//2", "3.0"},
		{"-7%3", "2"},
		{"7%-3", "-2"},
		{"7.5%2", "1.5"},
		{"-7.5%2", "0.5"},
		{"0.1+0.2", "0.30000000000000004"},
		{"1.5*2", "3.0"},
		{".5+.5", "1.0"},
		{"5.", "5.0"},
		{"1e3", "1000.0"},
		{"1e16*1.0", "1e+16"},
		{"1.5e-5", "1.5e-05"},
		{"0.0001", "0.0001"},
		{"00", "0"},
		{"05.5", "5.5"},
		{"-0.0", "-0.0"},
		{"99999999999*99999999999", "9999999999800000000001"},
		{"2**100", "1267650600228229401496703205376"},
		{" 1 + 2 ", "3"},
		{"6×7", "42"},
		{"9÷2", "4.5"},
		{"9−2", "7"},
		{"(((1)))", "1"},
		{"1e308*10", "inf"},
		{"0**0", "1"},
		{"(-1)**3", "-1"},
		{"(-1)**1000000000", "1"},
		{"1//0.1", "9.0"},
		{"7.0//0.7", "9.0"},
		{"-1.0%1", "0.0"},
		{"1%-0.5", "-0.0"},
		{"-7.0//2", "-4.0"},
		{"0.0//-3", "-0.0"},
		{"10**5000//10**4999", "10"},
		{"10**4300//10", "1" + strings.Repeat("0", 4299)},
	}

	for _, tt := range tests {
		got, err := EvaluateString(tt.input)
		if err != nil {
			t.Errorf("EvaluateString(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EvaluateString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"1+", ErrSyntax},
		{"*2", ErrSyntax},
		{"(1+2", ErrSyntax},
		{"1+2)", ErrSyntax},
		{"()", ErrSyntax},
		{"1.2.3", ErrSyntax},
		{"05", ErrSyntax},
		{"1e", ErrSyntax},
		{"2(3)", ErrSyntax},
		{"3 4", ErrSyntax},
		{"1+plus", ErrSyntax},
		{"Return", ErrSyntax},
		{"__import__('os')", ErrSyntax},
		{"5/0", ErrDivisionByZero},
		{"5.0/0", ErrDivisionByZero},
		{"5//0", ErrDivisionByZero},
		{"5%0", ErrDivisionByZero},
		{"0**-1", ErrDivisionByZero},
		{"(-8)**0.5", ErrDomain},
		{"10.0**400", ErrOverflow},
		{"9**9**9", ErrOverflow},
		{"10**400*1.0", ErrOverflow},
	}

	for _, tt := range tests {
		_, err := Evaluate(tt.input)
		if err == nil {
			t.Errorf("Evaluate(%q) expected error", tt.input)
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("Evaluate(%q) error = %v, want %v", tt.input, err, tt.want)
		}
	}
}

func TestEvaluateStringDigitLimit(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"10**4299", nil},
		{"10**4300", ErrOverflow},
		{"-(10**4300)", ErrOverflow},
		{"10**5000", ErrOverflow},
		{"2**2000000", ErrOverflow},
	}

	for _, tt := range tests {
		_, err := EvaluateString(tt.input)
		if !errors.Is(err, tt.want) {
			t.Errorf("EvaluateString(%q) error = %v, want %v", tt.input, err, tt.want)
		}
	}

	// The digit limit applies to rendering, not to evaluation.
	n, err := Evaluate("10**5000")
	if err != nil {
		t.Fatalf("Evaluate(10**5000) error = %v", err)
	}
	if n.IsFloat() || n.BigInt().BitLen() < 16000 {
		t.Errorf("Evaluate(10**5000) = %v", n.BigInt())
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Evaluate("12+*3")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %T (%v)", err, err)
	}
	if se.Pos != 3 {
		t.Errorf("Pos = %d, want 3", se.Pos)
	}
	if !strings.Contains(se.Error(), "offset 3") {
		t.Errorf("Error() = %q, want offset in message", se.Error())
	}
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("2**3//4")
	if err != nil {
		t.Fatalf("Tokenize error = %v", err)
	}

	want := []TokenKind{TokenNumber, TokenPower, TokenNumber, TokenDoubleSlash, TokenNumber, TokenEOF}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, k := range want {
		if tokens[i].Kind != k {
			t.Errorf("token %d = %v, want %v", i, tokens[i].Kind, k)
		}
	}
}

func TestParseTree(t *testing.T) {
	node, err := Parse("1+2*3")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if got := node.String(); got != "(1 + (2 * 3))" {
		t.Errorf("String() = %q", got)
	}
}

func TestNumberConversions(t *testing.T) {
	n := Int(42)
	if n.IsFloat() {
		t.Error("Int should not be float")
	}
	f, err := n.Float64()
	if err != nil || f != 42 {
		t.Errorf("Float64() = %v, %v", f, err)
	}
	if Float(2.5).BigInt() != nil {
		t.Error("BigInt() of float should be nil")
	}
	if got := Float(3).String(); got != "3.0" {
		t.Errorf("Float(3).String() = %q", got)
	}
}
