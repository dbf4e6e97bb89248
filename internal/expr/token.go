package expr

import (
	"fmt"
	"unicode/utf8"
)

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenDoubleSlash
	TokenPercent
	TokenPower
	TokenLParen
	TokenRParen
)

// String returns the operator text for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenNumber:
		return "number"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenDoubleSlash:
		return "//"
	case TokenPercent:
		return "%"
	case TokenPower:
		return "**"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a lexical token with its source offset.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// Tokenize splits input into tokens. The final token is always TokenEOF.
func Tokenize(input string) ([]Token, error) {
	lx := lexer{input: input}
	var tokens []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

type lexer struct {
	input string
	pos   int
}

func (lx *lexer) peekByte(offset int) byte {
	i := lx.pos + offset
	if i >= len(lx.input) {
		return 0
	}
	return lx.input[i]
}

func (lx *lexer) next() (Token, error) {
	lx.skipSpace()
	start := lx.pos
	if lx.pos >= len(lx.input) {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	c := lx.input[lx.pos]
	switch {
	case isDigit(c) || (c == '.' && isDigit(lx.peekByte(1))):
		return lx.number()
	case c == '+':
		return lx.emit(TokenPlus, 1), nil
	case c == '-':
		return lx.emit(TokenMinus, 1), nil
	case c == '*':
		if lx.peekByte(1) == '*' {
			return lx.emit(TokenPower, 2), nil
		}
		return lx.emit(TokenStar, 1), nil
	case c == '/':
		if lx.peekByte(1) == '/' {
			return lx.emit(TokenDoubleSlash, 2), nil
		}
		return lx.emit(TokenSlash, 1), nil
	case c == '%':
		return lx.emit(TokenPercent, 1), nil
	case c == '(':
		return lx.emit(TokenLParen, 1), nil
	case c == ')':
		return lx.emit(TokenRParen, 1), nil
	}

	// Display glyphs for the keypad operators.
	r, size := utf8.DecodeRuneInString(lx.input[lx.pos:])
	switch r {
	case '×':
		return lx.emit(TokenStar, size), nil
	case '÷':
		return lx.emit(TokenSlash, size), nil
	case '−':
		return lx.emit(TokenMinus, size), nil
	}
	return Token{}, syntaxErrorf(start, "unexpected character %q", r)
}

func (lx *lexer) emit(kind TokenKind, width int) Token {
	tok := Token{Kind: kind, Text: lx.input[lx.pos : lx.pos+width], Pos: lx.pos}
	lx.pos += width
	return tok
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.input) {
		switch lx.input[lx.pos] {
		case ' ', '\t':
			lx.pos++
		default:
			return
		}
	}
}

// number scans digits [ "." digits ] [ exponent ] or "." digits [ exponent ].
func (lx *lexer) number() (Token, error) {
	start := lx.pos
	isFloat := false

	lx.digits()
	if lx.peekByte(0) == '.' {
		isFloat = true
		lx.pos++
		lx.digits()
	}

	if c := lx.peekByte(0); c == 'e' || c == 'E' {
		mark := lx.pos
		lx.pos++
		if s := lx.peekByte(0); s == '+' || s == '-' {
			lx.pos++
		}
		if !isDigit(lx.peekByte(0)) {
			return Token{}, syntaxErrorf(mark, "malformed exponent")
		}
		lx.digits()
		isFloat = true
	}

	text := lx.input[start:lx.pos]

	// A number running straight into a letter or another dot ("1.2.3", "5x")
	// is not a valid literal.
	if c := lx.peekByte(0); c == '.' || isLetter(c) {
		return Token{}, syntaxErrorf(lx.pos, "invalid number literal %q", text+string(c))
	}

	if !isFloat && len(text) > 1 && text[0] == '0' && !allZeros(text) {
		return Token{}, syntaxErrorf(start, "leading zeros in integer literal %q", text)
	}

	return Token{Kind: TokenNumber, Text: text, Pos: start}, nil
}

func (lx *lexer) digits() {
	for isDigit(lx.peekByte(0)) {
		lx.pos++
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func allZeros(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}
