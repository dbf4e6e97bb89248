package expr

import "strings"

// Node is a parsed expression.
type Node interface {
	Eval() (Number, error)
	String() string
}

// Literal is a number literal.
type Literal struct {
	Value Number
}

func (l *Literal) Eval() (Number, error) { return l.Value, nil }
func (l *Literal) String() string         { return l.Value.String() }

// Unary applies "+" or "-" to an operand.
type Unary struct {
	Op      TokenKind
	Operand Node
}

func (u *Unary) Eval() (Number, error) {
	v, err := u.Operand.Eval()
	if err != nil {
		return Number{}, err
	}
	if u.Op == TokenMinus {
		return neg(v), nil
	}
	return v, nil
}

func (u *Unary) String() string {
	return "(" + u.Op.String() + u.Operand.String() + ")"
}

// Binary applies an infix operator.
type Binary struct {
	Op          TokenKind
	Left, Right Node
}

func (b *Binary) Eval() (Number, error) {
	x, err := b.Left.Eval()
	if err != nil {
		return Number{}, err
	}
	y, err := b.Right.Eval()
	if err != nil {
		return Number{}, err
	}

	switch b.Op {
	case TokenPlus:
		return add(x, y)
	case TokenMinus:
		return sub(x, y)
	case TokenStar:
		return mul(x, y)
	case TokenSlash:
		return trueDiv(x, y)
	case TokenDoubleSlash:
		return floorDiv(x, y)
	case TokenPercent:
		return mod(x, y)
	case TokenPower:
		return pow(x, y)
	default:
		return Number{}, syntaxErrorf(0, "unknown operator %s", b.Op)
	}
}

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// Parse parses input into an expression tree.
//
// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "//" | "%") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "**" unary ]
//	primary = NUMBER | "(" expr ")"
func Parse(input string) (Node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmpty
	}

	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, syntaxErrorf(tok.Pos, "unexpected %s", describe(tok))
	}
	return node, nil
}

// Evaluate parses and evaluates input.
func Evaluate(input string) (Number, error) {
	node, err := Parse(input)
	if err != nil {
		return Number{}, err
	}
	return node.Eval()
}

// EvaluateString evaluates input and renders the result. Integer results
// longer than 4300 digits fail with ErrOverflow.
func EvaluateString(input string) (string, error) {
	n, err := Evaluate(input)
	if err != nil {
		return "", err
	}
	if !displayable(n) {
		return "", ErrOverflow
	}
	return n.String(), nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().Kind
		if op != TokenPlus && op != TokenMinus {
			return left, nil
		}
		p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().Kind
		switch op {
		case TokenStar, TokenSlash, TokenDoubleSlash, TokenPercent:
		default:
			return left, nil
		}
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) unary() (Node, error) {
	if op := p.peek().Kind; op == TokenPlus || op == TokenMinus {
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != TokenPower {
		return base, nil
	}
	p.advance()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: TokenPower, Left: base, Right: exp}, nil
}

func (p *parser) primary() (Node, error) {
	tok := p.advance()
	switch tok.Kind {
	case TokenNumber:
		n, err := parseNumber(tok)
		if err != nil {
			return nil, err
		}
		return &Literal{Value: n}, nil
	case TokenLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.Kind != TokenRParen {
			return nil, syntaxErrorf(closing.Pos, "expected ) but found %s", describe(closing))
		}
		return inner, nil
	default:
		return nil, syntaxErrorf(tok.Pos, "unexpected %s", describe(tok))
	}
}

func describe(tok Token) string {
	if tok.Kind == TokenNumber {
		return "number " + tok.Text
	}
	return tok.Kind.String()
}
