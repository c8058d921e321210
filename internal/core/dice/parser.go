package dice

import "strconv"

// Parse builds an expression tree from tokens produced by Tokenize.
//
// Precedence from loosest to tightest: '+' and '-', then '*' and '/', then
// unary minus, then dice terms with their modifiers. Parentheses override
// precedence. A 'd' without a leading count rolls one die and "d%" rolls a
// percentile die. Modifiers are kept in the order they were written.
//
// Parse fails with *ParseError on unbalanced parentheses, a modifier that does
// not follow a dice term, invalid dice counts or sides, a keep/drop count larger
// than the number of dice, and trailing tokens.
func Parse(tokens []Token) (Expr, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		end := 0
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Pos + 1
		}
		tokens = append(append([]Token(nil), tokens...), Token{Kind: TokenEOF, Pos: end})
	}

	p := &parser{tokens: tokens}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		if tok.Kind == TokenRParen {
			return nil, p.errorf(tok, "matching '('")
		}
		return nil, p.errorf(tok, "operator or end of input")
	}
	return expr, nil
}

// ParseNotation tokenizes and parses a notation string.
func ParseNotation(notation string) (Expr, error) {
	tokens, err := Tokenize(notation)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(found Token, expected string) *ParseError {
	return &ParseError{Pos: found.Pos, Expected: expected, Found: found.String()}
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		var op Operator
		switch tok.Kind {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right, Pos: tok.Pos}
	}
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		var op Operator
		switch tok.Kind {
		case TokenStar:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right, Pos: tok.Pos}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if tok := p.peek(); tok.Kind == TokenMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Negation{Operand: operand, Pos: tok.Pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	var expr Expr
	switch tok.Kind {
	case TokenNumber:
		p.next()
		if p.peek().Kind == TokenDie {
			return p.parseDice(tok.Value, tok)
		}
		expr = &Literal{Value: tok.Value, Pos: tok.Pos}
	case TokenDie:
		return p.parseDice(1, tok)
	case TokenLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.peek(); closing.Kind != TokenRParen {
			return nil, p.errorf(closing, "')'")
		}
		p.next()
		expr = &Grouping{Inner: inner, Pos: tok.Pos}
	default:
		if tok.isModifier() {
			return nil, p.errorf(tok, "dice term before modifier")
		}
		return nil, p.errorf(tok, "number, dice term or '('")
	}

	if after := p.peek(); after.isModifier() {
		return nil, p.errorf(after, "dice term before modifier")
	}
	return expr, nil
}

// parseDice parses "d" sides and the modifier suffixes. start is the token
// that began the term: the count literal or the 'd' itself.
func (p *parser) parseDice(count int, start Token) (Expr, error) {
	if count < 1 {
		return nil, p.errorf(start, "dice count of at least 1")
	}
	p.next() // 'd'

	sidesTok := p.next()
	var sides int
	switch sidesTok.Kind {
	case TokenNumber:
		sides = sidesTok.Value
	case TokenPercent:
		sides = 100
	default:
		return nil, p.errorf(sidesTok, "die sides")
	}
	if sides < 2 {
		return nil, p.errorf(sidesTok, "die with at least 2 sides")
	}

	term := &DiceTerm{Count: count, Sides: sides, Pos: start.Pos}
	for {
		mod, ok, err := p.parseModifier(term)
		if err != nil {
			return nil, err
		}
		if !ok {
			return term, nil
		}
		term.Modifiers = append(term.Modifiers, mod)
	}
}

// parseModifier consumes one modifier suffix. It reports false when the next
// token does not start a modifier.
func (p *parser) parseModifier(term *DiceTerm) (Modifier, bool, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenKeep:
		p.next()
		high := true
		switch p.peek().Kind {
		case TokenHigh:
			p.next()
		case TokenLow:
			p.next()
			high = false
		}
		n, err := p.parseSelectCount(term)
		if err != nil {
			return nil, false, err
		}
		if high {
			return KeepHighest{N: n}, true, nil
		}
		return KeepLowest{N: n}, true, nil

	case TokenDie:
		dir := p.peekAt(1).Kind
		if dir != TokenHigh && dir != TokenLow {
			return nil, false, nil
		}
		p.next()
		p.next()
		n, err := p.parseSelectCount(term)
		if err != nil {
			return nil, false, err
		}
		if dir == TokenHigh {
			return DropHighest{N: n}, true, nil
		}
		return DropLowest{N: n}, true, nil

	case TokenExplode:
		p.next()
		if cmp := p.peek(); cmp.Kind == TokenLess {
			return nil, false, p.errorf(cmp, "'>' or explode threshold")
		}
		threshold, err := p.parseThreshold(TokenGreater, term.Sides)
		if err != nil {
			return nil, false, err
		}
		return Explode{Threshold: threshold, MaxIterations: DefaultMaxIterations}, true, nil

	case TokenReroll:
		p.next()
		if cmp := p.peek(); cmp.Kind == TokenGreater {
			return nil, false, p.errorf(cmp, "'<' or reroll threshold")
		}
		threshold, err := p.parseThreshold(TokenLess, 1)
		if err != nil {
			return nil, false, err
		}
		return Reroll{Threshold: threshold, MaxRerolls: DefaultMaxIterations}, true, nil

	case TokenHigh, TokenLow, TokenGreater, TokenLess:
		return nil, false, p.errorf(tok, "modifier")
	}
	return nil, false, nil
}

// parseSelectCount reads the optional count of a keep/drop modifier.
func (p *parser) parseSelectCount(term *DiceTerm) (int, error) {
	tok := p.peek()
	if tok.Kind != TokenNumber {
		return 1, nil
	}
	p.next()
	if tok.Value > term.Count {
		return 0, &ParseError{
			Pos:      tok.Pos,
			Expected: "keep/drop count of at most " + strconv.Itoa(term.Count),
			Found:    tok.String(),
		}
	}
	return tok.Value, nil
}

// parseThreshold reads an optional comparator followed by a number. A
// comparator must be followed by a number.
func (p *parser) parseThreshold(comparator TokenKind, fallback int) (int, error) {
	if p.peek().Kind == comparator {
		p.next()
		tok := p.next()
		if tok.Kind != TokenNumber {
			return 0, p.errorf(tok, "threshold number")
		}
		return tok.Value, nil
	}
	if tok := p.peek(); tok.Kind == TokenNumber {
		p.next()
		return tok.Value, nil
	}
	return fallback, nil
}
