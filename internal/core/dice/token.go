package dice

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenDie
	TokenPercent
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLParen
	TokenRParen
	TokenKeep
	TokenHigh
	TokenLow
	TokenExplode
	TokenReroll
	TokenGreater
	TokenLess
)

var tokenNames = map[TokenKind]string{
	TokenEOF:     "end of input",
	TokenNumber:  "number",
	TokenDie:     "'d'",
	TokenPercent: "'%'",
	TokenPlus:    "'+'",
	TokenMinus:   "'-'",
	TokenStar:    "'*'",
	TokenSlash:   "'/'",
	TokenLParen:  "'('",
	TokenRParen:  "')'",
	TokenKeep:    "'k'",
	TokenHigh:    "'h'",
	TokenLow:     "'l'",
	TokenExplode: "'!'",
	TokenReroll:  "'r'",
	TokenGreater: "'>'",
	TokenLess:    "'<'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit of a dice notation.
type Token struct {
	Kind TokenKind
	// Value holds the parsed literal for TokenNumber.
	Value int
	// Pos is the zero-based byte offset of the token in the input.
	Pos int
}

func (t Token) String() string {
	if t.Kind == TokenNumber {
		return fmt.Sprintf("number %d", t.Value)
	}
	return t.Kind.String()
}

// isModifier reports whether the token can only start a dice modifier.
func (t Token) isModifier() bool {
	switch t.Kind {
	case TokenKeep, TokenHigh, TokenLow, TokenExplode, TokenReroll, TokenGreater, TokenLess:
		return true
	default:
		return false
	}
}
