package dice

import "math"

// Tokenize converts a dice notation into tokens.
//
// Whitespace is skipped. Letter tags are case-insensitive. The returned slice
// always ends with a TokenEOF positioned at len(input).
//
// Tokenize fails with *LexError on a character outside the notation alphabet,
// on a number with a leading zero run (e.g. "007"), or on a number that does
// not fit in 32 unsigned bits.
func Tokenize(input string) ([]Token, error) {
	tokens := make([]Token, 0, len(input)+1)

	for pos := 0; pos < len(input); {
		ch := input[pos]

		if isSpace(ch) {
			pos++
			continue
		}

		if isDigit(ch) {
			value, next, err := scanNumber(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Value: value, Pos: pos})
			pos = next
			continue
		}

		kind, ok := singleCharTokens[lower(ch)]
		if !ok {
			return nil, &LexError{Pos: pos, Char: decodeRune(input, pos)}
		}
		tokens = append(tokens, Token{Kind: kind, Pos: pos})
		pos++
	}

	return append(tokens, Token{Kind: TokenEOF, Pos: len(input)}), nil
}

var singleCharTokens = map[byte]TokenKind{
	'd': TokenDie,
	'%': TokenPercent,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'(': TokenLParen,
	')': TokenRParen,
	'k': TokenKeep,
	'h': TokenHigh,
	'l': TokenLow,
	'!': TokenExplode,
	'x': TokenExplode,
	'e': TokenExplode,
	'r': TokenReroll,
	'>': TokenGreater,
	'<': TokenLess,
}

// scanNumber reads the digit run starting at pos.
func scanNumber(input string, pos int) (int, int, error) {
	end := pos
	for end < len(input) && isDigit(input[end]) {
		end++
	}

	digits := input[pos:end]
	if len(digits) > 1 && digits[0] == '0' {
		return 0, pos, &LexError{Pos: pos, Char: '0', Number: digits}
	}

	var value int64
	for i := 0; i < len(digits); i++ {
		value = value*10 + int64(digits[i]-'0')
		if value > math.MaxUint32 {
			return 0, pos, &LexError{Pos: pos, Char: rune(digits[0]), Number: digits}
		}
	}
	return int(value), end, nil
}

func decodeRune(input string, pos int) rune {
	for _, r := range input[pos:] {
		return r
	}
	return 0
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func lower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
