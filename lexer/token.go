package lexer

import (
	"fmt"
	"slices"
)

// TokenType is the type of token.
type TokenType int

// Token types as constants.
const (
	TokError TokenType = iota
	TokEOF

	// Literals.
	TokNumber

	// Operators.
	TokAdditive       // '+' or '-'.
	TokMultiplicative // '*' or '/'.

	// Delimiters.
	TokGrouping // '(' or ')'.

	// End of tokens.
	FinalToken
)

// String returns the string representation of the token type.
func (tt TokenType) String() string {
	if s, ok := tokenTypeStrings[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Map of token types to their string representation for debugging.
var tokenTypeStrings = map[TokenType]string{
	TokError: "ERROR",
	TokEOF:   "EOF",

	TokNumber: "NUMBER",

	TokAdditive:       "ADDITIVE",
	TokMultiplicative: "MULTIPLICATIVE",

	TokGrouping: "GROUPING",
}

func (tt TokenType) IsOneOf(t ...TokenType) bool {
	return slices.Contains(t, tt)
}

// Token represents a lexical token of an arithmetic expression.
type Token struct {
	Type  TokenType
	Value string

	Pos int // Byte offset of the first character in the input.
}

// Is reports whether the token has the given type and text.
func (t Token) Is(tt TokenType, value string) bool {
	return t.Type == tt && t.Value == value
}

func (t Token) String() string {
	switch {
	case t.Type == TokEOF:
		return "EOF"
	case t.Type == TokError:
		return t.errorString()
	case len(t.Value) > 16:
		return fmt.Sprintf("%s[%d]: %.16q", t.Type, t.Pos, t.Value)
	}
	return fmt.Sprintf("%s[%d]: %q", t.Type, t.Pos, t.Value)
}

func (t Token) errorString() string {
	return fmt.Sprintf("ERROR [%d]: %s", t.Pos, t.Value)
}
