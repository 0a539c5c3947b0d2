// Package parser builds an expression tree from a token sequence by
// recursive descent.
package parser

import (
	"errors"
	"fmt"

	"go.creack.net/gocalc/ast"
	"go.creack.net/gocalc/lexer"
)

// Parse errors. Returned errors wrap one of these.
var (
	ErrUnmatchedParenthesis = errors.New("unmatched parenthesis")
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
)

// Parser reads a borrowed token sequence through a forward cursor. A Parser
// is meant for a single parse and is not safe for concurrent use.
type Parser struct {
	tokens  []lexer.Token
	current int
}

// New creates a parser over tokens. The slice is never modified.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses tokens as exactly one expression. Tokens left over after a
// complete expression are reported as ErrUnexpectedToken.
func Parse(tokens []lexer.Token) (ast.Expr, error) {
	p := New(tokens)
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.AtEnd() {
		return nil, fmt.Errorf("%w %s after expression", ErrUnexpectedToken, p.tokens[p.current])
	}
	return expr, nil
}

// ParseExpression parses one expression starting at the cursor. It does not
// require the whole sequence to be consumed; use AtEnd to check.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	return parseExpr(p)
}

// Pos returns the index of the next unconsumed token.
func (p *Parser) Pos() int {
	return p.current
}

// AtEnd reports whether every token has been consumed.
func (p *Parser) AtEnd() bool {
	return p.current >= len(p.tokens)
}

// peek returns the current token without advancing.
func (p *Parser) peek() (lexer.Token, error) {
	if p.AtEnd() {
		return lexer.Token{}, p.endOfInput()
	}
	return p.tokens[p.current], nil
}

// check reports whether the current token has one of the given types. It is
// false at the end of input.
func (p *Parser) check(tt ...lexer.TokenType) bool {
	tok, err := p.peek()
	return err == nil && tok.Type.IsOneOf(tt...)
}

// consume returns the current token and advances. At the end of input the
// cursor stays put and the last token is returned again.
func (p *Parser) consume() lexer.Token {
	if !p.AtEnd() {
		p.current++
		return p.tokens[p.current-1]
	}
	if len(p.tokens) == 0 {
		return lexer.Token{Type: lexer.TokEOF}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) endOfInput() error {
	if len(p.tokens) == 0 {
		return fmt.Errorf("%w: empty expression", ErrUnexpectedEndOfInput)
	}
	last := p.tokens[len(p.tokens)-1]
	return fmt.Errorf("%w after %s", ErrUnexpectedEndOfInput, last)
}
