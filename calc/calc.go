// Package calc chains the lexer, parser and evaluator: one line of text in,
// one float64 or one error out. Every call is independent and the package
// holds no state, so it is safe for concurrent use.
package calc

import (
	"errors"
	"fmt"

	"go.creack.net/gocalc/ast"
	"go.creack.net/gocalc/evaluator"
	"go.creack.net/gocalc/lexer"
	"go.creack.net/gocalc/parser"
)

// Error kinds reported by Kind.
const (
	KindInvalidNumber        = "invalid_number"
	KindUnmatchedParenthesis = "unmatched_parenthesis"
	KindUnexpectedToken      = "unexpected_token"
	KindUnexpectedEndOfInput = "unexpected_end_of_input"
	KindUnknown              = "unknown"
)

// Tokenize runs the lexer stage. Errors are prefixed with "tokenize: ".
func Tokenize(line string) ([]lexer.Token, error) {
	tokens, err := lexer.Tokenize(line)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return tokens, nil
}

// Parse runs the parser stage. In strict mode the tokens must form exactly
// one expression; otherwise tokens left over after the first complete
// expression are ignored. Errors are prefixed with "parse: ".
func Parse(tokens []lexer.Token, strict bool) (ast.Expr, error) {
	var expr ast.Expr
	var err error
	if strict {
		expr, err = parser.Parse(tokens)
	} else {
		expr, err = parser.New(tokens).ParseExpression()
	}
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return expr, nil
}

// Compile tokenizes and parses line. The whole line must form one expression.
func Compile(line string) (ast.Expr, error) {
	return compile(line, true)
}

// CompileLenient is like Compile but ignores tokens left over after the first
// complete expression.
func CompileLenient(line string) (ast.Expr, error) {
	return compile(line, false)
}

func compile(line string, strict bool) (ast.Expr, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, strict)
}

// Eval compiles and evaluates line.
func Eval(line string) (float64, error) {
	expr, err := Compile(line)
	if err != nil {
		return 0, err
	}
	return evaluator.Evaluate(expr), nil
}

// Kind returns a stable label for the kind of err, or "" for nil.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, lexer.ErrInvalidNumber):
		return KindInvalidNumber
	case errors.Is(err, parser.ErrUnmatchedParenthesis):
		return KindUnmatchedParenthesis
	case errors.Is(err, parser.ErrUnexpectedToken):
		return KindUnexpectedToken
	case errors.Is(err, parser.ErrUnexpectedEndOfInput):
		return KindUnexpectedEndOfInput
	default:
		return KindUnknown
	}
}
