package parser

import (
	"fmt"
	"strconv"

	"go.creack.net/gocalc/ast"
	"go.creack.net/gocalc/lexer"
)

// parseExpr : term.
func parseExpr(p *Parser) (ast.Expr, error) {
	return parseTerm(p)
}

// parseTerm : factor (('+' | '-') factor)*.
func parseTerm(p *Parser) (ast.Expr, error) {
	return parseBinaryExpr(p, lexer.TokAdditive, parseFactor)
}

// parseFactor : primary (('*' | '/') primary)*.
func parseFactor(p *Parser) (ast.Expr, error) {
	return parseBinaryExpr(p, lexer.TokMultiplicative, parsePrimaryExpr)
}

// parseBinaryExpr folds operands separated by operators of the given class
// into a left-associative tree.
func parseBinaryExpr(p *Parser, opType lexer.TokenType, operand func(*Parser) (ast.Expr, error)) (ast.Expr, error) {
	left, err := operand(p)
	if err != nil {
		return nil, err
	}

	for p.check(opType) {
		tok := p.consume()
		operator, ok := ast.ParseOperator(tok.Value)
		if !ok {
			return nil, fmt.Errorf("%w %s", ErrUnexpectedToken, tok)
		}
		right, err := operand(p)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			Left:     left,
			Operator: operator,
			Right:    right,
		}
	}

	return left, nil
}

// parsePrimaryExpr : '(' expr ')' | NUMBER.
func parsePrimaryExpr(p *Parser) (ast.Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Type == lexer.TokNumber:
		p.consume()
		number, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil || !lexer.IsNumber(tok.Value) {
			return nil, fmt.Errorf("%w %q at offset %d", lexer.ErrInvalidNumber, tok.Value, tok.Pos)
		}
		return &ast.NumberExpr{
			Value: number,
		}, nil
	case tok.Is(lexer.TokGrouping, "("):
		return parseGroupingExpr(p)
	default:
		return nil, fmt.Errorf("%w %s", ErrUnexpectedToken, tok)
	}
}

func parseGroupingExpr(p *Parser) (ast.Expr, error) {
	open := p.consume()

	// Recurse back to the lowest precedence for the inner subtree.
	inner, err := parseExpr(p)
	if err != nil {
		return nil, err
	}

	if closing, err := p.peek(); err != nil || !closing.Is(lexer.TokGrouping, ")") {
		return nil, fmt.Errorf("%w opened at offset %d", ErrUnmatchedParenthesis, open.Pos)
	}
	p.consume()

	return inner, nil
}
