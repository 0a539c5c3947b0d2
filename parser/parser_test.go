package parser

import (
	"slices"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/gocalc/ast"
	"go.creack.net/gocalc/lexer"
)

func num(v float64) ast.Expr { return &ast.NumberExpr{Value: v} }

func bin(l ast.Expr, op ast.Operator, r ast.Expr) ast.Expr {
	return &ast.BinaryExpr{Left: l, Operator: op, Right: r}
}

func tokenize(t *testing.T, input string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	require.NoError(t, err, "tokenize %q", input)
	return tokens
}

func TestParser(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Expr
	}{
		{name: "number", input: "42", want: num(42)},
		{name: "grouped number", input: "((7))", want: num(7)},
		{name: "add", input: "1+2", want: bin(num(1), ast.OpAdd, num(2))},
		{name: "precedence", input: "2+3*4", want: bin(num(2), ast.OpAdd, bin(num(3), ast.OpMul, num(4)))},
		{name: "grouping", input: "(2+3)*4", want: bin(bin(num(2), ast.OpAdd, num(3)), ast.OpMul, num(4))},
		{name: "left assoc sub", input: "10-2-3", want: bin(bin(num(10), ast.OpSub, num(2)), ast.OpSub, num(3))},
		{name: "left assoc div", input: "8/4/2", want: bin(bin(num(8), ast.OpDiv, num(4)), ast.OpDiv, num(2))},
		{name: "mixed", input: "1 - 2 * 3 / 4 + 5", want: bin(
			bin(num(1), ast.OpSub, bin(bin(num(2), ast.OpMul, num(3)), ast.OpDiv, num(4))),
			ast.OpAdd,
			num(5),
		)},
		{name: "nested", input: "2*(3-(4+5))", want: bin(num(2), ast.OpMul, bin(num(3), ast.OpSub, bin(num(4), ast.OpAdd, num(5))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tokenize(t, tt.input))
			require.NoError(t, err)
			if diff := pretty.Diff(tt.want, got); len(diff) > 0 {
				t.Fatalf("unexpected tree for %q:\n%s", tt.input, pretty.Sprint(diff))
			}
		})
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input string
		err   error
	}{
		{input: "", err: ErrUnexpectedEndOfInput},
		{input: "   ", err: ErrUnexpectedEndOfInput},
		{input: "1+", err: ErrUnexpectedEndOfInput},
		{input: "2*(3", err: ErrUnmatchedParenthesis},
		{input: "(1+2", err: ErrUnmatchedParenthesis},
		{input: "(1 2", err: ErrUnmatchedParenthesis},
		{input: "(1+2(", err: ErrUnmatchedParenthesis},
		{input: "(", err: ErrUnexpectedEndOfInput},
		{input: "()", err: ErrUnexpectedToken},
		{input: "+1", err: ErrUnexpectedToken},
		{input: "-1", err: ErrUnexpectedToken},
		{input: ")", err: ErrUnexpectedToken},
		{input: "1*/2", err: ErrUnexpectedToken},
		{input: "1+2)", err: ErrUnexpectedToken},
		{input: "(1)2", err: ErrUnexpectedToken},
		{input: "(1)(2)", err: ErrUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tokenize(t, tt.input))
			require.ErrorIs(t, err, tt.err)
			assert.Nil(t, expr)
		})
	}
}

func TestParseExpressionLenient(t *testing.T) {
	tokens := tokenize(t, "1+2)")
	p := New(tokens)

	expr, err := p.ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, "[(1) + (2)]", expr.Dump())
	assert.False(t, p.AtEnd())
	assert.Equal(t, 3, p.Pos())

	p = New(tokenize(t, "(1)(2)"))
	expr, err = p.ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, "(1)", expr.Dump())
	assert.Equal(t, 3, p.Pos())
}

func TestParserDoesNotMutateTokens(t *testing.T) {
	tokens := tokenize(t, "(1+2)*3-4/5")
	orig := slices.Clone(tokens)

	_, err := Parse(tokens)
	require.NoError(t, err)
	assert.Equal(t, orig, tokens)
}

func TestParserInvalidNumberToken(t *testing.T) {
	// Hand-built sequences bypass the lexer's validation.
	_, err := Parse([]lexer.Token{{Type: lexer.TokNumber, Value: "1..2"}})
	require.ErrorIs(t, err, lexer.ErrInvalidNumber)
}

func TestParserUnknownOperatorToken(t *testing.T) {
	_, err := Parse([]lexer.Token{
		{Type: lexer.TokNumber, Value: "1"},
		{Type: lexer.TokAdditive, Value: "%"},
		{Type: lexer.TokNumber, Value: "2"},
	})
	require.ErrorIs(t, err, ErrUnexpectedToken)
}

func TestConsumeAtEnd(t *testing.T) {
	p := New(tokenize(t, "1"))
	assert.Equal(t, "1", p.consume().Value)
	assert.True(t, p.AtEnd())
	assert.Equal(t, "1", p.consume().Value)
	assert.Equal(t, 1, p.Pos())

	p = New(nil)
	assert.Equal(t, lexer.TokEOF, p.consume().Type)
	assert.Equal(t, 0, p.Pos())
}

func TestCheck(t *testing.T) {
	p := New(tokenize(t, "(1"))
	assert.True(t, p.check(lexer.TokGrouping))
	assert.True(t, p.check(lexer.TokNumber, lexer.TokGrouping))
	assert.False(t, p.check(lexer.TokAdditive, lexer.TokMultiplicative))
	assert.False(t, p.check())

	p.consume()
	p.consume()
	assert.False(t, p.check(lexer.TokNumber, lexer.TokGrouping))
}

func TestErrorMessages(t *testing.T) {
	_, err := Parse(tokenize(t, "(1+2"))
	require.EqualError(t, err, "unmatched parenthesis opened at offset 0")

	_, err = Parse(tokenize(t, "1+2)"))
	require.EqualError(t, err, `unexpected token GROUPING[3]: ")" after expression`)

	_, err = Parse(tokenize(t, "1*"))
	require.EqualError(t, err, `unexpected end of input after MULTIPLICATIVE[1]: "*"`)

	_, err = Parse(nil)
	require.EqualError(t, err, "unexpected end of input: empty expression")
}
