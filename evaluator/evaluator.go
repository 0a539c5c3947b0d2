// Package evaluator computes the value of an expression tree.
package evaluator

import (
	"fmt"

	"go.creack.net/gocalc/ast"
)

// Evaluate returns the value of expr. Division follows IEEE-754: dividing by
// zero yields ±Inf or NaN rather than an error.
//
// Evaluate panics on a malformed tree (nil child, unknown operator or node
// type). The parser never builds one.
func Evaluate(expr ast.Expr) float64 {
	switch e := expr.(type) {
	case *ast.NumberExpr:
		return e.Value
	case ast.NumberExpr:
		return e.Value
	case *ast.BinaryExpr:
		return evaluateBinaryExpr(e)
	case ast.BinaryExpr:
		return evaluateBinaryExpr(&e)
	default:
		panic(fmt.Errorf("unsupported expression type %T", expr))
	}
}

func evaluateBinaryExpr(b *ast.BinaryExpr) float64 {
	if b.Left == nil || b.Right == nil {
		panic(fmt.Errorf("malformed expression %s: missing operand", b.Dump()))
	}
	// Left before right.
	left := Evaluate(b.Left)
	right := Evaluate(b.Right)

	switch b.Operator {
	case ast.OpAdd:
		return left + right
	case ast.OpSub:
		return left - right
	case ast.OpMul:
		return left * right
	case ast.OpDiv:
		return left / right
	default:
		panic(fmt.Errorf("unsupported operator %q", byte(b.Operator)))
	}
}
