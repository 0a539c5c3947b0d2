// Package ast defines the expression tree produced by the parser.
//
// The tree follows the grammar:
//
//	Expression := Term
//	Term       := Factor ( ('+' | '-') Factor )*
//	Factor     := Primary ( ('*' | '/') Primary )*
//	Primary    := '(' Expression ')' | Number
package ast

import "fmt"

// Expr is a node of the expression tree. The set of implementations is closed:
// *NumberExpr and *BinaryExpr.
type Expr interface {
	Dump() string
	expr()
}

// Operator is one of the four arithmetic operators.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

func (o Operator) String() string { return string(rune(o)) }

// Valid reports whether o is one of the four known operators.
func (o Operator) Valid() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// ParseOperator returns the operator spelled by s.
func ParseOperator(s string) (Operator, bool) {
	if len(s) != 1 {
		return 0, false
	}
	o := Operator(s[0])
	return o, o.Valid()
}

type NumberExpr struct {
	Value float64
}

func (NumberExpr) expr() {}

func (n NumberExpr) Dump() string {
	return fmt.Sprintf("(%g)", n.Value)
}

// BinaryExpr applies Operator to Left and Right. Both children are owned
// exclusively by the node.
type BinaryExpr struct {
	Left     Expr
	Operator Operator
	Right    Expr
}

func (BinaryExpr) expr() {}

func (b BinaryExpr) Dump() string {
	return fmt.Sprintf("[%s %s %s]", dumpOrNull(b.Left), b.Operator, dumpOrNull(b.Right))
}

func dumpOrNull(e Expr) string {
	if e == nil {
		return "NULL"
	}
	return e.Dump()
}
