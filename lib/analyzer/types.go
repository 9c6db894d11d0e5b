package analyzer

import (
	"fmt"

	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/token"
)

// conversion describes how a value of one type reaches a slot of another.
type conversion int

const (
	incompatible conversion = iota
	exact
	implicit // inteiro <-> decimal
)

func convert(target, value ast.DataType) conversion {
	switch {
	case target == value && target != ast.Void:
		return exact
	case target.IsNumeric() && value.IsNumeric():
		return implicit
	default:
		return incompatible
	}
}

// binaryType applies the operator rules to already-typed operands. It
// returns the result type, or an error message when the combination is
// illegal.
func binaryType(op token.Kind, left, right ast.DataType) (ast.DataType, string) {
	switch {
	case op.IsArithmetic():
		if left == ast.Texto || right == ast.Texto {
			return ast.Void, fmt.Sprintf("operator %s cannot be applied to texto", opText(op))
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			return ast.Void, fmt.Sprintf("operator %s needs numeric operands, found %s and %s", opText(op), left, right)
		}
		if left == ast.Decimal || right == ast.Decimal {
			return ast.Decimal, ""
		}
		return ast.Inteiro, ""

	case op.IsRelational():
		if left == ast.Texto || right == ast.Texto {
			if left == ast.Texto && right == ast.Texto && (op == token.Eq || op == token.NotEq) {
				return ast.Inteiro, ""
			}
			return ast.Void, fmt.Sprintf("operator %s cannot compare %s with %s", opText(op), left, right)
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			return ast.Void, fmt.Sprintf("operator %s needs numeric operands, found %s and %s", opText(op), left, right)
		}
		return ast.Inteiro, ""

	case op.IsLogical():
		if left != ast.Inteiro || right != ast.Inteiro {
			return ast.Void, fmt.Sprintf("operator %s requires inteiro operands, found %s and %s", opText(op), left, right)
		}
		return ast.Inteiro, ""
	}
	return ast.Void, fmt.Sprintf("unknown operator %s", op)
}

var opTexts = map[token.Kind]string{
	token.Plus:  "+",
	token.Minus: "-",
	token.Star:  "*",
	token.Slash: "/",
	token.Caret: "^",
	token.Eq:    "==",
	token.NotEq: "<>",
	token.Lt:    "<",
	token.LtEq:  "<=",
	token.Gt:    ">",
	token.GtEq:  ">=",
	token.And:   "&&",
	token.Or:    "||",
}

func opText(op token.Kind) string {
	if s, ok := opTexts[op]; ok {
		return s
	}
	return op.String()
}
