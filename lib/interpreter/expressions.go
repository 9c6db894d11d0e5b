package interpreter

import (
	"math"
	"strings"

	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/token"
)

func (in *Interpreter) evaluate(e ast.Node) ast.Value {
	if in.failed {
		return ast.Value{}
	}
	switch e := e.(type) {
	case *ast.Literal:
		return e.Value
	case *ast.Identifier:
		v := in.lookupVariable(e.Name)
		if v == nil {
			in.runtimeError(e.Tok, "variable %s not declared", e.Name)
			return ast.Value{}
		}
		return v.value
	case *ast.BinaryOp:
		return in.evaluateBinary(e)
	case *ast.Call:
		if e.Builtin == ast.UserFunction {
			in.runtimeError(e.Tok, "function calls are not supported: %s", e.Name)
			return ast.Value{}
		}
		in.execCall(e)
		return ast.Value{}
	default:
		in.runtimeError(e.Token(), "cannot evaluate %s", e.Kind())
		return ast.Value{}
	}
}

// evaluateBinary always evaluates both operands, so && and || do not
// short-circuit.
func (in *Interpreter) evaluateBinary(e *ast.BinaryOp) ast.Value {
	l := in.evaluate(e.Left)
	r := in.evaluate(e.Right)
	if in.failed {
		return ast.Value{}
	}

	switch {
	case e.Op.IsArithmetic():
		return in.arithmetic(e, l, r)
	case e.Op.IsRelational():
		return in.compare(e, l, r)
	case e.Op.IsLogical():
		if e.Op == token.And {
			return boolValue(truthy(l) && truthy(r))
		}
		return boolValue(truthy(l) || truthy(r))
	}
	in.runtimeError(e.Tok, "unknown operator %s", e.Tok.Text)
	return ast.Value{}
}

func (in *Interpreter) arithmetic(e *ast.BinaryOp, l, r ast.Value) ast.Value {
	if l.Type == ast.Texto || r.Type == ast.Texto {
		in.runtimeError(e.Tok, "operator %s cannot be applied to texto", e.Tok.Text)
		return ast.Value{}
	}

	if l.Type == ast.Decimal || r.Type == ast.Decimal {
		a, b := l.Float(), r.Float()
		switch e.Op {
		case token.Plus:
			return ast.DecValue(a + b)
		case token.Minus:
			return ast.DecValue(a - b)
		case token.Star:
			return ast.DecValue(a * b)
		case token.Slash:
			if b == 0 {
				in.runtimeError(e.Tok, "division by zero")
				return ast.Value{}
			}
			return ast.DecValue(a / b)
		default:
			return ast.DecValue(math.Pow(a, b))
		}
	}

	a, b := l.Int, r.Int
	switch e.Op {
	case token.Plus:
		return ast.IntValue(a + b)
	case token.Minus:
		return ast.IntValue(a - b)
	case token.Star:
		return ast.IntValue(a * b)
	case token.Slash:
		if b == 0 {
			in.runtimeError(e.Tok, "division by zero")
			return ast.Value{}
		}
		return ast.IntValue(a / b)
	default:
		return ast.IntValue(int64(math.Pow(float64(a), float64(b))))
	}
}

func (in *Interpreter) compare(e *ast.BinaryOp, l, r ast.Value) ast.Value {
	lt, rt := l.Type == ast.Texto, r.Type == ast.Texto
	if lt != rt {
		in.runtimeError(e.Tok, "operator %s cannot compare %s with %s", e.Tok.Text, l.Type, r.Type)
		return ast.Value{}
	}
	if lt {
		switch e.Op {
		case token.Eq:
			return boolValue(l.Text == r.Text)
		case token.NotEq:
			return boolValue(l.Text != r.Text)
		}
		in.runtimeError(e.Tok, "operator %s cannot compare texto with texto", e.Tok.Text)
		return ast.Value{}
	}

	a, b := l.Float(), r.Float()
	switch e.Op {
	case token.Eq:
		return boolValue(a == b)
	case token.NotEq:
		return boolValue(a != b)
	case token.Lt:
		return boolValue(a < b)
	case token.LtEq:
		return boolValue(a <= b)
	case token.Gt:
		return boolValue(a > b)
	default:
		return boolValue(a >= b)
	}
}

func boolValue(b bool) ast.Value {
	if b {
		return ast.IntValue(1)
	}
	return ast.IntValue(0)
}

// truthy treats nonzero numbers and non-empty texto as true. An
// uninitialized value is false.
func truthy(v ast.Value) bool {
	if !v.Valid {
		return false
	}
	switch v.Type {
	case ast.Inteiro:
		return v.Int != 0
	case ast.Decimal:
		return v.Dec != 0
	case ast.Texto:
		return v.Text != ""
	}
	return false
}

// coerce converts v for storage in a variable of type typ. Decimals
// stored in an inteiro are truncated toward zero.
func coerce(v ast.Value, typ ast.DataType) (ast.Value, bool) {
	if v.Type == typ {
		return v, true
	}
	if !v.Type.IsNumeric() || !typ.IsNumeric() {
		return ast.Value{}, false
	}
	out := ast.Value{Type: typ, Valid: v.Valid}
	if typ == ast.Inteiro {
		out.Int = int64(v.Dec)
	} else {
		out.Dec = float64(v.Int)
	}
	return out, true
}

// clip cuts a texto value down to its declared size.
func clip(v ast.Value, dims *ast.TypeInfo) ast.Value {
	if v.Type != ast.Texto || dims == nil || dims.Size <= 0 || len(v.Text) <= dims.Size {
		return v
	}
	v.Text = strings.ToValidUTF8(v.Text[:dims.Size], "")
	return v
}

// storageSize is the number of bytes charged to the allocator for a
// variable. Numbers take a fixed 8 bytes. An annotated texto is charged
// its declared size, otherwise its length plus a terminator.
func storageSize(typ ast.DataType, dims *ast.TypeInfo, v ast.Value) int {
	if typ != ast.Texto {
		return 8
	}
	if dims != nil && dims.Size > 0 {
		return dims.Size
	}
	return len(v.Text) + 1
}
