package analyzer

import (
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
)

// typeOf returns the static type of an expression. ok is false when an
// error was reported somewhere inside it; callers then skip their own
// checks so one mistake yields one diagnostic.
func (c *Context) typeOf(expr ast.Node) (ast.DataType, bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value.Type, true

	case *ast.Identifier:
		sym, ok := c.lookupVariable(e)
		if !ok {
			return ast.Void, false
		}
		if !sym.Initialized {
			c.sess.Warnf(diag.Semantic, e.Tok.Pos, "variable %s may be used before it is initialized", e.Name)
		}
		return sym.Type, true

	case *ast.BinaryOp:
		left, lok := c.typeOf(e.Left)
		right, rok := c.typeOf(e.Right)
		if !lok || !rok {
			return ast.Void, false
		}
		result, msg := binaryType(e.Op, left, right)
		if msg != "" {
			c.sess.Errorf(diag.Semantic, e.Tok.Pos, "%s", msg)
			return ast.Void, false
		}
		if left.IsNumeric() && right.IsNumeric() && left != right {
			c.sess.Warnf(diag.Semantic, e.Tok.Pos, "implicit conversion from inteiro to decimal in %s expression", opText(e.Op))
		}
		return result, true

	case *ast.Call:
		return c.analyzeCall(e)
	}

	c.sess.Errorf(diag.Semantic, expr.Token().Pos, "%s is not an expression", expr.Kind())
	return ast.Void, false
}

// analyzeCall checks builtin and user calls alike and returns the type of
// the call's value.
func (c *Context) analyzeCall(call *ast.Call) (ast.DataType, bool) {
	switch call.Builtin {
	case ast.Write:
		ok := true
		for _, arg := range call.Args {
			t, argOK := c.typeOf(arg)
			if argOK && t == ast.Void {
				c.sess.Errorf(diag.Semantic, arg.Token().Pos, "escreva cannot print a value of type vazio")
				argOK = false
			}
			ok = ok && argOK
		}
		return ast.Void, ok

	case ast.Read:
		ok := true
		for _, arg := range call.Args {
			id, isID := arg.(*ast.Identifier)
			if !isID {
				c.sess.Errorf(diag.Semantic, arg.Token().Pos, "leia expects a variable, found %s", arg.Kind())
				ok = false
				continue
			}
			sym, found := c.lookupVariable(id)
			if !found {
				ok = false
				continue
			}
			sym.Initialized = true
		}
		return ast.Void, ok
	}

	sym, found := c.lookupFunction(call)
	if !found {
		return ast.Void, false
	}
	if len(call.Args) != len(sym.Params) {
		c.sess.Errorf(diag.Semantic, call.Tok.Pos, "function %s expects %d arguments, got %d", call.Name, len(sym.Params), len(call.Args))
		return ast.Void, false
	}
	ok := true
	for i, arg := range call.Args {
		t, argOK := c.typeOf(arg)
		if !argOK {
			ok = false
			continue
		}
		if !c.checkConversion(sym.Params[i].Type, t, arg.Token().Pos, describeArg(i, call.Name)) {
			ok = false
		}
	}
	return sym.Type, ok
}
