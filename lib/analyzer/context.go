package analyzer

import (
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
	"github.com/vyPal/Cafezinho/lib/symtab"
)

// Context carries the state of pass 2: the shared table, the session and
// the function whose body is being checked.
type Context struct {
	table *symtab.Table
	sess  *diag.Session
	fn    *ast.FunctionDef
}

func NewContext(table *symtab.Table, sess *diag.Session) *Context {
	return &Context{table: table, sess: sess}
}

func (c *Context) declareParam(p ast.Param) {
	sym := c.table.Insert(p.Name, p.Type)
	if sym == nil {
		c.sess.Errorf(diag.Semantic, p.Tok.Pos, "parameter %s already declared", p.Name)
		return
	}
	sym.IsParam = true
	sym.Initialized = true
	sym.Info = p.Info
	sym.Line = p.Tok.Pos.Line
}

func (c *Context) declareVariable(decl *ast.VarDecl) {
	sym := c.table.Insert(decl.Name, decl.Type)
	if sym == nil {
		c.sess.Errorf(diag.Semantic, decl.Tok.Pos, "variable %s already declared in this scope", decl.Name)
		return
	}
	sym.Line = decl.Tok.Pos.Line
	sym.Initialized = decl.Init != nil
	if decl.Dims != nil {
		sym.Info = *decl.Dims
	}
}

// lookupVariable resolves an identifier, reporting it when undeclared.
func (c *Context) lookupVariable(id *ast.Identifier) (*symtab.Symbol, bool) {
	sym := c.table.Lookup(id.Name)
	if sym == nil || sym.IsFunction {
		c.sess.Errorf(diag.Semantic, id.Tok.Pos, "variable %s not declared", id.Name)
		return nil, false
	}
	return sym, true
}

func (c *Context) lookupFunction(call *ast.Call) (*symtab.Symbol, bool) {
	sym := c.table.Lookup(call.Name)
	if sym == nil || !sym.IsFunction {
		c.sess.Errorf(diag.Semantic, call.Tok.Pos, "function %s not declared", call.Name)
		return nil, false
	}
	return sym, true
}
