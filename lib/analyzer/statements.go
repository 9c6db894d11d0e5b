package analyzer

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
)

func (c *Context) analyzeBlock(b *ast.Block) {
	c.table.EnterScope()
	defer c.table.ExitScope()

	for _, stmt := range b.Statements {
		c.analyzeStatement(stmt)
	}
}

func (c *Context) analyzeStatement(stmt ast.Node) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		c.analyzeVarDecl(s)
	case *ast.Assignment:
		c.analyzeAssignment(s)
	case *ast.If:
		c.analyzeIf(s)
	case *ast.While:
		c.analyzeCondition(s.Cond, "enquanto")
		c.analyzeBlock(s.Body)
	case *ast.For:
		c.analyzeFor(s)
	case *ast.Return:
		c.analyzeReturn(s)
	case *ast.Call:
		c.analyzeCall(s)
	case *ast.Block:
		c.analyzeBlock(s)
	default:
		c.sess.Errorf(diag.Semantic, stmt.Token().Pos, "unexpected %s in statement position", stmt.Kind())
	}
}

// analyzeVarDecl checks the initializer before declaring the name, so a
// declaration never sees itself.
func (c *Context) analyzeVarDecl(decl *ast.VarDecl) {
	if decl.Dims != nil {
		c.checkDims(decl)
	}
	if decl.Init != nil {
		if t, ok := c.typeOf(decl.Init); ok {
			c.checkConversion(decl.Type, t, decl.Init.Token().Pos, "initialization of "+decl.Name)
		}
	}
	c.declareVariable(decl)
}

func (c *Context) checkDims(decl *ast.VarDecl) {
	d := decl.Dims
	switch decl.Type {
	case ast.Texto:
		if d.Size <= 0 {
			c.sess.Errorf(diag.Semantic, decl.Tok.Pos, "texto size of %s must be positive, got %d", decl.Name, d.Size)
		}
	case ast.Decimal:
		if d.Precision <= 0 {
			c.sess.Errorf(diag.Semantic, decl.Tok.Pos, "decimal precision of %s must be positive, got %d", decl.Name, d.Precision)
		} else if d.Scale < 0 {
			c.sess.Errorf(diag.Semantic, decl.Tok.Pos, "decimal scale of %s must not be negative, got %d", decl.Name, d.Scale)
		}
	default:
		c.sess.Errorf(diag.Semantic, decl.Tok.Pos, "type %s does not take a size annotation", decl.Type)
	}
}

func (c *Context) analyzeAssignment(a *ast.Assignment) {
	id, ok := a.Target.(*ast.Identifier)
	if !ok {
		c.sess.Errorf(diag.Semantic, a.Tok.Pos, "left side of an assignment must be a variable")
		return
	}
	sym, ok := c.lookupVariable(id)
	if !ok {
		return
	}
	t, ok := c.typeOf(a.Value)
	if !ok {
		return
	}
	if c.checkConversion(sym.Type, t, a.Value.Token().Pos, "assignment to "+id.Name) {
		sym.Initialized = true
	}
}

func (c *Context) analyzeCondition(cond ast.Node, stmt string) {
	t, ok := c.typeOf(cond)
	if ok && t != ast.Inteiro {
		c.sess.Errorf(diag.Semantic, cond.Token().Pos, "%s condition must be inteiro, found %s", stmt, t)
	}
}

func (c *Context) analyzeIf(s *ast.If) {
	c.analyzeCondition(s.Cond, "se")
	c.analyzeBlock(s.Then)
	if s.Else != nil {
		c.analyzeStatement(s.Else)
	}
}

// analyzeFor mirrors the parser: the header has a scope of its own and
// the body block nests inside it.
func (c *Context) analyzeFor(s *ast.For) {
	c.table.EnterScope()
	defer c.table.ExitScope()

	if s.Init != nil {
		c.analyzeStatement(s.Init)
	}
	if s.Cond != nil {
		c.analyzeCondition(s.Cond, "para")
	}
	if s.Post != nil {
		c.analyzeAssignment(s.Post)
	}
	c.analyzeBlock(s.Body)
}

func (c *Context) analyzeReturn(r *ast.Return) {
	if c.fn == nil {
		c.sess.Errorf(diag.Semantic, r.Tok.Pos, "retorno outside of a function body")
		return
	}
	want := c.fn.ReturnType
	if r.Value == nil {
		if want != ast.Void {
			c.sess.Errorf(diag.Semantic, r.Tok.Pos, "function %s must return a value of type %s", c.fn.Name, want)
		}
		return
	}
	if want == ast.Void {
		c.sess.Errorf(diag.Semantic, r.Tok.Pos, "function %s does not return a value", c.fn.Name)
		return
	}
	if t, ok := c.typeOf(r.Value); ok {
		c.checkConversion(want, t, r.Value.Token().Pos, "retorno of "+c.fn.Name)
	}
}

// checkConversion reports an error when value cannot be stored as target
// and a warning for an implicit inteiro/decimal conversion. It reports
// whether the conversion is allowed.
func (c *Context) checkConversion(target, value ast.DataType, pos lexer.Position, what string) bool {
	switch convert(target, value) {
	case exact:
		return true
	case implicit:
		c.sess.Warnf(diag.Semantic, pos, "implicit conversion from %s to %s in %s", value, target, what)
		return true
	}
	c.sess.Errorf(diag.Semantic, pos, "type mismatch in %s: cannot use %s as %s", what, value, target)
	return false
}

func describeArg(i int, name string) string {
	return fmt.Sprintf("argument %d of %s", i+1, name)
}
