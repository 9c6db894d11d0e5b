package analyzer

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
	"github.com/vyPal/Cafezinho/lib/symtab"
)

// Analyze type checks prog in two passes over the table the parser
// filled: ScanSymbols registers every function signature, then each body
// is walked with its own scopes. It reports success when no new semantic
// error was recorded. Warnings never affect the result.
func Analyze(prog *ast.Program, table *symtab.Table, sess *diag.Session) bool {
	before := sess.ErrorCount()
	if table.Level() != 0 {
		sess.Errorf(diag.Semantic, lexer.Position{}, "symbol table is at scope level %d, expected 0", table.Level())
		return false
	}

	sess.Log.Debug().Int("functions", len(prog.Functions)).Msg("semantic pass 1")
	ScanSymbols(prog, table, sess)

	sess.Log.Debug().Msg("semantic pass 2")
	ctx := NewContext(table, sess)
	for _, fn := range prog.Functions {
		ctx.analyzeFunction(fn)
	}

	ok := sess.ErrorCount() == before
	sess.Log.Debug().Bool("ok", ok).Int("warnings", sess.WarningCount()).Msg("semantic analysis finished")
	return ok
}

func (c *Context) analyzeFunction(fn *ast.FunctionDef) {
	c.table.EnterScope()
	defer c.table.ExitScope()

	c.fn = fn
	defer func() { c.fn = nil }()

	for _, p := range fn.Params {
		c.declareParam(p)
	}
	c.analyzeBlock(fn.Body)

	if fn.ReturnType != ast.Void && fn.Name != MainFunction && !hasReturn(fn.Body) {
		c.sess.Warnf(diag.Semantic, fn.Tok.Pos, "function %s returns %s but has no retorno", fn.Name, fn.ReturnType)
	}
}

// hasReturn is a textual check: any retorno anywhere in the body counts,
// reachable or not.
func hasReturn(body *ast.Block) bool {
	found := false
	ast.Walk(body, func(n ast.Node) bool {
		if n.Kind() == ast.ReturnNode {
			found = true
		}
		return !found
	})
	return found
}
