package analyzer

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
	"github.com/vyPal/Cafezinho/lib/symtab"
)

const MainFunction = "principal"

// ScanSymbols registers every top-level function at scope level 0 so that
// bodies can call functions declared later in the file.
func ScanSymbols(prog *ast.Program, table *symtab.Table, sess *diag.Session) {
	hasMain := false
	for _, fn := range prog.Functions {
		if !validFunctionName(fn.Name) {
			sess.Errorf(diag.Semantic, fn.Tok.Pos, "invalid function name %q: use principal or __ followed by letters and digits", fn.Name)
			continue
		}

		sym := table.Insert(fn.Name, fn.ReturnType)
		if sym == nil {
			sess.Errorf(diag.Semantic, fn.Tok.Pos, "function %s already declared", fn.Name)
			continue
		}
		sym.IsFunction = true
		sym.Initialized = true
		sym.Line = fn.Tok.Pos.Line
		sym.Params = fn.Params

		if fn.Name == MainFunction {
			hasMain = true
			if len(fn.Params) > 0 {
				sess.Errorf(diag.Semantic, fn.Tok.Pos, "principal must not declare parameters")
			}
		}
	}

	if !hasMain {
		sess.Errorf(diag.Semantic, lexer.Position{}, "missing main function 'principal'")
	}
}

func validFunctionName(name string) bool {
	if name == MainFunction {
		return true
	}
	if len(name) < 3 || name[0] != '_' || name[1] != '_' {
		return false
	}
	for i := 2; i < len(name); i++ {
		c := name[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
