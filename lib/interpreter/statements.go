package interpreter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
)

func (in *Interpreter) execBlock(b *ast.Block) {
	in.push()
	defer in.pop(in.alloc, in.sess.Log)
	for _, s := range b.Statements {
		if in.halted() {
			return
		}
		in.execStatement(s)
	}
}

func (in *Interpreter) execStatement(s ast.Node) {
	switch s := s.(type) {
	case *ast.VarDecl:
		in.execVarDecl(s)
	case *ast.Assignment:
		in.execAssignment(s)
	case *ast.If:
		in.execIf(s)
	case *ast.For:
		in.execFor(s)
	case *ast.While:
		in.execWhile(s)
	case *ast.Return:
		if s.Value != nil {
			in.evaluate(s.Value)
		}
		in.returning = true
	case *ast.Block:
		in.execBlock(s)
	case *ast.Call:
		in.execCall(s)
	default:
		in.runtimeError(s.Token(), "cannot execute %s", s.Kind())
	}
}

func (in *Interpreter) execVarDecl(d *ast.VarDecl) {
	value := ast.Value{Type: d.Type}
	if d.Init != nil {
		init := in.evaluate(d.Init)
		if in.failed {
			return
		}
		var ok bool
		if value, ok = coerce(init, d.Type); !ok {
			in.runtimeError(d.Tok, "cannot initialize %s %s with %s", d.Type, d.Name, init.Type)
			return
		}
	}
	value = clip(value, d.Dims)

	block, err := in.alloc.Alloc(storageSize(d.Type, d.Dims, value))
	if err != nil {
		in.fail(diag.Allocation, d.Tok.Pos, "storage for %s: %v", d.Name, err)
		return
	}
	in.declare(&variable{name: d.Name, typ: d.Type, dims: d.Dims, value: value, block: block})
}

func (in *Interpreter) execAssignment(a *ast.Assignment) {
	id, ok := a.Target.(*ast.Identifier)
	if !ok {
		in.runtimeError(a.Tok, "left side of an assignment must be a variable")
		return
	}
	value := in.evaluate(a.Value)
	if in.failed {
		return
	}
	v := in.lookupVariable(id.Name)
	if v == nil {
		in.runtimeError(id.Tok, "variable %s not declared", id.Name)
		return
	}
	in.store(v, value, a)
}

// store converts value to the variable's type and resizes its storage
// when an unannotated texto changes length.
func (in *Interpreter) store(v *variable, value ast.Value, at ast.Node) {
	converted, ok := coerce(value, v.typ)
	if !ok {
		in.runtimeError(at.Token(), "cannot assign %s to %s %s", value.Type, v.typ, v.name)
		return
	}
	converted = clip(converted, v.dims)

	if size := storageSize(v.typ, v.dims, converted); size != v.block.Size {
		block, err := in.alloc.Realloc(v.block, size)
		if err != nil {
			in.fail(diag.Allocation, at.Token().Pos, "storage for %s: %v", v.name, err)
			return
		}
		v.block = block
	}
	v.value = converted
}

func (in *Interpreter) execIf(s *ast.If) {
	cond := in.evaluate(s.Cond)
	if in.failed {
		return
	}
	if truthy(cond) {
		in.execBlock(s.Then)
	} else if s.Else != nil {
		in.execStatement(s.Else)
	}
}

func (in *Interpreter) execWhile(s *ast.While) {
	for !in.halted() {
		cond := in.evaluate(s.Cond)
		if in.failed || !truthy(cond) {
			return
		}
		in.execBlock(s.Body)
	}
}

func (in *Interpreter) execFor(s *ast.For) {
	// the header gets its own depth so a declared loop variable is gone
	// once the loop ends
	in.push()
	defer in.pop(in.alloc, in.sess.Log)

	if s.Init != nil {
		in.execStatement(s.Init)
	}
	for !in.halted() {
		if s.Cond != nil {
			cond := in.evaluate(s.Cond)
			if in.failed || !truthy(cond) {
				return
			}
		}
		in.execBlock(s.Body)
		if in.halted() {
			return
		}
		if s.Post != nil {
			in.execAssignment(s.Post)
		}
	}
}

// execCall runs a call in statement position. User functions are not
// executed there; their bodies never run and their arguments are not
// evaluated.
func (in *Interpreter) execCall(c *ast.Call) {
	switch c.Builtin {
	case ast.Write:
		in.execWrite(c)
	case ast.Read:
		in.execRead(c)
	default:
		in.sess.Log.Debug().Str("function", c.Name).Int("line", c.Tok.Pos.Line).Msg("skipping call statement")
	}
}

// execWrite evaluates every argument before printing so a failing
// argument leaves no partial line behind.
func (in *Interpreter) execWrite(c *ast.Call) {
	var sb strings.Builder
	for _, arg := range c.Args {
		v := in.evaluate(arg)
		if in.failed {
			return
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(in.out, sb.String()); err != nil {
		in.runtimeError(c.Tok, "escreva: %v", err)
	}
}

func (in *Interpreter) execRead(c *ast.Call) {
	for _, arg := range c.Args {
		if in.failed {
			return
		}
		id, ok := arg.(*ast.Identifier)
		if !ok {
			in.runtimeError(arg.Token(), "leia expects a variable")
			return
		}
		v := in.lookupVariable(id.Name)
		if v == nil {
			in.runtimeError(id.Tok, "variable %s not declared", id.Name)
			return
		}

		if in.prompt != "" {
			fmt.Fprint(in.out, in.prompt)
		}
		var word string
		if _, err := fmt.Fscan(in.in, &word); err != nil {
			in.runtimeError(id.Tok, "no input available for %s", id.Name)
			return
		}
		value, err := parseInput(word, v.typ)
		if err != nil {
			in.runtimeError(id.Tok, "invalid input %q for %s variable %s", word, v.typ, id.Name)
			return
		}
		in.store(v, value, id)
	}
}

func parseInput(word string, typ ast.DataType) (ast.Value, error) {
	switch typ {
	case ast.Inteiro:
		i, err := strconv.ParseInt(word, 10, 64)
		return ast.IntValue(i), err
	case ast.Decimal:
		d, err := strconv.ParseFloat(word, 64)
		return ast.DecValue(d), err
	default:
		return ast.TextValue(word), nil
	}
}
