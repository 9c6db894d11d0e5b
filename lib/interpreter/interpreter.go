package interpreter

import (
	"bufio"
	"io"
	"os"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/Cafezinho/lib/analyzer"
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
	"github.com/vyPal/Cafezinho/lib/memory"
	"github.com/vyPal/Cafezinho/lib/token"
)

type Options struct {
	Stdout io.Writer
	Stdin  io.Reader
	// ReadPrompt is written before every value leia reads. Empty means
	// no prompt.
	ReadPrompt string
}

// Interpreter walks a checked program and executes principal. Runtime
// errors are sticky: once one is reported every remaining statement and
// expression is skipped.
type Interpreter struct {
	prog  *ast.Program
	sess  *diag.Session
	alloc *memory.Allocator

	out    io.Writer
	in     *bufio.Reader
	prompt string

	*Context

	failed    bool
	returning bool
}

func New(prog *ast.Program, sess *diag.Session, alloc *memory.Allocator, opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if alloc == nil {
		alloc = memory.New(memory.DefaultLimit)
	}
	return &Interpreter{
		prog:    prog,
		sess:    sess,
		alloc:   alloc,
		out:     opts.Stdout,
		in:      bufio.NewReader(opts.Stdin),
		prompt:  opts.ReadPrompt,
		Context: NewContext(),
	}
}

// Run executes the body of principal and reports whether it finished
// without a runtime or allocation error.
func (in *Interpreter) Run() bool {
	var main *ast.FunctionDef
	for _, fn := range in.prog.Functions {
		if fn.Name == analyzer.MainFunction {
			main = fn
			break
		}
	}
	if main == nil {
		in.fail(diag.Runtime, lexer.Position{}, "main function 'principal' not found")
		return false
	}

	in.sess.Log.Debug().Msg("executing principal")
	in.execBlock(main.Body)

	// a failure can leave depths pushed; release them so storage is not
	// reported as leaked
	for in.depth > 0 {
		in.pop(in.alloc, in.sess.Log)
	}
	in.sess.Log.Debug().Bool("ok", !in.failed).Msg("execution finished")
	return !in.failed
}

func (in *Interpreter) fail(stage diag.Stage, pos lexer.Position, format string, args ...interface{}) {
	if in.failed {
		return
	}
	in.failed = true
	in.sess.Errorf(stage, pos, format, args...)
}

func (in *Interpreter) runtimeError(tok token.Token, format string, args ...interface{}) {
	in.fail(diag.Runtime, tok.Pos, format, args...)
}

// halted is checked before every statement and expression.
func (in *Interpreter) halted() bool {
	return in.failed || in.returning
}
