// Package pipeline runs a Cafezinho program through every stage: parse,
// semantic analysis and execution, all sharing one diagnostic session,
// symbol table and allocator.
package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/vyPal/Cafezinho/lib/analyzer"
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
	"github.com/vyPal/Cafezinho/lib/interpreter"
	"github.com/vyPal/Cafezinho/lib/memory"
	"github.com/vyPal/Cafezinho/lib/parser"
	"github.com/vyPal/Cafezinho/lib/symtab"
)

// Step is the last stage a run goes through.
type Step int

const (
	All Step = iota
	Parse
	Check
)

type Options struct {
	Filename  string
	StopAfter Step

	MemoryLimit     int
	SymbolTableSize int

	Stdin      io.Reader
	Stdout     io.Writer
	ReadPrompt string

	Logger *zerolog.Logger
}

type Result struct {
	Source    string
	Session   *diag.Session
	Program   *ast.Program
	Table     *symtab.Table
	Allocator *memory.Allocator

	Success bool
	// FailedStage is the stage of the first error. It is only meaningful
	// when Success is false.
	FailedStage diag.Stage
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return zerolog.Nop()
}

// Run executes src. Failures are reported in the session and never
// returned as errors.
func Run(src string, opts Options) *Result {
	if opts.Filename == "" {
		opts.Filename = "<input>"
	}

	sess := diag.NewSession(opts.logger())
	res := &Result{
		Source:    src,
		Session:   sess,
		Table:     symtab.New(opts.SymbolTableSize),
		Allocator: memory.New(opts.MemoryLimit),
	}
	res.Allocator.Log = sess.Log

	log := sess.Log.With().Str("file", opts.Filename).Logger()

	// the source buffer counts against the quota like any runtime storage
	buf, err := res.Allocator.Alloc(len(src) + 1)
	if err != nil {
		sess.Errorf(diag.Allocation, lexer.Position{}, "source buffer: %v", err)
		return res.finish()
	}
	defer func() { _ = res.Allocator.Free(buf) }()

	log.Debug().Int("bytes", len(src)).Msg("stage parse")
	res.Program = parser.ParseString(opts.Filename, src, res.Table, sess)
	if res.Program == nil {
		return res.finish()
	}
	if opts.StopAfter == Parse {
		return res.finish()
	}

	log.Debug().Msg("stage semantic")
	if !analyzer.Analyze(res.Program, res.Table, sess) {
		return res.finish()
	}
	if opts.StopAfter == Check {
		return res.finish()
	}

	log.Debug().Msg("stage runtime")
	interpreter.New(res.Program, sess, res.Allocator, interpreter.Options{
		Stdout:     opts.Stdout,
		Stdin:      opts.Stdin,
		ReadPrompt: opts.ReadPrompt,
	}).Run()
	return res.finish()
}

func ReadSource(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "opening source file")
	}
	return string(src), nil
}

// RunFile reads path and runs it. Only a failure to read the file is
// returned as an error.
func RunFile(path string, opts Options) (*Result, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	opts.Filename = filepath.Clean(path)
	return Run(src, opts), nil
}

func (r *Result) finish() *Result {
	err := r.Session.Err()
	r.Success = err == nil
	if d, ok := err.(diag.Diagnostic); ok {
		r.FailedStage = d.Stage
	}
	r.Session.Log.Debug().
		Bool("success", r.Success).
		Int("errors", r.Session.ErrorCount()).
		Int("warnings", r.Session.WarningCount()).
		Msg("pipeline finished")
	return r
}
