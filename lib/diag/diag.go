package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Stage int

const (
	Lexical Stage = iota
	Syntax
	Semantic
	Runtime
	Allocation
)

func (s Stage) String() string {
	switch s {
	case Lexical:
		return "Lexical"
	case Syntax:
		return "Syntax"
	case Semantic:
		return "Semantic"
	case Runtime:
		return "Runtime"
	case Allocation:
		return "Allocation"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem. A zero Pos.Line means the problem
// has no source position.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Pos      lexer.Position
	Msg      string
}

func (d Diagnostic) Error() string {
	if d.Pos.Line == 0 {
		return fmt.Sprintf("%s %s: %s", d.Stage, d.Severity, d.Msg)
	}
	return fmt.Sprintf("%s %s — line %d, column %d: %s", d.Stage, d.Severity, d.Pos.Line, d.Pos.Column, d.Msg)
}

// Message and Position make Diagnostic a participle.Error.
func (d Diagnostic) Message() string {
	return d.Msg
}

func (d Diagnostic) Position() lexer.Position {
	return d.Pos
}

func (d Diagnostic) Render(w io.Writer, useColor bool) {
	c := color.New(color.FgRed)
	if d.Severity == Warning {
		c = color.New(color.FgYellow)
	}
	if useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprintln(w, d.Error())
}

// Session collects the diagnostics of one pipeline run. It replaces any
// process-wide error state: every stage receives the session explicitly.
type Session struct {
	ID  uuid.UUID
	Log zerolog.Logger

	diags    []Diagnostic
	errors   int
	warnings int
}

func NewSession(log zerolog.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:  id,
		Log: log.With().Str("run", id.String()).Logger(),
	}
}

func (s *Session) Report(d Diagnostic) {
	s.diags = append(s.diags, d)
	if d.Severity == Warning {
		s.warnings++
	} else {
		s.errors++
	}
	s.Log.Debug().
		Str("stage", d.Stage.String()).
		Str("severity", d.Severity.String()).
		Int("line", d.Pos.Line).
		Int("column", d.Pos.Column).
		Msg(d.Msg)
}

func (s *Session) Errorf(stage Stage, pos lexer.Position, format string, args ...interface{}) {
	s.Report(Diagnostic{Stage: stage, Severity: Error, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (s *Session) Warnf(stage Stage, pos lexer.Position, format string, args ...interface{}) {
	s.Report(Diagnostic{Stage: stage, Severity: Warning, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (s *Session) ErrorCount() int {
	return s.errors
}

func (s *Session) WarningCount() int {
	return s.warnings
}

// ErrorsIn counts the errors reported by one stage.
func (s *Session) ErrorsIn(stage Stage) int {
	n := 0
	for _, d := range s.diags {
		if d.Stage == stage && d.Severity == Error {
			n++
		}
	}
	return n
}

func (s *Session) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diags...)
}

// Err returns the first error reported, or nil.
func (s *Session) Err() error {
	for _, d := range s.diags {
		if d.Severity == Error {
			return d
		}
	}
	return nil
}

// Render writes every diagnostic in report order. Warnings are left out
// when showWarnings is false.
func (s *Session) Render(w io.Writer, useColor, showWarnings bool) {
	for _, d := range s.diags {
		if d.Severity == Warning && !showWarnings {
			continue
		}
		d.Render(w, useColor)
	}
}

// RenderWithSource is Render followed, for each positioned diagnostic, by
// the offending line of src and a caret under its column.
func (s *Session) RenderWithSource(w io.Writer, src string, useColor, showWarnings bool) {
	lines := strings.Split(src, "\n")
	for _, d := range s.diags {
		if d.Severity == Warning && !showWarnings {
			continue
		}
		d.Render(w, useColor)
		if d.Pos.Line < 1 || d.Pos.Line > len(lines) {
			continue
		}
		line := strings.TrimRight(lines[d.Pos.Line-1], "\r")
		fmt.Fprintf(w, "  %s\n  %s^\n", line, caretPadding(line, d.Pos.Column))
	}
}

// caretPadding keeps the tabs of line so the caret lines up with column.
func caretPadding(line string, column int) string {
	var b strings.Builder
	for i, r := range []rune(line) {
		if i >= column-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
