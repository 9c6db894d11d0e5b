package parser

import (
	"errors"
	"fmt"

	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/diag"
	cfzlex "github.com/vyPal/Cafezinho/lib/lexer"
	"github.com/vyPal/Cafezinho/lib/symtab"
	"github.com/vyPal/Cafezinho/lib/token"
)

// errAbort unwinds the current production once its failure has been
// reported to the session.
var errAbort = errors.New("parse aborted")

// Parser is a recursive-descent parser with one token of lookahead. It
// records variable and parameter declarations in the symbol table as it
// goes, bracketing one scope per block, per parameter list and per para
// header.
type Parser struct {
	lex   *cfzlex.Lexer
	table *symtab.Table
	sess  *diag.Session
	cur   token.Token
}

func New(lex *cfzlex.Lexer, table *symtab.Table, sess *diag.Session) *Parser {
	return &Parser{lex: lex, table: table, sess: sess}
}

// ParseString parses src with a fresh lexer.
func ParseString(filename, src string, table *symtab.Table, sess *diag.Session) *ast.Program {
	return New(cfzlex.New(filename, src), table, sess).Parse()
}

// Parse returns the program, or nil after the first error. Every scope
// opened while parsing is closed again before Parse returns.
func (p *Parser) Parse() *ast.Program {
	p.sess.Log.Debug().Str("file", p.lex.Filename()).Msg("parsing")
	prog, err := p.parseProgram()
	if err != nil {
		return nil
	}
	return prog
}

func (p *Parser) advance() error {
	p.cur = p.lex.NextToken()
	if p.cur.Kind == token.Error {
		p.sess.Errorf(diag.Lexical, p.cur.Pos, "%s", p.cur.Text)
		return errAbort
	}
	return nil
}

func (p *Parser) fail(tok token.Token, format string, args ...interface{}) error {
	p.sess.Errorf(diag.Syntax, tok.Pos, format, args...)
	return errAbort
}

func (p *Parser) unexpected(expected string) error {
	return p.fail(p.cur, "unexpected %s, expected %s", describe(p.cur), expected)
}

// expect consumes the current token if it has kind k.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok := p.cur
	if tok.Kind != k {
		return tok, p.unexpected(display(k))
	}
	return tok, p.advance()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	prog := &ast.Program{Tok: p.cur}
	if p.cur.Kind == token.EOF {
		return nil, p.fail(p.cur, "empty program: expected at least one function")
	}
	for p.cur.Kind != token.EOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

func (p *Parser) parseFunction() (*ast.FunctionDef, error) {
	fn := &ast.FunctionDef{Tok: p.cur}

	if p.cur.Kind == token.Principal {
		fn.Name = p.cur.Text
		fn.ReturnType = ast.Inteiro
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		if p.cur.Kind == token.Funcao {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.cur.IsTypeKeyword() {
			fn.ReturnType = ast.TypeOf(p.cur.Kind)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.cur.Kind != token.FunctionID {
			return nil, p.unexpected("a function declaration")
		}
		fn.Tok = p.cur
		fn.Name = p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	p.table.EnterScope()
	defer p.table.ExitScope()

	if p.cur.Kind != token.RParen {
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		fn.Params = params
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	var params []ast.Param
	for {
		if !p.cur.IsTypeKeyword() {
			return nil, p.unexpected("a parameter type")
		}
		typ := ast.TypeOf(p.cur.Kind)
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.expect(token.Variable)
		if err != nil {
			return nil, err
		}

		sym := p.table.Insert(name.Text, typ)
		if sym == nil {
			return nil, p.fail(name, "parameter %s already declared", name.Text)
		}
		sym.IsParam = true
		sym.Initialized = true
		sym.Line = name.Pos.Line

		params = append(params, ast.Param{Tok: name, Name: name.Text, Type: typ})
		if p.cur.Kind != token.Comma {
			return params, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.String:
		return fmt.Sprintf("string %q", t.Text)
	case token.Variable:
		return fmt.Sprintf("variable %s", t.Text)
	case token.FunctionID:
		return fmt.Sprintf("function name %s", t.Text)
	}
	return fmt.Sprintf("'%s'", t.Text)
}

var displayNames = map[token.Kind]string{
	token.Variable:   "a variable name",
	token.FunctionID: "a function name",
	token.IntLit:     "an integer",
	token.LParen:     "'('",
	token.RParen:     "')'",
	token.LBrace:     "'{'",
	token.RBrace:     "'}'",
	token.RBracket:   "']'",
	token.Semicolon:  "';'",
	token.Assign:     "'='",
}

func display(k token.Kind) string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return k.String()
}
