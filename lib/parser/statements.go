package parser

import (
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/token"
)

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Tok: open}

	p.table.EnterScope()
	defer p.table.ExitScope()

	for p.cur.Kind != token.RBrace {
		if p.cur.Kind == token.EOF {
			return nil, p.unexpected("'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, p.advance()
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur.Kind {
	case token.Inteiro, token.Texto, token.Decimal:
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(token.Semicolon)
		return decl, err
	case token.Variable:
		assign, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(token.Semicolon)
		return assign, err
	case token.Se:
		return p.parseIf()
	case token.Enquanto:
		return p.parseWhile()
	case token.Para:
		return p.parseFor()
	case token.Retorno:
		return p.parseReturn()
	case token.Escreva, token.Leia:
		return p.parseIO()
	case token.FunctionID:
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(token.Semicolon)
		return call, err
	case token.LBrace:
		return p.parseBlock()
	}
	return nil, p.fail(p.cur, "unexpected %s at start of statement", describe(p.cur))
}

// parseVarDecl parses a declaration without its terminating ';'. The
// name is entered into the symbol table as soon as it is read, so the
// initializer already sees it.
func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	decl := &ast.VarDecl{Tok: p.cur, Type: ast.TypeOf(p.cur.Kind)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.Kind == token.LBracket {
		dims, err := p.parseDims(decl.Type)
		if err != nil {
			return nil, err
		}
		decl.Dims = dims
	}

	name, err := p.expect(token.Variable)
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text

	if p.cur.Kind == token.LBracket {
		if decl.Dims != nil {
			return nil, p.fail(p.cur, "size annotation for %s given twice", decl.Name)
		}
		dims, err := p.parseDims(decl.Type)
		if err != nil {
			return nil, err
		}
		decl.Dims = dims
	}

	sym := p.table.Insert(decl.Name, decl.Type)
	if sym == nil {
		return nil, p.fail(name, "variable %s already declared in this scope", decl.Name)
	}
	sym.Line = name.Pos.Line
	if decl.Dims != nil {
		sym.Info = *decl.Dims
	}

	if p.cur.Kind == token.Assign {
		if err := p.advance(); err != nil {
			return nil, err
		}
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
		sym.Initialized = true
	}
	return decl, nil
}

// parseAssignment parses VAR '=' expr without the terminating ';'.
func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	name, err := p.expect(token.Variable)
	if err != nil {
		return nil, err
	}
	eq, err := p.expect(token.Assign)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{
		Tok:    eq,
		Target: &ast.Identifier{Tok: name, Name: name.Text},
		Value:  value,
	}, nil
}

func (p *Parser) parseCondition() (ast.Node, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	_, err = p.expect(token.RParen)
	return cond, err
}

func (p *Parser) parseIf() (*ast.If, error) {
	stmt := &ast.If{Tok: p.cur}
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond

	if stmt.Then, err = p.parseBlock(); err != nil {
		return nil, err
	}

	if p.cur.Kind != token.Senao {
		return stmt, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind == token.Se {
		elseIf, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseIf
		return stmt, nil
	}
	elseBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Else = elseBlock
	return stmt, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	stmt := &ast.While{Tok: p.cur}
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	stmt.Cond = cond
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseFor parses para '(' [init] ';' [cond] ';' [post] ')' block. The
// header owns one scope so a variable declared in init is visible to the
// rest of the loop only.
func (p *Parser) parseFor() (*ast.For, error) {
	stmt := &ast.For{Tok: p.cur}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	p.table.EnterScope()
	defer p.table.ExitScope()

	switch {
	case p.cur.IsTypeKeyword():
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		stmt.Init = decl
	case p.cur.Kind == token.Variable:
		assign, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		stmt.Init = assign
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}

	if p.cur.Kind != token.Semicolon {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}

	if p.cur.Kind == token.Variable {
		post, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		stmt.Post = post
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	stmt := &ast.Return{Tok: p.cur}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind != token.Semicolon {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	_, err := p.expect(token.Semicolon)
	return stmt, err
}

func (p *Parser) parseIO() (*ast.Call, error) {
	call := &ast.Call{Tok: p.cur, Name: p.cur.Text, Builtin: ast.Write}
	if p.cur.Kind == token.Leia {
		call.Builtin = ast.Read
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	call.Args = args
	_, err = p.expect(token.Semicolon)
	return call, err
}
