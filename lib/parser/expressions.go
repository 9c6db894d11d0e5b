package parser

import (
	"strconv"

	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/token"
)

// parseExpression reads one operand and, if a binary operator follows,
// the whole remainder as its right operand. Every operator therefore
// groups to the right and none binds tighter than another:
// 10 - 2 - 3 is 10 - (2 - 3).
func (p *Parser) parseExpression() (ast.Node, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if !p.cur.Kind.IsBinaryOperator() {
		return left, nil
	}

	op := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Tok: op, Op: op.Kind, Left: left, Right: right}, nil
}

func (p *Parser) parseOperand() (ast.Node, error) {
	tok := p.cur
	switch tok.Kind {
	case token.IntLit:
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.fail(tok, "integer literal %s out of range", tok.Text)
		}
		return &ast.Literal{Tok: tok, Value: ast.IntValue(n)}, p.advance()
	case token.DecLit:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.fail(tok, "invalid decimal literal %s", tok.Text)
		}
		return &ast.Literal{Tok: tok, Value: ast.DecValue(f)}, p.advance()
	case token.String:
		return &ast.Literal{Tok: tok, Value: ast.TextValue(tok.Text)}, p.advance()
	case token.Variable:
		return &ast.Identifier{Tok: tok, Name: tok.Text}, p.advance()
	case token.FunctionID:
		return p.parseCall()
	case token.LParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		_, err = p.expect(token.RParen)
		return inner, err
	case token.Minus:
		// unary minus is sugar for 0 - operand
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		zero := token.Token{Kind: token.IntLit, Text: "0", Pos: tok.Pos}
		return &ast.BinaryOp{
			Tok:   tok,
			Op:    token.Minus,
			Left:  &ast.Literal{Tok: zero, Value: ast.IntValue(0)},
			Right: operand,
		}, nil
	}
	return nil, p.unexpected("an expression")
}

// parseCall parses FUNCID '(' args ')' as a user function call.
func (p *Parser) parseCall() (*ast.Call, error) {
	name, err := p.expect(token.FunctionID)
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &ast.Call{Tok: name, Name: name.Text, Builtin: ast.UserFunction, Args: args}, nil
}

func (p *Parser) parseArgs() ([]ast.Node, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var args []ast.Node
	if p.cur.Kind != token.RParen {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Kind != token.Comma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	_, err := p.expect(token.RParen)
	return args, err
}
