package parser

import (
	"strconv"
	"strings"

	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/token"
)

// parseDims reads a '[' ... ']' size annotation for a declaration of type
// typ. texto takes [N]. decimal takes [P.S], written either as the single
// literal 3.2 or as 3 . 2, or [P] with a scale of 0.
func (p *Parser) parseDims(typ ast.DataType) (*ast.TypeInfo, error) {
	open, err := p.expect(token.LBracket)
	if err != nil {
		return nil, err
	}
	if typ == ast.Inteiro {
		return nil, p.fail(open, "type inteiro does not take a size annotation")
	}

	info := &ast.TypeInfo{}
	tok := p.cur
	switch {
	case tok.Kind == token.DecLit && typ == ast.Decimal:
		whole, frac, _ := strings.Cut(tok.Text, ".")
		if info.Precision, err = p.dimension(tok, whole); err != nil {
			return nil, err
		}
		if info.Scale, err = p.dimension(tok, frac); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	case tok.Kind == token.IntLit:
		n, err := p.dimension(tok, tok.Text)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if typ == ast.Texto {
			info.Size = n
			break
		}
		info.Precision = n
		if p.cur.Kind == token.Dot {
			if err := p.advance(); err != nil {
				return nil, err
			}
			scale, err := p.expect(token.IntLit)
			if err != nil {
				return nil, err
			}
			if info.Scale, err = p.dimension(scale, scale.Text); err != nil {
				return nil, err
			}
		}
	default:
		if typ == ast.Texto {
			return nil, p.unexpected("an integer size")
		}
		return nil, p.unexpected("a precision such as 10.2")
	}

	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return info, nil
}

func (p *Parser) dimension(tok token.Token, digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, p.fail(tok, "size annotation %s out of range", tok.Text)
	}
	return n, nil
}
