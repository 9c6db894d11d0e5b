package cfzlex

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/Cafezinho/lib/token"
)

// Definition adapts Lexer to participle's lexer.Definition, which the
// tokens command drains with lexer.ConsumeAll.
var Definition lexer.Definition = &definition{}

type definition struct{}

func (d *definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &participleLexer{lex: New(filename, string(src))}, nil
}

func (d *definition) Symbols() map[string]lexer.TokenType {
	symbols := make(map[string]lexer.TokenType, len(token.Kinds()))
	for _, k := range token.Kinds() {
		symbols[k.String()] = TokenType(k)
	}
	return symbols
}

// TokenType maps a token kind onto participle's token type space, where EOF
// is a fixed negative value.
func TokenType(k token.Kind) lexer.TokenType {
	if k == token.EOF {
		return lexer.EOF
	}
	return lexer.TokenType(k)
}

// KindOf is the inverse of TokenType.
func KindOf(t lexer.TokenType) token.Kind {
	if t == lexer.EOF {
		return token.EOF
	}
	return token.Kind(t)
}

// participleLexer is a lexer.Lexer backed by Lexer.
type participleLexer struct {
	lex *Lexer
}

// LexString returns a participle lexer over a string.
func LexString(filename, s string) (lexer.Lexer, error) {
	return Definition.Lex(filename, strings.NewReader(s))
}

// Next returns lexical errors as participle.Error values carrying the
// position of the offending token.
func (p *participleLexer) Next() (lexer.Token, error) {
	tok := p.lex.NextToken()
	if tok.Kind == token.Error {
		return lexer.Token{}, participle.Errorf(tok.Pos, "%s", tok.Text)
	}
	return lexer.Token{
		Type:  TokenType(tok.Kind),
		Value: tok.Text,
		Pos:   tok.Pos,
	}, nil
}
