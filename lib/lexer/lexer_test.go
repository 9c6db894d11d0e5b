package cfzlex

import (
	"testing"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyPal/Cafezinho/lib/token"
)

func collect(src string) []token.Token {
	l := New("", src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF || len(toks) > 100 {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestIdentifiers(t *testing.T) {
	t.Run("variable", func(t *testing.T) {
		toks := collect("!abc")
		require.Len(t, toks, 2)
		assert.Equal(t, token.Variable, toks[0].Kind)
		assert.Equal(t, "!abc", toks[0].Text)
	})

	t.Run("function id", func(t *testing.T) {
		toks := collect("__f1")
		require.Len(t, toks, 2)
		assert.Equal(t, token.FunctionID, toks[0].Kind)
		assert.Equal(t, "__f1", toks[0].Text)
	})

	t.Run("bare word is malformed", func(t *testing.T) {
		l := New("", "abc")
		tok := l.NextToken()
		assert.Equal(t, token.Error, tok.Kind)
		assert.Contains(t, tok.Text, "malformed identifier")
		assert.Equal(t, 1, l.ErrorCount())
	})

	t.Run("variable must start lowercase", func(t *testing.T) {
		l := New("", "!Abc")
		tok := l.NextToken()
		assert.Equal(t, token.Error, tok.Kind)
		assert.Equal(t, 1, l.ErrorCount())
	})

	t.Run("function needs alnum after prefix", func(t *testing.T) {
		tok := New("", "__ x").NextToken()
		assert.Equal(t, token.Error, tok.Kind)
	})

	t.Run("keywords", func(t *testing.T) {
		toks := collect("principal funcao leia escreva se senao para enquanto retorno inteiro texto decimal")
		assert.Equal(t, []token.Kind{
			token.Principal, token.Funcao, token.Leia, token.Escreva, token.Se, token.Senao,
			token.Para, token.Enquanto, token.Retorno, token.Inteiro, token.Texto, token.Decimal,
			token.EOF,
		}, kinds(toks))
	})
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src   string
		kinds []token.Kind
		texts []string
	}{
		{"10", []token.Kind{token.IntLit, token.EOF}, []string{"10", ""}},
		{"10.5", []token.Kind{token.DecLit, token.EOF}, []string{"10.5", ""}},
		{"10.", []token.Kind{token.IntLit, token.Dot, token.EOF}, []string{"10", ".", ""}},
		{"3 .2", []token.Kind{token.IntLit, token.Dot, token.IntLit, token.EOF}, []string{"3", ".", "2", ""}},
		{"1.2.3", []token.Kind{token.DecLit, token.Dot, token.IntLit, token.EOF}, []string{"1.2", ".", "3", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks := collect(tt.src)
			assert.Equal(t, tt.kinds, kinds(toks))
			for i, text := range tt.texts {
				assert.Equal(t, text, toks[i].Text)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	toks := collect(`"Soma: " "x"`)
	require.Len(t, toks, 3)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "Soma: ", toks[0].Text)

	newline := New("", "\"abc\ndef\"").NextToken()
	eof := New("", "\"abc").NextToken()
	assert.Equal(t, token.Error, newline.Kind)
	assert.Equal(t, token.Error, eof.Kind)
	assert.NotEqual(t, newline.Text, eof.Text)
}

func TestOperators(t *testing.T) {
	toks := collect("== <> <= >= && || + - * / ^ < > = ( ) { } [ ] ; , .")
	assert.Equal(t, []token.Kind{
		token.Eq, token.NotEq, token.LtEq, token.GtEq, token.And, token.Or,
		token.Plus, token.Minus, token.Star, token.Slash, token.Caret, token.Lt, token.Gt,
		token.Assign, token.LParen, token.RParen, token.LBrace, token.RBrace,
		token.LBracket, token.RBracket, token.Semicolon, token.Comma, token.Dot, token.EOF,
	}, kinds(toks))
}

func TestInvalidCharacter(t *testing.T) {
	l := New("", "@ &")
	first := l.NextToken()
	second := l.NextToken()
	assert.Equal(t, token.Error, first.Kind)
	assert.Equal(t, token.Error, second.Kind)
	assert.Equal(t, 2, l.ErrorCount())
	assert.Equal(t, token.EOF, l.NextToken().Kind)
}

func TestCommentsAndWhitespace(t *testing.T) {
	src := "  // first\n\n\t// second\n  !x // trailing\n// last"
	toks := collect(src)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Variable, toks[0].Kind)
	assert.Equal(t, 5, toks[0].Pos.Line)
	assert.Equal(t, 3, toks[0].Pos.Column)
}

func TestPositions(t *testing.T) {
	toks := collect("principal() {\n  inteiro !x;\n}")
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 1, toks[0].Pos.Column)
	inteiro := toks[4]
	assert.Equal(t, token.Inteiro, inteiro.Kind)
	assert.Equal(t, 2, inteiro.Pos.Line)
	assert.Equal(t, 3, inteiro.Pos.Column)
}

func TestEOFIsSticky(t *testing.T) {
	l := New("", "!x")
	l.NextToken()
	for i := 0; i < 3; i++ {
		assert.Equal(t, token.EOF, l.NextToken().Kind)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	sources := []string{
		"principal() { inteiro !x = 10.5; }",
		"\"unterminated",
		"abc !x",
		"  // only a comment",
		"",
	}
	for _, src := range sources {
		l := New("", src)
		for {
			var peeked token.Token
			for i := 0; i < 3; i++ {
				peeked = l.PeekToken()
			}
			errorsBefore := l.ErrorCount()
			next := l.NextToken()
			assert.Equal(t, peeked, next, "source %q", src)
			if next.Kind == token.Error {
				assert.Equal(t, errorsBefore+1, l.ErrorCount())
			}
			if next.Kind == token.EOF {
				break
			}
		}
	}
}

func TestParticipleDefinition(t *testing.T) {
	lex, err := LexString("main.cfz", "principal() { escreva(1); }")
	require.NoError(t, err)
	toks, err := lexer.ConsumeAll(lex)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, TokenType(token.Principal), toks[0].Type)
	assert.Equal(t, "main.cfz", toks[0].Pos.Filename)
	assert.True(t, toks[len(toks)-1].EOF())

	symbols := Definition.Symbols()
	assert.Equal(t, lexer.EOF, symbols["EOF"])
	assert.Equal(t, token.Variable, KindOf(symbols["VARIABLE"]))

	lex, err = LexString("bad.cfz", "principal abc")
	require.NoError(t, err)
	_, err = lexer.ConsumeAll(lex)
	require.Error(t, err)
	var perr participle.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 11, perr.Position().Column)
}
