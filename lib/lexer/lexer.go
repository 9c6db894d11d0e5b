package cfzlex

import (
	"fmt"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/Cafezinho/lib/token"
)

// Lexer is a pull-based tokenizer over a source buffer. It is not safe for
// concurrent use.
type Lexer struct {
	filename string
	src      string
	pos      int // byte offset of the current character
	line     int // 1-based
	column   int // 1-based
	errors   int
}

func New(filename, src string) *Lexer {
	return &Lexer{
		filename: filename,
		src:      src,
		line:     1,
		column:   1,
	}
}

// ErrorCount is the number of Error tokens produced so far.
func (l *Lexer) ErrorCount() int {
	return l.errors
}

func (l *Lexer) Filename() string {
	return l.filename
}

func (l *Lexer) current() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekChar(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) position() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.current() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.current() != '\n' {
		l.advance()
	}
	if l.current() == '\n' {
		l.advance()
	}
}

func (l *Lexer) errorToken(pos lexer.Position, format string, args ...interface{}) token.Token {
	l.errors++
	return token.Token{Kind: token.Error, Text: fmt.Sprintf(format, args...), Pos: pos}
}

// NextToken consumes and returns the next token. Once the buffer is exhausted
// every call returns EOF.
func (l *Lexer) NextToken() token.Token {
	for l.pos < len(l.src) {
		l.skipWhitespace()
		if l.current() == '/' && l.peekChar(1) == '/' {
			l.skipComment()
			continue
		}
		break
	}

	pos := l.position()
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Pos: pos}
	}

	c := l.current()
	switch {
	case isDigit(c):
		return l.readNumber(pos)
	case c == '"':
		return l.readString(pos)
	case isLetter(c) || c == '!' || c == '_':
		return l.readIdentifier(pos)
	}

	if kind, ok := twoCharOperators[[2]byte{c, l.peekChar(1)}]; ok {
		text := l.src[l.pos : l.pos+2]
		l.advance()
		l.advance()
		return token.Token{Kind: kind, Text: text, Pos: pos}
	}

	if kind, ok := singleCharTokens[c]; ok {
		l.advance()
		return token.Token{Kind: kind, Text: string(c), Pos: pos}
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	for i := 0; i < size; i++ {
		l.advance()
	}
	return l.errorToken(pos, "invalid character %q (U+%04X)", r, r)
}

// PeekToken returns the token NextToken would return without consuming it.
func (l *Lexer) PeekToken() token.Token {
	pos, line, column, errors := l.pos, l.line, l.column, l.errors
	tok := l.NextToken()
	l.pos, l.line, l.column, l.errors = pos, line, column, errors
	return tok
}

func (l *Lexer) readNumber(pos lexer.Position) token.Token {
	start := l.pos
	kind := token.IntLit
	for l.pos < len(l.src) {
		c := l.current()
		if isDigit(c) {
			l.advance()
		} else if c == '.' && kind == token.IntLit && isDigit(l.peekChar(1)) {
			kind = token.DecLit
			l.advance()
		} else {
			break
		}
	}
	return token.Token{Kind: kind, Text: l.src[start:l.pos], Pos: pos}
}

func (l *Lexer) readString(pos lexer.Position) token.Token {
	l.advance() // opening quote
	start := l.pos
	for l.pos < len(l.src) {
		switch l.current() {
		case '"':
			text := l.src[start:l.pos]
			l.advance()
			return token.Token{Kind: token.String, Text: text, Pos: pos}
		case '\n':
			return l.errorToken(pos, "unterminated string: line break before closing quote")
		default:
			l.advance()
		}
	}
	return l.errorToken(pos, "unterminated string: end of file reached")
}

func (l *Lexer) readIdentifier(pos lexer.Position) token.Token {
	start := l.pos
	kind := token.Error

	switch {
	case l.current() == '!':
		l.advance()
		if !isLower(l.current()) {
			return l.errorToken(pos, "variable names must start with '!' followed by a lowercase letter")
		}
		kind = token.Variable
	case l.current() == '_' && l.peekChar(1) == '_':
		l.advance()
		l.advance()
		if !isAlnum(l.current()) {
			return l.errorToken(pos, "function names must start with '__' followed by a letter or digit")
		}
		kind = token.FunctionID
	case l.current() == '_':
		l.advance()
	}

	for l.pos < len(l.src) && isAlnum(l.current()) {
		l.advance()
	}
	word := l.src[start:l.pos]

	if kind != token.Error {
		return token.Token{Kind: kind, Text: word, Pos: pos}
	}
	if kw, ok := token.LookupKeyword(word); ok {
		return token.Token{Kind: kw, Text: word, Pos: pos}
	}
	return l.errorToken(pos, "malformed identifier %q: variables start with '!' and functions with '__'", word)
}

var twoCharOperators = map[[2]byte]token.Kind{
	{'=', '='}: token.Eq,
	{'<', '>'}: token.NotEq,
	{'<', '='}: token.LtEq,
	{'>', '='}: token.GtEq,
	{'&', '&'}: token.And,
	{'|', '|'}: token.Or,
}

var singleCharTokens = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'^': token.Caret,
	'<': token.Lt,
	'>': token.Gt,
	'=': token.Assign,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLower(c byte) bool {
	return 'a' <= c && c <= 'z'
}

func isLetter(c byte) bool {
	return isLower(c) || ('A' <= c && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}
