package token

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

type Kind int

const (
	EOF Kind = iota

	// Keywords
	Principal // principal
	Funcao    // funcao
	Leia      // leia
	Escreva   // escreva
	Se        // se
	Senao     // senao
	Para      // para
	Enquanto  // enquanto
	Retorno   // retorno

	// Type keywords
	Inteiro // inteiro
	Texto   // texto
	Decimal // decimal

	// Identifiers
	Variable   // !name
	FunctionID // __name

	// Literals
	IntLit // 123
	DecLit // 123.45
	String // "text"

	// Arithmetic operators
	Plus  // +
	Minus // -
	Star  // *
	Slash // /
	Caret // ^

	// Relational operators
	Eq    // ==
	NotEq // <>
	Lt    // <
	LtEq  // <=
	Gt    // >
	GtEq  // >=

	// Logical operators
	And // &&
	Or  // ||

	Assign // =

	// Delimiters
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Dot       // .

	Error
)

var names = [...]string{
	EOF:        "EOF",
	Principal:  "PRINCIPAL",
	Funcao:     "FUNCAO",
	Leia:       "LEIA",
	Escreva:    "ESCREVA",
	Se:         "SE",
	Senao:      "SENAO",
	Para:       "PARA",
	Enquanto:   "ENQUANTO",
	Retorno:    "RETORNO",
	Inteiro:    "INTEIRO",
	Texto:      "TEXTO",
	Decimal:    "DECIMAL",
	Variable:   "VARIABLE",
	FunctionID: "FUNCTION_ID",
	IntLit:     "INT",
	DecLit:     "DECIMAL_LIT",
	String:     "STRING",
	Plus:       "PLUS",
	Minus:      "MINUS",
	Star:       "STAR",
	Slash:      "SLASH",
	Caret:      "CARET",
	Eq:         "EQ",
	NotEq:      "NOT_EQ",
	Lt:         "LT",
	LtEq:       "LT_EQ",
	Gt:         "GT",
	GtEq:       "GT_EQ",
	And:        "AND",
	Or:         "OR",
	Assign:     "ASSIGN",
	LParen:     "LPAREN",
	RParen:     "RPAREN",
	LBrace:     "LBRACE",
	RBrace:     "RBRACE",
	LBracket:   "LBRACKET",
	RBracket:   "RBRACKET",
	Semicolon:  "SEMICOLON",
	Comma:      "COMMA",
	Dot:        "DOT",
	Error:      "ERROR",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every token kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(names))
	for k := EOF; k <= Error; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

var keywords = map[string]Kind{
	"principal": Principal,
	"funcao":    Funcao,
	"leia":      Leia,
	"escreva":   Escreva,
	"se":        Se,
	"senao":     Senao,
	"para":      Para,
	"enquanto":  Enquanto,
	"retorno":   Retorno,
	"inteiro":   Inteiro,
	"texto":     Texto,
	"decimal":   Decimal,
}

// LookupKeyword reports the keyword kind for word. There is no generic
// identifier class, so anything that is not a keyword is malformed.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}

type Token struct {
	Kind Kind
	Text string
	Pos  lexer.Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %d:%d", t.Kind, t.Text, t.Pos.Line, t.Pos.Column)
}

func (t Token) IsTypeKeyword() bool {
	return t.Kind == Inteiro || t.Kind == Texto || t.Kind == Decimal
}

func (k Kind) IsArithmetic() bool {
	return k == Plus || k == Minus || k == Star || k == Slash || k == Caret
}

func (k Kind) IsRelational() bool {
	return k == Eq || k == NotEq || k == Lt || k == LtEq || k == Gt || k == GtEq
}

func (k Kind) IsLogical() bool {
	return k == And || k == Or
}

func (k Kind) IsBinaryOperator() bool {
	return k.IsArithmetic() || k.IsRelational() || k.IsLogical()
}
