package ast

import (
	"fmt"
	"strconv"

	"github.com/vyPal/Cafezinho/lib/token"
)

type DataType int

const (
	Void DataType = iota
	Inteiro
	Texto
	Decimal
)

func (t DataType) String() string {
	switch t {
	case Inteiro:
		return "inteiro"
	case Texto:
		return "texto"
	case Decimal:
		return "decimal"
	default:
		return "vazio"
	}
}

// IsNumeric reports whether values of t take part in arithmetic.
func (t DataType) IsNumeric() bool {
	return t == Inteiro || t == Decimal
}

// TypeOf maps a type keyword to its data type. Anything else is Void.
func TypeOf(k token.Kind) DataType {
	switch k {
	case token.Inteiro:
		return Inteiro
	case token.Texto:
		return Texto
	case token.Decimal:
		return Decimal
	default:
		return Void
	}
}

// TypeInfo holds the optional size annotation of a declaration: Size for
// texto[N], Precision and Scale for decimal[P.S].
type TypeInfo struct {
	Size      int `json:"size,omitempty"`
	Precision int `json:"precision,omitempty"`
	Scale     int `json:"scale,omitempty"`
}

func (ti TypeInfo) String() string {
	if ti.Size > 0 {
		return fmt.Sprintf("[%d]", ti.Size)
	}
	return fmt.Sprintf("[%d.%d]", ti.Precision, ti.Scale)
}

// Value is a tagged scalar. The zero Value is an uninitialized vazio.
type Value struct {
	Type  DataType
	Int   int64
	Dec   float64
	Text  string
	Valid bool
}

func IntValue(i int64) Value {
	return Value{Type: Inteiro, Int: i, Valid: true}
}

func DecValue(d float64) Value {
	return Value{Type: Decimal, Dec: d, Valid: true}
}

func TextValue(s string) Value {
	return Value{Type: Texto, Text: s, Valid: true}
}

// Float returns the numeric payload widened to a decimal.
func (v Value) Float() float64 {
	if v.Type == Decimal {
		return v.Dec
	}
	return float64(v.Int)
}

// String formats v the way escreva prints it. Uninitialized values print
// as the empty string and decimals always carry two fraction digits.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	switch v.Type {
	case Inteiro:
		return strconv.FormatInt(v.Int, 10)
	case Decimal:
		return strconv.FormatFloat(v.Dec, 'f', 2, 64)
	case Texto:
		return v.Text
	default:
		return ""
	}
}

type Kind int

const (
	ProgramNode Kind = iota
	FunctionDefNode
	VarDeclNode
	AssignmentNode
	IfNode
	ForNode
	WhileNode
	ReturnNode
	CallNode
	BinaryOpNode
	IdentifierNode
	LiteralNode
	BlockNode
)

var kindNames = [...]string{
	ProgramNode:     "Program",
	FunctionDefNode: "FunctionDef",
	VarDeclNode:     "VarDecl",
	AssignmentNode:  "Assignment",
	IfNode:          "If",
	ForNode:         "For",
	WhileNode:       "While",
	ReturnNode:      "Return",
	CallNode:        "Call",
	BinaryOpNode:    "BinaryOp",
	IdentifierNode:  "Identifier",
	LiteralNode:     "Literal",
	BlockNode:       "Block",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is implemented by every tree node. Children are returned in source
// order and are exclusively owned by their parent.
type Node interface {
	Kind() Kind
	Token() token.Token
	Children() []Node
}

type Program struct {
	Tok       token.Token
	Functions []*FunctionDef
}

type Param struct {
	Tok  token.Token
	Name string
	Type DataType
	Info TypeInfo
}

type FunctionDef struct {
	Tok        token.Token
	Name       string
	ReturnType DataType
	Params     []Param
	Body       *Block
}

type Block struct {
	Tok        token.Token
	Statements []Node
}

// VarDecl declares a variable. Dims is nil unless the declaration carried
// a size annotation. Init is nil when there is no initializer.
type VarDecl struct {
	Tok  token.Token
	Name string
	Type DataType
	Dims *TypeInfo
	Init Node
}

type Assignment struct {
	Tok    token.Token
	Target Node
	Value  Node
}

// If holds an optional Else that is either a *Block or a chained *If.
type If struct {
	Tok  token.Token
	Cond Node
	Then *Block
	Else Node
}

// For is a para loop. Init is a *VarDecl or an *Assignment, and every
// header part may be absent.
type For struct {
	Tok  token.Token
	Init Node
	Cond Node
	Post *Assignment
	Body *Block
}

type While struct {
	Tok  token.Token
	Cond Node
	Body *Block
}

type Return struct {
	Tok   token.Token
	Value Node
}

type Builtin int

const (
	UserFunction Builtin = iota
	Write
	Read
)

func (b Builtin) String() string {
	switch b {
	case Write:
		return "escreva"
	case Read:
		return "leia"
	default:
		return "user"
	}
}

type Call struct {
	Tok     token.Token
	Name    string
	Builtin Builtin
	Args    []Node
}

type BinaryOp struct {
	Tok   token.Token
	Op    token.Kind
	Left  Node
	Right Node
}

type Identifier struct {
	Tok  token.Token
	Name string
}

type Literal struct {
	Tok   token.Token
	Value Value
}

func (n *Program) Kind() Kind     { return ProgramNode }
func (n *FunctionDef) Kind() Kind { return FunctionDefNode }
func (n *Block) Kind() Kind       { return BlockNode }
func (n *VarDecl) Kind() Kind     { return VarDeclNode }
func (n *Assignment) Kind() Kind  { return AssignmentNode }
func (n *If) Kind() Kind          { return IfNode }
func (n *For) Kind() Kind         { return ForNode }
func (n *While) Kind() Kind       { return WhileNode }
func (n *Return) Kind() Kind      { return ReturnNode }
func (n *Call) Kind() Kind        { return CallNode }
func (n *BinaryOp) Kind() Kind    { return BinaryOpNode }
func (n *Identifier) Kind() Kind  { return IdentifierNode }
func (n *Literal) Kind() Kind     { return LiteralNode }

func (n *Program) Token() token.Token     { return n.Tok }
func (n *FunctionDef) Token() token.Token { return n.Tok }
func (n *Block) Token() token.Token       { return n.Tok }
func (n *VarDecl) Token() token.Token     { return n.Tok }
func (n *Assignment) Token() token.Token  { return n.Tok }
func (n *If) Token() token.Token          { return n.Tok }
func (n *For) Token() token.Token         { return n.Tok }
func (n *While) Token() token.Token       { return n.Tok }
func (n *Return) Token() token.Token      { return n.Tok }
func (n *Call) Token() token.Token        { return n.Tok }
func (n *BinaryOp) Token() token.Token    { return n.Tok }
func (n *Identifier) Token() token.Token  { return n.Tok }
func (n *Literal) Token() token.Token     { return n.Tok }

// nodes drops nil entries so optional parts never show up as children.
func nodes(ns ...Node) []Node {
	out := make([]Node, 0, len(ns))
	for _, n := range ns {
		if n == nil {
			continue
		}
		switch v := n.(type) {
		case *Block:
			if v == nil {
				continue
			}
		case *Assignment:
			if v == nil {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func (n *Program) Children() []Node {
	out := make([]Node, len(n.Functions))
	for i, f := range n.Functions {
		out[i] = f
	}
	return out
}

func (n *FunctionDef) Children() []Node { return nodes(n.Body) }
func (n *Block) Children() []Node       { return n.Statements }
func (n *VarDecl) Children() []Node     { return nodes(n.Init) }
func (n *Assignment) Children() []Node  { return nodes(n.Target, n.Value) }
func (n *If) Children() []Node          { return nodes(n.Cond, n.Then, n.Else) }
func (n *For) Children() []Node         { return nodes(n.Init, n.Cond, n.Post, n.Body) }
func (n *While) Children() []Node       { return nodes(n.Cond, n.Body) }
func (n *Return) Children() []Node      { return nodes(n.Value) }
func (n *Call) Children() []Node        { return n.Args }
func (n *BinaryOp) Children() []Node    { return nodes(n.Left, n.Right) }
func (n *Identifier) Children() []Node  { return nil }
func (n *Literal) Children() []Node     { return nil }

// Walk visits n and its descendants depth first in source order. Returning
// false from fn skips the children of the node just visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}
