package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyPal/Cafezinho/lib/token"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", IntValue(-42), "-42"},
		{"decimal two digits", DecValue(3.14159), "3.14"},
		{"decimal pads", DecValue(2), "2.00"},
		{"text", TextValue("Soma: "), "Soma: "},
		{"uninitialized", Value{Type: Inteiro}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, Inteiro, TypeOf(token.Inteiro))
	assert.Equal(t, Texto, TypeOf(token.Texto))
	assert.Equal(t, Decimal, TypeOf(token.Decimal))
	assert.Equal(t, Void, TypeOf(token.Variable))
	assert.Equal(t, "vazio", Void.String())
}

func TestChildrenSkipAbsentParts(t *testing.T) {
	loop := &For{Cond: &Identifier{Name: "!i"}, Body: &Block{}}
	children := loop.Children()
	require.Len(t, children, 2)
	assert.Equal(t, IdentifierNode, children[0].Kind())
	assert.Equal(t, BlockNode, children[1].Kind())

	fn := &FunctionDef{Name: "principal"}
	assert.Empty(t, fn.Children())

	decl := &VarDecl{Name: "!x"}
	assert.Empty(t, decl.Children())
}

func TestWalk(t *testing.T) {
	prog := &Program{Functions: []*FunctionDef{{
		Name: "principal",
		Body: &Block{Statements: []Node{
			&VarDecl{Name: "!x", Type: Inteiro, Init: &Literal{Value: IntValue(5)}},
			&Call{Name: "escreva", Builtin: Write, Args: []Node{&Identifier{Name: "!x"}}},
		}},
	}}}

	var kinds []Kind
	Walk(prog, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != VarDeclNode
	})
	assert.Equal(t, []Kind{ProgramNode, FunctionDefNode, BlockNode, VarDeclNode, CallNode, IdentifierNode}, kinds)
}

func TestDump(t *testing.T) {
	op := &BinaryOp{
		Tok:   token.Token{Kind: token.Plus, Text: "+"},
		Op:    token.Plus,
		Left:  &Literal{Tok: token.Token{Kind: token.IntLit, Text: "1"}, Value: IntValue(1)},
		Right: &Identifier{Name: "!y"},
	}
	d := Dump(op)
	assert.Equal(t, "BinaryOp", d.Kind)
	assert.Equal(t, "+", d.Op)
	require.Len(t, d.Children, 2)
	assert.Equal(t, "1", d.Children[0].Value)
	assert.Equal(t, "inteiro", d.Children[0].Type)
	assert.Equal(t, "!y", d.Children[1].Name)
}
