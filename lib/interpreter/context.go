package interpreter

import (
	"github.com/rs/zerolog"
	"github.com/vyPal/Cafezinho/lib/ast"
	"github.com/vyPal/Cafezinho/lib/memory"
)

// variable is one entry of the runtime stack. It is resolved by name and
// lives until the depth it was declared at is popped.
type variable struct {
	name  string
	typ   ast.DataType
	dims  *ast.TypeInfo
	value ast.Value
	depth int
	block memory.Block
}

// Context is the runtime variable stack. It is separate from the symbol
// table used during analysis and keeps its own notion of nesting.
type Context struct {
	vars  []*variable
	depth int
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) push() {
	c.depth++
}

// pop removes every variable of the innermost depth and releases its
// storage. A block the allocator does not know about is logged and the
// variable is dropped regardless.
func (c *Context) pop(alloc *memory.Allocator, log zerolog.Logger) {
	n := len(c.vars)
	for n > 0 && c.vars[n-1].depth == c.depth {
		n--
		if err := alloc.Free(c.vars[n].block); err != nil {
			log.Error().Err(err).Str("variable", c.vars[n].name).Int("depth", c.depth).Msg("releasing storage")
		}
		c.vars[n] = nil
	}
	c.vars = c.vars[:n]
	if c.depth > 0 {
		c.depth--
	}
}

// lookupVariable scans from the most recent declaration backwards so an
// inner declaration shadows an outer one.
func (c *Context) lookupVariable(name string) *variable {
	for i := len(c.vars) - 1; i >= 0; i-- {
		if c.vars[i].name == name {
			return c.vars[i]
		}
	}
	return nil
}

func (c *Context) declare(v *variable) {
	v.depth = c.depth
	c.vars = append(c.vars, v)
}

// Depth is the current nesting depth.
func (c *Context) Depth() int {
	return c.depth
}

// Len is the number of live runtime variables.
func (c *Context) Len() int {
	return len(c.vars)
}
