package symtab

import (
	"fmt"
	"io"
	"sort"

	"github.com/vyPal/Cafezinho/lib/ast"
)

const DefaultSize = 1024

type Symbol struct {
	Name        string
	Type        ast.DataType
	Info        ast.TypeInfo
	IsFunction  bool
	IsParam     bool
	Level       int
	Line        int
	Initialized bool

	// Value is a storage slot kept for tooling. The interpreter holds its
	// own runtime copy and never reads it.
	Value ast.Value

	// Params is only set on function symbols.
	Params []ast.Param

	next *Symbol
}

func (s *Symbol) String() string {
	if s.IsFunction {
		return fmt.Sprintf("%s: funcao %s/%d (escopo %d)", s.Name, s.Type, len(s.Params), s.Level)
	}
	return fmt.Sprintf("%s: %s (escopo %d)", s.Name, s.Type, s.Level)
}

// Table is a chained hash table of symbols with a single scope counter.
// Each chain keeps the most recently inserted symbol first.
type Table struct {
	buckets []*Symbol
	level   int
	count   int
}

func New(size int) *Table {
	if size <= 0 {
		size = DefaultSize
	}
	return &Table{buckets: make([]*Symbol, size)}
}

// Hash is djb2 (h*33 + c, seeded with 5381) over 32-bit arithmetic, reduced
// modulo the bucket count.
func (t *Table) Hash(name string) int {
	var h uint32 = 5381
	for i := 0; i < len(name); i++ {
		h = h<<5 + h + uint32(name[i])
	}
	return int(h % uint32(len(t.buckets)))
}

// Insert adds name at the current level. It returns nil when name is
// already declared at this exact level.
func (t *Table) Insert(name string, typ ast.DataType) *Symbol {
	if existing := t.Lookup(name); existing != nil && existing.Level == t.level {
		return nil
	}
	idx := t.Hash(name)
	sym := &Symbol{
		Name:  name,
		Type:  typ,
		Level: t.level,
		next:  t.buckets[idx],
	}
	t.buckets[idx] = sym
	t.count++
	return sym
}

// Lookup returns the visible declaration of name: the match with the
// highest scope level, regardless of its place in the chain.
func (t *Table) Lookup(name string) *Symbol {
	var found *Symbol
	for s := t.buckets[t.Hash(name)]; s != nil; s = s.next {
		if s.Name == name && (found == nil || s.Level > found.Level) {
			found = s
		}
	}
	return found
}

func (t *Table) EnterScope() {
	t.level++
}

// ExitScope drops every symbol declared at the current level and steps
// back out. At level 0 it does nothing.
func (t *Table) ExitScope() {
	if t.level == 0 {
		return
	}
	for i := range t.buckets {
		link := &t.buckets[i]
		for *link != nil {
			if (*link).Level == t.level {
				*link = (*link).next
				t.count--
				continue
			}
			link = &(*link).next
		}
	}
	t.level--
}

func (t *Table) Level() int {
	return t.level
}

// Len is the number of live symbols.
func (t *Table) Len() int {
	return t.count
}

// Symbols returns a snapshot of the live symbols ordered by level, then
// name.
func (t *Table) Symbols() []*Symbol {
	out := make([]*Symbol, 0, t.count)
	for _, head := range t.buckets {
		for s := head; s != nil; s = s.next {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (t *Table) Dump(w io.Writer) {
	fmt.Fprintf(w, "escopo atual: %d, simbolos: %d\n", t.level, t.count)
	for _, s := range t.Symbols() {
		fmt.Fprintf(w, "  [%4d] %s\n", t.Hash(s.Name), s)
		for i, p := range s.Params {
			fmt.Fprintf(w, "         param %d: %s (%s)\n", i+1, p.Name, p.Type)
		}
	}
}
