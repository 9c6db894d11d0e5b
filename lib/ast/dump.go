package ast

// DumpNode is a uniform, serializable view of a node used by the ast
// command and the --dump-ast flag.
type DumpNode struct {
	Kind     string      `json:"kind"`
	Line     int         `json:"line"`
	Column   int         `json:"column"`
	Name     string      `json:"name,omitempty"`
	Type     string      `json:"type,omitempty"`
	Op       string      `json:"op,omitempty"`
	Value    string      `json:"value,omitempty"`
	Dims     *TypeInfo   `json:"dims,omitempty"`
	Params   []DumpParam `json:"params,omitempty"`
	Children []*DumpNode `json:"children,omitempty"`
}

type DumpParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func Dump(n Node) *DumpNode {
	if n == nil {
		return nil
	}
	tok := n.Token()
	d := &DumpNode{
		Kind:   n.Kind().String(),
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column,
	}

	switch v := n.(type) {
	case *FunctionDef:
		d.Name = v.Name
		d.Type = v.ReturnType.String()
		for _, p := range v.Params {
			d.Params = append(d.Params, DumpParam{Name: p.Name, Type: p.Type.String()})
		}
	case *VarDecl:
		d.Name = v.Name
		d.Type = v.Type.String()
		d.Dims = v.Dims
	case *Call:
		d.Name = v.Name
	case *BinaryOp:
		d.Op = tok.Text
	case *Identifier:
		d.Name = v.Name
	case *Literal:
		d.Type = v.Value.Type.String()
		d.Value = tok.Text
	}

	for _, c := range n.Children() {
		d.Children = append(d.Children, Dump(c))
	}
	return d
}
