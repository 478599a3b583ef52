// Package filter builds boolean condition trees out of SQL fragments.
package filter

import (
	"github.com/Konsultn-Engineering/sqlinterp/fragment"
)

// Op joins the children of a group.
type Op string

const (
	OpAnd Op = "AND"
	OpOr  Op = "OR"
)

// Node is a condition in a filter tree.
type Node interface {
	// Render returns the condition as a new fragment.
	Render() *fragment.Builder
	IsEmpty() bool
}

// Leaf is a single condition.
type Leaf struct {
	Fragment *fragment.Builder
}

// Cond creates a leaf from a template.
func Cond(tmpl string, args ...any) *Leaf {
	return &Leaf{Fragment: fragment.New(tmpl, args...)}
}

// Of wraps an existing fragment.
func Of(f *fragment.Builder) *Leaf {
	return &Leaf{Fragment: f}
}

func (l *Leaf) Render() *fragment.Builder {
	if l == nil || l.Fragment == nil {
		return fragment.Empty()
	}
	return l.Fragment.Clone()
}

// IsEmpty reports whether the leaf has no text. A leaf whose template failed
// is not empty, so the error reaches the statement.
func (l *Leaf) IsEmpty() bool {
	return l == nil || l.Fragment == nil || (l.Fragment.IsEmpty() && l.Fragment.Err() == nil)
}

// Group joins its children with Op.
type Group struct {
	Op       Op
	Children []Node
}

// And groups nodes with AND.
func And(nodes ...Node) *Group {
	return &Group{Op: OpAnd, Children: nodes}
}

// Or groups nodes with OR.
func Or(nodes ...Node) *Group {
	return &Group{Op: OpOr, Children: nodes}
}

// Add appends children to the group.
func (g *Group) Add(nodes ...Node) *Group {
	g.Children = append(g.Children, nodes...)
	return g
}

// IsEmpty reports whether every child is empty.
func (g *Group) IsEmpty() bool {
	if g == nil {
		return true
	}
	for _, c := range g.Children {
		if c != nil && !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Render joins the non-empty children. The group itself is not
// parenthesized; nested groups with more than one child are, even when
// they are the only child.
func (g *Group) Render() *fragment.Builder {
	return g.render(false)
}

func (g *Group) render(nested bool) *fragment.Builder {
	if g == nil {
		return fragment.Empty()
	}
	children := make([]Node, 0, len(g.Children))
	for _, c := range g.Children {
		if c != nil && !c.IsEmpty() {
			children = append(children, c)
		}
	}
	if len(children) == 0 {
		return fragment.Empty()
	}
	if len(children) == 1 {
		return renderChild(children[0], true)
	}

	op := g.Op
	if op == "" {
		op = OpAnd
	}
	rendered := make([]*fragment.Builder, len(children))
	for i, c := range children {
		rendered[i] = renderChild(c, true)
	}
	// Derive keeps the naming configuration of the leaves.
	out := rendered[0].Derive("")
	if nested {
		out.AppendRaw("(")
	}
	for i, f := range rendered {
		if i > 0 {
			out.AppendRaw(" " + string(op) + " ")
		}
		out.Insert(out.Len(), f)
	}
	if nested {
		out.AppendRaw(")")
	}
	return out
}

// Copy returns a copy of n that later changes to n or its fragments do not
// affect. Nodes other than groups and leaves are returned as is.
func Copy(n Node) Node {
	switch n := n.(type) {
	case *Group:
		if n == nil {
			return n
		}
		c := &Group{Op: n.Op, Children: make([]Node, len(n.Children))}
		for i, child := range n.Children {
			c.Children[i] = Copy(child)
		}
		return c
	case *Leaf:
		if n == nil || n.Fragment == nil {
			return n
		}
		return &Leaf{Fragment: n.Fragment.Clone()}
	}
	return n
}

func renderChild(n Node, nested bool) *fragment.Builder {
	if g, ok := n.(*Group); ok {
		return g.render(nested)
	}
	return n.Render()
}
