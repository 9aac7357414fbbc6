package lrpike

import (
	"fmt"
	"io"
	"strings"

	"github.com/hallward/lrpike/grammar"
	"github.com/hallward/lrpike/span"
)

// TreeKind distinguishes the two shapes a Tree node can take.
type TreeKind int

const (
	// TerminalNode holds a single matched token.
	TerminalNode TreeKind = iota
	// NonTerminalNode holds the children a rule reduced.
	NonTerminalNode
)

// Tree is a concrete parse tree node: either a Terminal (a single matched
// token, its span, and the exact input slice it came from) or a
// NonTerminal (a symbol and the ordered children a rule's RHS reduced
// to).
type Tree struct {
	Kind TreeKind

	Token grammar.Token
	Span  span.Span
	Slice string

	Symbol   grammar.Symbol
	Children []*Tree
}

// Terminal builds a leaf tree node.
func Terminal(tok grammar.Token, sp span.Span, slice string) *Tree {
	return &Tree{Kind: TerminalNode, Token: tok, Span: sp, Slice: slice}
}

// NonTerminal builds an interior tree node.
func NonTerminal(sym grammar.Symbol, children []*Tree) *Tree {
	return &Tree{Kind: NonTerminalNode, Symbol: sym, Children: children}
}

func (t *Tree) String() string {
	if t.Kind == TerminalNode {
		return fmt.Sprintf("%s(%q)", t.Token, t.Slice)
	}
	parts := make([]string, len(t.Children))
	for i, c := range t.Children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s(%s)", t.Symbol, strings.Join(parts, " "))
}

// Dump writes an indented, human-readable rendering of the tree to w.
func (t *Tree) Dump(w io.Writer) {
	t.dump(w, 0)
}

func (t *Tree) dump(w io.Writer, depth int) {
	indent := strings.Repeat("  ", depth)
	if t.Kind == TerminalNode {
		fmt.Fprintf(w, "%s%s %q\n", indent, t.Token, t.Slice)
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent, t.Symbol)
	for _, c := range t.Children {
		c.dump(w, depth+1)
	}
}
