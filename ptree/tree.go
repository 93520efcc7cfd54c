// Package ptree holds the parse tree produced by a successful combigram
// parse. A tree's interior nodes correspond to nonterminal definitions that
// committed at least one labeled descendant; its leaves correspond to
// matched terminals. Nodes contributed by anonymous combinator wrappers
// (plain Seq/Alt nodes with no name of their own) never appear: their
// children are hoisted into the nearest labeled ancestor.
package ptree

import (
	"fmt"
	"strings"

	"github.com/dekarrin/combigram/token"
)

const (
	gutterBlank    = "        "
	gutterVertical = "  |     "
	branchMid      = "  |%s: "
	branchLast     = `  \%s: `
	branchPadChar  = '-'
	branchPadWidth = 3
)

// branchGlyph renders the connector drawn in front of a child at a given
// depth, padding msg out to branchPadWidth with branchPadChar first. format
// is branchMid for every child but the last under its parent, branchLast for
// the final one.
func branchGlyph(format, msg string) string {
	for len([]rune(msg)) < branchPadWidth {
		msg = string(branchPadChar) + msg
	}
	return fmt.Sprintf(format, msg)
}

// Tree is a single node of a parse tree. Exactly one of the leaf or interior
// shapes applies: if Terminal is true, Name holds the matched lexeme and
// Source its originating Token; otherwise Def holds an opaque reference to
// the nonterminal definition that produced this node (set by package
// combigram to one of its own *NTInfo values; hosts that need to inspect it
// do so via combigram.DefOf).
type Tree struct {
	// Terminal is whether this node is a leaf produced by a matched
	// terminal.
	Terminal bool

	// Name is the matched lexeme when Terminal is true, and is otherwise the
	// empty string unless a Printer has assigned a display name.
	Name string

	// Def is the nonterminal definition that produced this node. It is nil
	// for leaves.
	Def any

	// Source is the originating Token; only meaningful when Terminal is
	// true.
	Source token.Token

	// Children is the ordered list of this node's children.
	Children []*Tree
}

// Leaf constructs a terminal Tree node for the given matched Token.
func Leaf(tok token.Token) *Tree {
	return &Tree{Terminal: true, Name: tok.Text, Source: tok}
}

// Interior constructs a non-terminal Tree node referring to def, with no
// children yet attached.
func Interior(def any) *Tree {
	return &Tree{Def: def}
}

// labeled reports whether the node would survive tree-hoisting on its own:
// a leaf always is, an interior node is labeled once it carries a Def
// reference. An empty node (neither set) is a transient accumulator used
// internally by Seq/Alt while a sub-match is still speculative.
func (t *Tree) labeled() bool {
	return t == nil || t.Terminal || t.Def != nil
}

// AddChild appends child to t, hoisting child's own children directly into t
// if child is itself unlabeled (a transient accumulator with no lexeme and
// no Def of its own). This is the tree-hoisting rule of §4.2: anonymous
// intermediate nodes created by Seq/Alt combinators never appear in the
// final tree.
func (t *Tree) AddChild(child *Tree) {
	if child == nil {
		return
	}
	if !child.Terminal && child.Def == nil {
		t.Children = append(t.Children, child.Children...)
		return
	}
	t.Children = append(t.Children, child)
}

// Clear empties the receiver in place, used by Parse to reset a
// caller-supplied tree before populating it.
func (t *Tree) Clear() {
	t.Terminal = false
	t.Name = ""
	t.Def = nil
	t.Source = token.Token{}
	t.Children = nil
}

// String returns a prettified representation of the entire tree, suitable
// for line-by-line comparison in tests. Two trees are considered
// semantically identical if they produce identical String output.
func (t *Tree) String() string {
	if t == nil {
		return "(nil)"
	}
	return t.leveledStr("", "")
}

func (t *Tree) label() string {
	if t.Terminal {
		return fmt.Sprintf("(TERM %q)", t.Name)
	}
	if t.Name != "" {
		return fmt.Sprintf("( %s )", t.Name)
	}
	return fmt.Sprintf("( %v )", t.Def)
}

func (t *Tree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	sb.WriteString(t.label())

	for i := range t.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix, leveledContPrefix string
		if i+1 < len(t.Children) {
			leveledFirstPrefix = contPrefix + branchGlyph(branchMid, "")
			leveledContPrefix = contPrefix + gutterVertical
		} else {
			leveledFirstPrefix = contPrefix + branchGlyph(branchLast, "")
			leveledContPrefix = contPrefix + gutterBlank
		}
		sb.WriteString(t.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix))
	}

	return sb.String()
}

// Equal returns whether t and o have the exact same structure: same
// terminal/interior shape, same Name, and recursively equal Children. Def
// identity is not compared directly; use combigram.DefOf if definition
// identity matters for a particular test.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Terminal != o.Terminal || t.Name != o.Name {
		return false
	}
	if len(t.Children) != len(o.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Copy returns a duplicate, deeply-copied tree.
func (t *Tree) Copy() *Tree {
	if t == nil {
		return nil
	}
	newT := &Tree{
		Terminal: t.Terminal,
		Name:     t.Name,
		Def:      t.Def,
		Source:   t.Source,
		Children: make([]*Tree, len(t.Children)),
	}
	for i := range t.Children {
		newT.Children[i] = t.Children[i].Copy()
	}
	return newT
}
