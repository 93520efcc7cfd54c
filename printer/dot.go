package printer

import (
	"fmt"
	"strings"

	"github.com/dekarrin/combigram"
	"github.com/dekarrin/combigram/internal/util"
)

// DOT renders start as a GraphViz "digraph" description, one node per
// combinator/nonterminal and one edge per parent-child relationship.
// Nonterminal references back to an already-rendered definition produce a
// single edge to the existing node rather than re-expanding it, so
// recursive grammars terminate.
func (Printer) DOT(start combigram.Expr) string {
	var sb strings.Builder
	sb.WriteString("digraph grammar {\n")
	sb.WriteString("  node [shape=box, fontname=\"monospace\"];\n")

	ids := make(map[string]int)
	next := 0
	nodeID := func(label string) (string, bool) {
		if id, ok := ids[label]; ok {
			return fmt.Sprintf("n%d", id), true
		}
		id := next
		next++
		ids[label] = id
		return fmt.Sprintf("n%d", id), false
	}

	visitedDefs := util.NewStringSet()
	writeDotNode(&sb, combigram.Inspect(start), "", nodeID, visitedDefs)

	sb.WriteString("}\n")
	return sb.String()
}

func writeDotNode(sb *strings.Builder, v combigram.View, parentID string, nodeID func(string) (string, bool), visitedDefs util.StringSet) string {
	var label string
	switch v.Kind() {
	case combigram.KindTerminal:
		label = fmt.Sprintf("tok(%d)", v.TokenCode())
	case combigram.KindAction:
		label = "act"
	case combigram.KindSequence:
		label = "seq" + boundsSuffix(v)
	case combigram.KindAlternation:
		label = "alt" + boundsSuffix(v)
	case combigram.KindNonterminal:
		label = "nt:" + v.Name()
	}

	key := label
	if v.Kind() == combigram.KindNonterminal {
		key = "def:" + v.Name()
	}
	id, existed := nodeID(key)
	if !existed {
		fmt.Fprintf(sb, "  %s [label=%q];\n", id, label)
	}
	if parentID != "" {
		fmt.Fprintf(sb, "  %s -> %s;\n", parentID, id)
	}
	if existed {
		return id
	}

	switch v.Kind() {
	case combigram.KindSequence, combigram.KindAlternation:
		for _, c := range v.Children() {
			writeDotNode(sb, c, id, nodeID, visitedDefs)
		}
	case combigram.KindNonterminal:
		if visitedDefs.Has(v.Name()) {
			return id
		}
		visitedDefs.Add(v.Name())
		for _, alt := range v.Alternatives() {
			writeDotNode(sb, alt, id, nodeID, visitedDefs)
		}
	}

	return id
}
