// Package printer renders a combigram grammar and its parse results for
// humans: a structural dump of a grammar's combinator shape, and a
// leveled-prefix rendering of a ptree.Tree (delegating to ptree.Tree's own
// String for the latter). It works entirely through combigram's exported
// View introspection, never touching the package's unexported node
// representation directly.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/combigram"
	"github.com/dekarrin/combigram/internal/util"
	"github.com/dekarrin/rosed"
)

const wrapWidth = 72

// Printer renders combigram.View grammars to a fixed-width text dump. The
// zero value is ready to use.
type Printer struct{}

// Grammar renders start's full combinator structure as indented text,
// following nonterminal references down to their own definitions exactly
// once each (a grammar with cyclic/recursive nonterminals is rendered with
// a single "-> NAME (see above)" marker at the repeat site instead of
// looping forever).
func (Printer) Grammar(start combigram.Expr) string {
	var sb strings.Builder
	visited := util.NewStringSet()
	writeNode(&sb, combigram.Inspect(start), 0, visited)
	return sb.String()
}

func indent(n int) string {
	return strings.Repeat("  ", n)
}

func writeNode(sb *strings.Builder, v combigram.View, depth int, visited util.StringSet) {
	prefix := indent(depth)

	switch v.Kind() {
	case combigram.KindTerminal:
		fmt.Fprintf(sb, "%sTOK(%d)", prefix, v.TokenCode())
		if v.Name() != "" {
			fmt.Fprintf(sb, " %q", v.Name())
		}
		sb.WriteByte('\n')

	case combigram.KindAction:
		fmt.Fprintf(sb, "%sACT\n", prefix)

	case combigram.KindSequence, combigram.KindAlternation:
		op := "SEQ"
		if v.Kind() == combigram.KindAlternation {
			op = "ALT"
		}
		fmt.Fprintf(sb, "%s%s%s\n", prefix, op, boundsSuffix(v))
		for _, c := range v.Children() {
			writeNode(sb, c, depth+1, visited)
		}

	case combigram.KindNonterminal:
		name := v.Name()
		if name == "" {
			name = "<anon>"
		}
		if visited.Has(name) {
			fmt.Fprintf(sb, "%sNT %s (see above)\n", prefix, name)
			return
		}
		visited.Add(name)
		fmt.Fprintf(sb, "%sNT %s\n", prefix, name)
		for i, alt := range v.Alternatives() {
			fmt.Fprintf(sb, "%s | alt %d\n", indent(depth+1), i)
			writeNode(sb, alt, depth+2, visited)
		}
	}
}

func boundsSuffix(v combigram.View) string {
	b := v.Bounds()
	switch {
	case v.IsLookahead() && v.LookaheadPositive():
		return " [lookahead+]"
	case v.IsLookahead():
		return " [lookahead-]"
	case b.Unbounded && b.Min == 0:
		return " [0,*]"
	case b.Unbounded && b.Min == 1:
		return " [1,*]"
	case b.Unbounded:
		return " [" + strconv.Itoa(b.Min) + ",*]"
	case b.Min == 1 && b.Max == 1:
		return ""
	default:
		return fmt.Sprintf(" [%d,%d]", b.Min, b.Max)
	}
}

// Describe returns a single-line, word-wrapped summary of a grammar
// node's shape, suitable for log messages and error context.
func (Printer) Describe(v combigram.View) string {
	var label string
	switch v.Kind() {
	case combigram.KindTerminal:
		label = fmt.Sprintf("terminal token %d", v.TokenCode())
	case combigram.KindAction:
		label = "action"
	case combigram.KindSequence:
		label = fmt.Sprintf("sequence of %d parts%s", len(v.Children()), boundsSuffix(v))
	case combigram.KindAlternation:
		label = fmt.Sprintf("alternation of %d parts%s", len(v.Children()), boundsSuffix(v))
	case combigram.KindNonterminal:
		label = fmt.Sprintf("nonterminal %q with %d alternative(s)", v.Name(), len(v.Alternatives()))
	}
	return rosed.Edit(label).Wrap(wrapWidth).String()
}
