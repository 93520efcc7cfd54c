package printer

import (
	"testing"

	"github.com/dekarrin/combigram"
	"github.com/stretchr/testify/assert"
)

func Test_Grammar_renders_terminals_and_bounds(t *testing.T) {
	assert := assert.New(t)

	g := combigram.Star(combigram.Tok(1))
	out := Printer{}.Grammar(g)

	assert.Contains(out, "SEQ [0,*]")
	assert.Contains(out, "TOK(1)")
}

func Test_Grammar_stops_at_recursive_nonterminal(t *testing.T) {
	assert := assert.New(t)

	n := combigram.New[struct{}, struct{}]("N")
	n.Define(combigram.Alt(
		combigram.Seq(combigram.Tok(1), n),
		combigram.Tok(2),
	))

	out := Printer{}.Grammar(n)
	assert.Contains(out, "NT N")
	assert.Contains(out, "see above")
}

func Test_DOT_emits_digraph(t *testing.T) {
	assert := assert.New(t)

	g := combigram.Seq(combigram.Tok(1), combigram.Tok(2))
	out := Printer{}.DOT(g)

	assert.Contains(out, "digraph grammar")
	assert.Contains(out, "->")
}
