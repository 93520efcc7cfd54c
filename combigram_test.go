package combigram

import (
	"testing"

	"github.com/dekarrin/combigram/extract"
	"github.com/dekarrin/combigram/ptree"
	"github.com/dekarrin/combigram/token"
	"github.com/stretchr/testify/assert"
)

const (
	codeZero = iota + 1
	codeOne
	codeA
	codeB
	codeQuit
	codePlus
	codeNum
)

func toks(codes ...int) token.Stream {
	ts := make([]token.Token, len(codes))
	for i, c := range codes {
		ts[i] = token.Token{Code: c, Text: string(rune('0' + c))}
	}
	return token.NewSliceStream(ts)
}

func Test_Invariant_idempotent_rejection(t *testing.T) {
	assert := assert.New(t)

	grammar := Seq(Tok(codeA), Tok(codeB))
	str := toks(codeA, codeA)

	pos := 1
	ok := Parse(grammar, str, &pos, nil)
	assert.False(ok)
	assert.Equal(1, pos)
}

func Test_Invariant_monotonic_acceptance(t *testing.T) {
	assert := assert.New(t)

	grammar := Seq(Tok(codeA), Tok(codeB))
	str := toks(codeA, codeB, codeA)

	pos := 0
	ok := Parse(grammar, str, &pos, nil)
	assert.True(ok)
	assert.Equal(2, pos)
}

func Test_Lookahead_does_not_consume(t *testing.T) {
	assert := assert.New(t)

	grammar := Seq(Lookahead(Tok(codeA)), Tok(codeA), Tok(codeB))
	str := toks(codeA, codeB)

	pos := 0
	ok := Parse(grammar, str, &pos, nil)
	assert.True(ok)
	assert.Equal(2, pos)
}

func Test_Lookahead_commits_children_to_parent(t *testing.T) {
	assert := assert.New(t)

	grammar := Seq(Lookahead(Tok(codeA)), Tok(codeA), Tok(codeB))
	str := toks(codeA, codeB)

	var tr ptree.Tree
	pos := 0
	ok := Parse(grammar, str, &pos, &tr)
	assert.True(ok)
	assert.Equal(2, pos)
	// the lookahead's matched 'a' leaf is committed alongside the real
	// match of the same token and the following 'b'.
	assert.Len(tr.Children, 3)
}

func Test_Not_rejects_when_child_matches(t *testing.T) {
	assert := assert.New(t)

	grammar := Seq(Not(Tok(codeQuit)), Tok(codeA))
	str := toks(codeQuit)

	pos := 0
	ok := Parse(grammar, str, &pos, nil)
	assert.False(ok)
	assert.Equal(0, pos)
}

func Test_Not_and_Lookahead_are_dual(t *testing.T) {
	assert := assert.New(t)

	pos := 0
	assert.True(Parse(Not(Tok(codeA)), toks(codeB), &pos, nil))
	assert.Equal(0, pos)

	pos = 0
	assert.False(Parse(Lookahead(Tok(codeA)), toks(codeB), &pos, nil))
	assert.Equal(0, pos)
}

func Test_Alternation_commits_to_first_match(t *testing.T) {
	assert := assert.New(t)

	grammar := Alt(Tok(codeA), Tok(codeB))
	pos := 0
	assert.True(Parse(grammar, toks(codeA), &pos, nil))

	pos = 0
	assert.True(Parse(grammar, toks(codeB), &pos, nil))

	pos = 0
	assert.False(Parse(grammar, toks(codeQuit), &pos, nil))
}

func Test_Repetition_bounds(t *testing.T) {
	assert := assert.New(t)

	grammar := RepRange(Tok(codeA), 2, 3)

	pos := 0
	assert.False(Parse(grammar, toks(codeA), &pos, nil))
	assert.Equal(0, pos)

	pos = 0
	assert.True(Parse(grammar, toks(codeA, codeA), &pos, nil))
	assert.Equal(2, pos)

	pos = 0
	assert.True(Parse(grammar, toks(codeA, codeA, codeA, codeA), &pos, nil))
	assert.Equal(3, pos)
}

func Test_Star_and_Plus(t *testing.T) {
	assert := assert.New(t)

	pos := 0
	assert.True(Parse(Star(Tok(codeA)), toks(), &pos, nil))
	assert.Equal(0, pos)

	pos = 0
	assert.False(Parse(Plus(Tok(codeA)), toks(), &pos, nil))

	pos = 0
	assert.True(Parse(Plus(Tok(codeA)), toks(codeA, codeA, codeA), &pos, nil))
	assert.Equal(3, pos)
}

func Test_TreeHoisting_anonymous_nodes_elided(t *testing.T) {
	assert := assert.New(t)

	N := New[struct{}, struct{}]("N")
	N.Define(Seq(Tok(codeA), Tok(codeB)))

	var tr ptree.Tree
	pos := 0
	ok := Parse(N, toks(codeA, codeB), &pos, &tr)
	assert.True(ok)
	assert.Len(tr.Children, 1)
	assert.Equal(2, len(tr.Children[0].Children))
}

func Test_Define_called_twice_accumulates_alternatives(t *testing.T) {
	assert := assert.New(t)

	N := New[struct{}, struct{}]("N")
	N.Define(Tok(codeA))
	N.Define(Tok(codeB))

	pos := 0
	assert.True(Parse(N, toks(codeA), &pos, nil))

	pos = 0
	assert.True(Parse(N, toks(codeB), &pos, nil))

	pos = 0
	assert.False(Parse(N, toks(codeQuit), &pos, nil))
}

func Test_Define_called_twice_through_Use_accumulates_alternatives(t *testing.T) {
	assert := assert.New(t)

	var out int
	N := New[struct{}, int]("N")
	N.Out(&out).Define(Seq(Tok(codeA), Do(func() bool { out = 1; return true })))
	N.Out(&out).Define(Seq(Tok(codeB), Do(func() bool { out = 2; return true })))

	pos := 0
	ok := Parse(N.Out(&out), toks(codeA), &pos, nil)
	assert.True(ok)
	assert.Equal(1, out)

	pos = 0
	ok = Parse(N.Out(&out), toks(codeB), &pos, nil)
	assert.True(ok)
	assert.Equal(2, out)
}

func Test_AttributeIsolation_other_nonterminal_output_restored(t *testing.T) {
	assert := assert.New(t)

	var w int
	M := New[struct{}, int]("M")
	M.Out(&w).Define(Do(func() bool { w = 5; return true }))

	var z int
	N := New[struct{}, int]("N")
	N.Out(&z).Define(Alt(
		Seq(M.Out(&w), Tok(codeQuit)), // M succeeds (w=5) but the alternative fails overall
		Do(func() bool { z = 7; return true }),
	))

	pos := 0
	ok := Parse(N.Out(&z), toks(codeA), &pos, nil)
	assert.True(ok)
	assert.Equal(7, z)
	assert.Equal(0, w)
}

// Count-a's: A>>x = 'a'&A>>x&{x++} | !'a'&{x=0}
func Test_CountingAs(t *testing.T) {
	assert := assert.New(t)

	var x int
	A := New[struct{}, int]("A")
	rec := A.Out(&x)
	rec.Define(Alt(
		Seq(Tok(codeA), A.Out(&x), Do(func() bool { x++; return true })),
		Seq(Not(Tok(codeA)), Do(func() bool { x = 0; return true })),
	))

	pos := 0
	x = -1
	ok := Parse(A.Out(&x), toks(codeA, codeA, codeA, codeB), &pos, nil)
	assert.True(ok)
	assert.Equal(3, x)
	assert.Equal(3, pos)
}

// Binary-to-decimal, tail-recursive accumulator style:
// N(x)>>z = '0'&N(2x)>>z | '1'&N(2x+1)>>z | !('0'|'1')&{z=x}
//
// x and z are the nonterminal's declared (shared, statically-pinned)
// attribute slots; y is scratch used to stage the doubled accumulator
// value before each recursive reference swaps it into x.
func Test_BinaryToDecimal_tailRecursive(t *testing.T) {
	assert := assert.New(t)

	var x, y, z int
	N := New[int, int]("N")
	N.In(&x).Out(&z).Define(Alt(
		Seq(Tok(codeZero), Do(func() bool { y = 2 * x; return true }), N.In(&y).Out(&z)),
		Seq(Tok(codeOne), Do(func() bool { y = 2*x + 1; return true }), N.In(&y).Out(&z)),
		Seq(Not(Alt(Tok(codeZero), Tok(codeOne))), Do(func() bool { z = x; return true })),
	))

	seed, result := 0, 0
	pos := 0
	ok := Parse(N.In(&seed).Out(&result), toks(codeOne, codeZero, codeOne, codeOne), &pos, nil)
	assert.True(ok)
	assert.Equal(4, pos)
	assert.Equal(0b1011, result)
}

func Test_ExtractionFailure_is_match_failure(t *testing.T) {
	assert := assert.New(t)

	term := TypedTok(codeNum, extract.Default[int]())
	var n int

	ts := token.NewSliceStream([]token.Token{{Code: codeNum, Text: "not-a-number"}})
	pos := 0
	ok := Parse(term.Out(&n), ts, &pos, nil)
	assert.False(ok)
	assert.Equal(0, pos)
}

func Test_Flattening_preserves_order(t *testing.T) {
	assert := assert.New(t)

	inner := Seq(Tok(codeA), Tok(codeB))
	outer := Seq(inner, Tok(codeQuit))

	pos := 0
	ok := Parse(outer, toks(codeA, codeB, codeQuit), &pos, nil)
	assert.True(ok)
	assert.Equal(3, pos)
}
