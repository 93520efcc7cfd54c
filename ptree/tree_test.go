package ptree

import (
	"testing"

	"github.com/dekarrin/combigram/token"
	"github.com/stretchr/testify/assert"
)

func Test_AddChild_hoists_unlabeled(t *testing.T) {
	assert := assert.New(t)

	parent := Interior("N")
	transient := &Tree{} // unlabeled accumulator, as produced by Seq/Alt
	transient.AddChild(Leaf(token.Token{Text: "a"}))
	transient.AddChild(Leaf(token.Token{Text: "b"}))

	parent.AddChild(transient)

	assert.Len(parent.Children, 2)
	assert.Equal("a", parent.Children[0].Name)
	assert.Equal("b", parent.Children[1].Name)
}

func Test_AddChild_keeps_labeled(t *testing.T) {
	assert := assert.New(t)

	parent := Interior("N")
	child := Interior("M")
	child.AddChild(Leaf(token.Token{Text: "x"}))

	parent.AddChild(child)

	assert.Len(parent.Children, 1)
	assert.Same(child, parent.Children[0])
}

func Test_String_and_Equal(t *testing.T) {
	assert := assert.New(t)

	a := Interior("N")
	a.AddChild(Leaf(token.Token{Text: "1"}))
	a.Name = "N"

	b := Interior("N")
	b.AddChild(Leaf(token.Token{Text: "1"}))
	b.Name = "N"

	assert.True(a.Equal(b))
	assert.Contains(a.String(), "TERM \"1\"")

	c := Interior("N")
	c.Name = "N"
	assert.False(a.Equal(c))
}

func Test_Clear(t *testing.T) {
	assert := assert.New(t)
	tr := Interior("N")
	tr.AddChild(Leaf(token.Token{Text: "z"}))
	tr.Clear()
	assert.False(tr.Terminal)
	assert.Nil(tr.Def)
	assert.Empty(tr.Children)
}
