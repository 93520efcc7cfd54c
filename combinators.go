package combigram

// Tok declares a terminal matching tokens of the given class code, with no
// output attribute. Chain .Out(&dst) on the returned TypedTerminal-building
// helper (see TypedTerminal) when the lexeme should feed a host attribute;
// use TypedTok for that case.
func Tok(code int) Terminal {
	return Terminal{n: &node{kind: kindTok, tokCode: code}}
}

// TypedTok declares a terminal matching tokens of the given class code
// whose lexeme, on a match, is converted to T via fn. Bind the conversion
// result at a particular use-site with TypedTerminal.Out; used bare (via
// its embedded expr method) it matches without capturing an attribute.
func TypedTok[T any](code int, fn func(code int, text string) (T, error)) TypedTerminal[T] {
	return TypedTerminal[T]{code: code, extractFn: fn}
}

// Do wraps a host predicate as a zero-width Act node: it consumes no
// tokens and matches iff fn returns true. Typically used for
// attribute-driven side effects (e.g. {z = 2*x + b}) or for conditions that
// reject a parse outright.
func Do(fn func() bool) Action {
	return Action{n: &node{kind: kindAct, action: fn}}
}

// Seq concatenates its arguments in order, matching iff every one matches
// consecutively starting where the previous one left off. An argument that
// is already a plain (non-repeated, non-lookahead) Seq has its children
// spliced in directly rather than nested another level, per §4 of
// SPEC_FULL.md.
func Seq(parts ...Expr) Expr {
	return wrap(&node{kind: kindSeq, children: flattenInto(kindSeq, parts), min: 1, max: 1})
}

// Alt matches iff any one of its arguments matches, trying them in order
// and committing to the first success. An argument that is already a plain
// (non-repeated, non-lookahead) Alt has its children spliced in directly.
func Alt(parts ...Expr) Expr {
	return wrap(&node{kind: kindAlt, children: flattenInto(kindAlt, parts), min: 1, max: 1})
}

// flattenInto resolves each part to a *node, splicing in the children of
// any part whose own node is a plain (bounds [1,1], non-lookahead) node of
// the same kind being built.
func flattenInto(k kind, parts []Expr) []*node {
	var out []*node
	for _, p := range parts {
		n := p.expr()
		if n.kind == k && n.min == 1 && n.max == 1 && !n.unbounded {
			out = append(out, n.children...)
			continue
		}
		out = append(out, n)
	}
	return out
}

// repWrap builds a repeated/lookahead Seq node over e's body. If e already
// resolves to a plain (bounds [1,1]) Seq, its children become the repeated
// body directly instead of nesting another nameless Seq layer; otherwise e
// becomes the sole repeated child. A node already carrying its own
// repetition or lookahead bounds is never mutated in place — it is always
// wrapped fresh, since bounds collapsing is only safe between two plain
// [1,1] groupings.
func repWrap(e Expr, min, max int, unbounded bool) *node {
	n := e.expr()
	if n.kind == kindSeq && n.min == 1 && n.max == 1 && !n.unbounded {
		return &node{kind: kindSeq, children: n.children, min: min, max: max, unbounded: unbounded}
	}
	return &node{kind: kindSeq, children: []*node{n}, min: min, max: max, unbounded: unbounded}
}

// Rep matches e exactly n times consecutively.
func Rep(e Expr, n int) Expr {
	return wrap(repWrap(e, n, n, false))
}

// RepRange matches e at least min and at most max times consecutively.
func RepRange(e Expr, min, max int) Expr {
	return wrap(repWrap(e, min, max, false))
}

// Star matches e zero or more times (Kleene star).
func Star(e Expr) Expr {
	return wrap(repWrap(e, 0, -1, true))
}

// Plus matches e one or more times (Kleene plus).
func Plus(e Expr) Expr {
	return wrap(repWrap(e, 1, -1, true))
}

// Opt matches e zero or one times.
func Opt(e Expr) Expr {
	return wrap(repWrap(e, 0, 1, false))
}

// Lookahead asserts that e matches starting at the current position
// without consuming any input either way (positive lookahead).
func Lookahead(e Expr) Expr {
	return wrap(repWrap(e, 1, 0, false))
}

// Not asserts that e does NOT match starting at the current position,
// without consuming any input either way (negative lookahead).
func Not(e Expr) Expr {
	return wrap(repWrap(e, 0, 0, false))
}
