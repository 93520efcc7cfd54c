package combigram

// NT declares a nonterminal with an input attribute of type In and an
// output attribute of type Out. Use struct{} for either type parameter when
// a nonterminal needs no input or no output attribute. §4.1/§6 of
// SPEC_FULL.md.
//
// An NT must be defined exactly once with Define (directly, or via In/Out
// to pin its declared attribute slots) before any grammar containing a
// reference to it is parsed; referencing an undefined NT is a program
// error discovered at parse time.
type NT[In, Out any] struct {
	n *node
}

// New declares a fresh, as-yet-undefined nonterminal named name. name is
// used only for diagnostics and printer output.
func New[In, Out any](name string) *NT[In, Out] {
	return &NT[In, Out]{n: &node{kind: kindDef, name: name}}
}

// In returns a Use bound to dst as this nonterminal's input attribute at
// this particular reference or definition site.
func (nt *NT[In, Out]) In(dst *In) *Use[In, Out] {
	return &Use[In, Out]{nt: nt, in: dst}
}

// Out returns a Use bound to dst as this nonterminal's output attribute at
// this particular reference or definition site.
func (nt *NT[In, Out]) Out(dst *Out) *Use[In, Out] {
	return &Use[In, Out]{nt: nt, out: dst}
}

// Define appends rhs as an additional alternative to this nonterminal's
// right-hand side, without pinning any declared attribute slot. Only valid
// for nonterminals that never bind an input or output attribute anywhere
// (every use-site is the bare NT value itself, never In/Out). If rhs is
// itself a plain (non-repeated, non-lookahead) Alt, its branches are spliced
// in directly rather than nesting an extra anonymous Alt layer. Calling
// Define more than once on the same nonterminal accumulates alternatives;
// none of the prior right-hand sides are discarded.
func (nt *NT[In, Out]) Define(rhs Expr) {
	nt.n.alternatives = append(nt.n.alternatives, alternativesOf(rhs)...)
}

// expr lets a bare, unbound *NT be used directly as an Expr: a reference
// with no input or output attribute threaded through.
func (nt *NT[In, Out]) expr() *node {
	return &node{kind: kindRef, name: nt.n.name, def: nt.n}
}

// alternativesOf returns the set of Def alternatives contributed by rhs: if
// rhs resolves to a plain Alt (ordinary alternation, not a lookahead or
// bounded repetition), its children are spliced in directly; otherwise rhs
// itself is the sole alternative.
func alternativesOf(rhs Expr) []*node {
	n := rhs.expr()
	if n.kind == kindAlt && !n.isLookahead() && !n.unbounded && n.min == 1 && n.max == 1 {
		return n.children
	}
	return []*node{n}
}

// Use is a nonterminal reference or definition site with zero or more
// attribute bindings attached. Obtained from NT.In/NT.Out; chain both to
// bind input and output at the same use-site.
type Use[In, Out any] struct {
	nt *NT[In, Out]
	in *In
	out *Out
}

// In attaches (or replaces) this use-site's input binding.
func (u *Use[In, Out]) In(dst *In) *Use[In, Out] {
	u.in = dst
	return u
}

// Out attaches (or replaces) this use-site's output binding.
func (u *Use[In, Out]) Out(dst *Out) *Use[In, Out] {
	u.out = dst
	return u
}

// Define appends rhs as an additional alternative to this nonterminal's
// right-hand side and pins its declared input/output attribute slots to
// this use-site's bindings. Calling Define again through a Use bound to
// different locations than a prior Define (or than an already-pinned
// declared slot) is a program error: every definition of the same
// nonterminal must agree on where its attributes live. Otherwise,
// successive calls accumulate alternatives rather than replacing the
// nonterminal's prior right-hand side.
func (u *Use[In, Out]) Define(rhs Expr) {
	declIn := newSlot(u.in)
	declOut := newSlot(u.out)

	if u.nt.n.declaredIn != nil && declIn != nil && u.nt.n.declaredIn.identity() != declIn.identity() {
		panic(programErrorf("nonterminal %q redefined with a different input location", u.nt.n.name))
	}
	if u.nt.n.declaredOut != nil && declOut != nil && u.nt.n.declaredOut.identity() != declOut.identity() {
		panic(programErrorf("nonterminal %q redefined with a different output location", u.nt.n.name))
	}
	if u.nt.n.declaredIn == nil {
		u.nt.n.declaredIn = declIn
	}
	if u.nt.n.declaredOut == nil {
		u.nt.n.declaredOut = declOut
	}

	u.nt.n.alternatives = append(u.nt.n.alternatives, alternativesOf(rhs)...)
}

// expr resolves this use-site to a reference node carrying whatever
// input/output bindings were attached.
func (u *Use[In, Out]) expr() *node {
	return &node{
		kind:     kindRef,
		name:     u.nt.n.name,
		def:      u.nt.n,
		boundIn:  newSlot(u.in),
		boundOut: newSlot(u.out),
	}
}
