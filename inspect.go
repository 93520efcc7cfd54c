package combigram

// NTInfo is the opaque value a ptree.Tree's Def field holds for every
// interior node: the nonterminal definition that produced it. Hosts that
// only need a name for display can read Name directly; package printer
// uses the unexported def pointer (via DefOf) to walk the grammar shape
// itself.
type NTInfo struct {
	Name string

	def *node
}

// String returns the nonterminal's diagnostic name.
func (i NTInfo) String() string {
	if i.Name == "" {
		return "<anonymous>"
	}
	return i.Name
}

// Kind enumerates the node shapes exposed to introspection. Only the kinds
// reachable from a grammar's public surface are represented; Ref nodes are
// resolved transparently to whatever they point at before Kind is reported,
// since a reference has no shape of its own.
type Kind int

const (
	KindTerminal Kind = iota
	KindAction
	KindSequence
	KindAlternation
	KindNonterminal
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindAction:
		return "action"
	case KindSequence:
		return "sequence"
	case KindAlternation:
		return "alternation"
	case KindNonterminal:
		return "nonterminal"
	default:
		return "unknown"
	}
}

// Bounds describes a sequence/alternation node's repetition or lookahead
// encoding: Min and Max mirror the [min,max] notation of SPEC_FULL.md §3,
// and Unbounded is set for Kleene star/plus. A node with Max == 0 and
// Unbounded false is a lookahead assertion (positive if Min > 0, negative
// if Min == 0).
type Bounds struct {
	Min       int
	Max       int
	Unbounded bool
}

// View is a read-only introspection handle onto a single grammar node,
// used by package printer to render a grammar without depending on its
// unexported representation.
type View struct {
	n *node
}

// Inspect resolves e (following through any Ref transparently) to a View.
func Inspect(e Expr) View {
	return View{n: resolveRef(e.expr())}
}

func resolveRef(n *node) *node {
	for n.kind == kindRef {
		n = n.def
	}
	return n
}

// Kind reports this node's shape.
func (v View) Kind() Kind {
	switch v.n.kind {
	case kindTok:
		return KindTerminal
	case kindAct:
		return KindAction
	case kindSeq:
		return KindSequence
	case kindAlt:
		return KindAlternation
	case kindDef:
		return KindNonterminal
	default:
		return KindTerminal
	}
}

// Name returns the node's diagnostic name, if any (nonterminals and named
// terminals carry one; anonymous combinator wrappers do not).
func (v View) Name() string {
	return v.n.name
}

// Bounds returns the repetition/lookahead bounds of a sequence or
// alternation node. It is the zero Bounds for every other kind.
func (v View) Bounds() Bounds {
	if v.n.kind != kindSeq && v.n.kind != kindAlt {
		return Bounds{}
	}
	return Bounds{Min: v.n.min, Max: v.n.max, Unbounded: v.n.unbounded}
}

// IsLookahead reports whether a sequence/alternation node is a lookahead
// assertion rather than an ordinary (possibly repeated) match.
func (v View) IsLookahead() bool {
	return (v.n.kind == kindSeq || v.n.kind == kindAlt) && v.n.isLookahead()
}

// LookaheadPositive reports whether a lookahead node asserts a match
// (true) or asserts an absence (false). Only meaningful when IsLookahead
// is true.
func (v View) LookaheadPositive() bool {
	return v.n.lookaheadPositive()
}

// Children returns the views of a sequence/alternation node's operands, in
// order. It is empty for every other kind.
func (v View) Children() []View {
	if v.n.kind != kindSeq && v.n.kind != kindAlt {
		return nil
	}
	out := make([]View, len(v.n.children))
	for i, c := range v.n.children {
		out[i] = View{n: c}
	}
	return out
}

// Alternatives returns the views of a nonterminal's right-hand-side
// alternatives, in order. It is empty for every other kind.
func (v View) Alternatives() []View {
	if v.n.kind != kindDef {
		return nil
	}
	out := make([]View, len(v.n.alternatives))
	for i, a := range v.n.alternatives {
		out[i] = View{n: a}
	}
	return out
}

// TokenCode returns a terminal node's token class code. It is zero for
// every other kind.
func (v View) TokenCode() int {
	if v.n.kind != kindTok {
		return 0
	}
	return v.n.tokCode
}

// DefOf extracts the nonterminal definition reference held in a
// successfully-parsed ptree.Tree node's Def field, for nodes produced by
// this package (any other value yields the zero NTInfo and false).
func DefOf(def any) (NTInfo, bool) {
	info, ok := def.(NTInfo)
	return info, ok
}
