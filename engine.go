// Package combigram is an embedded parser-combinator library with
// attributed-grammar semantics: grammars are built directly out of Go
// function calls (Seq, Alt, Star, ...) over Expr values, nonterminals
// thread typed input/output attributes through recursive descent, and a
// successful parse yields a ptree.Tree with unlabeled intermediate nodes
// already hoisted away.
package combigram

import (
	"github.com/dekarrin/combigram/ptree"
	"github.com/dekarrin/combigram/token"
)

// Parse attempts to match start against toks starting at *pos (or at
// position 0 if pos is nil). On success it reports true, advances *pos past
// the matched tokens, and, if tree is non-nil, populates it with the
// resulting parse tree. On failure it reports false and leaves *pos exactly
// where it found it (§8 Invariant 1); tree, if given, is left cleared.
func Parse(start Expr, toks token.Stream, pos *int, tree *ptree.Tree) bool {
	var local int
	if pos == nil {
		pos = &local
	}
	if tree != nil {
		tree.Clear()
	}

	entry := *pos
	n := start.expr()
	ok := n.match(pos, toks, tree)
	if !ok {
		*pos = entry
		if tree != nil {
			tree.Clear()
		}
	}
	return ok
}

// match is the single recursive recognition step shared by every node
// kind. It reports whether n matches starting at *pos; on failure it
// restores *pos to the value it held when this call began, for every node
// kind without exception (the pinned resolution of SPEC_FULL.md §4.2's open
// question on Seq/Def rewind scope, required for Invariant 1 to hold
// regardless of grammar shape). tree, when non-nil, accumulates n's
// contribution on success and is left untouched (its caller discards it) on
// failure.
func (n *node) match(pos *int, toks token.Stream, tree *ptree.Tree) bool {
	switch n.kind {
	case kindTok:
		return n.matchTok(pos, toks, tree)
	case kindAct:
		return n.action()
	case kindSeq:
		return n.matchSeq(pos, toks, tree)
	case kindAlt:
		return n.matchAlt(pos, toks, tree)
	case kindDef:
		return n.matchDef(pos, toks, tree)
	case kindRef:
		return n.matchRef(pos, toks, tree)
	default:
		panic(programErrorf("unreachable node kind %d", n.kind))
	}
}

func (n *node) matchTok(pos *int, toks token.Stream, tree *ptree.Tree) bool {
	if !toks.Has(*pos) {
		return false
	}
	tok := toks.At(*pos)
	if tok.Code != n.tokCode {
		return false
	}
	if n.extract != nil && !n.extract(tok.Code, tok.Text) {
		return false
	}
	if tree != nil {
		tree.AddChild(ptree.Leaf(tok))
	}
	*pos++
	return true
}

// matchSeq handles both ordinary (possibly repeated) concatenation and
// lookahead assertions, distinguished by isLookahead().
func (n *node) matchSeq(pos *int, toks token.Stream, tree *ptree.Tree) bool {
	entry := *pos

	if n.isLookahead() {
		var scratch *ptree.Tree
		if tree != nil {
			scratch = &ptree.Tree{}
		}
		ok := n.matchChildrenOnce(pos, toks, scratch)
		*pos = entry
		if n.lookaheadPositive() {
			if ok && tree != nil {
				tree.AddChild(scratch)
			}
			return ok
		}
		return !ok
	}

	committed := 0
	for {
		if !n.unbounded && committed >= n.max {
			return true
		}
		iterStart := *pos
		var scratch *ptree.Tree
		if tree != nil {
			scratch = &ptree.Tree{}
		}
		if !n.matchChildrenOnce(pos, toks, scratch) {
			if committed < n.min {
				*pos = entry
				return false
			}
			*pos = iterStart
			return true
		}
		if tree != nil {
			tree.AddChild(scratch)
		}
		committed++
	}
}

// matchChildrenOnce tries every child of a Seq node in order, starting from
// wherever *pos currently is. It does not rewind on failure; callers that
// need rewind-on-failure (every caller does) handle it themselves, since
// the right rewind point differs between a single lookahead attempt and one
// iteration of a repeated Seq.
func (n *node) matchChildrenOnce(pos *int, toks token.Stream, tree *ptree.Tree) bool {
	for _, c := range n.children {
		var ct *ptree.Tree
		if tree != nil {
			ct = &ptree.Tree{}
		}
		if !c.match(pos, toks, ct) {
			return false
		}
		if tree != nil {
			tree.AddChild(ct)
		}
	}
	return true
}

// matchAlt handles both ordinary (possibly repeated) alternation and
// lookahead assertions over a set of alternatives.
func (n *node) matchAlt(pos *int, toks token.Stream, tree *ptree.Tree) bool {
	entry := *pos

	if n.isLookahead() {
		var scratch *ptree.Tree
		if tree != nil {
			scratch = &ptree.Tree{}
		}
		won := n.tryAlternatives(pos, toks, scratch)
		*pos = entry
		if n.lookaheadPositive() {
			if won != nil && tree != nil {
				tree.AddChild(scratch)
			}
			return won != nil
		}
		return won == nil
	}

	committed := 0
	for {
		if !n.unbounded && committed >= n.max {
			return true
		}
		iterStart := *pos
		won := n.tryAlternatives(pos, toks, tree)
		if won == nil {
			if committed < n.min {
				*pos = entry
				return false
			}
			*pos = iterStart
			return true
		}
		committed++
	}
}

// tryAlternatives tries each of n's children in order starting at *pos,
// committing to (and returning) the first that matches. Returns the winning
// child after merging its contribution into tree (if tree is non-nil), or
// nil with *pos restored to where it started if every alternative failed.
func (n *node) tryAlternatives(pos *int, toks token.Stream, tree *ptree.Tree) *node {
	start := *pos
	for _, c := range n.children {
		*pos = start
		var ct *ptree.Tree
		if tree != nil {
			ct = &ptree.Tree{}
		}
		if c.match(pos, toks, ct) {
			if tree != nil {
				tree.AddChild(ct)
			}
			return c
		}
	}
	*pos = start
	return nil
}

// matchDef tries a Def's alternatives in order, isolating any output
// attribute not bound at this particular call-site: it saves every output
// attribute reachable from this Def's subtree other than its own declared
// output, and restores them once an alternative has committed (so
// speculative writes made by unrelated nonterminals along the winning path
// don't leak past this Def's own result).
func (n *node) matchDef(pos *int, toks token.Stream, tree *ptree.Tree) bool {
	entry := *pos
	restorers := snapshotReachableOutputs(n, n.declaredOut)

	for _, alt := range n.alternatives {
		*pos = entry
		var child *ptree.Tree
		if tree != nil {
			child = &ptree.Tree{}
		}
		if alt.match(pos, toks, child) {
			if tree != nil {
				interior := ptree.Interior(NTInfo{Name: n.name, def: n})
				interior.AddChild(child)
				tree.AddChild(interior)
			}
			for _, r := range restorers {
				r()
			}
			return true
		}
	}

	for _, r := range restorers {
		r()
	}
	*pos = entry
	return false
}

// matchRef is the doorway a Ref node uses to invoke its target Def: it
// exchanges this use-site's bound attribute locations with the Def's
// declared locations, runs the Def, then exchanges them back. Exchanging
// twice with the same pairing is its own inverse, so the same swap calls
// serve as both the entry exchange and the exit restore.
func (n *node) matchRef(pos *int, toks token.Stream, tree *ptree.Tree) bool {
	d := n.def
	// A reference with no binding at all (boundIn == boundOut == nil) is
	// legal and common for a bare top-level start expression or a
	// directly-recursive reference to the Def currently being matched: it
	// simply operates on the declared slots in place, with no exchange.

	aliased := d.declaredIn != nil && d.declaredOut != nil &&
		d.declaredIn.identity() == d.declaredOut.identity()

	var swappedIn, swappedOut bool
	doSwap := func() {
		if aliased {
			if n.boundOut != nil && d.declaredOut != nil && n.boundOut.identity() != d.declaredOut.identity() {
				n.boundOut.swapWith(d.declaredOut)
				swappedOut = true
			}
			if n.boundIn != nil && d.declaredIn != nil && n.boundIn.identity() != d.declaredIn.identity() {
				n.boundIn.swapWith(d.declaredIn)
				swappedIn = true
			}
		} else {
			if n.boundIn != nil && d.declaredIn != nil && n.boundIn.identity() != d.declaredIn.identity() {
				n.boundIn.swapWith(d.declaredIn)
				swappedIn = true
			}
			if n.boundOut != nil && d.declaredOut != nil && n.boundOut.identity() != d.declaredOut.identity() {
				n.boundOut.swapWith(d.declaredOut)
				swappedOut = true
			}
		}
	}
	undoSwap := func() {
		if aliased {
			if swappedIn {
				n.boundIn.swapWith(d.declaredIn)
			}
			if swappedOut {
				n.boundOut.swapWith(d.declaredOut)
			}
		} else {
			if swappedOut {
				n.boundOut.swapWith(d.declaredOut)
			}
			if swappedIn {
				n.boundIn.swapWith(d.declaredIn)
			}
		}
	}

	doSwap()
	ok := d.match(pos, toks, tree)
	undoSwap()
	return ok
}

// snapshotReachableOutputs walks every Def node reachable from start's
// alternatives (through Seq/Alt children and Ref targets, stopping at
// cycles) and snapshots each one's declared output attribute, skipping
// except (the output being threaded back to this call's own caller) by
// identity. It returns the restore closures, to be invoked once the caller
// has decided which alternative won.
func snapshotReachableOutputs(start *node, except attrSlot) []func() {
	visited := make(map[*node]bool)
	var restorers []func()
	seen := make(map[uintptr]bool)

	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		switch n.kind {
		case kindSeq, kindAlt:
			for _, c := range n.children {
				walk(c)
			}
		case kindDef:
			if n.declaredOut != nil {
				id := n.declaredOut.identity()
				exceptID, hasExcept := slotIdentity(except)
				if (!hasExcept || id != exceptID) && !seen[id] {
					seen[id] = true
					restorers = append(restorers, n.declaredOut.snapshot())
				}
			}
			for _, alt := range n.alternatives {
				walk(alt)
			}
		case kindRef:
			walk(n.def)
		}
	}

	for _, alt := range start.alternatives {
		walk(alt)
	}
	return restorers
}
