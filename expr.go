package combigram

// Expr is any grammar fragment that can appear as an operand to a
// combinator: a terminal, an action, a nonterminal reference, or the result
// of composing any of those with Seq/Alt/Rep and friends. It is the Go
// analogue of the base Parser handle in §4.1 of SPEC_FULL.md.
//
// Expr is deliberately a closed interface: the only implementations are the
// ones this package returns, so a host can never hand the engine a
// hand-rolled node.
type Expr interface {
	expr() *node
}

// wrapExpr lets a bare *node satisfy Expr without exposing the node type
// itself outside the package.
type wrapExpr struct{ n *node }

func (w wrapExpr) expr() *node { return w.n }

func wrap(n *node) Expr { return wrapExpr{n} }

// Terminal matches a single token of a fixed class code and contributes no
// attribute of its own. Use TypedTerminal (via Tok) to bind an output
// attribute extracted from the matched token's lexeme.
type Terminal struct {
	n *node
}

func (t Terminal) expr() *node { return t.n }

// TypedTerminal is a Terminal whose matched lexeme is converted to a Go
// value of type T via an extract.Func and bound to an output location at
// the use-site with Out. §4.4 of SPEC_FULL.md.
type TypedTerminal[T any] struct {
	code      int
	name      string
	extractFn func(code int, text string) (T, error)
}

// Out returns an Expr that, on a successful match, extracts the matched
// token's lexeme into *dst via this terminal's extractor. Extraction
// failure is treated as a match failure (§4.4, §7).
func (t TypedTerminal[T]) Out(dst *T) Expr {
	n := &node{kind: kindTok, name: t.name, tokCode: t.code}
	if dst != nil {
		fn := t.extractFn
		n.extract = func(code int, text string) bool {
			v, err := fn(code, text)
			if err != nil {
				return false
			}
			*dst = v
			return true
		}
	}
	return wrap(n)
}

// expr lets a TypedTerminal be used directly as a plain Expr when no output
// binding is needed at this use-site.
func (t TypedTerminal[T]) expr() *node {
	return &node{kind: kindTok, name: t.name, tokCode: t.code}
}

// Action wraps a host-supplied predicate/side-effect as a zero-width grammar
// node: it consumes no tokens and matches iff fn returns true. §4.1's Act
// kind.
type Action struct {
	n *node
}

func (a Action) expr() *node { return a.n }
