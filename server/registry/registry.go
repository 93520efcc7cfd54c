// Package registry holds the fixed set of built-in grammars the job server
// will run a submitted token stream against. Each entry builds a fresh
// combigram.Expr per call since a grammar's flow variables are shared,
// mutable storage and cannot safely be reused across concurrent parses (see
// combigram's Non-goals on cross-goroutine sharing of one grammar value).
package registry

import (
	"github.com/dekarrin/combigram"
	"github.com/dekarrin/combigram/token"
)

// Entry is one registered grammar: a tokenizer for raw input text, and a
// Build func that constructs a fresh start expression plus a closure to
// read the computed result out of it after a successful parse.
type Entry struct {
	Name     string
	Describe string
	Tokenize func(input string) token.Stream
	Build    func() (start combigram.Expr, result func() interface{})
}

var entries = map[string]Entry{
	"calculator": {
		Name:     "calculator",
		Describe: "arithmetic expression evaluator (+ - * / and parens)",
		Tokenize: lexCalculator,
		Build:    buildCalculator,
	},
	"binary": {
		Name:     "binary",
		Describe: "tail-recursive binary-to-decimal converter",
		Tokenize: tokenizeBinary,
		Build:    buildBinary,
	},
}

// Get returns the named entry, or false if no grammar is registered under
// that name.
func Get(name string) (Entry, bool) {
	e, ok := entries[name]
	return e, ok
}

// Names returns the registered grammar names in a stable order.
func Names() []string {
	names := make([]string, 0, len(entries))
	for _, n := range []string{"calculator", "binary"} {
		if _, ok := entries[n]; ok {
			names = append(names, n)
		}
	}
	return names
}
