package registry

import (
	"github.com/dekarrin/combigram"
	"github.com/dekarrin/combigram/token"
)

// Token class codes for the binary grammar's single-character lexer, ported
// from original_source/examples/binary/binary.cpp.
const (
	binCodeZero = iota + 1
	binCodeOne
)

// tokenizeBinary assumes valid input: any character other than '0'/'1' ends
// the token stream early.
func tokenizeBinary(s string) token.Stream {
	var toks []token.Token
	for _, r := range s {
		switch r {
		case '0':
			toks = append(toks, token.Token{Code: binCodeZero, Text: "0"})
		case '1':
			toks = append(toks, token.Token{Code: binCodeOne, Text: "1"})
		default:
			return token.NewSliceStream(toks)
		}
	}
	return token.NewSliceStream(toks)
}

// buildBinary is the tail-recursive accumulator grammar REC_NUM:
//
//	GETBIT<x>>>z = BIT>>b & {z = 2*x + b}
//	BIT>>b       = '0' & {b=0} | '1' & {b=1}
//	REC_NUM<x>>>z = GETBIT<x>>>y & REC_NUM<y>>>z | GETBIT<x>>>z
//
// seeded with x=0 at the top of input, accumulating the running value as
// each bit is consumed left to right.
func buildBinary() (combigram.Expr, func() interface{}) {
	var x, y, b, z int

	getBit := combigram.New[int, int]("GETBIT")
	bit := combigram.New[struct{}, int]("BIT")

	bit.Out(&b).Define(combigram.Alt(
		combigram.Seq(combigram.Tok(binCodeZero), combigram.Do(func() bool { b = 0; return true })),
		combigram.Seq(combigram.Tok(binCodeOne), combigram.Do(func() bool { b = 1; return true })),
	))

	getBit.In(&x).Out(&z).Define(combigram.Seq(
		bit.Out(&b),
		combigram.Do(func() bool { z = 2*x + b; return true }),
	))

	recNum := combigram.New[int, int]("REC_NUM")
	recNum.In(&x).Out(&z).Define(combigram.Alt(
		combigram.Seq(getBit.In(&x).Out(&y), recNum.In(&y).Out(&z)),
		getBit.In(&x).Out(&z),
	))

	seed := 0
	result := new(int)
	start := recNum.In(&seed).Out(result)
	return start, func() interface{} { return *result }
}
