package registry

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dekarrin/combigram"
	"github.com/dekarrin/combigram/token"
)

// Token class codes for the calculator's tiny hand-written lexer, ported
// from original_source/examples/calc/calc.cpp.
const (
	calcCodePlus = iota + 1
	calcCodeMinus
	calcCodeTimes
	calcCodeDivides
	calcCodeLParen
	calcCodeRParen
	calcCodeNum
	calcCodeNewline
	calcCodeQuit
)

func calcNumExtractor(_ int, text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	return v, nil
}

// lexCalculator tokenizes a single line of calculator input: integers and
// decimals, the four arithmetic operators, parentheses, a trailing newline
// marker, and a bare "q"/"Q" quit command.
func lexCalculator(line string) token.Stream {
	var toks []token.Token
	runes := []rune(line)

	trimmed := strings.TrimSpace(line)
	if trimmed == "q" || trimmed == "Q" {
		return token.NewSliceStream([]token.Token{{Code: calcCodeQuit, Text: trimmed}})
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '+':
			toks = append(toks, token.Token{Code: calcCodePlus, Text: "+"})
		case r == '-':
			toks = append(toks, token.Token{Code: calcCodeMinus, Text: "-"})
		case r == '*':
			toks = append(toks, token.Token{Code: calcCodeTimes, Text: "*"})
		case r == '/':
			toks = append(toks, token.Token{Code: calcCodeDivides, Text: "/"})
		case r == '(':
			toks = append(toks, token.Token{Code: calcCodeLParen, Text: "("})
		case r == ')':
			toks = append(toks, token.Token{Code: calcCodeRParen, Text: ")"})
		case unicode.IsDigit(r):
			start := i
			for i+1 < len(runes) && (unicode.IsDigit(runes[i+1]) || runes[i+1] == '.') {
				i++
			}
			text := string(runes[start : i+1])
			toks = append(toks, token.Token{Code: calcCodeNum, Text: text})
		}
	}
	toks = append(toks, token.Token{Code: calcCodeNewline, Text: "\n"})
	return token.NewSliceStream(toks)
}

// buildCalculator is the combigram port of calc.cpp:
//
//	line>>a  = expr>>a & '\n' | !'q' | !'Q'
//	expr>>a  = term>>a & *( '+' & term>>b & {a+=b} | '-' & term>>b & {a-=b} )
//	term>>a  = fact>>a & *( '*' & fact>>b & {a*=b} | '/' & fact>>b & {a/=b} )
//	fact>>a  = '(' & expr>>a & ')' | num>>a
func buildCalculator() (combigram.Expr, func() interface{}) {
	var a, b float64

	num := combigram.TypedTok(calcCodeNum, calcNumExtractor)

	expr := combigram.New[struct{}, float64]("expr")
	term := combigram.New[struct{}, float64]("term")
	fact := combigram.New[struct{}, float64]("fact")
	lineNT := combigram.New[struct{}, float64]("line")

	fact.Out(&a).Define(combigram.Alt(
		combigram.Seq(combigram.Tok(calcCodeLParen), expr.Out(&a), combigram.Tok(calcCodeRParen)),
		num.Out(&a),
	))

	term.Out(&a).Define(combigram.Seq(
		fact.Out(&a),
		combigram.Star(combigram.Alt(
			combigram.Seq(combigram.Tok(calcCodeTimes), fact.Out(&b), combigram.Do(func() bool { a *= b; return true })),
			combigram.Seq(combigram.Tok(calcCodeDivides), fact.Out(&b), combigram.Do(func() bool {
				if b == 0 {
					return false
				}
				a /= b
				return true
			})),
		)),
	))

	expr.Out(&a).Define(combigram.Seq(
		term.Out(&a),
		combigram.Star(combigram.Alt(
			combigram.Seq(combigram.Tok(calcCodePlus), term.Out(&b), combigram.Do(func() bool { a += b; return true })),
			combigram.Seq(combigram.Tok(calcCodeMinus), term.Out(&b), combigram.Do(func() bool { a -= b; return true })),
		)),
	))

	lineNT.Out(&a).Define(combigram.Alt(
		combigram.Seq(expr.Out(&a), combigram.Tok(calcCodeNewline)),
		combigram.Not(combigram.Tok(calcCodeQuit)),
	))

	finalResult := new(float64)
	start := lineNT.Out(finalResult)
	return start, func() interface{} { return *finalResult }
}
