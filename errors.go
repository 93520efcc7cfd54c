package combigram

import "fmt"

// ProgramError reports a misuse of the combinator API that a well-formed
// grammar should never trigger: binding the same nonterminal's declared
// attribute slot to two different locations, calling a nonterminal that
// requires an input attribute without supplying one at the use-site, or
// swapping two attribute slots of mismatched types. These are bugs in the
// grammar construction code, not recognition failures, so they panic rather
// than propagating as an ordinary error return.
type ProgramError struct {
	Msg string
}

func (e *ProgramError) Error() string {
	return "combigram: " + e.Msg
}

func programErrorf(format string, args ...any) *ProgramError {
	return &ProgramError{Msg: fmt.Sprintf(format, args...)}
}
