package combigram

import "reflect"

// attrSlot is a type-erased handle onto a single host-owned attribute
// location (an *In or *Out pointer a grammar author supplied at a use-site
// or a definition-site). The engine never knows the concrete attribute type
// it is threading; it only ever saves, restores, or exchanges slots through
// this interface. Strategy (a) of §9 of SPEC_FULL.md.
type attrSlot interface {
	// identity returns a value that is equal for two slots iff they were
	// constructed from the exact same pointer. Used to detect aliasing
	// (declared in/out pinned to the same host variable) and to decide
	// whether a bound use-site location already coincides with a Def's
	// declared location (in which case no exchange is needed).
	identity() uintptr

	// snapshot captures the slot's current value and returns a closure that
	// restores it when called. Used by Def to undo speculative writes made
	// by attribute slots other than the one being threaded back to the
	// caller.
	snapshot() func()

	// swapWith exchanges this slot's value with other's. Panics with a
	// *ProgramError if other does not hold the same concrete attribute
	// type.
	swapWith(other attrSlot)
}

// slot is the concrete attrSlot implementation: a pointer to a single host
// variable of type T.
type slot[T any] struct {
	p *T
}

// newSlot wraps p as an attrSlot. A nil p yields a nil attrSlot (no binding
// at this use-site).
func newSlot[T any](p *T) attrSlot {
	if p == nil {
		return nil
	}
	return slot[T]{p: p}
}

func (s slot[T]) identity() uintptr {
	return reflect.ValueOf(s.p).Pointer()
}

func (s slot[T]) snapshot() func() {
	saved := *s.p
	p := s.p
	return func() { *p = saved }
}

func (s slot[T]) swapWith(other attrSlot) {
	o, ok := other.(slot[T])
	if !ok {
		panic(programErrorf("attribute type mismatch during slot exchange: %T vs %T", s, other))
	}
	*s.p, *o.p = *o.p, *s.p
}

// slotIdentity is a convenience for comparing a possibly-nil attrSlot
// against another possibly-nil attrSlot by underlying pointer identity.
func slotIdentity(a attrSlot) (uintptr, bool) {
	if a == nil {
		return 0, false
	}
	return a.identity(), true
}
