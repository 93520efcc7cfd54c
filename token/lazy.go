package token

// Producer supplies the next Token from some underlying source (a reader, a
// channel, a generator). It returns ok=false once the source is exhausted;
// once it has returned ok=false it will not be called again.
type Producer func() (tok Token, ok bool)

// LazyStream is an on-demand Stream that calls a Producer to fill its
// buffer only as far as Has/At require. Once the Producer reports
// exhaustion, done is set and Has becomes sticky-false for every position at
// or beyond the end of the buffer, satisfying the monotonicity requirement
// of Stream.
type LazyStream struct {
	produce Producer
	buf     []Token
	done    bool
}

// NewLazyStream returns a Stream that fills itself by calling produce as
// later positions are requested.
func NewLazyStream(produce Producer) *LazyStream {
	return &LazyStream{produce: produce}
}

// fill pulls Tokens from the Producer until the buffer reaches at least
// pos+1 Tokens long or the Producer is exhausted.
func (s *LazyStream) fill(pos int) {
	for !s.done && len(s.buf) <= pos {
		tok, ok := s.produce()
		if !ok {
			s.done = true
			break
		}
		s.buf = append(s.buf, tok)
	}
}

// Has reports whether a Token is available at pos, pulling more input from
// the Producer if needed.
func (s *LazyStream) Has(pos int) bool {
	if pos < 0 {
		return false
	}
	if pos < len(s.buf) {
		return true
	}
	s.fill(pos)
	return pos < len(s.buf)
}

// At returns the Token at pos, pulling more input from the Producer if
// needed. Callers must only call At(pos) after confirming Has(pos).
func (s *LazyStream) At(pos int) Token {
	s.fill(pos)
	return s.buf[pos]
}
