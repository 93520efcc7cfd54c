package token

// SliceStream is an eagerly-tokenized Stream backed by a fixed slice of
// Tokens, for use when the entire input has already been lexed into memory.
type SliceStream struct {
	toks []Token
}

// NewSliceStream returns a Stream that serves toks in order starting at
// position 0. The slice is not copied; callers should not mutate it for the
// lifetime of the stream.
func NewSliceStream(toks []Token) *SliceStream {
	return &SliceStream{toks: toks}
}

// Has reports whether pos is a valid index into the underlying slice.
func (s *SliceStream) Has(pos int) bool {
	return pos >= 0 && pos < len(s.toks)
}

// At returns the Token at pos.
func (s *SliceStream) At(pos int) Token {
	return s.toks[pos]
}

// Len returns the total number of Tokens served by the stream.
func (s *SliceStream) Len() int {
	return len(s.toks)
}
