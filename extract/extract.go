// Package extract holds the per-type extractor contract consulted by the
// recognition engine whenever a typed terminal use-site has an output
// attribute bound. An extractor converts a matched token's lexeme into a
// host attribute value; a failure is indistinguishable to the engine from a
// plain grammar mismatch (§4.4, §7).
package extract

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrExtraction is wrapped by any error an Func returns; the engine only
// checks for a non-nil error, but hosts can use errors.Is(err,
// ErrExtraction) to distinguish extraction failures from other error
// sources if they keep their own logs.
var ErrExtraction = errors.New("token extraction failed")

// Func converts a matched token's class code and lexeme into a value of
// type T. code and text come directly from the token.Token that matched at
// the use-site. Returning a non-nil error signals an extraction failure,
// which the engine treats as a match failure for that use-site.
type Func[T any] func(code int, text string) (T, error)

// Default returns an extractor that parses the lexeme as T using the
// standard library's usual text-to-value conversions. T must be one of
// string, bool, or one of the signed/unsigned/float numeric kinds; any
// other T causes Default's returned Func to always fail.
func Default[T any]() Func[T] {
	return func(_ int, text string) (T, error) {
		var zero T
		var v any
		var err error

		switch any(zero).(type) {
		case string:
			v = text
		case bool:
			v, err = strconv.ParseBool(text)
		case int:
			var n int64
			n, err = strconv.ParseInt(text, 10, strconv.IntSize)
			v = int(n)
		case int8:
			var n int64
			n, err = strconv.ParseInt(text, 10, 8)
			v = int8(n)
		case int16:
			var n int64
			n, err = strconv.ParseInt(text, 10, 16)
			v = int16(n)
		case int32:
			var n int64
			n, err = strconv.ParseInt(text, 10, 32)
			v = int32(n)
		case int64:
			v, err = strconv.ParseInt(text, 10, 64)
		case uint:
			var n uint64
			n, err = strconv.ParseUint(text, 10, strconv.IntSize)
			v = uint(n)
		case uint8:
			var n uint64
			n, err = strconv.ParseUint(text, 10, 8)
			v = uint8(n)
		case uint16:
			var n uint64
			n, err = strconv.ParseUint(text, 10, 16)
			v = uint16(n)
		case uint32:
			var n uint64
			n, err = strconv.ParseUint(text, 10, 32)
			v = uint32(n)
		case uint64:
			v, err = strconv.ParseUint(text, 10, 64)
		case float32:
			var f float64
			f, err = strconv.ParseFloat(text, 32)
			v = float32(f)
		case float64:
			v, err = strconv.ParseFloat(text, 64)
		default:
			return zero, fmt.Errorf("%w: no default extractor for %T", ErrExtraction, zero)
		}

		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		return v.(T), nil
	}
}
