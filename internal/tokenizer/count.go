package tokenizer

import (
	"errors"
)

// ErrNilCounter is returned when counting without a counter.
var ErrNilCounter = errors.New("nil tokenizer counter")

// CountText estimates tokens for already decoded text.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, ErrNilCounter
	}
	return counter.CountString(text)
}
