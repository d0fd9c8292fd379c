package docxml

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// InputError locates the byte that made a model, page or event script
// unusable. It wraps ErrInvalidUTF8 or ErrBinaryInput.
type InputError struct {
	Err    error
	Offset int
	Line   int
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v at line %d (byte %d)", e.Err, e.Line, e.Offset)
}

func (e *InputError) Unwrap() error { return e.Err }

func inputError(src []byte, offset int, err error) *InputError {
	return &InputError{Err: err, Offset: offset, Line: bytes.Count(src[:offset], []byte{'\n'}) + 1}
}

// ValidateInput returns an *InputError if src is not valid UTF-8, contains a
// NUL byte, or is mostly control characters. Control-heavy input is reported
// at its first control byte.
func ValidateInput(src []byte) error {
	control, firstControl := 0, -1
	for i := 0; i < len(src); {
		b := src[i]
		if b >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(src[i:])
			if r == utf8.RuneError && size == 1 {
				return inputError(src, i, ErrInvalidUTF8)
			}
			i += size
			continue
		}
		if b == 0x00 {
			return inputError(src, i, ErrBinaryInput)
		}
		if isControlByte(b) {
			if firstControl < 0 {
				firstControl = i
			}
			control++
		}
		i++
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return inputError(src, firstControl, ErrBinaryInput)
	}
	return nil
}

// isControlByte reports C0 controls outside tab to carriage return, and DEL.
func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}
