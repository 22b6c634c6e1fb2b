// Copyright 2019 Karl Stenerud
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS
// IN THE SOFTWARE.

package bigfloat

import (
	"fmt"

	"github.com/pkg/errors"
)

// UnsupportedOpError is returned when an accessor is called on a BigFloat
// whose Range does not support it (e.g. Significand() on an INFINITE value).
type UnsupportedOpError struct {
	Op    string
	Range Range
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("%v: unsupported on a %v value", e.Op, e.Range)
}

// InvalidArgumentError is returned when a caller passes a value that is
// structurally disallowed, independent of magnitude (a non-power-of-two
// radix, an INFINITE/NaN value fed to the radix converter, and so on).
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// OverflowError is returned when an operation would exceed a guarded size
// limit: a Levenshtein preamble too large to hold, an insert beyond the
// BitStream's 64-bit head buffer, an exponent outside the radix converter's
// representable range.
type OverflowError struct {
	Message string
}

func (e *OverflowError) Error() string {
	return e.Message
}

// ParseError wraps a failure encountered while decoding an encoded string:
// a non-hex digit, a truncated stream, or an overflow surfaced while
// decoding. It carries the offending input alongside the underlying cause
// so callers can unwrap() or errors.Cause() back to it.
type ParseError struct {
	Input string
	cause error
}

func newParseError(input string, cause error) *ParseError {
	return &ParseError{Input: input, cause: errors.WithStack(cause)}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%q: %v", e.Input, e.cause)
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

func (e *ParseError) Cause() error {
	return errors.Cause(e.cause)
}
