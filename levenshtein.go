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
	"math/big"
)

// appendLevenshteinFields writes the nested low-bit fields of n's recursive
// bit-length chain (innermost field first) to sink, and returns the chain's
// depth: the number of recursive steps taken before reaching 0. Depth is
// always small (an iterated logarithm of n) even when n itself is huge, so
// it safely fits a plain uint.
func appendLevenshteinFields(sink *BitSink, n *big.Int) uint {
	if n.Sign() == 0 {
		return 0
	}
	width := uint(n.BitLen() - 1)
	depth := appendLevenshteinFields(sink, big.NewInt(int64(width)))
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	low := new(big.Int).And(n, mask)
	sink.AppendBig(width, low)
	return depth + 1
}

// EncodeLevenshtein writes n (which must be non-negative) to sink using
// recursive Levenshtein prefix coding: a unary count of recursion levels,
// followed by the nested low-bit fields built up by appendLevenshteinFields.
func EncodeLevenshtein(sink *BitSink, n *big.Int) error {
	if n.Sign() < 0 {
		return &InvalidArgumentError{Message: "EncodeLevenshtein: n must be non-negative"}
	}
	depth := appendLevenshteinFields(sink, n)
	if uint64(depth)+1 > maxInsertBits {
		return &OverflowError{Message: "Levenshtein unary preamble exceeds the 64-bit insert guard"}
	}
	preambleWidth := depth + 1
	preambleValue := (uint64(1)<<preambleWidth - 2) // depth ones followed by a terminating 0
	return sink.Insert(preambleWidth, preambleValue)
}

// fastPathWidthLimit is the largest field width DecodeLevenshtein will read
// through BitSource.GetInteger before switching to the big-integer path.
// It is purely a performance cutoff, not part of the encoded value's
// semantics: 63 is the widest field GetInteger can shift into a uint64
// without overflowing, so anything narrower stays on the cheap machine-word
// path and anything at or above it falls through to GetBigInteger; any
// cutoff at or below 63 would decode identical values, just slower.
const fastPathWidthLimit = 63

// DecodeLevenshtein reads a Levenshtein-coded non-negative integer from
// source.
func DecodeLevenshtein(source *BitSource) (*big.Int, error) {
	c, err := source.GetNatural()
	if err != nil {
		return nil, err
	}
	if c == 0 {
		return big.NewInt(0), nil
	}
	if c == 1 {
		return big.NewInt(1), nil
	}

	v := uint64(0)
	for i := uint(0); i < c-1; i++ {
		if v < fastPathWidthLimit {
			next, err := source.GetInteger(uint(v))
			if err != nil {
				return nil, err
			}
			v = next
			continue
		}
		next, err := source.GetBigInteger(uint(v))
		if err != nil {
			return nil, err
		}
		if !next.IsUint64() {
			return nil, &OverflowError{Message: "Levenshtein nested length field exceeds representable width"}
		}
		v = next.Uint64()
	}

	if v < fastPathWidthLimit {
		value, err := source.GetInteger(uint(v))
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(value), nil
	}
	return source.GetBigInteger(uint(v))
}
