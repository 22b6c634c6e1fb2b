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
	"testing"
)

func assertLevenshteinRoundTrip(t *testing.T, n int64) {
	sink := NewBitSink()
	if err := EncodeLevenshtein(sink, big.NewInt(n)); err != nil {
		t.Fatalf("EncodeLevenshtein(%v): %v", n, err)
	}
	hex := sink.Flush()

	source := NewBitSource(hex)
	decoded, err := DecodeLevenshtein(source)
	if err != nil {
		t.Fatalf("DecodeLevenshtein(%q): %v", hex, err)
	}
	if decoded.Cmp(big.NewInt(n)) != 0 {
		t.Errorf("n=%v encoded to %q, decoded back to %v", n, hex, decoded)
	}
}

func TestLevenshteinRoundTripSmall(t *testing.T) {
	for _, n := range []int64{0, 1, 2, 3, 4, 5, 7, 8, 15, 16, 17, 31, 32, 1000, 1000000} {
		assertLevenshteinRoundTrip(t, n)
	}
}

func TestLevenshteinRoundTripLarge(t *testing.T) {
	big1 := new(big.Int).Lsh(big.NewInt(1), 100)
	big2 := new(big.Int).Add(big1, big.NewInt(12345))
	for _, n := range []*big.Int{big1, big2, new(big.Int).Lsh(big.NewInt(1), 500)} {
		sink := NewBitSink()
		if err := EncodeLevenshtein(sink, n); err != nil {
			t.Fatalf("EncodeLevenshtein(%v): %v", n, err)
		}
		hex := sink.Flush()
		source := NewBitSource(hex)
		decoded, err := DecodeLevenshtein(source)
		if err != nil {
			t.Fatalf("DecodeLevenshtein(%q): %v", hex, err)
		}
		if decoded.Cmp(n) != 0 {
			t.Errorf("n=%v encoded to %q, decoded back to %v", n, hex, decoded)
		}
	}
}

func TestLevenshteinRejectsNegative(t *testing.T) {
	sink := NewBitSink()
	if err := EncodeLevenshtein(sink, big.NewInt(-1)); err == nil {
		t.Errorf("Expected an error encoding a negative Levenshtein value")
	}
}

func TestLevenshteinMonotonicLength(t *testing.T) {
	// Larger magnitudes should never produce a shorter encoding: this is
	// what makes the tag+Levenshtein scheme order-preserving within a tag
	// group (see codec_test.go for the full order-preservation check).
	prevLen := -1
	for n := int64(0); n < 10000; n += 37 {
		sink := NewBitSink()
		if err := EncodeLevenshtein(sink, big.NewInt(n)); err != nil {
			t.Fatalf("EncodeLevenshtein(%v): %v", n, err)
		}
		hex := sink.Flush()
		if len(hex) < prevLen {
			t.Errorf("n=%v encoded shorter (%v) than a smaller n (%v)", n, len(hex), prevLen)
		}
		prevLen = len(hex)
	}
}
