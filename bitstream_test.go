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

func assertBits(t *testing.T, numBits uint, value uint64, expectedHex string) {
	sink := NewBitSink()
	sink.Append(numBits, value)
	actual := sink.Flush()
	if actual != expectedHex {
		t.Errorf("Append(%v, %v): expected hex %q but got %q", numBits, value, expectedHex, actual)
	}
}

func TestBitSinkAppend(t *testing.T) {
	assertBits(t, 4, 0xa, "a")
	assertBits(t, 8, 0xab, "ab")
	assertBits(t, 1, 1, "8")
	assertBits(t, 3, 0x5, "a")
}

func TestBitSinkInvert(t *testing.T) {
	sink := NewBitSink()
	sink.SetInvert(true)
	sink.Append(4, 0xa)
	actual := sink.Flush()
	if actual != "5" {
		t.Errorf("Expected inverted nibble \"5\" but got %q", actual)
	}
}

func TestBitSinkInsert(t *testing.T) {
	sink := NewBitSink()
	sink.Append(4, 0x5)
	if err := sink.Insert(2, 0x3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	actual := sink.Flush()
	if actual != "d4" {
		t.Errorf("Expected \"d4\" but got %q", actual)
	}
}

func TestBitSinkInsertOverflow(t *testing.T) {
	sink := NewBitSink()
	if err := sink.Insert(60, 0); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := sink.Insert(5, 0); err == nil {
		t.Errorf("Expected an OverflowError from exceeding the 64-bit insert guard")
	}
}

func TestBitSourceRoundTrip(t *testing.T) {
	sink := NewBitSink()
	sink.Append(4, 0x9)
	sink.Append(12, 0x123)
	hex := sink.Flush()

	source := NewBitSource(hex)
	v1, err := source.GetBits(4)
	if err != nil || v1 != 0x9 {
		t.Fatalf("GetBits(4) = %v, %v; want 9, nil", v1, err)
	}
	v2, err := source.GetBits(12)
	if err != nil || v2 != 0x123 {
		t.Fatalf("GetBits(12) = %v, %v; want 0x123, nil", v2, err)
	}
}

func TestBitSourceInvert(t *testing.T) {
	source := NewBitSource("5")
	source.SetInvert(true)
	v, err := source.GetBits(4)
	if err != nil || v != 0xa {
		t.Fatalf("inverted GetBits(4) = %v, %v; want 0xa, nil", v, err)
	}
}

func TestBitSourceInvalidHex(t *testing.T) {
	source := NewBitSource("zz")
	if _, err := source.GetBits(4); err == nil {
		t.Errorf("Expected a ParseError for invalid hex digit")
	}
}

func TestBitSourceTruncated(t *testing.T) {
	source := NewBitSource("a")
	if _, err := source.GetBits(8); err == nil {
		t.Errorf("Expected a ParseError for truncated input")
	}
}

func TestGetFractionPositive(t *testing.T) {
	source := NewBitSource("c")
	value, err := source.GetFraction(false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// leading nibble 0001 followed by tail 1100 => 00011100 = 28
	if value.Cmp(big.NewInt(28)) != 0 {
		t.Errorf("Expected 28 but got %v", value)
	}
}

func TestGetFractionNegative(t *testing.T) {
	source := NewBitSource("")
	value, err := source.GetFraction(true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// leading nibble 1110 alone, two's complement of 4 bits: -2
	if value.Cmp(big.NewInt(-2)) != 0 {
		t.Errorf("Expected -2 but got %v", value)
	}
}
