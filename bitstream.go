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
	"math/big"
	"strings"
)

const hexDigits = "0123456789abcdef"

// maxInsertBits bounds how many bits BitSink.Insert may prepend over the
// life of a sink. Levenshtein's unary preamble is the only caller and never
// needs more than a handful of bits; 64 matches the sink's internal word
// size.
const maxInsertBits = 64

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// BitSink builds a hexadecimal string one bit field at a time. Bits are
// appended MSB-first at the tail, or prepended at the head (used to write
// the Levenshtein unary length prefix after its body has already been
// written). When Invert is set, every nibble is complemented (bitwise NOT
// mod 16) at flush time, which is how the codec flips lexicographic sense
// on negative-exponent and negative-significand branches.
type BitSink struct {
	bits        []byte // one element per bit, 0 or 1, in emission order
	invert      bool
	insertedBits uint
}

// NewBitSink returns an empty sink.
func NewBitSink() *BitSink {
	return &BitSink{}
}

// SetInvert sets the sink's invert flag. Must be set before Flush.
func (s *BitSink) SetInvert(invert bool) {
	s.invert = invert
}

// Append pushes the low numBits bits of value onto the tail of the buffer,
// most significant of those bits first.
func (s *BitSink) Append(numBits uint, value uint64) {
	for i := int(numBits) - 1; i >= 0; i-- {
		s.bits = append(s.bits, byte((value>>uint(i))&1))
	}
}

// AppendBig pushes the low numBits bits of a non-negative big.Int onto the
// tail of the buffer, most significant bit first.
func (s *BitSink) AppendBig(numBits uint, value *big.Int) {
	for i := int(numBits) - 1; i >= 0; i-- {
		s.bits = append(s.bits, byte(value.Bit(i)))
	}
}

// Insert prepends the low numBits bits of value at the head of the buffer,
// most significant bit first. Fails with *OverflowError once more than 64
// bits have been inserted this way over the sink's lifetime.
func (s *BitSink) Insert(numBits uint, value uint64) error {
	if s.insertedBits+numBits > maxInsertBits {
		return &OverflowError{Message: fmt.Sprintf(
			"insert of %d bits would exceed the %d-bit head buffer (already inserted %d)",
			numBits, maxInsertBits, s.insertedBits)}
	}
	s.insertedBits += numBits
	prefix := make([]byte, 0, numBits)
	for i := int(numBits) - 1; i >= 0; i-- {
		prefix = append(prefix, byte((value>>uint(i))&1))
	}
	s.bits = append(prefix, s.bits...)
	return nil
}

// Flush zero-pads the buffer to a nibble boundary on the right and returns
// the accumulated bits as a lowercase hex string, applying Invert per
// nibble. Flush may be called only once; the sink is not reusable.
func (s *BitSink) Flush() string {
	for len(s.bits)%4 != 0 {
		s.bits = append(s.bits, 0)
	}
	var out strings.Builder
	out.Grow(len(s.bits) / 4)
	for i := 0; i < len(s.bits); i += 4 {
		var nibble byte
		for j := 0; j < 4; j++ {
			nibble = (nibble << 1) | s.bits[i+j]
		}
		if s.invert {
			nibble = ^nibble & 0xF
		}
		out.WriteByte(hexDigits[nibble])
	}
	return out.String()
}

// BitSource reads bit fields out of a hexadecimal character sequence,
// pulling further nibbles on demand. When Invert is set, every nibble is
// complemented as it is pulled from the source string, mirroring the
// sink's encode-time inversion.
type BitSource struct {
	hex     string
	pos     int
	pending []byte // unconsumed bits, pending[0] is the next bit to read
	invert  bool
}

// NewBitSource wraps a hex string for bit-field consumption.
func NewBitSource(hex string) *BitSource {
	return &BitSource{hex: hex}
}

// SetInvert sets the source's invert flag. Affects only nibbles pulled
// after the call.
func (s *BitSource) SetInvert(invert bool) {
	s.invert = invert
}

// Remaining returns the still-unconsumed tail of the hex string, not
// including any nibbles already pulled into the pending bit buffer.
func (s *BitSource) Remaining() string {
	return s.hex[s.pos:]
}

func (s *BitSource) pull() error {
	if s.pos >= len(s.hex) {
		return &ParseError{Input: s.hex, cause: fmt.Errorf("unexpected end of input")}
	}
	c := s.hex[s.pos]
	s.pos++
	nibble, ok := hexValue(c)
	if !ok {
		return &ParseError{Input: s.hex, cause: fmt.Errorf("invalid hex digit %q", c)}
	}
	if s.invert {
		nibble = ^nibble & 0xF
	}
	for j := 3; j >= 0; j-- {
		s.pending = append(s.pending, (nibble>>uint(j))&1)
	}
	return nil
}

func (s *BitSource) ensure(n int) error {
	for len(s.pending) < n {
		if err := s.pull(); err != nil {
			return err
		}
	}
	return nil
}

// GetBits consumes numBits bits from the head of the stream and returns
// them as a non-negative integer. numBits must not exceed 64.
func (s *BitSource) GetBits(numBits uint) (uint64, error) {
	if numBits > 64 {
		return 0, &OverflowError{Message: fmt.Sprintf("GetBits: %d exceeds 64-bit result", numBits)}
	}
	if err := s.ensure(int(numBits)); err != nil {
		return 0, err
	}
	var v uint64
	for i := uint(0); i < numBits; i++ {
		v = (v << 1) | uint64(s.pending[i])
	}
	s.pending = s.pending[numBits:]
	return v, nil
}

// GetBigBits is GetBits without the 64-bit ceiling, returning a big.Int.
func (s *BitSource) GetBigBits(numBits uint) (*big.Int, error) {
	if err := s.ensure(int(numBits)); err != nil {
		return nil, err
	}
	v := new(big.Int)
	one := big.NewInt(1)
	for i := uint(0); i < numBits; i++ {
		v.Lsh(v, 1)
		if s.pending[i] != 0 {
			v.Or(v, one)
		}
	}
	s.pending = s.pending[numBits:]
	return v, nil
}

// maxNaturalRunLength guards GetNatural against a pathological run of 1
// bits in malformed input; no well-formed Levenshtein preamble comes close.
const maxNaturalRunLength = 1 << 20

// GetNatural consumes a run of 1 bits terminated by a 0 bit and returns the
// run length.
func (s *BitSource) GetNatural() (uint, error) {
	var count uint
	for {
		bit, err := s.GetBits(1)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			return count, nil
		}
		count++
		if count > maxNaturalRunLength {
			return 0, &OverflowError{Message: "unary run too long while decoding Levenshtein preamble"}
		}
	}
}

// GetInteger returns (1<<numBits)|next, where next is numBits further bits
// read from the stream: the implicit-leading-1 interpretation used by
// Levenshtein's nested length fields. numBits must be less than 64 so the
// result fits in a uint64 without overflow; callers above that width must
// use GetBigInteger instead.
func (s *BitSource) GetInteger(numBits uint) (uint64, error) {
	if numBits >= 64 {
		return 0, &OverflowError{Message: fmt.Sprintf("GetInteger: %d bits exceeds the 64-bit fast path", numBits)}
	}
	rest, err := s.GetBits(numBits)
	if err != nil {
		return 0, err
	}
	return (uint64(1) << numBits) | rest, nil
}

// maxBigIntegerBitsConst bounds GetBigInteger to (2^31-1)*8 - 1 bits, the
// largest field width a byte-addressed buffer could ever need to hold;
// anything past it is almost certainly malformed input rather than a
// legitimate value, so it is rejected outright instead of allocated.
const maxBigIntegerBitsConst = (int64(1)<<31 - 1) * 8 - 1

// GetBigInteger is GetInteger without the 64-bit ceiling. Fails with
// *OverflowError once numBits would exceed the guard.
func (s *BitSource) GetBigInteger(numBits uint) (*big.Int, error) {
	if int64(numBits) > maxBigIntegerBitsConst {
		return nil, &OverflowError{Message: fmt.Sprintf(
			"GetBigInteger: %d bits exceeds the maximum of %d", numBits, maxBigIntegerBitsConst)}
	}
	rest, err := s.GetBigBits(numBits)
	if err != nil {
		return nil, err
	}
	result := new(big.Int).Lsh(big.NewInt(1), numBits)
	result.Or(result, rest)
	return result, nil
}

// GetFraction consumes the remaining hex tail as a signed two's-complement
// integer, prepending an explicit leading nibble (0001 for a positive
// significand, 1110 for a negative one) so the implicit leading-1 bit and
// the sign are restored before interpretation. The invert flag, if set,
// still applies to every nibble pulled from the tail.
func (s *BitSource) GetFraction(negative bool) (*big.Int, error) {
	tailBits := make([]byte, 0, 4*(len(s.hex)-s.pos)+4)
	if negative {
		tailBits = append(tailBits, 1, 1, 1, 0)
	} else {
		tailBits = append(tailBits, 0, 0, 0, 1)
	}
	for s.pos < len(s.hex) {
		c := s.hex[s.pos]
		s.pos++
		nibble, ok := hexValue(c)
		if !ok {
			return nil, &ParseError{Input: s.hex, cause: fmt.Errorf("invalid hex digit %q", c)}
		}
		if s.invert {
			nibble = ^nibble & 0xF
		}
		for j := 3; j >= 0; j-- {
			tailBits = append(tailBits, (nibble>>uint(j))&1)
		}
	}
	return twosComplementToBigInt(tailBits), nil
}

// twosComplementToBigInt interprets bits (MSB first, bits[0] the sign bit)
// as a two's-complement signed integer.
func twosComplementToBigInt(bits []byte) *big.Int {
	magnitude := new(big.Int)
	for _, b := range bits {
		magnitude.Lsh(magnitude, 1)
		if b != 0 {
			magnitude.Or(magnitude, big.NewInt(1))
		}
	}
	if bits[0] == 0 {
		return magnitude
	}
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(len(bits)))
	return magnitude.Sub(magnitude, modulus)
}
