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
	"math"
	"math/big"
)

// tagInvert reports the BitStream invert flag implied by a tag nibble: the
// tag alphabet is built so the low bit of the tag's hex value is 0 exactly
// on the branches (negative exponent, or a NaN/exponent pairing than needs
// its Levenshtein bits flipped) that need the invert flag set.
func tagInvert(tag byte) bool {
	v, _ := hexValue(tag)
	return v&1 == 0
}

// Encode renders a BigFloat as its order-preserving hex encoding.
func Encode(b BigFloat) (string, error) {
	switch b.rng {
	case Infinite:
		if b.significand.Sign() < 0 {
			return "3", nil
		}
		return "c", nil
	case NaN:
		return encodeNaN(b)
	default:
		return encodeFinite(b)
	}
}

func encodeNaN(b BigFloat) (string, error) {
	signNegative := b.significand.Sign() < 0
	payloadNegative := b.exponent.Sign() < 0

	var tag byte
	switch {
	case signNegative && !payloadNegative:
		tag = '0'
	case signNegative && payloadNegative:
		tag = '1'
	case !signNegative && payloadNegative:
		tag = 'e'
	default:
		tag = 'f'
	}

	sink := NewBitSink()
	sink.SetInvert(tagInvert(tag))
	if err := EncodeLevenshtein(sink, new(big.Int).Abs(b.exponent)); err != nil {
		return "", err
	}
	return string(tag) + sink.Flush(), nil
}

func encodeFinite(b BigFloat) (string, error) {
	s, e := b.significand, b.exponent
	if s.Sign() == 0 {
		if e.Sign() < 0 {
			return "7", nil
		}
		return "8", nil
	}

	signNegative := s.Sign() < 0
	absS := new(big.Int).Abs(s)

	var tag byte
	switch {
	case signNegative && e.Sign() >= 0:
		tag = '4'
	case signNegative:
		tag = '5'
	case e.Sign() < 0:
		tag = 'a'
	default:
		tag = 'b'
	}

	// The fraction's two's-complement layout carries the significand's sign
	// directly, except when the significand has no fraction bits at all
	// (|s| == 1): there the sign has nowhere to live but the exponent, so it
	// is folded in by negating rather than complementing.
	var e2 *big.Int
	switch {
	case signNegative && absS.Cmp(big.NewInt(1)) == 0:
		e2 = new(big.Int).Neg(e)
	case signNegative:
		e2 = new(big.Int).Not(e)
	default:
		e2 = new(big.Int).Set(e)
	}

	expSink := NewBitSink()
	expSink.SetInvert(tagInvert(tag))
	if err := EncodeLevenshtein(expSink, new(big.Int).Abs(e2)); err != nil {
		return "", err
	}
	expHex := expSink.Flush()

	bitlen := uint(absS.BitLen())
	fracBitsN := bitlen - 1
	fracVal := new(big.Int)
	if fracBitsN > 0 {
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), fracBitsN), big.NewInt(1))
		fracVal.And(absS, mask)
		if signNegative {
			fracVal.Sub(new(big.Int).Lsh(big.NewInt(1), fracBitsN), fracVal)
			fracVal.And(fracVal, mask)
		}
	}
	// Shift left so the fraction's bit width plus the tag-and-leading-1
	// prefix lands on a nibble boundary; the fraction itself is never
	// inverted, only the exponent bits are (see GetFraction).
	shift := (3 - (bitlen+2)%4) % 4
	fracSink := NewBitSink()
	fracSink.SetInvert(false)
	fracSink.AppendBig(fracBitsN+shift, new(big.Int).Lsh(fracVal, shift))
	fracHex := fracSink.Flush()

	return string(tag) + expHex + fracHex, nil
}

// Decode parses a hex string produced by Encode back into a BigFloat.
func Decode(hex string) (BigFloat, error) {
	if hex == "" {
		return BigFloat{}, newParseError(hex, fmt.Errorf("empty input"))
	}
	tag := hex[0]
	rest := hex[1:]
	switch tag {
	case '3':
		return NegativeInfinity(), nil
	case '7':
		return NegativeZero(), nil
	case '8':
		return PositiveZero(), nil
	case 'c':
		return PositiveInfinity(), nil
	case '0', '1', 'e', 'f':
		return decodeNaN(tag, rest)
	case '4', '5', 'a', 'b':
		return decodeFinite(tag, rest)
	default:
		return BigFloat{}, newParseError(hex, fmt.Errorf("invalid tag nibble %q", tag))
	}
}

func decodeNaN(tag byte, rest string) (BigFloat, error) {
	signNegative := tag == '0' || tag == '1'
	invert := tagInvert(tag)

	source := NewBitSource(rest)
	source.SetInvert(invert)
	magnitude, err := DecodeLevenshtein(source)
	if err != nil {
		return BigFloat{}, newParseError(rest, err)
	}

	// payload_negative = sign_negative XOR invert, the inverse of the
	// mapping used by encodeNaN's tag switch.
	payloadNegative := signNegative != invert
	payload := new(big.Int).Set(magnitude)
	if payloadNegative {
		payload.Neg(payload)
	}

	sign := 1
	if signNegative {
		sign = -1
	}
	return NewNaN(sign, payload), nil
}

func decodeFinite(tag byte, rest string) (BigFloat, error) {
	signNegative := tag == '4' || tag == '5'
	origENonNeg := tag == '4' || tag == 'b'
	invert := tagInvert(tag)

	source := NewBitSource(rest)
	source.SetInvert(invert)
	magnitude, err := DecodeLevenshtein(source)
	if err != nil {
		return BigFloat{}, newParseError(rest, err)
	}

	// The fraction tail was never inverted at encode time (only the
	// exponent's Levenshtein bits were); any bits left pending from a
	// partially consumed nibble are padding and must be dropped, which
	// GetFraction already does by resuming from the next whole hex digit.
	source.SetInvert(false)
	tailEmpty := source.Remaining() == ""

	var eprimeNegative bool
	if signNegative {
		eprimeNegative = origENonNeg
	} else {
		eprimeNegative = !origENonNeg
	}
	eprime := new(big.Int).Set(magnitude)
	if eprimeNegative {
		eprime.Neg(eprime)
	}

	rawSig, err := source.GetFraction(signNegative)
	if err != nil {
		return BigFloat{}, newParseError(rest, err)
	}

	var e *big.Int
	switch {
	case signNegative && tailEmpty:
		e = new(big.Int).Neg(eprime)
	case signNegative:
		e = new(big.Int).Not(eprime)
	default:
		e = eprime
	}

	return New(rawSig, e), nil
}

// EncodeInteger renders an arbitrary-precision signed integer as a
// lexicographically order-preserving-per-sign hex string, for use as a
// stand-alone sort key. It carries sign via the BitStream invert flag alone
// (no tag nibble): callers that need a single totally-ordered key space
// across both signs supply their own tag, the way the BigFloat codec does.
func EncodeInteger(n *big.Int) (string, error) {
	sink := NewBitSink()
	sink.SetInvert(n.Sign() < 0)
	if err := EncodeLevenshtein(sink, new(big.Int).Abs(n)); err != nil {
		return "", err
	}
	return sink.Flush(), nil
}

// DecodeInteger reverses EncodeInteger. Because the encoding carries no
// explicit sign tag, decoding tries the non-inverted (non-negative)
// interpretation first and accepts it only if re-encoding reproduces the
// input exactly; otherwise it falls back to the inverted (negative)
// interpretation.
func DecodeInteger(hex string) (*big.Int, error) {
	if n, err := decodeIntegerMagnitude(hex, false); err == nil {
		if reencoded, rerr := EncodeInteger(n); rerr == nil && reencoded == hex {
			return n, nil
		}
	}
	if n, err := decodeIntegerMagnitude(hex, true); err == nil {
		neg := new(big.Int).Neg(n)
		if reencoded, rerr := EncodeInteger(neg); rerr == nil && reencoded == hex {
			return neg, nil
		}
	}
	return nil, newParseError(hex, fmt.Errorf("not a well-formed encoded integer"))
}

func decodeIntegerMagnitude(hex string, invert bool) (*big.Int, error) {
	source := NewBitSource(hex)
	source.SetInvert(invert)
	return DecodeLevenshtein(source)
}

// RadixValue is the external arbitrary-precision multi-digit form a BigFloat
// converts to/from at radix 2^K. Digits are most-significant-first, each in
// [0, 2^K). The represented magnitude is the digits read as a base-2^K
// integer, scaled by 2^Exponent; Negative carries the sign (including the
// sign of a zero value, mirroring BigFloat's own signed zero).
type RadixValue struct {
	Negative bool
	K        int
	Digits   []byte
	Exponent *big.Int
}

// radixOverflowLimit returns the largest exponent magnitude ToRadixDigits
// will accept for radix 2^k: MaxLong << (k-1), a generous bound keyed to
// the digit width so the scale field never silently wraps.
func radixOverflowLimit(k int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(math.MaxInt64), uint(k-1))
}

// ToRadixDigits converts a FINITE BigFloat to its radix-2^k digit form.
// k must be in [1,5]; INFINITE/NaN values and radixes outside that range
// raise *InvalidArgumentError. An exponent too large to represent at this
// radix raises *OverflowError.
func ToRadixDigits(b BigFloat, k int) (*RadixValue, error) {
	if k < 1 || k > 5 {
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("ToRadixDigits: k=%d must be in [1,5]", k)}
	}
	if b.rng != Finite {
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("ToRadixDigits: unsupported on a %v value", b.rng)}
	}

	negative := b.IsNegative()
	if b.significand.Sign() == 0 {
		return &RadixValue{Negative: negative, K: k, Digits: []byte{0}, Exponent: big.NewInt(0)}, nil
	}

	absS := new(big.Int).Abs(b.significand)
	bitlen := uint(absS.BitLen())
	kk := uint(k)
	pad := (kk - bitlen%kk) % kk
	padded := new(big.Int).Lsh(absS, pad)
	totalBits := bitlen + pad
	numDigits := totalBits / kk

	digits := make([]byte, numDigits)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), kk), big.NewInt(1))
	tmp := new(big.Int).Set(padded)
	for i := int(numDigits) - 1; i >= 0; i-- {
		d := new(big.Int).And(tmp, mask)
		digits[i] = byte(d.Uint64())
		tmp.Rsh(tmp, kk)
	}

	exponent := new(big.Int).Sub(b.exponent, new(big.Int).SetUint64(uint64(pad)))
	exponent.Sub(exponent, big.NewInt(int64(bitlen)-1))

	if limit := radixOverflowLimit(k); new(big.Int).Abs(exponent).Cmp(limit) > 0 {
		return nil, &OverflowError{Message: fmt.Sprintf("ToRadixDigits: exponent exceeds MaxLong<<%d", k-1)}
	}

	return &RadixValue{Negative: negative, K: k, Digits: digits, Exponent: exponent}, nil
}

// FromRadixDigits reverses ToRadixDigits, reconstructing the BigFloat the
// digit array represents.
func FromRadixDigits(rv *RadixValue) (BigFloat, error) {
	if rv.K < 1 || rv.K > 5 {
		return BigFloat{}, &InvalidArgumentError{Message: fmt.Sprintf("FromRadixDigits: k=%d must be in [1,5]", rv.K)}
	}
	kk := uint(rv.K)
	limit := uint64(1) << kk
	v := new(big.Int)
	for _, d := range rv.Digits {
		if uint64(d) >= limit {
			return BigFloat{}, &InvalidArgumentError{Message: fmt.Sprintf("FromRadixDigits: digit %d out of range for k=%d", d, rv.K)}
		}
		v.Lsh(v, kk)
		v.Or(v, big.NewInt(int64(d)))
	}

	if v.Sign() == 0 {
		if rv.Negative {
			return NegativeZero(), nil
		}
		return PositiveZero(), nil
	}

	bitlen := v.BitLen()
	exponent := new(big.Int).Add(rv.Exponent, big.NewInt(int64(bitlen-1)))
	if rv.Negative {
		v.Neg(v)
	}
	return New(v, exponent), nil
}
