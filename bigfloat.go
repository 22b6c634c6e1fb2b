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

// Range is the coarse class a BigFloat belongs to.
type Range uint8

const (
	Finite Range = iota
	Infinite
	NaN
)

func (r Range) String() string {
	switch r {
	case Finite:
		return "FINITE"
	case Infinite:
		return "INFINITE"
	case NaN:
		return "NaN"
	default:
		return fmt.Sprintf("Range(%d)", uint8(r))
	}
}

// BigFloat is a normalized, arbitrary-precision binary floating-point
// value: finite non-zero numbers, signed zero, signed infinity, and NaN
// with a signed integer payload and a signalling/quiet distinction.
//
// For a FINITE non-zero value the magnitude is
// sign(significand) * M * 2^exponent, where M = |significand| /
// 2^(bitlen(|significand|)-1). Every finite non-zero value is stored with
// the trailing zero bits of |significand| stripped, so the stored
// significand is always odd; this makes the representation canonical
// (BigFloat.New(s<<k, e) == BigFloat.New(s, e) for odd s, k >= 0).
//
// A BigFloat is immutable once constructed; all factories normalize
// eagerly, and no method mutates a receiver's internal big.Ints in place.
type BigFloat struct {
	rng         Range
	significand *big.Int
	exponent    *big.Int
}

func stripTrailingZeros(s *big.Int) *big.Int {
	if s.Sign() == 0 {
		return new(big.Int)
	}
	tz := s.TrailingZeroBits()
	if tz == 0 {
		return new(big.Int).Set(s)
	}
	return new(big.Int).Rsh(s, tz)
}

// New constructs a FINITE BigFloat from an explicit (significand, exponent)
// pair, normalizing eagerly: trailing zero bits of significand are
// stripped, and a zero significand is stored canonically with its sign
// carried in the exponent (a negative exponent denotes -0, anything else
// +0).
func New(significand, exponent *big.Int) BigFloat {
	if significand.Sign() == 0 {
		e := big.NewInt(1)
		if exponent.Sign() < 0 {
			e = big.NewInt(-1)
		}
		return BigFloat{rng: Finite, significand: new(big.Int), exponent: e}
	}
	s := stripTrailingZeros(significand)
	if significand.Sign() < 0 && s.Sign() > 0 {
		s.Neg(s)
	}
	return BigFloat{rng: Finite, significand: s, exponent: new(big.Int).Set(exponent)}
}

// NewNaN constructs a NaN BigFloat. sign < 0 gives a negative NaN. A
// non-negative payload is a quiet NaN; a negative payload is signalling —
// the payload's own sign carries the quiet/signalling distinction, so no
// separate flag is needed.
func NewNaN(sign int, payload *big.Int) BigFloat {
	s := big.NewInt(1)
	if sign < 0 {
		s = big.NewInt(-1)
	}
	return BigFloat{rng: NaN, significand: s, exponent: new(big.Int).Set(payload)}
}

// PositiveInfinity returns +∞.
func PositiveInfinity() BigFloat {
	return BigFloat{rng: Infinite, significand: big.NewInt(1), exponent: big.NewInt(0)}
}

// NegativeInfinity returns −∞.
func NegativeInfinity() BigFloat {
	return BigFloat{rng: Infinite, significand: big.NewInt(-1), exponent: big.NewInt(0)}
}

// PositiveZero returns +0.
func PositiveZero() BigFloat {
	return New(big.NewInt(0), big.NewInt(1))
}

// NegativeZero returns −0.
func NegativeZero() BigFloat {
	return New(big.NewInt(0), big.NewInt(-1))
}

// One returns the value 1 (significand 1, exponent 0).
func One() BigFloat {
	return New(big.NewInt(1), big.NewInt(0))
}

// FromBigInt constructs the BigFloat representing an arbitrary-precision
// integer exactly.
func FromBigInt(value *big.Int) BigFloat {
	if value.Sign() == 0 {
		return PositiveZero()
	}
	abs := new(big.Int).Abs(value)
	exponent := big.NewInt(int64(abs.BitLen() - 1))
	return New(value, exponent)
}

// FromInt64 constructs the BigFloat representing an int64 exactly.
func FromInt64(i int64) BigFloat {
	return FromBigInt(big.NewInt(i))
}

const quietBit = uint64(1) << 51
const payloadMask = quietBit - 1

// FromFloat64 mirrors IEEE-754 binary64 exactly: signed zero, signed
// infinity, NaN with its payload and signalling bit, and normals/subnormals
// reconstructed with an explicit hidden bit.
func FromFloat64(value float64) BigFloat {
	bits := math.Float64bits(value)
	sign := bits >> 63
	rawExp := (bits >> 52) & 0x7FF
	mantissa := bits & ((uint64(1) << 52) - 1)

	signOf := 1
	if sign == 1 {
		signOf = -1
	}

	if rawExp == 0x7FF {
		if mantissa == 0 {
			if sign == 1 {
				return NegativeInfinity()
			}
			return PositiveInfinity()
		}
		if mantissa&quietBit != 0 {
			payload := mantissa &^ quietBit
			return NewNaN(signOf, new(big.Int).SetUint64(payload))
		}
		payload := new(big.Int).SetUint64(mantissa)
		payload.Neg(payload)
		return NewNaN(signOf, payload)
	}

	if rawExp == 0 {
		if mantissa == 0 {
			if sign == 1 {
				return NegativeZero()
			}
			return PositiveZero()
		}
		s := new(big.Int).SetUint64(mantissa)
		exponent := big.NewInt(int64(s.BitLen()) - 1075)
		if sign == 1 {
			s.Neg(s)
		}
		return New(s, exponent)
	}

	full := (uint64(1) << 52) | mantissa
	exponent := big.NewInt(int64(rawExp) - 1023)
	s := new(big.Int).SetUint64(full)
	if sign == 1 {
		s.Neg(s)
	}
	return New(s, exponent)
}

// Range reports which of FINITE, INFINITE or NaN this value is.
func (b BigFloat) Range() Range {
	return b.rng
}

// Significand returns the raw (already normalized) significand of a FINITE
// value. It is an error to call this on an INFINITE or NaN value.
func (b BigFloat) Significand() (*big.Int, error) {
	if b.rng != Finite {
		return nil, &UnsupportedOpError{Op: "Significand", Range: b.rng}
	}
	return new(big.Int).Set(b.significand), nil
}

// Exponent returns the exponent of a FINITE value. It is an error to call
// this on an INFINITE or NaN value.
func (b BigFloat) Exponent() (*big.Int, error) {
	if b.rng != Finite {
		return nil, &UnsupportedOpError{Op: "Exponent", Range: b.rng}
	}
	return new(big.Int).Set(b.exponent), nil
}

// NaNPayload returns the payload of a NaN value (negative for signalling,
// non-negative for quiet). It is an error to call this on a FINITE or
// INFINITE value.
func (b BigFloat) NaNPayload() (*big.Int, error) {
	if b.rng != NaN {
		return nil, &UnsupportedOpError{Op: "NaNPayload", Range: b.rng}
	}
	return new(big.Int).Set(b.exponent), nil
}

// IsNaN reports whether the value is a NaN, quiet or signalling.
func (b BigFloat) IsNaN() bool {
	return b.rng == NaN
}

// IsInfinite reports whether the value is +∞ or −∞.
func (b BigFloat) IsInfinite() bool {
	return b.rng == Infinite
}

// IsZero reports whether the value is +0 or −0.
func (b BigFloat) IsZero() bool {
	return b.rng == Finite && b.significand.Sign() == 0
}

// IsSignalingNaN reports whether the value is a signalling NaN.
func (b BigFloat) IsSignalingNaN() bool {
	return b.rng == NaN && b.exponent.Sign() < 0
}

// IsNegative reports the sign of the value: for zero this is the sign
// carried in the exponent, for NaN and infinity it is the sign of the
// significand.
func (b BigFloat) IsNegative() bool {
	switch b.rng {
	case Finite:
		if b.significand.Sign() != 0 {
			return b.significand.Sign() < 0
		}
		return b.exponent.Sign() < 0
	default:
		return b.significand.Sign() < 0
	}
}

// Neg returns the value with its sign flipped. neg(+0) = -0, neg(-0) = +0,
// and neg(neg(x)) = x for every x.
func (b BigFloat) Neg() BigFloat {
	switch b.rng {
	case Finite:
		if b.significand.Sign() == 0 {
			e := big.NewInt(1)
			if b.exponent.Sign() > 0 {
				e = big.NewInt(-1)
			}
			return BigFloat{rng: Finite, significand: new(big.Int), exponent: e}
		}
		return BigFloat{rng: Finite, significand: new(big.Int).Neg(b.significand), exponent: new(big.Int).Set(b.exponent)}
	case Infinite:
		return BigFloat{rng: Infinite, significand: new(big.Int).Neg(b.significand), exponent: big.NewInt(0)}
	default: // NaN
		return BigFloat{rng: NaN, significand: new(big.Int).Neg(b.significand), exponent: new(big.Int).Set(b.exponent)}
	}
}

// ToFloat64 converts to the nearest representable binary64, saturating to
// ±∞ on overflow and to ±0 on underflow. A significand wider than 53 bits
// is truncated, not rounded (this type has no rounding control; see
// Non-goals).
func (b BigFloat) ToFloat64() float64 {
	switch b.rng {
	case Infinite:
		if b.significand.Sign() < 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case NaN:
		sign := uint64(0)
		if b.significand.Sign() < 0 {
			sign = 1
		}
		var mantissa uint64
		if b.exponent.Sign() >= 0 {
			low := new(big.Int).And(b.exponent, big.NewInt(int64(payloadMask)))
			mantissa = low.Uint64() | quietBit
		} else {
			magnitude := new(big.Int).Neg(b.exponent)
			low := new(big.Int).And(magnitude, big.NewInt(int64(payloadMask)))
			mantissa = low.Uint64()
		}
		bits := (sign << 63) | (uint64(0x7FF) << 52) | mantissa
		return math.Float64frombits(bits)
	default: // Finite
		if b.significand.Sign() == 0 {
			if b.exponent.Sign() < 0 {
				return math.Copysign(0, -1)
			}
			return 0
		}
		neg := b.significand.Sign() < 0
		if b.exponent.Cmp(big.NewInt(1023)) > 0 {
			if neg {
				return math.Inf(-1)
			}
			return math.Inf(1)
		}
		if b.exponent.Cmp(big.NewInt(-1074)) < 0 {
			if neg {
				return math.Copysign(0, -1)
			}
			return 0
		}

		absS := new(big.Int).Abs(b.significand)
		bitlen := int64(absS.BitLen())
		var mantissaBits uint64
		var biasedExp int64
		if b.exponent.Cmp(big.NewInt(-1022)) >= 0 {
			shift := 53 - bitlen
			var shifted *big.Int
			if shift >= 0 {
				shifted = new(big.Int).Lsh(absS, uint(shift))
			} else {
				shifted = new(big.Int).Rsh(absS, uint(-shift))
			}
			full := shifted.Uint64()
			mantissaBits = full &^ (uint64(1) << 52)
			biasedExp = b.exponent.Int64() + 1023
		} else {
			shift := b.exponent.Int64() - (bitlen - 1) + 1074
			var shifted *big.Int
			if shift >= 0 {
				shifted = new(big.Int).Lsh(absS, uint(shift))
			} else {
				shifted = new(big.Int).Rsh(absS, uint(-shift))
			}
			mantissaBits = shifted.Uint64() & ((uint64(1) << 52) - 1)
			biasedExp = 0
		}
		signBit := uint64(0)
		if neg {
			signBit = 1
		}
		bits := (signBit << 63) | (uint64(biasedExp) << 52) | mantissaBits
		return math.Float64frombits(bits)
	}
}

// ToInt64 converts to the nearest representable int64, truncating any
// fractional part toward zero and saturating to math.MaxInt64/MinInt64 on
// overflow. NaN converts to 0.
func (b BigFloat) ToInt64() int64 {
	switch b.rng {
	case Infinite:
		if b.significand.Sign() < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	case NaN:
		return 0
	default: // Finite
		if b.significand.Sign() == 0 {
			return 0
		}
		neg := b.significand.Sign() < 0
		absS := new(big.Int).Abs(b.significand)
		bitlen := big.NewInt(int64(absS.BitLen() - 1))
		shift := new(big.Int).Sub(b.exponent, bitlen)

		var magnitude *big.Int
		switch {
		case shift.Sign() >= 0:
			if !shift.IsInt64() || shift.Int64() > 4096 {
				magnitude = nil
			} else {
				magnitude = new(big.Int).Lsh(absS, uint(shift.Int64()))
			}
		default:
			negShift := new(big.Int).Neg(shift)
			if !negShift.IsInt64() || negShift.Int64() > int64(absS.BitLen())+1 {
				magnitude = big.NewInt(0)
			} else {
				magnitude = new(big.Int).Rsh(absS, uint(negShift.Int64()))
			}
		}

		if magnitude == nil {
			if neg {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		if neg {
			magnitude.Neg(magnitude)
		}
		if magnitude.IsInt64() {
			return magnitude.Int64()
		}
		if neg {
			return math.MinInt64
		}
		return math.MaxInt64
	}
}

// Equal is structural equality after normalization: +0 != -0, and two NaNs
// are equal only if their sign and payload both match exactly.
func Equal(a, b BigFloat) bool {
	if a.rng != b.rng {
		return false
	}
	switch a.rng {
	case Infinite:
		return a.significand.Sign() == b.significand.Sign()
	case NaN:
		return a.significand.Sign() == b.significand.Sign() && a.exponent.Cmp(b.exponent) == 0
	default: // Finite
		return a.significand.Cmp(b.significand) == 0 && a.exponent.Cmp(b.exponent) == 0
	}
}

// EqualNumber is IEEE-style equality: +0 == -0, and NaN is never equal to
// anything, including another NaN.
func EqualNumber(a, b BigFloat) bool {
	if a.rng == NaN || b.rng == NaN {
		return false
	}
	if a.rng != b.rng {
		return false
	}
	switch a.rng {
	case Infinite:
		return a.significand.Sign() == b.significand.Sign()
	default: // Finite
		aZero := a.significand.Sign() == 0
		bZero := b.significand.Sign() == 0
		if aZero || bZero {
			return aZero && bZero
		}
		return a.exponent.Cmp(b.exponent) == 0 && a.significand.Cmp(b.significand) == 0
	}
}

func compareNormalizedMagnitude(aSig, bSig *big.Int) int {
	a := new(big.Int).Abs(aSig)
	b := new(big.Int).Abs(bSig)
	la, lb := a.BitLen(), b.BitLen()
	if la < lb {
		a = new(big.Int).Lsh(a, uint(lb-la))
	} else if lb < la {
		b = new(big.Int).Lsh(b, uint(la-lb))
	}
	return a.Cmp(b)
}

// Compare imposes a total order over all BigFloat values: sign first, then
// range (FINITE < INFINITE < NaN, with NaNs tie-broken by payload), then
// exponent and bit-normalized magnitude within FINITE, with the final
// result's sign flipped when both operands are negative.
func Compare(a, b BigFloat) int {
	aNeg, bNeg := a.IsNegative(), b.IsNegative()
	if aNeg != bNeg {
		if aNeg {
			return -1
		}
		return 1
	}

	var result int
	if a.rng != b.rng {
		result = int(a.rng) - int(b.rng)
	} else {
		switch a.rng {
		case Infinite:
			result = 0
		case NaN:
			result = a.exponent.Cmp(b.exponent)
		default: // Finite
			aZero := a.significand.Sign() == 0
			bZero := b.significand.Sign() == 0
			switch {
			case aZero && bZero:
				result = 0
			case aZero:
				result = -1
			case bZero:
				result = 1
			default:
				if ecmp := a.exponent.Cmp(b.exponent); ecmp != 0 {
					result = ecmp
				} else {
					result = compareNormalizedMagnitude(a.significand, b.significand)
				}
			}
		}
	}

	if result != 0 && aNeg && bNeg {
		result = -result
	}
	return result
}

// String renders the value by converting to its decimal interop
// collaborator (see decimal.go) and formatting that with Text('g').
func (b BigFloat) String() string {
	return b.ToAPD().Text('g')
}
