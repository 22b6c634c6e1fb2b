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

	"github.com/cockroachdb/apd/v2"
)

// ToAPD converts to an apd.Decimal. The conversion is always exact, with an
// arbitrary-precision coefficient rather than a fixed-width one: a
// BigFloat's value is sign * |significand| * 2^p for some integer p, and a
// power of two is always exactly representable in base 10 -- as
// |significand| * 2^p when p >= 0, or as (|significand| * 5^|p|) * 10^p
// when p < 0, since 2^p = 10^p / 5^p.
func (b BigFloat) ToAPD() *apd.Decimal {
	switch b.rng {
	case Infinite:
		v := apd.New(0, 0)
		v.Form = apd.Infinite
		v.Negative = b.significand.Sign() < 0
		return v
	case NaN:
		v := apd.New(0, 0)
		if b.exponent.Sign() < 0 {
			v.Form = apd.NaNSignaling
		} else {
			v.Form = apd.NaN
		}
		v.Negative = b.significand.Sign() < 0
		return v
	default: // Finite
		if b.significand.Sign() == 0 {
			v := apd.New(0, 0)
			v.Negative = b.exponent.Sign() < 0
			return v
		}
		absS := new(big.Int).Abs(b.significand)
		bitlen := int64(absS.BitLen())
		p := new(big.Int).Sub(b.exponent, big.NewInt(bitlen-1))

		coeff := new(big.Int).Set(absS)
		var decExp int32
		if p.Sign() >= 0 {
			coeff.Lsh(coeff, uint(p.Uint64()))
		} else {
			magnitude := new(big.Int).Neg(p)
			five := new(big.Int).Exp(big.NewInt(5), magnitude, nil)
			coeff.Mul(coeff, five)
			decExp = int32(p.Int64())
		}
		if b.significand.Sign() < 0 {
			coeff.Neg(coeff)
		}
		return apd.NewWithBigInt(coeff, decExp)
	}
}

// FromAPD reverses ToAPD, reconstructing the BigFloat an apd.Decimal
// represents. Decimal values with no exact finite binary expansion (e.g.
// 0.1) are rounded half-to-even at a generous bit budget; every finite or
// infinite value ToAPD itself produces is an exact power-of-two ratio and
// round-trips with no rounding at all. NaN payloads are not carried by
// ToAPD: a quiet NaN comes back with payload 0 and a signalling NaN with
// payload -1, keeping only its sign.
func FromAPD(value *apd.Decimal) (BigFloat, error) {
	switch value.Form {
	case apd.Infinite:
		if value.Negative {
			return NegativeInfinity(), nil
		}
		return PositiveInfinity(), nil
	case apd.NaN:
		sign := 1
		if value.Negative {
			sign = -1
		}
		return NewNaN(sign, big.NewInt(0)), nil
	case apd.NaNSignaling:
		sign := 1
		if value.Negative {
			sign = -1
		}
		return NewNaN(sign, big.NewInt(-1)), nil
	}

	if value.IsZero() {
		if value.Negative {
			return NegativeZero(), nil
		}
		return PositiveZero(), nil
	}

	coeff := new(big.Int).Set(&value.Coeff)
	var num, den *big.Int
	if value.Exponent >= 0 {
		num = new(big.Int).Mul(coeff, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(value.Exponent)), nil))
		den = big.NewInt(1)
	} else {
		num = coeff
		den = new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-value.Exponent)), nil)
	}

	s, e := ratioToBinary(num, den)
	if value.Negative {
		s.Neg(s)
	}
	return New(s, e), nil
}

// binaryConversionBits bounds the significand precision ratioToBinary
// reconstructs for ratios with no exact finite binary expansion.
const binaryConversionBits = 1536

// ratioToBinary converts the positive rational num/den to a (significand,
// exponent) pair such that significand * 2^(exponent-binaryConversionBits+1)
// approximates num/den, rounding half-to-even when inexact.
func ratioToBinary(num, den *big.Int) (*big.Int, *big.Int) {
	e := num.BitLen() - den.BitLen()
	// cmpShiftedDen compares den*2^k with num exactly.
	cmpShiftedDen := func(k int) int {
		if k >= 0 {
			return new(big.Int).Lsh(den, uint(k)).Cmp(num)
		}
		return den.Cmp(new(big.Int).Lsh(num, uint(-k)))
	}
	for cmpShiftedDen(e) > 0 {
		e--
	}
	for cmpShiftedDen(e+1) <= 0 {
		e++
	}

	shift := binaryConversionBits - 1 - e
	var scaledNum *big.Int
	if shift >= 0 {
		scaledNum = new(big.Int).Lsh(num, uint(shift))
	} else {
		scaledNum = new(big.Int).Rsh(num, uint(-shift))
	}
	quotient, remainder := new(big.Int), new(big.Int)
	quotient.DivMod(scaledNum, den, remainder)

	if remainder.Sign() != 0 {
		twice := new(big.Int).Lsh(remainder, 1)
		cmp := twice.Cmp(den)
		if cmp > 0 || (cmp == 0 && quotient.Bit(0) == 1) {
			quotient.Add(quotient, big.NewInt(1))
		}
	}

	if quotient.BitLen() > binaryConversionBits {
		quotient.Rsh(quotient, 1)
		e++
	}

	return quotient, big.NewInt(int64(e))
}
