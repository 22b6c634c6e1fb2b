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

	"github.com/cockroachdb/apd/v2"
)

func assertToAPD(t *testing.T, b BigFloat, expected *apd.Decimal) {
	t.Helper()
	got := b.ToAPD()
	if got.Cmp(expected) != 0 || got.Form != expected.Form || got.Negative != expected.Negative {
		t.Errorf("ToAPD(%v) = %v (form %v), want %v (form %v)", b, got, got.Form, expected, expected.Form)
	}
}

func TestToAPDExactPowersOfTwo(t *testing.T) {
	assertToAPD(t, One(), apd.New(1, 0))
	assertToAPD(t, New(big.NewInt(1), big.NewInt(-1)), apd.New(5, -1))    // 0.5
	assertToAPD(t, New(big.NewInt(1), big.NewInt(1)), apd.New(2, 0))      // 2.0
	assertToAPD(t, New(big.NewInt(-1), big.NewInt(-2)), apd.New(-25, -2)) // -0.25
}

func TestToAPDSpecialValues(t *testing.T) {
	inf := PositiveInfinity().ToAPD()
	if inf.Form != apd.Infinite || inf.Negative {
		t.Errorf("ToAPD(+Inf) = %v", inf)
	}
	ninf := NegativeInfinity().ToAPD()
	if ninf.Form != apd.Infinite || !ninf.Negative {
		t.Errorf("ToAPD(-Inf) = %v", ninf)
	}
	quiet := NewNaN(1, big.NewInt(5)).ToAPD()
	if quiet.Form != apd.NaN {
		t.Errorf("ToAPD(quiet NaN) form = %v, want NaN", quiet.Form)
	}
	signaling := NewNaN(-1, big.NewInt(-5)).ToAPD()
	if signaling.Form != apd.NaNSignaling || !signaling.Negative {
		t.Errorf("ToAPD(negative signalling NaN) = %v", signaling)
	}
	zero := PositiveZero().ToAPD()
	if !zero.IsZero() || zero.Negative {
		t.Errorf("ToAPD(+0) = %v", zero)
	}
	negZero := NegativeZero().ToAPD()
	if !negZero.IsZero() || !negZero.Negative {
		t.Errorf("ToAPD(-0) = %v", negZero)
	}
}

func TestFromAPDRoundTripExact(t *testing.T) {
	values := []BigFloat{
		One(), One().Neg(),
		New(big.NewInt(1), big.NewInt(-1)),
		New(big.NewInt(1), big.NewInt(1)),
		New(big.NewInt(-1), big.NewInt(-2)),
		New(big.NewInt(255), big.NewInt(1000)),
		PositiveZero(), NegativeZero(),
		PositiveInfinity(), NegativeInfinity(),
	}
	for _, v := range values {
		back, err := FromAPD(v.ToAPD())
		if err != nil {
			t.Fatalf("FromAPD(%v.ToAPD()): %v", v, err)
		}
		if !Equal(back, v) {
			t.Errorf("FromAPD(ToAPD(%v)) = %v", v, back)
		}
	}
}

func TestFromAPDRoundsInexactDecimal(t *testing.T) {
	// 0.1 has no exact finite binary expansion; FromAPD must still produce
	// something that converts back to 0.1 at double precision.
	tenth := apd.New(1, -1)
	b, err := FromAPD(tenth)
	if err != nil {
		t.Fatalf("FromAPD(0.1): %v", err)
	}
	if b.ToFloat64() != 0.1 {
		t.Errorf("FromAPD(0.1).ToFloat64() = %v, want 0.1", b.ToFloat64())
	}
}

func TestStringRendersViaAPD(t *testing.T) {
	if got := One().String(); got != "1" {
		t.Errorf("One().String() = %q, want \"1\"", got)
	}
	if got := PositiveInfinity().String(); got == "" {
		t.Errorf("PositiveInfinity().String() returned empty string")
	}
}
