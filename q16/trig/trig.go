// Package trig derives the transcendental and hyperbolic functions —
// sin/cos/tan, atan/atan2, sinh/cosh/tanh, exp/log/pow/sqrt, polar
// conversion — from the universal cordic engine, the way the original
// C core builds all of them on top of one cordic() primitive.
package trig

import (
	"github.com/rjhq/q16"
	"github.com/rjhq/q16/cordic"
)

// DomainError reports that an argument fell outside a function's
// domain (e.g. Asin of a value outside [-1, 1]).
type DomainError struct {
	Func string
	Arg  q16.Q
}

func (e *DomainError) Error() string {
	return "trig: " + e.Func + ": argument out of domain"
}

func domainAssert(cond bool, fn string, arg q16.Q) {
	if q16.Debug && !cond {
		panic(&DomainError{fn, arg})
	}
}

var (
	pi           = q16.Info.Pi
	negPi        = q16.Neg(pi)
	halfPi       = q16.Div(pi, q16.Int(2))
	negHalfPi    = q16.Neg(halfPi)
	quarterPi    = q16.Div(pi, q16.Int(4))
	negQuarterPi = q16.Neg(quarterPi)
	twoPi        = q16.Mul(pi, q16.Int(2))
	negTwoPi     = q16.Neg(twoPi)
)

// SinCos computes sine and cosine of theta (radians) simultaneously
// with one CORDIC pass, range-reducing theta into [-pi/4, pi/4]
// first and undoing the reduction on the way out — the same
// three-stage reduction qcordic() in the original performs, needed
// because the circular CORDIC rotation only converges for angles in
// that range.
func SinCos(theta q16.Q) (sin, cos q16.Q) {
	for q16.Less(theta, negPi) {
		theta = q16.Add(theta, twoPi)
	}
	for q16.More(theta, pi) {
		theta = q16.Add(theta, negTwoPi)
	}

	negate := false
	shift := 0
	if q16.Less(theta, negHalfPi) {
		theta = q16.Add(theta, pi)
		negate = true
	} else if q16.More(theta, halfPi) {
		theta = q16.Add(theta, negPi)
		negate = true
	}
	if q16.Less(theta, negQuarterPi) {
		theta = q16.Add(theta, halfPi)
		shift = -1
	} else if q16.More(theta, quarterPi) {
		theta = q16.Add(theta, negHalfPi)
		shift = 1
	}

	x, y, _, _ := cordic.Run(cordic.Circular, cordic.Rotate, -1, cordic.CircularInverseGain, 0, theta)

	switch {
	case shift > 0:
		x, y = q16.Neg(y), x
	case shift < 0:
		x, y = y, q16.Neg(x)
	}
	if negate {
		x, y = q16.Neg(x), q16.Neg(y)
	}
	return y, x
}

// Sin returns sin(theta).
func Sin(theta q16.Q) q16.Q { s, _ := SinCos(theta); return s }

// Cos returns cos(theta).
func Cos(theta q16.Q) q16.Q { _, c := SinCos(theta); return c }

// Tan returns tan(theta).
func Tan(theta q16.Q) q16.Q {
	s, c := SinCos(theta)
	return q16.Div(s, c)
}

// Cot returns cot(theta).
func Cot(theta q16.Q) q16.Q {
	s, c := SinCos(theta)
	return q16.Div(c, s)
}

// Atan returns atan(t), for any t.
func Atan(t q16.Q) q16.Q {
	_, _, z, _ := cordic.Run(cordic.Circular, cordic.Vector, -1, q16.Info.One, t, 0)
	return z
}

// Atan2 returns the angle of the vector (b, a) in [-pi, pi].
func Atan2(a, b q16.Q) q16.Q {
	switch {
	case q16.Equal(b, 0):
		domainAssert(q16.Unequal(a, 0), "Atan2", a)
		if q16.More(a, 0) {
			return halfPi
		}
		return negHalfPi
	case q16.Less(b, 0):
		if q16.EqMore(a, 0) {
			return q16.Add(Atan(q16.Div(a, b)), pi)
		}
		return q16.Sub(Atan(q16.Div(a, b)), pi)
	}
	_, _, z, _ := cordic.Run(cordic.Circular, cordic.Vector, -1, b, a, 0)
	return z
}

// Asin returns asin(t), t in [-1, 1].
func Asin(t q16.Q) q16.Q {
	domainAssert(q16.EqLess(q16.Abs(t), q16.Info.One), "Asin", t)
	return Atan2(t, Sqrt(q16.Sub(q16.Info.One, q16.Mul(t, t))))
}

// Acos returns acos(t), t in [-1, 1].
func Acos(t q16.Q) q16.Q {
	domainAssert(q16.EqLess(q16.Abs(t), q16.Info.One), "Acos", t)
	return Atan2(Sqrt(q16.Sub(q16.Info.One, q16.Mul(t, t))), t)
}

// SinhCosh computes sinh and cosh of a simultaneously with one
// hyperbolic CORDIC pass. The argument is not range-reduced, so the
// results are accurate only for |a| up to about 1.118, the hyperbolic
// CORDIC convergence limit; Sinh, Cosh and Tanh share that limit.
func SinhCosh(a q16.Q) (sinh, cosh q16.Q) {
	x, y, _, _ := cordic.Run(cordic.Hyperbolic, cordic.Rotate, -1, cordic.HyperbolicInverseGain, 0, a)
	return y, x
}

// Sinh returns sinh(a).
func Sinh(a q16.Q) q16.Q { s, _ := SinhCosh(a); return s }

// Cosh returns cosh(a).
func Cosh(a q16.Q) q16.Q { _, c := SinhCosh(a); return c }

// Tanh returns tanh(a).
func Tanh(a q16.Q) q16.Q {
	s, c := SinhCosh(a)
	return q16.Div(s, c)
}

// CordicMul and CordicDiv are the linear-coordinate CORDIC
// primitives, accurate only for small magnitudes (a result under 4).
// q16.Mul/Div already cover the general case; these exist to let
// callers (expr's hidden "_mul"/"_div" operators, grounded on the
// original's eponymous functions) exercise the raw CORDIC multiply
// and divide directly, the same way the original exposed them as
// diagnostic/test operators alongside the regular arithmetic ones.
func CordicMul(a, b q16.Q) q16.Q {
	_, y, _, _ := cordic.Run(cordic.Linear, cordic.Rotate, -1, a, 0, b)
	return y
}

func CordicDiv(a, b q16.Q) q16.Q {
	_, _, z, _ := cordic.Run(cordic.Linear, cordic.Vector, -1, b, a, 0)
	return z
}

// CordicExp returns exp(e) directly from a hyperbolic CORDIC pass;
// only accurate for small |e| (about 1.118 and under), which is why
// Exp recurses via squaring for larger arguments. Exposed for the
// same diagnostic reason as CordicMul/CordicDiv.
func CordicExp(e q16.Q) q16.Q {
	s, c := SinhCosh(e)
	return q16.Add(s, c)
}

// CordicLn returns ln(d) directly from a hyperbolic CORDIC pass; only
// accurate over a limited range, which is why Log extends it by
// dividing out powers of two first.
func CordicLn(d q16.Q) q16.Q {
	x := q16.Add(d, q16.Info.One)
	y := q16.Sub(d, q16.Info.One)
	_, _, z, _ := cordic.Run(cordic.Hyperbolic, cordic.Vector, -1, x, y, 0)
	return q16.Add(z, z)
}

// CordicSqrt returns the square root of n directly from a hyperbolic
// CORDIC pass; only converges for 0 < n < 2, which is why Sqrt uses
// Newton-Raphson iteration for the general case instead.
func CordicSqrt(n q16.Q) q16.Q {
	quarter := q16.Info.One / 4
	x := q16.Add(n, quarter)
	y := q16.Sub(n, quarter)
	x, _, _, _ = cordic.Run(cordic.Hyperbolic, cordic.Vector, -1, x, y, 0)
	return q16.Mul(x, cordic.HyperbolicInverseGain)
}

// logRangeLimit is the point above which Log divides out another
// factor of two before calling CordicLn.
var logRangeLimit = q16.Add(q16.Int(9), q16.Info.One/2) // 9.5

// Log returns the natural logarithm of x, x > 0.
func Log(x q16.Q) q16.Q {
	domainAssert(q16.More(x, 0), "Log", x)
	var logs q16.Q
	for q16.More(x, logRangeLimit) {
		logs = q16.Add(logs, q16.Info.Ln2)
		x = x >> 1
	}
	return q16.Add(logs, CordicLn(x))
}

// Exp returns e^e, computed by halving the exponent until it is
// small enough for CordicExp and squaring the result back up —
// exp(e) == exp(e/2)^2.
func Exp(e q16.Q) q16.Q {
	if q16.Less(q16.Abs(e), q16.Info.One) {
		return CordicExp(e)
	}
	half := Exp(e >> 1)
	return q16.Mul(half, half)
}

// Pow returns n^exp. A negative base requires an integer exponent;
// 0^0 is 1, but a zero base with a negative exponent is a domain
// violation (Info.Max when Debug is off).
func Pow(n, exp q16.Q) q16.Q {
	domainAssert(!n.IsNegative() || exp.IsInteger(), "Pow", exp)
	if n == 0 {
		domainAssert(!exp.IsNegative(), "Pow", exp)
		if exp.IsNegative() {
			return q16.Info.Max
		}
		return q16.Info.One
	}
	if n.IsNegative() {
		p := Pow(q16.Abs(n), exp)
		if exp.IsOdd() {
			return q16.Neg(p)
		}
		return p
	}
	if exp.IsNegative() {
		return q16.Div(q16.Info.One, Pow(n, q16.Abs(exp)))
	}
	return Exp(q16.Mul(Log(n), exp))
}

// Sqrt returns the square root of x, x >= 0 (0 for a negative x when
// Debug is off), by Newton-Raphson iteration rather than via
// CordicSqrt, which only converges for 0 < x < 2.
func Sqrt(x q16.Q) q16.Q {
	domainAssert(q16.EqMore(x, 0), "Sqrt", x)
	if q16.EqLess(x, 0) {
		return 0
	}
	tolerance := q16.Q(0x0010)
	if q16.More(x, q16.Int(100)) {
		tolerance = 0x0100
	}
	guess := q16.Info.One
	if q16.More(x, q16.Info.Sqrt2) {
		guess = x >> 1
	}
	for q16.More(q16.Abs(q16.Sub(q16.Mul(guess, guess), x)), tolerance) {
		guess = q16.Add(q16.Div(x, guess), guess) >> 1
	}
	return q16.Abs(guess)
}

// Hypot returns sqrt(a*a+b*b) via a circular-vectoring CORDIC pass,
// which drives the (a, b) vector onto the x axis, leaving its
// magnitude (scaled by the CORDIC gain) in x.
func Hypot(a, b q16.Q) q16.Q {
	x, _, _, _ := cordic.Run(cordic.Circular, cordic.Vector, -1, q16.Abs(a), q16.Abs(b), 0)
	return q16.Mul(x, cordic.CircularInverseGain)
}

// Atanh returns atanh(x), |x| < 1 (Info.Max or Info.Min by sign for
// |x| >= 1 when Debug is off).
func Atanh(x q16.Q) q16.Q {
	domainAssert(q16.Less(q16.Abs(x), q16.Info.One), "Atanh", x)
	if q16.EqMore(q16.Abs(x), q16.Info.One) {
		if x.IsNegative() {
			return q16.Info.Min
		}
		return q16.Info.Max
	}
	ratio := q16.Div(q16.Add(q16.Info.One, x), q16.Sub(q16.Info.One, x))
	return q16.Mul(Log(ratio), q16.Info.One/2)
}

// Asinh returns asinh(x), for any x.
func Asinh(x q16.Q) q16.Q {
	return Log(q16.Add(x, Sqrt(q16.Add(q16.Mul(x, x), q16.Info.One))))
}

// Acosh returns acosh(x), x >= 1.
func Acosh(x q16.Q) q16.Q {
	domainAssert(q16.EqMore(x, q16.Info.One), "Acosh", x)
	return Log(q16.Add(x, Sqrt(q16.Sub(q16.Mul(x, x), q16.Info.One))))
}

// PolarToRect converts (magnitude, theta) to rectangular (i, j), with
// i = magnitude*sin(theta) and j = magnitude*cos(theta).
func PolarToRect(magnitude, theta q16.Q) (i, j q16.Q) {
	sin, cos := SinCos(theta)
	return q16.Mul(sin, magnitude), q16.Mul(cos, magnitude)
}

// RectToPolar converts rectangular (i, j), in PolarToRect's layout, to
// (magnitude, theta), with theta in [0, 2*pi).
func RectToPolar(i, j q16.Q) (magnitude, theta q16.Q) {
	iNeg, jNeg := i.IsNegative(), j.IsNegative()
	x, _, z, _ := cordic.Run(cordic.Circular, cordic.Vector, -1, q16.Abs(j), q16.Abs(i), 0)
	magnitude = q16.Mul(x, cordic.CircularInverseGain)
	switch {
	case iNeg && jNeg:
		z = q16.Add(z, pi)
	case jNeg:
		z = q16.Sub(pi, z)
	case iNeg:
		z = q16.Sub(twoPi, z)
	}
	return magnitude, z
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg q16.Q) q16.Q { return q16.Div(q16.Mul(pi, deg), q16.Int(180)) }

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad q16.Q) q16.Q { return q16.Div(q16.Mul(q16.Int(180), rad), pi) }
