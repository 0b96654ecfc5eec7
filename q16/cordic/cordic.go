// Package cordic implements a universal CORDIC engine over q16.Q:
// the same shift-add iteration, parameterized by coordinate system
// (circular, linear, hyperbolic) and mode (rotation, vectoring), that
// trig derives sin/cos/exp/log/sqrt and friends from.
package cordic

import "github.com/rjhq/q16"

// Coordinate selects the CORDIC coordinate system, which determines
// the lookup table consulted and the sign of the x update.
type Coordinate int

const (
	Hyperbolic Coordinate = -1
	Linear     Coordinate = 0
	Circular   Coordinate = 1
)

// Mode selects whether z (Rotate) or y (Vector) drives the rotation
// direction at each step.
type Mode int

const (
	Vector Mode = iota
	Rotate
)

// CircularInverseGain and HyperbolicInverseGain are the inverse of
// the CORDIC scaling factor for their respective coordinate systems:
// seed x with one of these (and y with zero) before a Rotate pass to
// get a unit-magnitude result out the other side.
const (
	CircularInverseGain   q16.Q = 0x9B74
	HyperbolicInverseGain q16.Q = 0x13520
)

// arctans holds atan(2^0), atan(2^-1), atan(2^-2), ... in Q16.16,
// consulted by the circular coordinate system.
var arctans = []q16.Q{
	0xC90F, 0x76B1, 0x3EB6, 0x1FD5,
	0x0FFA, 0x07FF, 0x03FF, 0x01FF,
	0x00FF, 0x007F, 0x003F, 0x001F,
	0x000F, 0x0007, 0x0003, 0x0001,
	0x0000,
}

// arctanhs holds atanh(2^-1), atanh(2^-2), ... in Q16.16, consulted
// by the hyperbolic coordinate system.
var arctanhs = []q16.Q{
	0x8C9F, 0x4162, 0x202B, 0x1005,
	0x0800, 0x0400, 0x0200, 0x0100,
	0x0080, 0x0040, 0x0020, 0x0010,
	0x0008, 0x0004, 0x0002, 0x0001,
	0x0000,
}

// powersOfTwo holds 2^0, 2^-1, 2^-2, ... in Q16.16, consulted by the
// linear coordinate system.
var powersOfTwo = []q16.Q{
	0x10000,
	0x8000, 0x4000, 0x2000, 0x1000,
	0x0800, 0x0400, 0x0200, 0x0100,
	0x0080, 0x0040, 0x0020, 0x0010,
	0x0008, 0x0004, 0x0002, 0x0001,
}

// MaxIterations is the number of entries in the longest lookup table;
// it bounds how many meaningful CORDIC iterations exist.
const MaxIterations = 17

func lookupFor(coord Coordinate) []q16.Q {
	switch coord {
	case Circular:
		return arctans
	case Hyperbolic:
		return arctanhs
	default:
		return powersOfTwo
	}
}

// withSign returns v if d is zero, or -v if d is all-ones (-1): the
// branch-free two's-complement conditional negate the original C
// expressed as (v^d)-d.
func withSign(v, d q16.Q) q16.Q {
	return (v ^ d) - d
}

// isHyperbolicRepeat reports whether CORDIC iteration i (1-based, the
// position in the arctanh table) must be repeated for hyperbolic
// convergence. Hyperbolic rotations don't converge for every
// iteration on the first pass; repeating iterations 4, 13, 40, 121,
// ... (each term 3x the previous plus one) restores convergence. This
// replaces the original's goto-driven "redo every 4th step"
// approximation with the textbook sequence it was reaching for.
func isHyperbolicRepeat(i int) bool {
	for n := 4; n <= i; n = 3*n + 1 {
		if n == i {
			return true
		}
	}
	return false
}

// step runs one CORDIC micro-rotation, consulting lookup[j] and
// shifting by exponent i (for circular/hyperbolic) or j (for linear).
func step(coord Coordinate, mode Mode, i, j int, lookup []q16.Q, x, y, z q16.Q) (q16.Q, q16.Q, q16.Q) {
	m := z
	if mode == Vector {
		m = -y
	}
	d := q16.Q(0)
	if m < 0 {
		d = -1
	}

	shiftExp := i
	if coord == Linear {
		shiftExp = j
	}

	var xs q16.Q
	if coord != Linear {
		xs = withSign(y>>uint(i), d)
	}
	ys := withSign(x>>uint(shiftExp), d)

	xn := x - xs
	if coord == Hyperbolic {
		xn = x + xs
	}
	yn := y + ys
	zn := z - withSign(lookup[j], d)
	return xn, yn, zn
}

// Run executes iterations CORDIC micro-rotations (or every table
// entry, if iterations is negative or exceeds the table length) over
// (x, y, z) in the given coordinate system and mode, and returns the
// final state plus the number of physical steps actually performed.
// That count can exceed iterations, since isHyperbolicRepeat adds an
// extra step at certain positions. It mirrors the original's universal
// cordic() function, replacing its pointer-output parameters with a
// value return and its goto-based hyperbolic iteration redo with
// isHyperbolicRepeat.
func Run(coord Coordinate, mode Mode, iterations int, x, y, z q16.Q) (xf, yf, zf q16.Q, steps int) {
	lookup := lookupFor(coord)
	length := len(lookup)
	if iterations < 0 || iterations > length {
		iterations = length
	}

	i := 0
	if coord == Hyperbolic {
		i = 1
	}
	for j := 0; j < iterations; j++ {
		x, y, z = step(coord, mode, i, j, lookup, x, y, z)
		steps++
		if coord == Hyperbolic && isHyperbolicRepeat(i) {
			x, y, z = step(coord, mode, i, j, lookup, x, y, z)
			steps++
		}
		i++
	}
	return x, y, z, steps
}
