package cordic

import (
	"testing"

	"github.com/rjhq/q16"
	"github.com/stretchr/testify/require"
)

// withinRaw asserts a and b (both Q16.16 values) differ by no more
// than tol raw units, printed alongside for debuggability.
func withinRaw(t *testing.T, want, got q16.Q, tol q16.Q, what string) {
	t.Helper()
	diff := q16.Abs(q16.Sub(want, got))
	require.LessOrEqualf(t, diff, tol, "%s: want %#x got %#x (diff %#x)", what, uint32(want), uint32(got), uint32(diff))
}

func TestCircularRotateSinCosQuarterPi(t *testing.T) {
	quarterPi := q16.Div(q16.Info.Pi, q16.Int(4))
	cos, sin, _, _ := Run(Circular, Rotate, -1, CircularInverseGain, 0, quarterPi)
	// cos(pi/4) == sin(pi/4) == sqrt(2)/2 ~= 0.70710678
	want := q16.Div(q16.Info.Sqrt2, q16.Int(2))
	withinRaw(t, want, cos, 50, "cos(pi/4)")
	withinRaw(t, want, sin, 50, "sin(pi/4)")
}

func TestCircularVectorAtan(t *testing.T) {
	_, _, z, _ := Run(Circular, Vector, -1, q16.Info.One, q16.Info.One, 0)
	// atan(1) == pi/4
	want := q16.Div(q16.Info.Pi, q16.Int(4))
	withinRaw(t, want, z, 50, "atan(1)")
}

func TestCircularGainMatchesInverseGain(t *testing.T) {
	x, _, _, _ := Run(Circular, Rotate, -1, q16.Info.One, 0, 0)
	product := q16.Mul(x, CircularInverseGain)
	withinRaw(t, q16.Info.One, product, 50, "gain * inverseGain")
}

func TestHyperbolicGainMatchesInverseGain(t *testing.T) {
	x, _, _, _ := Run(Hyperbolic, Rotate, -1, q16.Info.One, 0, 0)
	product := q16.Mul(x, HyperbolicInverseGain)
	withinRaw(t, q16.Info.One, product, 80, "hyperbolic gain * inverseGain")
}

func TestLinearRotateMultiply(t *testing.T) {
	a, b := q16.Div(q16.Int(3), q16.Int(2)), q16.Div(q16.Int(1), q16.Int(4)) // 1.5 * 0.25
	_, y, _, _ := Run(Linear, Rotate, -1, a, 0, b)
	want := q16.Mul(a, b)
	withinRaw(t, want, y, 20, "linear rotate multiply")
}

func TestLinearVectorDivide(t *testing.T) {
	a, b := q16.Int(3), q16.Int(4) // 3 / 4
	_, _, z, _ := Run(Linear, Vector, -1, b, a, 0)
	want := q16.Div(a, b)
	withinRaw(t, want, z, 20, "linear vector divide")
}

func TestIsHyperbolicRepeat(t *testing.T) {
	require.False(t, isHyperbolicRepeat(1))
	require.False(t, isHyperbolicRepeat(2))
	require.False(t, isHyperbolicRepeat(3))
	require.True(t, isHyperbolicRepeat(4))
	require.False(t, isHyperbolicRepeat(5))
	require.True(t, isHyperbolicRepeat(13))
	require.True(t, isHyperbolicRepeat(40))
}

func TestRunClampsIterations(t *testing.T) {
	x1, y1, z1, steps1 := Run(Circular, Rotate, -1, CircularInverseGain, 0, q16.Info.Pi)
	x2, y2, z2, steps2 := Run(Circular, Rotate, MaxIterations+5, CircularInverseGain, 0, q16.Info.Pi)
	require.Equal(t, x1, x2)
	require.Equal(t, y1, y2)
	require.Equal(t, z1, z2)
	require.Equal(t, steps1, steps2)
}

func TestRunReportsHyperbolicRepeatSteps(t *testing.T) {
	_, _, _, steps := Run(Hyperbolic, Rotate, 4, q16.Info.One, 0, 0)
	// isHyperbolicRepeat(4) is true, so the 4th requested iteration
	// performs an extra physical step.
	require.Equal(t, 5, steps)

	_, _, _, steps = Run(Hyperbolic, Rotate, 3, q16.Info.One, 0, 0)
	require.Equal(t, 3, steps)
}
