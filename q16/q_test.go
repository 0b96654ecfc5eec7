package q16

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstants(t *testing.T) {
	require.EqualValues(t, 0x3243F, Info.Pi)
	require.EqualValues(t, 0x2B7E1, Info.E)
	require.EqualValues(t, 0x16A09, Info.Sqrt2)
	require.EqualValues(t, 0x1BB67, Info.Sqrt3)
	require.EqualValues(t, 0xB172, Info.Ln2)
	require.EqualValues(t, 0x24D76, Info.Ln10)
	require.EqualValues(t, 1<<16, Info.One)
	require.EqualValues(t, 0, Info.Zero)
}

func TestIntRoundTrip(t *testing.T) {
	require.EqualValues(t, 5<<16, Int(5))
	require.Equal(t, 5, Int(5).ToInt())
	require.Equal(t, -3, Int(-3).ToInt())
}

func TestPredicates(t *testing.T) {
	require.True(t, Int(-1).IsNegative())
	require.False(t, Int(1).IsNegative())
	require.True(t, Int(0).IsPositive())
	require.True(t, Int(4).IsInteger())
	require.False(t, Add(Int(4), 1).IsInteger())
	require.True(t, Int(4).IsEven())
	require.True(t, Int(3).IsOdd())
	require.False(t, Int(3).IsEven())
}

func TestOrdering(t *testing.T) {
	require.True(t, Less(Int(1), Int(2)))
	require.True(t, More(Int(2), Int(1)))
	require.True(t, Equal(Int(2), Int(2)))
	require.True(t, Unequal(Int(1), Int(2)))
	require.True(t, EqLess(Int(2), Int(2)))
	require.True(t, EqMore(Int(2), Int(2)))
}

func TestNegAbs(t *testing.T) {
	require.EqualValues(t, Int(-4), Neg(Int(4)))
	require.EqualValues(t, Int(4), Abs(Int(-4)))
	require.EqualValues(t, Int(4), Abs(Int(4)))
	// Info.Min has no positive counterpart in two's complement; the
	// C original's quirk of Abs(INT_MIN) == INT_MIN carries over.
	require.EqualValues(t, Info.Min, Abs(Info.Min))
}

func TestMinMaxSign(t *testing.T) {
	require.EqualValues(t, Int(1), Min(Int(1), Int(2)))
	require.EqualValues(t, Int(2), Max(Int(1), Int(2)))
	require.EqualValues(t, Info.One, Sign(Int(5)))
	require.EqualValues(t, -Info.One, Sign(Int(-5)))
	require.EqualValues(t, Info.Zero, Signum(Int(0)))
	require.EqualValues(t, Info.One, Signum(Int(5)))
	require.EqualValues(t, -Info.One, Signum(Int(-5)))
}

func TestCopysign(t *testing.T) {
	require.EqualValues(t, Int(4), Copysign(Int(4), Int(1)))
	require.EqualValues(t, Int(-4), Copysign(Int(4), Int(-1)))
	require.EqualValues(t, Int(-4), Copysign(Int(-4), Int(-1)))
}

func TestApproxEqual(t *testing.T) {
	eps := Int(0) + 100
	require.True(t, ApproxEqual(Int(5), Add(Int(5), 50), eps))
	require.False(t, ApproxEqual(Int(5), Add(Int(5), 200), eps))
	require.True(t, ApproxUnequal(Int(5), Add(Int(5), 200), eps))
}

func TestWithin(t *testing.T) {
	require.True(t, Within(Int(5), Int(1), Int(10)))
	require.True(t, Within(Int(5), Int(10), Int(1)))
	require.True(t, Within(Int(1), Int(1), Int(10)))
	require.False(t, Within(Int(11), Int(1), Int(10)))
}
