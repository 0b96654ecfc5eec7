package q16

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// half returns whole + num/den in Q16.16 (the fraction truncated),
// used to build the .2, .5 and .8 fixtures without relying on Parse.
func half(whole int32, num, den int32) Q {
	return Q(whole<<FractionalBits) + Q(int64(num)<<FractionalBits/int64(den))
}

func TestRoundingTable(t *testing.T) {
	td := []struct {
		name          string
		in            Q
		floor, ceil   Q
		trunc, round  Q
	}{
		{"3.2", half(3, 2, 10), Int(3), Int(4), Int(3), Int(3)},
		{"3.8", half(3, 8, 10), Int(3), Int(4), Int(3), Int(4)},
		{"3.5", half(3, 5, 10), Int(3), Int(4), Int(3), Int(4)},
		{"-3.2", Neg(half(3, 2, 10)), Int(-4), Int(-3), Int(-3), Int(-3)},
		{"-3.8", Neg(half(3, 8, 10)), Int(-4), Int(-3), Int(-3), Int(-4)},
		{"-3.5", Neg(half(3, 5, 10)), Int(-4), Int(-3), Int(-3), Int(-4)},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			require.EqualValues(t, d.floor, Floor(d.in), "floor")
			require.EqualValues(t, d.ceil, Ceil(d.in), "ceil")
			require.EqualValues(t, d.trunc, Trunc(d.in), "trunc")
			require.EqualValues(t, d.round, Round(d.in), "round")
		})
	}
}

func TestRoundingIntegers(t *testing.T) {
	require.EqualValues(t, Int(4), Floor(Int(4)))
	require.EqualValues(t, Int(4), Ceil(Int(4)))
	require.EqualValues(t, Int(4), Trunc(Int(4)))
	require.EqualValues(t, Int(4), Round(Int(4)))
}
