package q16

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatInteger(t *testing.T) {
	require.Equal(t, "5", Format(Int(5), 10, AllDigits))
	require.Equal(t, "-5", Format(Int(-5), 10, AllDigits))
	require.Equal(t, "0", Format(Int(0), 10, AllDigits))
}

func TestFormatHex(t *testing.T) {
	require.Equal(t, "A", Format(Int(10), 16, AllDigits))
}

func TestParsePi(t *testing.T) {
	q, err := Parse("3.14159", 10, AllDigits)
	require.NoError(t, err)
	require.EqualValues(t, Info.Pi, q)
}

func TestParseRoundTripIntegers(t *testing.T) {
	for _, n := range []int{0, 1, -1, 42, -42, 32767, -32768} {
		q, err := Parse(Format(Int(n), 10, AllDigits), 10, AllDigits)
		require.NoError(t, err)
		require.EqualValues(t, Int(n), q)
	}
}

func TestParseNegative(t *testing.T) {
	q, err := Parse("-3.5", 10, AllDigits)
	require.NoError(t, err)
	require.EqualValues(t, Neg(Add(Int(3), Info.One/2)), q)
}

func TestParseLimitedPlaces(t *testing.T) {
	// Only the first two fractional digits should count.
	q, err := Parse("0.999999", 10, 2)
	require.NoError(t, err)
	want, _ := Parse("0.99", 10, AllDigits)
	require.EqualValues(t, want, q)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("", 10, AllDigits)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrEmpty, pe.Kind)
}

func TestParseBadSeparator(t *testing.T) {
	_, err := Parse("12x34", 10, AllDigits)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrBadSeparator, pe.Kind)
}

func TestParseBadDigit(t *testing.T) {
	_, err := Parse("1.2x", 10, AllDigits)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrBadDigit, pe.Kind)
}

func TestParseOverflow(t *testing.T) {
	q, err := Parse("999999999", 10, AllDigits)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrOverflow, pe.Kind)
	require.EqualValues(t, Info.Max, q)
}

func TestParseBaseRange(t *testing.T) {
	old := Debug
	Debug = true
	defer func() { Debug = old }()
	require.Panics(t, func() { Parse("1", 37, AllDigits) })
}
