// Package qcontext provides an explicit, non-global alternative to
// q16's package-level arithmetic: a Context bundles an overflow
// policy together with the base and fractional-place defaults used
// by Format and Parse, and accumulates the first error it encounters
// until that error is read and cleared with Err.
//
// A Context is a wrapper around q16.Q that facilitates management of
// overflow policy, text radix and error handling, the same role
// db47h/decimal's context.Context plays for *decimal.Decimal: once an
// operation sets the sticky error, further operations become no-ops
// (returning the zero Q) until Err is called.
package qcontext

import (
	"errors"

	"github.com/rjhq/q16"
)

// Config bundles the settings a Context applies to every operation:
// the overflow policy for arithmetic, and the default base/places
// used by Format and Parse.
type Config struct {
	Overflow q16.Overflow
	Base     int
	Places   int
}

// DefaultConfig is Saturate overflow, base 10, and unlimited places.
func DefaultConfig() Config {
	return Config{Overflow: q16.Saturate, Base: 10, Places: q16.AllDigits}
}

// Context wraps a Config and a sticky error slot.
type Context struct {
	cfg Config
	err error
}

// New creates a Context with the given configuration. A zero Base is
// replaced with 10; a zero Places is left as-is (0 fractional
// places), since only a negative Places means "unlimited" (see
// q16.AllDigits).
func New(cfg Config) *Context {
	if cfg.Base == 0 {
		cfg.Base = 10
	}
	return &Context{cfg: cfg}
}

// Default returns a new Context with DefaultConfig.
func Default() *Context {
	return New(DefaultConfig())
}

// Config returns c's current configuration.
func (c *Context) Config() Config { return c.cfg }

// SetOverflow sets c's overflow policy and returns c.
func (c *Context) SetOverflow(o q16.Overflow) *Context {
	c.cfg.Overflow = o
	return c
}

// SetBase sets c's default text radix and returns c.
func (c *Context) SetBase(base int) *Context {
	c.cfg.Base = base
	return c
}

// SetPlaces sets c's default fractional-digit count and returns c.
func (c *Context) SetPlaces(places int) *Context {
	c.cfg.Places = places
	return c
}

// Err returns the first error encountered since the last call to Err
// and clears the error state.
func (c *Context) Err() (err error) {
	err = c.err
	c.err = nil
	return
}

// bound applies c's overflow policy to a widened intermediate, unless
// c already has a sticky error, in which case it is a no-op returning
// the zero Q.
func (c *Context) bound(s int64) q16.Q {
	if c.err != nil {
		return 0
	}
	return q16.Bound(c.cfg.Overflow, s)
}

// Add sets returns the rounded sum x+y, per c's overflow policy.
func (c *Context) Add(x, y q16.Q) q16.Q { return c.bound(int64(x) + int64(y)) }

// Sub returns the rounded difference x-y, per c's overflow policy.
func (c *Context) Sub(x, y q16.Q) q16.Q { return c.bound(int64(x) - int64(y)) }

func widenMul(x, y q16.Q) int64 {
	return (int64(x)*int64(y) + (1 << (q16.FractionalBits - 1))) >> q16.FractionalBits
}

// Mul returns the rounded product x*y, per c's overflow policy.
func (c *Context) Mul(x, y q16.Q) q16.Q { return c.bound(widenMul(x, y)) }

// FMA returns x*y+u with a single rounding applied to the sum, per
// c's overflow policy.
func (c *Context) FMA(x, y, u q16.Q) q16.Q { return c.bound(widenMul(x, y) + int64(u)) }

// Div returns x/y, rounding half-away-from-zero, per c's overflow
// policy. Unlike q16.Div, division by zero sets c's sticky error
// instead of panicking: a Context is meant to be driven by data a
// caller does not fully control (e.g. expr), where a panic would be
// the wrong failure mode.
func (c *Context) Div(x, y q16.Q) q16.Q {
	if c.err != nil {
		return 0
	}
	if y == 0 {
		c.err = errors.New("qcontext: division by zero")
		return 0
	}
	dd := int64(x) << q16.FractionalBits
	bd2 := int64(y) >> 1
	sameSign := (dd >= 0 && y > 0) || (dd < 0 && y < 0)
	if !sameSign {
		bd2 = -bd2
	}
	return c.bound((dd + bd2) / int64(y))
}

// Rem returns the remainder of x/y with the sign of x, per c's
// overflow policy and sticky-error behavior.
func (c *Context) Rem(x, y q16.Q) q16.Q {
	if c.err != nil {
		return 0
	}
	q := c.Div(x, y)
	if c.err != nil {
		return 0
	}
	return c.Sub(x, c.Mul(q16.Trunc(q), y))
}

// Mod returns the modulo of x/y with the sign of y, per c's overflow
// policy and sticky-error behavior.
func (c *Context) Mod(x, y q16.Q) q16.Q {
	if c.err != nil {
		return 0
	}
	q := c.Div(x, y)
	if c.err != nil {
		return 0
	}
	return c.Sub(x, c.Mul(q16.Floor(q), y))
}

// Format renders x using c's default base and places.
func (c *Context) Format(x q16.Q) string {
	return q16.Format(x, c.cfg.Base, c.cfg.Places)
}

// Parse parses s using c's default base and places. On failure the
// error is returned, and stashed as c's sticky error unless an earlier
// error is already pending.
func (c *Context) Parse(s string) (q16.Q, error) {
	q, err := q16.Parse(s, c.cfg.Base, c.cfg.Places)
	if err != nil && c.err == nil {
		c.err = err
	}
	return q, err
}
