// Package qfile persists an expr.Evaluator's session configuration —
// overflow policy, text base, fractional places, and named variables —
// to a small TOML document, so a CLI built on expr doesn't lose a
// user's "base 16" or variable bindings between runs. The original has
// no equivalent: its configuration comes from command-line flags and
// compile-time #defines only, so this whole package is new, grounded
// on how the wider example pack persists small config documents with
// github.com/BurntSushi/toml rather than on any q.c/expr.c function.
package qfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/rjhq/q16"
	"github.com/rjhq/q16/qcontext"
)

// Config is the TOML-serializable form of a qcontext.Config plus a
// named-variable table. Q values are stored as their formatted decimal
// text (base 10, all digits) rather than raw int32s, so the file stays
// legible and portable across the word-size assumptions a raw integer
// dump would otherwise bake in.
type Config struct {
	Overflow  string            `toml:"overflow"`
	Base      int               `toml:"base"`
	Places    int               `toml:"places"`
	Variables map[string]string `toml:"variables"`
}

// FromContext builds a Config from ctx's current settings and vars.
func FromContext(ctx *qcontext.Context, vars map[string]q16.Q) Config {
	cfg := ctx.Config()
	variables := make(map[string]string, len(vars))
	for name, v := range vars {
		variables[name] = q16.Format(v, 10, q16.AllDigits)
	}
	return Config{
		Overflow:  cfg.Overflow.String(),
		Base:      cfg.Base,
		Places:    cfg.Places,
		Variables: variables,
	}
}

// Apply parses c's fields into a qcontext.Config and a variable table.
// Parse failures on individual variables are collected and returned
// together rather than aborting at the first one, so a typo in one
// saved variable doesn't hide problems with the rest.
func (c Config) Apply() (qcontext.Config, map[string]q16.Q, error) {
	cfg := qcontext.DefaultConfig()
	switch c.Overflow {
	case "", q16.Saturate.String():
		cfg.Overflow = q16.Saturate
	case q16.Wrap.String():
		cfg.Overflow = q16.Wrap
	default:
		return cfg, nil, fmt.Errorf("qfile: unknown overflow policy %q", c.Overflow)
	}
	if c.Base != 0 {
		cfg.Base = c.Base
	}
	if c.Places != 0 {
		cfg.Places = c.Places
	}

	vars := make(map[string]q16.Q, len(c.Variables))
	var errs []error
	for name, text := range c.Variables {
		v, err := q16.Parse(text, 10, q16.AllDigits)
		if err != nil {
			errs = append(errs, fmt.Errorf("qfile: variable %q: %w", name, err))
		}
		vars[name] = v
	}
	return cfg, vars, errors.Join(errs...)
}

// Load reads and parses a Config from a TOML file at path.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("qfile: load %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path as TOML, creating or truncating the file.
func Save(path string, c Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("qfile: save %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("qfile: encode %s: %w", path, err)
	}
	return nil
}
