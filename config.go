package casso

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds tunable, non-algorithmic defaults for a Solver: the
// tolerance CheckInvariants uses when judging a row "close enough" to
// feasible, and the strength AddStay falls back to when called with a
// zero Strength. It never changes the solver's core epsilon (spec.md §9
// fixes that as a single, non-configurable 1e-8 constant used by every
// row operation); Config only tunes ambient, diagnostic behavior.
type Config struct {
	InvariantTolerance  float64  `yaml:"invariant_tolerance"`
	DefaultStayStrength Strength `yaml:"default_stay_strength"`
}

// DefaultConfig returns the Config a Solver uses when none is supplied.
func DefaultConfig() Config {
	return Config{
		InvariantTolerance:  epsilon,
		DefaultStayStrength: Strong,
	}
}

// LoadConfig parses a Config from YAML, for embedding applications
// that ship a tuned configuration file. The Solver core itself never
// performs I/O (spec.md §1's non-goals); LoadConfig lives beside it as
// an optional convenience that only ever produces an already-parsed
// Config to hand to WithConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "casso: decoding config")
	}
	return cfg, nil
}
