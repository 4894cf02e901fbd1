package casso

// Option configures a Solver at construction time, in the functional-
// options style of costela-golpa's golpa.Option/WithLogger.
type Option func(*Solver)

// WithLogger attaches a Logger the solver traces admit/pivot/drain
// events to. Defaults to a no-op logger.
func WithLogger(logger Logger) Option {
	return func(s *Solver) { s.logger = logger }
}

// WithConfig applies a parsed Config (see LoadConfig), overriding the
// ambient, non-algorithmic defaults a Solver starts with.
func WithConfig(cfg Config) Option {
	return func(s *Solver) { s.config = cfg }
}
