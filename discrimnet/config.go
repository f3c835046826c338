package discrimnet

// Config controls Net behavior and safety limits.
//
// Example:
//
//	cfg := discrimnet.DefaultConfig()
//	cfg.CollectMode = true
//	net := discrimnet.NewWithConfig(cfg)
type Config struct {
	// CollectMode, when true, accumulates the payload of every state
	// visited along a subject's path instead of only the final state
	// reached. Patterns whose wildcard already matched by the time a
	// longer sibling pattern finishes only surface under this mode.
	// Default: false
	CollectMode bool

	// MaxProductStates caps the number of states the net may hold after
	// folding a new pattern in. The product is built in full first; if it
	// has more states than this, Add discards it and returns
	// TooManyStatesError, leaving the net unmodified. Zero disables the
	// check.
	// Default: 100000
	MaxProductStates int
}

// DefaultConfig returns a configuration with sensible defaults: last-state
// matching and a generous but finite product-state ceiling.
func DefaultConfig() Config {
	return Config{
		CollectMode:      false,
		MaxProductStates: 100_000,
	}
}
