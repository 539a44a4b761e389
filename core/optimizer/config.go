package optimizer

import "fmt"

// Config defines the tunables of an optimization run loaded from
// configuration. Zero values mean "unset": SetDefaults replaces them with the
// standard parameters, so a literal seed of 0 or penalty of 0 cannot be
// configured. Both substitutes behave identically for scheduling purposes.
type Config struct {
	// Clusters is the number of maintenance-need groups (k).
	Clusters int `json:"clusters"`
	// Seed drives the deterministic cluster initialization. It is an
	// explicit value, never implicit global state, so runs are
	// reproducible.
	Seed int64 `json:"seed"`
	// MaxIterations caps the clustering convergence loop.
	MaxIterations int `json:"max_iterations"`
	// LatenessPenalty scales the slot-order term of the assignment cost.
	LatenessPenalty float64 `json:"lateness_penalty"`
}

// SetDefaults replaces zero-valued fields with the standard parameters.
func (c *Config) SetDefaults() {
	if c.Clusters == 0 {
		c.Clusters = 3
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = 300
	}
	if c.LatenessPenalty == 0 {
		c.LatenessPenalty = 0.1
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Clusters <= 0 {
		return fmt.Errorf("clusters must be positive, got %d", c.Clusters)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.LatenessPenalty < 0 {
		return fmt.Errorf("lateness_penalty must be non-negative, got %v", c.LatenessPenalty)
	}
	return nil
}
