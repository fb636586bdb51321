package heading

import (
	"fmt"
	"math"
)

const (
	// DecayRate is the default accumulator decay applied before every sample is folded in
	DecayRate = 0.9
	// ValidThreshold is the default squared horizontal field magnitude above which heading is valid
	ValidThreshold = 0.1
)

// Config is heading estimator configuration
type Config struct {
	// DecayRate scales the accumulator before each sample is added
	DecayRate float64
	// ValidThreshold is the squared horizontal magnitude the accumulator must exceed
	ValidThreshold float64
}

// DefaultConfig returns default estimator configuration
func DefaultConfig() *Config {
	return &Config{
		DecayRate:      DecayRate,
		ValidThreshold: ValidThreshold,
	}
}

// Validate returns error if the configuration is invalid:
//   - DecayRate must be in [0, 1)
//   - ValidThreshold must be a non-negative number
func (c *Config) Validate() error {
	if math.IsNaN(c.DecayRate) || c.DecayRate < 0 || c.DecayRate >= 1 {
		return fmt.Errorf("invalid decay rate: %v", c.DecayRate)
	}

	if math.IsNaN(c.ValidThreshold) || c.ValidThreshold < 0 {
		return fmt.Errorf("invalid validity threshold: %v", c.ValidThreshold)
	}

	return nil
}
