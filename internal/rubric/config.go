package rubric

import (
	"fmt"
	"math"
)

// Weights holds the relative weight of each audit criterion.
// Weights must sum to 1.0.
type Weights struct {
	Atomicity      float64 `mapstructure:"atomicity" yaml:"atomicity"`
	Prioritization float64 `mapstructure:"prioritization" yaml:"prioritization"`
	Completeness   float64 `mapstructure:"completeness" yaml:"completeness"`
	Executability  float64 `mapstructure:"executability" yaml:"executability"`
	Traceability   float64 `mapstructure:"traceability" yaml:"traceability"`
}

// DefaultWeights returns the standard criterion weights.
//
// Completeness carries the most weight: an incomplete issue fails every
// other criterion downstream (it cannot be estimated, prioritized, or
// executed cold). The remaining criteria share the rest evenly except
// traceability, which is the cheapest to fix after the fact.
func DefaultWeights() Weights {
	return Weights{
		Atomicity:      0.20,
		Prioritization: 0.20,
		Completeness:   0.25,
		Executability:  0.20,
		Traceability:   0.15,
	}
}

// Validate checks that all weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	for _, entry := range []struct {
		name  string
		value float64
	}{
		{"atomicity", w.Atomicity},
		{"prioritization", w.Prioritization},
		{"completeness", w.Completeness},
		{"executability", w.Executability},
		{"traceability", w.Traceability},
	} {
		if entry.value < 0 {
			return fmt.Errorf("weight %s cannot be negative (got %.2f)", entry.name, entry.value)
		}
	}
	sum := w.Atomicity + w.Prioritization + w.Completeness + w.Executability + w.Traceability
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("weights must sum to 1.0 (got %.3f)", sum)
	}
	return nil
}

// ComplianceThreshold is the overall score at and above which an issue is
// considered compliant.
const ComplianceThreshold = 80.0
