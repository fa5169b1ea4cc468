package dedup

import "fmt"

// Config controls duplicate detection thresholds.
type Config struct {
	// TitleThreshold is the minimum title similarity for a pair to be
	// reported as a potential duplicate.
	TitleThreshold float64 `mapstructure:"title_threshold" yaml:"title_threshold"`

	// CombinedThreshold is the minimum averaged title+body similarity for
	// a pair to be flagged high confidence (and eligible for merge
	// suggestions).
	CombinedThreshold float64 `mapstructure:"combined_threshold" yaml:"combined_threshold"`

	// MinTitleLength skips issues with very short titles, which produce
	// noisy ratios ("fix CI" vs "fix DB" is 71% similar).
	MinTitleLength int `mapstructure:"min_title_length" yaml:"min_title_length"`

	// FailOpen controls behavior when AI confirmation errors out: when
	// true the pair stays in the results unconfirmed, when false it is
	// dropped.
	FailOpen bool `mapstructure:"fail_open" yaml:"fail_open"`
}

// DefaultConfig returns the detection thresholds tuned on real backlogs.
func DefaultConfig() Config {
	return Config{
		TitleThreshold:    0.75,
		CombinedThreshold: 0.85,
		MinTitleLength:    10,
		FailOpen:          true,
	}
}

// Validate checks config invariants.
func (c Config) Validate() error {
	if c.TitleThreshold <= 0 || c.TitleThreshold > 1 {
		return fmt.Errorf("title_threshold must be in (0, 1], got %v", c.TitleThreshold)
	}
	if c.CombinedThreshold <= 0 || c.CombinedThreshold > 1 {
		return fmt.Errorf("combined_threshold must be in (0, 1], got %v", c.CombinedThreshold)
	}
	if c.CombinedThreshold < c.TitleThreshold {
		return fmt.Errorf("combined_threshold (%v) must be >= title_threshold (%v)",
			c.CombinedThreshold, c.TitleThreshold)
	}
	if c.MinTitleLength < 0 {
		return fmt.Errorf("min_title_length cannot be negative, got %d", c.MinTitleLength)
	}
	return nil
}

// String returns a human-readable summary of the config.
func (c Config) String() string {
	return fmt.Sprintf("dedup config: title>=%.2f combined>=%.2f min-title=%d fail-open=%v",
		c.TitleThreshold, c.CombinedThreshold, c.MinTitleLength, c.FailOpen)
}
