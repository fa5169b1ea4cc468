// Package prioritize ranks backlog issues for execution order.
//
// Three complementary signals are computed per issue from keyword
// heuristics over the title and body:
//
//   - Risk: severity x probability on a 4x4 matrix
//   - WSJF: weighted shortest job first (value over size)
//   - RICE: reach x impact x confidence over effort
//
// A priority level (P0-P3) is assigned by rule, and a combined score
// averages WSJF and RICE for the final ordering. The heuristics are
// deliberately coarse; they exist to produce a defensible first ordering
// that humans then adjust, not to replace judgment.
package prioritize

import (
	"strings"

	"github.com/auditworks/triage/internal/types"
)

// RiskLevel buckets the severity x probability score.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"   // score >= 12
	RiskMedium RiskLevel = "medium" // score >= 6
	RiskLow    RiskLevel = "low"
)

// IsValid checks if the risk level is a known value.
func (l RiskLevel) IsValid() bool {
	return l == RiskHigh || l == RiskMedium || l == RiskLow
}

// Risk is the severity x probability classification for an issue.
type Risk struct {
	Severity    int       `json:"severity"`    // 1-4
	Probability int       `json:"probability"` // 1-4
	Score       int       `json:"score"`       // severity * probability
	Level       RiskLevel `json:"level"`
}

// ClassifyRisk scores an issue on a severity x probability matrix.
// Severity comes from what breaks (security worst, then data loss and
// crashes, then auth/payment surfaces, then ordinary bugs); probability
// from how uncertain the work sounds.
func ClassifyRisk(issue *types.Issue) Risk {
	text := strings.ToLower(issue.Title + " " + issue.Body)

	severity := 1
	switch {
	case containsAny(text, "security", "vulnerabilit", "exploit", "breach"):
		severity = 4
	case containsAny(text, "data loss", "corruption", "crash", "critical"):
		severity = 4
	case containsAny(text, "auth", "payment", "billing"):
		severity = 3
	case containsAny(text, "bug", "error", "broken"):
		severity = 2
	}

	probability := 1
	switch {
	case containsAny(text, "complex", "difficult", "unclear"):
		probability = 3
	case containsAny(text, "new", "experimental", "prototype"):
		probability = 2
	}

	score := severity * probability
	level := RiskLow
	switch {
	case score >= 12:
		level = RiskHigh
	case score >= 6:
		level = RiskMedium
	}

	return Risk{
		Severity:    severity,
		Probability: probability,
		Score:       score,
		Level:       level,
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
