package prioritize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/auditworks/triage/internal/types"
)

func issue(title, body string) *types.Issue {
	return &types.Issue{Number: 1, Title: title, Body: body, State: types.StateOpen}
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		body        string
		severity    int
		probability int
		level       RiskLevel
	}{
		{"security is worst case", "fix(auth): patch security vulnerability", "complex fix", 4, 3, RiskHigh},
		{"crash is severe", "app crash on startup", "straightforward", 4, 1, RiskLow},
		{"payment surface", "update payment retry logic", "", 3, 1, RiskLow},
		{"ordinary bug", "bug in sorting", "", 2, 1, RiskLow},
		{"benign", "docs update", "tidy the readme", 1, 1, RiskLow},
		{"severe and uncertain", "critical outage handling", "this is unclear", 4, 3, RiskHigh},
		{"medium band", "auth token refresh", "complex interaction", 3, 3, RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ClassifyRisk(issue(tt.title, tt.body))
			assert.Equal(t, tt.severity, r.Severity)
			assert.Equal(t, tt.probability, r.Probability)
			assert.Equal(t, tt.severity*tt.probability, r.Score)
			assert.Equal(t, tt.level, r.Level)
		})
	}
}

func TestCalculateWSJF(t *testing.T) {
	// Stated 4 hours, customer-facing, milestone set.
	i := issue("fix login for customer accounts", "Takes about 4 hours of work.")
	i.Milestone = &types.Milestone{Title: "M1"}

	risk := ClassifyRisk(i) // severity 2 (bug-ish "fix"? no: "fix" not a keyword) -> actually benign
	w := CalculateWSJF(i, risk)

	assert.Equal(t, 9, w.UserValue) // "customer"
	assert.Equal(t, 5, w.BusinessValue)
	assert.Equal(t, 7, w.TimeCriticality) // milestone, no urgency words
	assert.Equal(t, 4, w.Size)
	expected := float64(9+5+risk.Score+7) / 4
	assert.InDelta(t, expected, w.Score, 1e-9)
}

func TestWSJFJobSizeDefaults(t *testing.T) {
	tests := []struct {
		title string
		size  int
	}{
		{"test: cover the parser", 8},
		{"docs: rewrite install guide", 4},
		{"feat: add exports", 16},
		{"chore: bump deps", 8},
	}
	for _, tt := range tests {
		w := CalculateWSJF(issue(tt.title, "no stated size"), Risk{Score: 1})
		assert.Equal(t, tt.size, w.Size, tt.title)
	}
}

func TestCalculateRICE(t *testing.T) {
	i := issue("fix: slow queries", "This affects all users. Estimated 10 hours.")
	r := CalculateRICE(i)

	assert.Equal(t, 10, r.Reach)  // "all users"
	assert.Equal(t, 6, r.Impact)  // "fix" in title
	assert.Equal(t, 0.8, r.Confidence)
	assert.Equal(t, 10, r.Effort)
	assert.InDelta(t, 10*6*0.8/10, r.Score, 1e-9)
}

func TestRICELowConfidenceWhenUncertain(t *testing.T) {
	r := CalculateRICE(issue("spike: storage layer", "scope is unclear right now"))
	assert.Equal(t, 0.5, r.Confidence)
}

func TestAssignPriority(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  Priority
	}{
		{"P0 needs keyword and high risk", "security breach in session handling", "complex exploit path", P0},
		{"keyword without high risk is not P0", "critical docs gap", "simple rewrite, milestone M2", P1},
		{"milestone language is P1", "align with Q3 goal", "", P1},
		{"feature is P2", "feat: csv export", "", P2},
		{"everything else is P3", "chore: tidy makefile", "", P3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := issue(tt.title, tt.body)
			assert.Equal(t, tt.want, AssignPriority(i, ClassifyRisk(i)))
		})
	}
}

func TestAnalyzeCombined(t *testing.T) {
	a := Analyze(issue("feat: add webhook retries", "Retry failed webhook deliveries. 8 hours."))
	assert.Equal(t, P2, a.Priority)
	assert.InDelta(t, (a.WSJF.Score+a.RICE.Score)/2, a.Combined, 1e-9)
	assert.True(t, a.Risk.Level.IsValid())
}

func TestPriorityIsValid(t *testing.T) {
	assert.True(t, P0.IsValid())
	assert.False(t, Priority("P9").IsValid())
}
