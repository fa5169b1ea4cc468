package rubric

import (
	"testing"

	"github.com/auditworks/triage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullyFormedIssue builds an issue that should score 100 on every criterion.
func fullyFormedIssue() *types.Issue {
	body := `## Context
This service currently returns raw errors to the client, which leaks
internals and makes debugging harder for integrators using our public API.

## Objective
Return structured error envelopes from every endpoint because integrators
depend on stable error codes.

## Acceptance Criteria
- [x] all endpoints return the envelope
- [ ] error codes documented

## Technical Implementation
Estimate: 6h

1. Update ` + "`internal/api/errors.go`" + ` with the envelope type
2. Wire it through ` + "`internal/api/handler.go`" + `

` + "```go\ntype Envelope struct{ Code string }\n```" + `

` + "```go\nfunc wrap(err error) Envelope { ... }\n```" + `

Blocked by #12. See the roadmap milestone M2 for sequencing.`

	return &types.Issue{
		Number: 7,
		Title:  "feat(api): structured error envelopes",
		Body:   body,
		State:  types.StateOpen,
		Labels: []types.Label{
			{Name: "type/feat"},
			{Name: "area/api"},
			{Name: "priority/P1"},
			{Name: "risk/low"},
		},
		Milestone: &types.Milestone{Title: "M2: CI/CD Pipeline"},
	}
}

func TestScoreIssueFullyFormed(t *testing.T) {
	scores := ScoreIssue(fullyFormedIssue())

	assert.Equal(t, 100, scores.Atomicity.Score)
	assert.True(t, scores.Atomicity.IsAtomic)
	assert.Equal(t, 100, scores.Prioritization.Score)
	assert.Equal(t, 100, scores.Completeness.Score)
	assert.Equal(t, 100, scores.Executability.Score)
	assert.True(t, scores.Executability.ColdStartReady)
	assert.Equal(t, 100, scores.Traceability.Score)
	assert.Equal(t, 100.0, scores.Overall(DefaultWeights()))
}

func TestScoreIssueBare(t *testing.T) {
	issue := &types.Issue{
		Number: 8,
		Title:  "do the thing",
		Body:   "short",
		State:  types.StateOpen,
	}
	scores := ScoreIssue(issue)

	assert.Equal(t, 0, scores.Prioritization.Score)
	assert.Equal(t, 0, scores.Completeness.Score)
	assert.Equal(t, 0, scores.Executability.Score)
	assert.Equal(t, 0, scores.Traceability.Score)
	assert.Less(t, scores.Overall(DefaultWeights()), ComplianceThreshold)
}

func TestScoreAtomicityOversized(t *testing.T) {
	issue := &types.Issue{
		Number: 9,
		Title:  "refactor everything",
		Body:   "Estimate: 16h",
		State:  types.StateOpen,
	}
	result := ScoreAtomicity(issue)

	assert.Equal(t, 40, result.Score)
	assert.False(t, result.IsAtomic)
	assert.Equal(t, "Decompose into smaller issues", result.Recommendation)
}

func TestScorePrioritizationMilestoneOnly(t *testing.T) {
	issue := &types.Issue{
		Number:    10,
		Title:     "t",
		Body:      "plain text with no signals at all",
		State:     types.StateOpen,
		Milestone: &types.Milestone{Title: "M1"},
	}
	result := ScorePrioritization(issue)

	assert.Equal(t, 40, result.Score)
	assert.False(t, result.HasPriorityLabel)
}

func TestScoreCompletenessACOnly(t *testing.T) {
	issue := &types.Issue{
		Number: 11,
		Title:  "t",
		Body:   "Acceptance criteria: it works",
		State:  types.StateOpen,
	}
	result := ScoreCompleteness(issue)
	assert.Equal(t, 40, result.Score)
}

func TestScoreExecutabilityReferencesOnly(t *testing.T) {
	issue := &types.Issue{
		Number: 12,
		Title:  "t",
		Body:   "see https://example.com/design for details",
		State:  types.StateOpen,
	}
	result := ScoreExecutability(issue)
	assert.Equal(t, 40, result.Score)
	assert.False(t, result.ColdStartReady)
}

func TestScoreTraceabilityLabelsOnly(t *testing.T) {
	issue := &types.Issue{
		Number: 13,
		Title:  "t",
		Body:   "nothing useful",
		State:  types.StateOpen,
		Labels: []types.Label{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	}
	result := ScoreTraceability(issue)
	assert.Equal(t, 20, result.Score)
	assert.Equal(t, "Add milestone and map dependencies", result.Recommendation)
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	bad := DefaultWeights()
	bad.Atomicity = 0.5
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")

	negative := Weights{Atomicity: -0.1, Prioritization: 0.3, Completeness: 0.3, Executability: 0.3, Traceability: 0.2}
	err = negative.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be negative")
}

func TestOverallWeighting(t *testing.T) {
	scores := Scores{
		Atomicity:      AtomicityResult{Score: 100},
		Prioritization: PrioritizationResult{Score: 0},
		Completeness:   CompletenessResult{Score: 100},
		Executability:  ExecutabilityResult{Score: 0},
		Traceability:   TraceabilityResult{Score: 0},
	}
	// 100*.20 + 100*.25 = 45
	assert.Equal(t, 45.0, scores.Overall(DefaultWeights()))
}

func TestByName(t *testing.T) {
	scores := Scores{Completeness: CompletenessResult{Score: 60}}
	assert.Equal(t, 60, scores.ByName("completeness"))
	assert.Equal(t, -1, scores.ByName("nope"))
}

func TestValidateIssuePerfect(t *testing.T) {
	c := ValidateIssue(fullyFormedIssue())
	assert.Equal(t, 100, c.Score)
	assert.Empty(t, c.Problems)
	assert.Empty(t, c.Warnings)
	assert.True(t, c.HasDependencies)
}

func TestValidateIssueDeductions(t *testing.T) {
	issue := &types.Issue{
		Number: 21,
		Title:  "please fix the thing that is broken in production when users log in with their corporate accounts and everything",
		Body:   "short body",
		State:  types.StateOpen,
	}
	c := ValidateIssue(issue)

	// -10 title, -5 length, -20 body, -15 AC, -10 estimate,
	// -10 type, -5 area, -15 priority, -5 risk, -5 milestone = 0
	assert.Equal(t, 0, c.Score)
	assert.Len(t, c.Problems, 5)
	assert.Len(t, c.Warnings, 5)
	assert.False(t, c.HasDependencies)
}

func TestValidateIssueScoreFloor(t *testing.T) {
	c := ValidateIssue(&types.Issue{Number: 22, Title: "x", Body: "", State: types.StateOpen})
	assert.GreaterOrEqual(t, c.Score, 0)
}
