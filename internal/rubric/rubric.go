// Package rubric scores issues against the backlog audit criteria.
//
// Five criteria are scored independently on a 0-100 scale and combined
// into a weighted overall score:
//
//   - Atomicity: is the issue sized for 2-8 hours of work?
//   - Prioritization: does it carry priority, dependencies, justification?
//   - Completeness: context, objectives, acceptance criteria, tech detail?
//   - Executability: could someone pick it up cold and start?
//   - Traceability: milestone, cross-references, labels, roadmap link?
//
// Each criterion is a pure function of the issue; scoring an issue has no
// side effects and two runs over the same backlog produce identical output.
//
// The package also provides the quality checklist (Checklist), a
// deduction-based validation that complements the rubric with concrete
// findings ("missing priority/P0..P3 label") suitable for posting back to
// the issue as review comments.
package rubric

import "github.com/auditworks/triage/internal/types"

// Scores bundles the per-criterion results for a single issue.
type Scores struct {
	Atomicity      AtomicityResult      `json:"atomicity"`
	Prioritization PrioritizationResult `json:"prioritization"`
	Completeness   CompletenessResult   `json:"completeness"`
	Executability  ExecutabilityResult  `json:"executability"`
	Traceability   TraceabilityResult   `json:"traceability"`
}

// ScoreIssue runs all five criteria against an issue.
func ScoreIssue(issue *types.Issue) Scores {
	return Scores{
		Atomicity:      ScoreAtomicity(issue),
		Prioritization: ScorePrioritization(issue),
		Completeness:   ScoreCompleteness(issue),
		Executability:  ScoreExecutability(issue),
		Traceability:   ScoreTraceability(issue),
	}
}

// Overall combines the criterion scores using the given weights,
// rounded to one decimal place.
func (s Scores) Overall(w Weights) float64 {
	total := float64(s.Atomicity.Score)*w.Atomicity +
		float64(s.Prioritization.Score)*w.Prioritization +
		float64(s.Completeness.Score)*w.Completeness +
		float64(s.Executability.Score)*w.Executability +
		float64(s.Traceability.Score)*w.Traceability
	return float64(int(total*10+0.5)) / 10
}

// ByName returns the criterion score for a rubric name, used by report
// renderers that iterate criteria generically. Unknown names return -1.
func (s Scores) ByName(name string) int {
	switch name {
	case "atomicity":
		return s.Atomicity.Score
	case "prioritization":
		return s.Prioritization.Score
	case "completeness":
		return s.Completeness.Score
	case "executability":
		return s.Executability.Score
	case "traceability":
		return s.Traceability.Score
	}
	return -1
}

// CriterionNames lists the rubric criteria in report order.
var CriterionNames = []string{
	"atomicity",
	"prioritization",
	"completeness",
	"executability",
	"traceability",
}

// CriterionTitles maps rubric names to their display titles.
var CriterionTitles = map[string]string{
	"atomicity":      "1. Atomicity (2-8h)",
	"prioritization": "2. Prioritization",
	"completeness":   "3. Completeness",
	"executability":  "4. Executability",
	"traceability":   "5. Traceability",
}
