package fixes

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/types"
)

// CloseAction closes one duplicate issue in favor of another.
type CloseAction struct {
	Keep       int     `yaml:"keep" json:"keep"`
	Close      int     `yaml:"close" json:"close"`
	Similarity float64 `yaml:"similarity" json:"similarity"`
	Comment    string  `yaml:"comment" json:"comment"`
}

// Plan is a reviewable batch of fixes derived from one audit run.
type Plan struct {
	RunID       string        `yaml:"run_id" json:"run_id"`
	GeneratedAt time.Time     `yaml:"generated_at" json:"generated_at"`
	Closes      []CloseAction `yaml:"closes,omitempty" json:"closes,omitempty"`
	Suggestions []Suggestion  `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
}

// IsEmpty reports whether the plan proposes no work.
func (p *Plan) IsEmpty() bool {
	return len(p.Closes) == 0 && len(p.Suggestions) == 0
}

// BuildPlan derives a fix plan from audit results.
//
// Duplicate closes only come from high-confidence pairs, and when an AI
// reviewer ran, only from pairs it confirmed. Of each pair the
// higher-scoring issue is kept. An issue appears at most once across all
// close actions: once something is scheduled for closing it can neither
// close again nor serve as the survivor of another pair.
func BuildPlan(results *audit.Results, aiReviewed bool) *Plan {
	plan := &Plan{
		RunID:       results.Metadata.RunID,
		GeneratedAt: time.Now().UTC(),
	}
	byNumber := results.ByNumber()

	involved := make(map[int]bool)
	for _, pair := range results.Duplicates {
		if !pair.HighConfidence {
			continue
		}
		if aiReviewed && !pair.Confirmed {
			continue
		}
		if involved[pair.Canonical] || involved[pair.Duplicate] {
			continue
		}

		keep, toClose := pair.Canonical, pair.Duplicate
		r1, r2 := byNumber[pair.Canonical], byNumber[pair.Duplicate]
		if r1 != nil && r2 != nil && r2.Overall > r1.Overall {
			keep, toClose = pair.Duplicate, pair.Canonical
		}
		involved[keep] = true
		involved[toClose] = true

		plan.Closes = append(plan.Closes, CloseAction{
			Keep:       keep,
			Close:      toClose,
			Similarity: pair.CombinedSimilarity,
			Comment:    fmt.Sprintf("Duplicate of #%d (%.0f%% similar, backlog audit %s)", keep, pair.CombinedSimilarity*100, results.Metadata.RunID),
		})
	}

	for _, result := range results.Issues {
		if result.State != types.StateOpen || involved[result.Number] {
			continue
		}
		analysis, ok := results.Prioritization[result.Number]
		if !ok {
			continue
		}
		if s := Suggest(result, analysis); !s.IsEmpty() {
			plan.Suggestions = append(plan.Suggestions, s)
		}
	}

	return plan
}

// SavePlan writes the plan as YAML for review before applying.
func SavePlan(plan *Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal fix plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fix plan: %w", err)
	}
	return nil
}

// LoadPlan reads a previously saved plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fix plan: %w", err)
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse fix plan: %w", err)
	}
	return &plan, nil
}
