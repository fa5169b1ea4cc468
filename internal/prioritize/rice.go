package prioritize

import (
	"strconv"
	"strings"

	"github.com/auditworks/triage/internal/types"
)

// RICE is the reach/impact/confidence/effort breakdown for an issue.
type RICE struct {
	Reach      int     `json:"reach"`      // 1-10, users affected
	Impact     int     `json:"impact"`     // 1-10
	Confidence float64 `json:"confidence"` // 0.0-1.0
	Effort     int     `json:"effort"`     // hours
	Score      float64 `json:"rice"`
}

// CalculateRICE computes reach x impact x confidence / effort.
// Confidence drops when the body itself admits uncertainty.
func CalculateRICE(issue *types.Issue) RICE {
	title := strings.ToLower(issue.Title)
	body := strings.ToLower(issue.Body)
	text := title + " " + body

	reach := 5
	switch {
	case strings.Contains(body, "all users") || strings.Contains(body, "everyone"):
		reach = 10
	case containsAny(text, "core", "critical", "main"):
		reach = 8
	}

	impact := 5
	switch {
	case containsAny(text, "major", "significant", "high impact"):
		impact = 9
	case strings.Contains(title, "bug") || strings.Contains(title, "fix"):
		impact = 6
	}

	confidence := 0.8
	switch {
	case strings.Contains(body, "unclear") || strings.Contains(body, "uncertain"):
		confidence = 0.5
	case strings.Contains(body, "prototype") || strings.Contains(body, "experiment"):
		confidence = 0.6
	}

	effort := 8
	if m := sizeHoursRe.FindStringSubmatch(body); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			effort = n
		}
	}

	r := RICE{
		Reach:      reach,
		Impact:     impact,
		Confidence: confidence,
		Effort:     effort,
	}
	r.Score = float64(reach) * float64(impact) * confidence / float64(max(effort, 1))
	return r
}
