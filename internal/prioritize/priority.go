package prioritize

import (
	"strings"

	"github.com/auditworks/triage/internal/types"
)

// Priority is the P0-P3 urgency level.
type Priority string

const (
	P0 Priority = "P0" // service down, data loss, security, release blocker
	P1 Priority = "P1" // high impact on quarterly goals
	P2 Priority = "P2" // relevant improvement
	P3 Priority = "P3" // nice-to-have
)

// IsValid checks if the priority is a known level.
func (p Priority) IsValid() bool {
	switch p {
	case P0, P1, P2, P3:
		return true
	}
	return false
}

// Analysis bundles every prioritization signal for one issue.
type Analysis struct {
	IssueNumber int      `json:"issue_number"`
	Risk        Risk     `json:"risk"`
	WSJF        WSJF     `json:"wsjf"`
	RICE        RICE     `json:"rice"`
	Priority    Priority `json:"priority"`
	Combined    float64  `json:"combined"`
}

// Analyze runs all prioritization signals against an issue.
func Analyze(issue *types.Issue) Analysis {
	risk := ClassifyRisk(issue)
	wsjf := CalculateWSJF(issue, risk)
	rice := CalculateRICE(issue)

	return Analysis{
		IssueNumber: issue.Number,
		Risk:        risk,
		WSJF:        wsjf,
		RICE:        rice,
		Priority:    AssignPriority(issue, risk),
		Combined:    (wsjf.Score + rice.Score) / 2,
	}
}

// AssignPriority applies the priority rules in order. P0 requires both a
// catastrophic keyword and a high risk classification; keywords alone are
// too easy to trip ("critical path" in a docs issue).
func AssignPriority(issue *types.Issue, risk Risk) Priority {
	text := strings.ToLower(issue.Title + " " + issue.Body)

	if containsAny(text, "blocker", "critical", "security", "data loss", "service down", "vulnerability") {
		if risk.Level == RiskHigh {
			return P0
		}
	}
	if containsAny(text, "milestone", "goal", "okr") {
		return P1
	}
	if strings.Contains(strings.ToLower(issue.Title), "feat") {
		return P2
	}
	return P3
}
