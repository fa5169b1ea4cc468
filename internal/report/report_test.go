package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/types"
)

func auditedResults(t *testing.T) *audit.Results {
	t.Helper()

	issues := []*types.Issue{
		{
			Number: 3,
			Title:  "feat(api): structured error envelopes",
			Body: "## Objective\nStable error codes because integrators depend on them.\n\n" +
				"## Acceptance Criteria\n- [x] envelope everywhere\n\nEstimate: 6h\n\n" +
				"1. Update `internal/api/errors.go`\n\n```go\ntype E struct{}\n```\n\n```go\nfunc f() {}\n```\n\n" +
				"Blocked by #7. Part of the roadmap.",
			State: types.StateOpen,
			Labels: []types.Label{
				{Name: "type/feat"}, {Name: "area/api"},
				{Name: "priority/P1"}, {Name: "risk/low"},
			},
			Milestone: &types.Milestone{Title: "M1"},
			URL:       "https://github.com/acme/app/issues/3",
		},
		{Number: 7, Title: "chore: misc cleanup", Body: "short", State: types.StateOpen},
		{Number: 9, Title: "fix: already done", Body: "done", State: types.StateClosed},
	}

	a, err := audit.New(audit.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	results, err := a.Run(context.Background(), issues)
	require.NoError(t, err)
	return results
}

func TestComplianceSections(t *testing.T) {
	out := Compliance(auditedResults(t))

	assert.Contains(t, out, "# 📊 BACKLOG COMPLIANCE REPORT")
	assert.Contains(t, out, "## 🎯 EXECUTIVE SUMMARY")
	assert.Contains(t, out, "## ✅ TOP 10 MOST COMPLIANT ISSUES")
	assert.Contains(t, out, "## ⚠️ TOP 10 LEAST COMPLIANT ISSUES")
	assert.Contains(t, out, "## 📈 SCORE BY CRITERION")
	assert.Contains(t, out, "## 🎯 SCORE BY MILESTONE")
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "1. Atomicity (2-8h)")
	assert.Contains(t, out, "(none)")
}

func TestComplianceSeverityBanner(t *testing.T) {
	results := auditedResults(t)

	results.Summary.AverageScore = 50
	assert.Contains(t, Compliance(results), "🔴 CRITICAL")

	results.Summary.AverageScore = 70
	assert.Contains(t, Compliance(results), "🟡 ATTENTION")

	results.Summary.AverageScore = 90
	assert.Contains(t, Compliance(results), "🟢 GOOD")
}

func TestRecommendationsSections(t *testing.T) {
	out := Recommendations(auditedResults(t))

	assert.Contains(t, out, "## 1️⃣ DETECTED DUPLICATES")
	assert.Contains(t, out, "## 2️⃣ ISSUES WITHOUT A MILESTONE")
	assert.Contains(t, out, "## 3️⃣ ISSUES WITHOUT AN EXPLICIT ESTIMATE")
	assert.Contains(t, out, "## 4️⃣ ISSUES WITHOUT ENOUGH TECHNICAL DETAIL")
	assert.Contains(t, out, "## 5️⃣ ISSUES WITHOUT MAPPED DEPENDENCIES")
	assert.Contains(t, out, "## 🎯 PRIORITIZED ACTION PLAN")

	// #7 has no milestone and only an inferred estimate.
	assert.Contains(t, out, "#7")
}

func TestDashboardRendersBarsAndBins(t *testing.T) {
	out := Dashboard(auditedResults(t))

	assert.Contains(t, out, "## 🎯 OVERALL SCORECARD")
	assert.Contains(t, out, "## 📈 BREAKDOWN BY CRITERION")
	assert.Contains(t, out, "## 📊 SCORE DISTRIBUTION")
	assert.Contains(t, out, "## 🎯 STATUS BY MILESTONE")
	assert.Contains(t, out, "80-100%")
	assert.Contains(t, out, "█")
}

func TestDependencyMatrix(t *testing.T) {
	out := DependencyMatrix(auditedResults(t))

	assert.Contains(t, out, "```mermaid")
	// #7 blocks #3 via the mirrored "Blocked by #7" edge.
	assert.Contains(t, out, "I7[#7] --> I3[#3]")
	assert.Contains(t, out, "## Blocking Issues (Critical Path)")
	assert.Contains(t, out, "📌 Medium")
}

func TestDependencyMatrixEmpty(t *testing.T) {
	results := auditedResults(t)
	results.Dependencies.Nodes = nil
	assert.Contains(t, DependencyMatrix(results), "No explicit dependencies")
}

func TestOrderRowsSortedByCombined(t *testing.T) {
	rows := OrderRows(auditedResults(t))

	// Closed #9 excluded.
	require.Len(t, rows, 2)
	assert.GreaterOrEqual(t, rows[0].Combined, rows[1].Combined)
	for _, row := range rows {
		assert.NotEqual(t, 9, row.Number)
		assert.True(t, row.Priority.IsValid())
		assert.NotEmpty(t, row.Reason)
	}
}

func TestOrderRowTypeAndArea(t *testing.T) {
	rows := OrderRows(auditedResults(t))
	for _, row := range rows {
		if row.Number == 3 {
			assert.Equal(t, "feat", row.Type)
			assert.Equal(t, "api", row.Area)
		}
	}
}

func TestBacklogOrderMarkdown(t *testing.T) {
	out := BacklogOrder(auditedResults(t))

	assert.Contains(t, out, "# Backlog Order - Objective Prioritization")
	assert.Contains(t, out, "## Methodology")
	assert.Contains(t, out, "## Execution Order")
	assert.Contains(t, out, "[#3](https://github.com/acme/app/issues/3)")
	assert.Contains(t, out, "Blocked by #7")
}

func TestBacklogOrderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BacklogOrderCSV(&buf, auditedResults(t)))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + two open issues
	assert.Equal(t, csvHeader, records[0])

	byID := map[string][]string{}
	for _, rec := range records[1:] {
		byID[rec[0]] = rec
	}
	require.Contains(t, byID, "3")
	assert.Equal(t, "feat", byID["3"][2])
	assert.Equal(t, "api", byID["3"][3])
	assert.Equal(t, "7", byID["3"][10]) // blocked by
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "abc", shortTitle("abc", 5))
	assert.Equal(t, "abcde...", shortTitle("abcdefgh", 5))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "██████████", bar(100, 10))
	assert.Equal(t, "█████░░░░░", bar(50, 10))
	assert.Equal(t, "░░░░░░░░░░", bar(0, 10))
}
