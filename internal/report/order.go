package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/auditworks/triage/internal/audit"
	"github.com/auditworks/triage/internal/prioritize"
	"github.com/auditworks/triage/internal/types"
)

// OrderRow is one open issue in execution order.
type OrderRow struct {
	Number    int
	Title     string
	URL       string
	Type      string
	Area      string
	Priority  prioritize.Priority
	WSJF      float64
	RICE      float64
	Combined  float64
	Risk      prioritize.RiskLevel
	Effort    int
	BlockedBy []int
	Blocks    []int
	Reason    string
}

// OrderRows builds the execution ordering of open issues, sorted by the
// combined (WSJF+RICE)/2 score descending.
//
// The priority column here is recomputed from the combined score rather
// than reusing the keyword-based P0-P3 assignment: the ordering artifact
// wants priorities that agree with the row order it prints.
func OrderRows(results *audit.Results) []OrderRow {
	var rows []OrderRow
	for _, issue := range results.Issues {
		analysis, ok := results.Prioritization[issue.Number]
		if !ok {
			continue // closed issues are not ordered
		}

		row := OrderRow{
			Number:   issue.Number,
			Title:    issue.Title,
			URL:      issue.URL,
			Type:     types.TitleType(issue.Title),
			Area:     types.TitleArea(issue.Title),
			WSJF:     analysis.WSJF.Score,
			RICE:     analysis.RICE.Score,
			Combined: analysis.Combined,
			Risk:     analysis.Risk.Level,
			Effort:   analysis.WSJF.Size,
		}
		if node, ok := results.Dependencies.Nodes[issue.Number]; ok {
			row.BlockedBy = node.BlockedBy
			row.Blocks = node.Blocks
		}
		row.Priority = orderPriority(row, issue.Title)
		row.Reason = orderReason(row)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Combined != rows[j].Combined {
			return rows[i].Combined > rows[j].Combined
		}
		return rows[i].Number < rows[j].Number
	})
	return rows
}

func orderPriority(row OrderRow, title string) prioritize.Priority {
	lower := strings.ToLower(title)
	if row.Risk == prioritize.RiskHigh &&
		(strings.Contains(lower, "security") || strings.Contains(lower, "critical") || strings.Contains(lower, "blocker")) {
		return prioritize.P0
	}
	switch {
	case row.Combined > 5:
		return prioritize.P1
	case row.Combined > 2:
		return prioritize.P2
	}
	return prioritize.P3
}

func orderReason(row OrderRow) string {
	var reasons []string
	if row.WSJF > 3 {
		reasons = append(reasons, "High WSJF")
	}
	if row.Risk == prioritize.RiskHigh {
		reasons = append(reasons, "High risk")
	}
	if row.Priority == prioritize.P0 {
		reasons = append(reasons, "Critical blocker")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Normal priority")
	}
	return strings.Join(reasons, ", ")
}

// BacklogOrder renders the execution-order report with the methodology
// header the prioritization numbers come from.
func BacklogOrder(results *audit.Results) string {
	var b strings.Builder
	b.WriteString("# Backlog Order - Objective Prioritization\n\n")
	fmt.Fprintf(&b, "**Audit date:** %s\n\n", results.Metadata.AuditDate.Format("2006-01-02 15:04:05"))
	b.WriteString("## Methodology\n\n")
	b.WriteString("- **WSJF:** (User Value + Business Value + Risk Reduction + Time Criticality) / Size\n")
	b.WriteString("- **RICE:** (Reach × Impact × Confidence) / Effort\n")
	b.WriteString("- **Priority:** P0 (critical) → P3 (nice-to-have)\n")
	b.WriteString("- **Risk:** Severity × Probability\n\n")
	b.WriteString("## Execution Order\n\n")

	fprintRow(&b, "#", "Issue", "Type", "Area", "Priority", "WSJF", "RICE", "Risk", "Effort", "Dependencies", "Reason")
	fprintRow(&b, "---", "-----", "----", "----", "--------", "----", "----", "----", "------", "------------", "------")
	for idx, row := range OrderRows(results) {
		issueCell := "#" + itoa(row.Number)
		if row.URL != "" {
			issueCell = fmt.Sprintf("[#%d](%s)", row.Number, row.URL)
		}
		fprintRow(&b,
			itoa(idx+1),
			issueCell,
			row.Type,
			row.Area,
			string(row.Priority),
			fmt.Sprintf("%.2f", row.WSJF),
			fmt.Sprintf("%.2f", row.RICE),
			string(row.Risk),
			fmt.Sprintf("%dh", row.Effort),
			depsCell(row),
			row.Reason)
	}
	b.WriteString("\n")
	return b.String()
}

func depsCell(row OrderRow) string {
	var parts []string
	if len(row.BlockedBy) > 0 {
		parts = append(parts, "Blocked by "+refList(row.BlockedBy))
	}
	if len(row.Blocks) > 0 {
		parts = append(parts, "Blocks "+refList(row.Blocks))
	}
	return strings.Join(parts, "; ")
}

func refList(numbers []int) string {
	refs := make([]string, len(numbers))
	for i, n := range numbers {
		refs[i] = "#" + strconv.Itoa(n)
	}
	return strings.Join(refs, ",")
}

// csvHeader is the backlog_order.csv column layout.
var csvHeader = []string{
	"ID", "Title", "Type", "Area", "Priority",
	"WSJF", "RICE", "Combined", "Risk", "Effort_Hours",
	"Blocked_By", "Blocks", "State", "URL",
}

// BacklogOrderCSV writes the execution order as CSV.
func BacklogOrderCSV(w io.Writer, results *audit.Results) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range OrderRows(results) {
		record := []string{
			strconv.Itoa(row.Number),
			row.Title,
			row.Type,
			row.Area,
			string(row.Priority),
			fmt.Sprintf("%.2f", row.WSJF),
			fmt.Sprintf("%.2f", row.RICE),
			fmt.Sprintf("%.2f", row.Combined),
			string(row.Risk),
			strconv.Itoa(row.Effort),
			intList(row.BlockedBy),
			intList(row.Blocks),
			string(types.StateOpen),
			row.URL,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row #%d: %w", row.Number, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func intList(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
