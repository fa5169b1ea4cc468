// Package roadmap reconciles ROADMAP.md claims against the actual backlog.
//
// Roadmaps drift: issues get filed without a roadmap entry, milestones
// close without the progress line being updated. This package parses the
// progress claims out of the roadmap text and cross-references them with
// the issue list, reporting drift, per-milestone sync, orphan issues
// (tracked but undocumented) and phantom references (documented but not
// tracked).
package roadmap

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/auditworks/triage/internal/types"
)

var (
	// "Progresso Global" is kept alongside the English form because the
	// reconciliation runs on bilingual roadmaps.
	overallProgressRe = regexp.MustCompile(`(?i)(?:progresso global|overall progress)\D*?(\d+)/(\d+)`)
	milestoneClaimRe  = regexp.MustCompile(`(?m)(M\d+[^\n|]*?)\s+(\d+)/(\d+)\s*\(\d+%\)`)
	issueRefRe        = regexp.MustCompile(`#(\d+)`)
)

// maxPlausibleIssue filters changelog-style references (#12345) that are
// clearly not backlog issue numbers.
const maxPlausibleIssue = 10000

// MilestoneClaim is one milestone progress figure stated in the roadmap.
type MilestoneClaim struct {
	Title  string `json:"title"`
	Closed int    `json:"closed"`
	Total  int    `json:"total"`
}

// Claims is everything the roadmap asserts about the backlog.
type Claims struct {
	ClosedTotal int              `json:"closed_total"` // from the overall progress line
	IssueTotal  int              `json:"issue_total"`
	Milestones  []MilestoneClaim `json:"milestones"`
	References  []int            `json:"references"` // every #N mentioned
}

// ParseClaims extracts progress claims from roadmap markdown. Missing
// sections parse to zero values rather than errors; the reconciliation
// reports what it could not verify.
func ParseClaims(content string) Claims {
	var c Claims

	if m := overallProgressRe.FindStringSubmatch(content); m != nil {
		c.ClosedTotal, _ = strconv.Atoi(m[1])
		c.IssueTotal, _ = strconv.Atoi(m[2])
	}

	for _, m := range milestoneClaimRe.FindAllStringSubmatch(content, -1) {
		closed, _ := strconv.Atoi(m[2])
		total, _ := strconv.Atoi(m[3])
		c.Milestones = append(c.Milestones, MilestoneClaim{
			Title:  strings.TrimSpace(strings.Trim(m[1], "*#|- ")),
			Closed: closed,
			Total:  total,
		})
	}

	seen := make(map[int]bool)
	for _, m := range issueRefRe.FindAllStringSubmatch(content, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxPlausibleIssue || seen[n] {
			continue
		}
		seen[n] = true
		c.References = append(c.References, n)
	}
	sort.Ints(c.References)

	return c
}

// SyncState is the per-milestone reconciliation verdict.
type SyncState string

const (
	SyncExact SyncState = "✅"
	SyncClose SyncState = "⚠️" // closed counts within tolerance
	SyncOff   SyncState = "❌"
)

// closedTolerance is how many closed-count off a milestone can be and
// still rate a warning rather than a failure.
const closedTolerance = 2

// MilestoneCheck compares one claimed milestone against GitHub.
type MilestoneCheck struct {
	Title         string    `json:"title"`
	ClaimedClosed int       `json:"claimed_closed"`
	ClaimedTotal  int       `json:"claimed_total"`
	ActualClosed  int       `json:"actual_closed"`
	ActualTotal   int       `json:"actual_total"`
	Sync          SyncState `json:"sync"`
	Note          string    `json:"note"`
}

// DriftStatus bands the overall count drift.
type DriftStatus string

const (
	DriftCritical   DriftStatus = "🔴 CRITICAL"   // > 5%
	DriftWarning    DriftStatus = "🟡 WARNING"    // > 2%
	DriftAcceptable DriftStatus = "🟢 ACCEPTABLE"
)

// Reconciliation is the full roadmap-vs-GitHub comparison.
type Reconciliation struct {
	GitHubTotal  int              `json:"github_total"`
	GitHubOpen   int              `json:"github_open"`
	GitHubClosed int              `json:"github_closed"`
	ClaimedTotal int              `json:"claimed_total"`
	Drift        int              `json:"drift"`
	DriftPercent float64          `json:"drift_percent"`
	Status       DriftStatus      `json:"status"`
	Milestones   []MilestoneCheck `json:"milestones"`
	Orphans      []int            `json:"orphans"`  // in GitHub, not in roadmap
	Phantoms     []int            `json:"phantoms"` // in roadmap, not in GitHub
}

// Reconcile cross-references roadmap claims with the actual issue list.
func Reconcile(claims Claims, issues []*types.Issue) *Reconciliation {
	r := &Reconciliation{ClaimedTotal: claims.IssueTotal}

	tracked := make(map[int]bool, len(issues))
	for _, issue := range issues {
		r.GitHubTotal++
		tracked[issue.Number] = true
		if issue.IsOpen() {
			r.GitHubOpen++
		} else {
			r.GitHubClosed++
		}
	}

	r.Drift = r.GitHubTotal - claims.IssueTotal
	if claims.IssueTotal > 0 {
		r.DriftPercent = float64(int(float64(r.Drift)/float64(claims.IssueTotal)*1000+0.5)) / 10
	}
	abs := r.DriftPercent
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > 5:
		r.Status = DriftCritical
	case abs > 2:
		r.Status = DriftWarning
	default:
		r.Status = DriftAcceptable
	}

	for _, claim := range claims.Milestones {
		check := MilestoneCheck{
			Title:         claim.Title,
			ClaimedClosed: claim.Closed,
			ClaimedTotal:  claim.Total,
		}
		for _, issue := range issues {
			if issue.MilestoneTitle() != claim.Title {
				continue
			}
			check.ActualTotal++
			if !issue.IsOpen() {
				check.ActualClosed++
			}
		}

		closedDiff := check.ActualClosed - claim.Closed
		if closedDiff < 0 {
			closedDiff = -closedDiff
		}
		switch {
		case check.ActualTotal == claim.Total && check.ActualClosed == claim.Closed:
			check.Sync = SyncExact
			check.Note = "Perfect sync"
		case closedDiff <= closedTolerance:
			check.Sync = SyncClose
			check.Note = "Progress mismatch"
		default:
			check.Sync = SyncOff
			check.Note = "Progress mismatch"
		}
		if check.ActualTotal != claim.Total {
			check.Note = "Count mismatch: " + signed(check.ActualTotal-claim.Total)
		}
		r.Milestones = append(r.Milestones, check)
	}

	documented := make(map[int]bool, len(claims.References))
	for _, n := range claims.References {
		documented[n] = true
		if !tracked[n] {
			r.Phantoms = append(r.Phantoms, n)
		}
	}
	for _, issue := range issues {
		if !documented[issue.Number] {
			r.Orphans = append(r.Orphans, issue.Number)
		}
	}
	sort.Ints(r.Orphans)
	sort.Ints(r.Phantoms)

	return r
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
