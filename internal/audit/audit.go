// Package audit orchestrates a full backlog audit run.
//
// A run takes a snapshot of issues (from a JSON export or straight from
// gh), scores every issue against the rubric and the quality checklist,
// detects duplicates, builds the dependency graph, and prioritizes open
// work. The output is a single Results document that the report renderers
// and the fix generator consume, persisted as audit_results.json so a run
// can be re-reported without re-fetching.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/auditworks/triage/internal/dedup"
	"github.com/auditworks/triage/internal/depgraph"
	"github.com/auditworks/triage/internal/estimate"
	"github.com/auditworks/triage/internal/prioritize"
	"github.com/auditworks/triage/internal/rubric"
	"github.com/auditworks/triage/internal/types"
)

// IssueResult is everything the audit computed for one issue.
type IssueResult struct {
	Number    int              `json:"number"`
	Title     string           `json:"title"`
	URL       string           `json:"url,omitempty"`
	State     types.IssueState `json:"state"`
	Milestone string           `json:"milestone,omitempty"`
	Labels    []string         `json:"labels,omitempty"`
	Scores    rubric.Scores    `json:"scores"`
	Overall   float64          `json:"overall"`
	Checklist rubric.Checklist `json:"checklist"`
	Compliant bool             `json:"compliant"`
}

// Summary aggregates compliance across the backlog.
type Summary struct {
	TotalIssues     int     `json:"total_issues"`
	Compliant100    int     `json:"compliant_100"`
	Compliant80Plus int     `json:"compliant_80_plus"`
	NonCompliant    int     `json:"non_compliant"`
	AverageScore    float64 `json:"avg_score"`
}

// Metadata identifies an audit run.
type Metadata struct {
	RunID       string    `json:"run_id"`
	AuditDate   time.Time `json:"audit_date"`
	TotalIssues int       `json:"total_issues"`
	IssueRange  string    `json:"issue_range"`
}

// MilestoneStat aggregates per-milestone workload.
type MilestoneStat struct {
	Title          string  `json:"title"`
	IssueCount     int     `json:"issue_count"`
	EstimatedHours float64 `json:"estimated_hours"`
	Issues         []int   `json:"issues"`
}

// Results is the complete audit document.
type Results struct {
	Metadata       Metadata                    `json:"metadata"`
	Summary        Summary                     `json:"summary"`
	Issues         []IssueResult               `json:"issues"`
	Duplicates     []dedup.Pair                `json:"duplicates"`
	Dependencies   *depgraph.Graph             `json:"dependencies"`
	Prioritization map[int]prioritize.Analysis `json:"prioritization"`
	Milestones     []MilestoneStat             `json:"milestones"`
}

// Config holds audit configuration.
type Config struct {
	Weights rubric.Weights `mapstructure:"weights" yaml:"weights"`
	Dedup   dedup.Config   `mapstructure:"dedup" yaml:"dedup"`
}

// DefaultConfig returns the standard audit configuration.
func DefaultConfig() Config {
	return Config{
		Weights: rubric.DefaultWeights(),
		Dedup:   dedup.DefaultConfig(),
	}
}

// Validate checks config invariants.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := c.Dedup.Validate(); err != nil {
		return fmt.Errorf("dedup: %w", err)
	}
	return nil
}

// Auditor runs backlog audits.
type Auditor struct {
	cfg      Config
	detector *dedup.Detector
	reviewer dedup.Reviewer // optional AI confirmation
	logger   *zap.Logger
}

// New creates an auditor. reviewer may be nil, which disables AI
// confirmation of duplicate pairs.
func New(cfg Config, reviewer dedup.Reviewer, logger *zap.Logger) (*Auditor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audit config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	detector, err := dedup.NewDetector(cfg.Dedup, logger)
	if err != nil {
		return nil, err
	}

	return &Auditor{cfg: cfg, detector: detector, reviewer: reviewer, logger: logger}, nil
}

// Run audits the given issues and returns the results document.
func (a *Auditor) Run(ctx context.Context, issues []*types.Issue) (*Results, error) {
	if len(issues) == 0 {
		return nil, fmt.Errorf("no issues to audit")
	}

	sorted := make([]*types.Issue, len(issues))
	copy(sorted, issues)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	results := &Results{
		Metadata: Metadata{
			RunID:       uuid.New().String(),
			AuditDate:   time.Now().UTC(),
			TotalIssues: len(sorted),
			IssueRange:  fmt.Sprintf("#%d-#%d", sorted[0].Number, sorted[len(sorted)-1].Number),
		},
		Prioritization: make(map[int]prioritize.Analysis),
	}

	var totalScore float64
	for _, issue := range sorted {
		scores := rubric.ScoreIssue(issue)
		overall := scores.Overall(a.cfg.Weights)
		totalScore += overall

		results.Issues = append(results.Issues, IssueResult{
			Number:    issue.Number,
			Title:     issue.Title,
			URL:       issue.URL,
			State:     issue.State,
			Milestone: issue.MilestoneTitle(),
			Labels:    issue.LabelNames(),
			Scores:    scores,
			Overall:   overall,
			Checklist: rubric.ValidateIssue(issue),
			Compliant: overall >= rubric.ComplianceThreshold,
		})

		switch {
		case overall >= 100:
			results.Summary.Compliant100++
			results.Summary.Compliant80Plus++
		case overall >= rubric.ComplianceThreshold:
			results.Summary.Compliant80Plus++
		default:
			results.Summary.NonCompliant++
		}

		if issue.IsOpen() {
			results.Prioritization[issue.Number] = prioritize.Analyze(issue)
		}
	}
	results.Summary.TotalIssues = len(sorted)
	results.Summary.AverageScore = roundTenth(totalScore / float64(len(sorted)))

	results.Duplicates = a.detector.FindDuplicates(sorted)
	if a.reviewer != nil {
		results.Duplicates = a.detector.ConfirmWithReviewer(ctx, a.reviewer, results.Duplicates, sorted)
	}

	results.Dependencies = depgraph.Build(sorted)
	results.Milestones = milestoneStats(sorted)

	a.logger.Info("audit complete",
		zap.String("run_id", results.Metadata.RunID),
		zap.Int("issues", results.Summary.TotalIssues),
		zap.Float64("avg_score", results.Summary.AverageScore),
		zap.Int("duplicates", len(results.Duplicates)))
	return results, nil
}

// milestoneStats groups open issues by milestone with summed estimates.
// Issues without a milestone land in the "(none)" bucket.
func milestoneStats(issues []*types.Issue) []MilestoneStat {
	byTitle := make(map[string]*MilestoneStat)
	for _, issue := range issues {
		if !issue.IsOpen() {
			continue
		}
		title := issue.MilestoneTitle()
		if title == "" {
			title = "(none)"
		}
		stat, ok := byTitle[title]
		if !ok {
			stat = &MilestoneStat{Title: title}
			byTitle[title] = stat
		}
		stat.IssueCount++
		stat.EstimatedHours += estimate.FromIssue(issue.Body, issue.Title).Hours
		stat.Issues = append(stat.Issues, issue.Number)
	}

	out := make([]MilestoneStat, 0, len(byTitle))
	for _, stat := range byTitle {
		stat.EstimatedHours = roundTenth(stat.EstimatedHours)
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// ByNumber indexes the per-issue results.
func (r *Results) ByNumber() map[int]*IssueResult {
	m := make(map[int]*IssueResult, len(r.Issues))
	for i := range r.Issues {
		m[r.Issues[i].Number] = &r.Issues[i]
	}
	return m
}

// Save writes the results document as indented JSON.
func (r *Results) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads a previously saved results document.
func Load(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &r, nil
}

// LoadIssues reads a gh JSON export of issues.
func LoadIssues(path string) ([]*types.Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read issue export: %w", err)
	}
	var issues []*types.Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, fmt.Errorf("parse issue export: %w", err)
	}
	return issues, nil
}

func roundTenth(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
