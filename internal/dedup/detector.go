// Package dedup finds likely duplicate issues by fuzzy text similarity.
//
// Detection is two-phase. The cheap phase compares titles pairwise with a
// Ratcliff/Obershelp ratio and keeps pairs above the title threshold. For
// those pairs it also compares bodies; pairs whose averaged title+body
// similarity clears the combined threshold are flagged high confidence.
// High-confidence pairs can optionally be sent to an AI reviewer for a
// semantic verdict before any destructive action (closing, merging) is
// suggested.
//
// Closed issues are never considered: a duplicate of a closed issue is
// usually a deliberate reopen. Within a pair the lower issue number is the
// canonical one, on the theory that the older issue carries the discussion.
package dedup

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/auditworks/triage/internal/types"
)

// Pair is a potential duplicate relationship between two open issues.
// Canonical is always the lower issue number; Duplicate the higher.
type Pair struct {
	Canonical          int     `json:"canonical"`
	Duplicate          int     `json:"duplicate"`
	CanonicalTitle     string  `json:"canonical_title"`
	DuplicateTitle     string  `json:"duplicate_title"`
	TitleSimilarity    float64 `json:"title_similarity"`
	CombinedSimilarity float64 `json:"combined_similarity"`
	HighConfidence     bool    `json:"high_confidence"`

	// Set by AI confirmation when enabled.
	Confirmed bool   `json:"confirmed,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Detector finds duplicate pairs in a backlog.
type Detector struct {
	cfg    Config
	logger *zap.Logger
}

// NewDetector creates a detector with the given config. A nil logger
// disables logging.
func NewDetector(cfg Config, logger *zap.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{cfg: cfg, logger: logger}, nil
}

// FindDuplicates compares every pair of open issues and returns the pairs
// whose title similarity clears the threshold, sorted by combined similarity
// descending. The input order does not matter.
func (d *Detector) FindDuplicates(issues []*types.Issue) []Pair {
	open := make([]*types.Issue, 0, len(issues))
	for _, issue := range issues {
		if !issue.IsOpen() {
			continue
		}
		if len(issue.Title) < d.cfg.MinTitleLength {
			d.logger.Debug("skipping short title",
				zap.Int("issue", issue.Number),
				zap.String("title", issue.Title))
			continue
		}
		open = append(open, issue)
	}
	sort.Slice(open, func(i, j int) bool { return open[i].Number < open[j].Number })

	var pairs []Pair
	for i := 0; i < len(open); i++ {
		for j := i + 1; j < len(open); j++ {
			titleSim := Similarity(open[i].Title, open[j].Title)
			if titleSim < d.cfg.TitleThreshold {
				continue
			}

			bodySim := Similarity(open[i].Body, open[j].Body)
			combined := (titleSim + bodySim) / 2

			pairs = append(pairs, Pair{
				Canonical:          open[i].Number,
				Duplicate:          open[j].Number,
				CanonicalTitle:     open[i].Title,
				DuplicateTitle:     open[j].Title,
				TitleSimilarity:    titleSim,
				CombinedSimilarity: combined,
				HighConfidence:     combined >= d.cfg.CombinedThreshold,
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].CombinedSimilarity != pairs[j].CombinedSimilarity {
			return pairs[i].CombinedSimilarity > pairs[j].CombinedSimilarity
		}
		return pairs[i].Canonical < pairs[j].Canonical
	})

	d.logger.Info("duplicate detection complete",
		zap.Int("open_issues", len(open)),
		zap.Int("pairs", len(pairs)))
	return pairs
}

// Verdict is an AI reviewer's judgment of one candidate pair.
type Verdict struct {
	IsDuplicate bool    `json:"is_duplicate"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// Reviewer confirms or rejects a candidate duplicate pair semantically.
// The AI client implements this; tests supply fakes.
type Reviewer interface {
	ReviewDuplicate(ctx context.Context, canonical, duplicate *types.Issue) (*Verdict, error)
}

// ConfirmWithReviewer sends every high-confidence pair to the reviewer and
// annotates it with the verdict. Pairs the reviewer rejects are removed.
// On reviewer error the pair is kept unconfirmed when FailOpen is set,
// dropped otherwise. Low-confidence pairs pass through untouched.
func (d *Detector) ConfirmWithReviewer(ctx context.Context, reviewer Reviewer, pairs []Pair, issues []*types.Issue) []Pair {
	byNumber := make(map[int]*types.Issue, len(issues))
	for _, issue := range issues {
		byNumber[issue.Number] = issue
	}

	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if !p.HighConfidence {
			out = append(out, p)
			continue
		}

		canonical, duplicate := byNumber[p.Canonical], byNumber[p.Duplicate]
		if canonical == nil || duplicate == nil {
			out = append(out, p)
			continue
		}

		verdict, err := reviewer.ReviewDuplicate(ctx, canonical, duplicate)
		if err != nil {
			d.logger.Warn("duplicate review failed",
				zap.Int("canonical", p.Canonical),
				zap.Int("duplicate", p.Duplicate),
				zap.Error(err))
			if d.cfg.FailOpen {
				out = append(out, p)
			}
			continue
		}

		if !verdict.IsDuplicate {
			d.logger.Info("reviewer rejected pair",
				zap.Int("canonical", p.Canonical),
				zap.Int("duplicate", p.Duplicate),
				zap.String("reasoning", verdict.Reasoning))
			continue
		}

		p.Confirmed = true
		p.Reasoning = verdict.Reasoning
		out = append(out, p)
	}
	return out
}
