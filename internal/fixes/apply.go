package fixes

import (
	"context"

	"go.uber.org/zap"

	"github.com/auditworks/triage/internal/githubcli"
)

// IssueEditor is the slice of the gh client the applier needs.
type IssueEditor interface {
	EditIssue(ctx context.Context, number int, opts githubcli.EditOptions) error
	CloseIssue(ctx context.Context, number int, comment string) error
	AddComment(ctx context.Context, number int, body string) error
}

// Report counts what an apply run did.
type Report struct {
	Closed    int `json:"closed"`
	Edited    int `json:"edited"`
	Commented int `json:"commented"`
	Errors    int `json:"errors"`
	Skipped   int `json:"skipped"` // dry-run only
}

// Applier executes fix plans against GitHub.
type Applier struct {
	editor IssueEditor
	logger *zap.Logger
}

// NewApplier creates an applier.
func NewApplier(editor IssueEditor, logger *zap.Logger) *Applier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{editor: editor, logger: logger}
}

// Apply executes the plan. With dryRun set (the default everywhere this is
// called from), every action is logged and counted as skipped but nothing
// is sent to GitHub. Individual failures are logged and counted; the batch
// continues, since a half-applied plan is recoverable by re-running.
func (a *Applier) Apply(ctx context.Context, plan *Plan, dryRun bool) *Report {
	report := &Report{}

	for _, action := range plan.Closes {
		if dryRun {
			a.logger.Info("[dry-run] would close duplicate",
				zap.Int("close", action.Close), zap.Int("keep", action.Keep))
			report.Skipped++
			continue
		}
		if err := a.editor.CloseIssue(ctx, action.Close, action.Comment); err != nil {
			a.logger.Error("close failed", zap.Int("issue", action.Close), zap.Error(err))
			report.Errors++
			continue
		}
		report.Closed++
	}

	for _, s := range plan.Suggestions {
		if s.SuggestedTitle != "" || len(s.LabelsToAdd) > 0 {
			if dryRun {
				a.logger.Info("[dry-run] would edit issue",
					zap.Int("issue", s.IssueNumber),
					zap.String("title", s.SuggestedTitle),
					zap.Strings("labels", s.LabelsToAdd))
				report.Skipped++
			} else if err := a.editor.EditIssue(ctx, s.IssueNumber, githubcli.EditOptions{
				Title:     s.SuggestedTitle,
				AddLabels: s.LabelsToAdd,
			}); err != nil {
				a.logger.Error("edit failed", zap.Int("issue", s.IssueNumber), zap.Error(err))
				report.Errors++
			} else {
				report.Edited++
			}
		}

		if s.Comment != "" {
			if dryRun {
				a.logger.Info("[dry-run] would comment", zap.Int("issue", s.IssueNumber))
				report.Skipped++
				continue
			}
			if err := a.editor.AddComment(ctx, s.IssueNumber, s.Comment); err != nil {
				a.logger.Error("comment failed", zap.Int("issue", s.IssueNumber), zap.Error(err))
				report.Errors++
				continue
			}
			report.Commented++
		}
	}

	a.logger.Info("apply finished",
		zap.Bool("dry_run", dryRun),
		zap.Int("closed", report.Closed),
		zap.Int("edited", report.Edited),
		zap.Int("commented", report.Commented),
		zap.Int("errors", report.Errors),
		zap.Int("skipped", report.Skipped))
	return report
}
