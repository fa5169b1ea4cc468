package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/auditworks/triage/internal/dedup"
	"github.com/auditworks/triage/internal/types"
)

const maxBodyChars = 2000

// ReviewDuplicate asks the model whether two issues describe the same work
// item. It implements dedup.Reviewer.
//
// The model sees both titles and (truncated) bodies and must answer with a
// JSON verdict. Confidence outside [0, 1] is treated as a malformed
// response so a hallucinated "confidence: 95" cannot slip through as
// near-certainty.
func (c *Client) ReviewDuplicate(ctx context.Context, canonical, duplicate *types.Issue) (*dedup.Verdict, error) {
	if canonical == nil || duplicate == nil {
		return nil, fmt.Errorf("both issues are required")
	}

	prompt := buildDuplicatePrompt(canonical, duplicate)

	text, err := c.callText(ctx, "duplicate_review", prompt, 1000)
	if err != nil {
		return nil, fmt.Errorf("duplicate review: %w", err)
	}

	verdict, err := parseJSON[dedup.Verdict](text)
	if err != nil {
		return nil, fmt.Errorf("parse duplicate review (response: %s): %w", truncate(text, 200), err)
	}

	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return nil, fmt.Errorf("invalid confidence score: %.2f (must be 0.0-1.0)", verdict.Confidence)
	}

	return &verdict, nil
}

func buildDuplicatePrompt(canonical, duplicate *types.Issue) string {
	var b strings.Builder
	b.WriteString("You are reviewing a backlog for duplicate issues. ")
	b.WriteString("Determine whether the two issues below describe the same work item.\n\n")

	writeIssue(&b, "Issue A (older)", canonical)
	writeIssue(&b, "Issue B (newer)", duplicate)

	b.WriteString("Two issues are duplicates only if completing one would make the other redundant. ")
	b.WriteString("Similar wording about different subsystems is NOT a duplicate.\n\n")
	b.WriteString("Respond with JSON only:\n")
	b.WriteString(`{"is_duplicate": true|false, "confidence": 0.0-1.0, "reasoning": "one sentence"}`)
	b.WriteString("\n")
	return b.String()
}

func writeIssue(b *strings.Builder, heading string, issue *types.Issue) {
	fmt.Fprintf(b, "## %s: #%d\n", heading, issue.Number)
	fmt.Fprintf(b, "Title: %s\n", issue.Title)
	if labels := issue.LabelNames(); len(labels) > 0 {
		fmt.Fprintf(b, "Labels: %s\n", strings.Join(labels, ", "))
	}
	body := issue.Body
	if len(body) > maxBodyChars {
		body = body[:maxBodyChars] + "\n[truncated]"
	}
	fmt.Fprintf(b, "Body:\n%s\n\n", body)
}
