package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueValidate(t *testing.T) {
	tests := []struct {
		name        string
		issue       Issue
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid open issue",
			issue: Issue{
				Number: 42,
				Title:  "fix(api): handle empty response",
				State:  StateOpen,
			},
			expectError: false,
		},
		{
			name: "missing title",
			issue: Issue{
				Number: 42,
				State:  StateOpen,
			},
			expectError: true,
			errorMsg:    "title is required",
		},
		{
			name: "non-positive number",
			issue: Issue{
				Number: 0,
				Title:  "something",
				State:  StateOpen,
			},
			expectError: true,
			errorMsg:    "number must be positive",
		},
		{
			name: "invalid state",
			issue: Issue{
				Number: 1,
				Title:  "something",
				State:  IssueState("archived"),
			},
			expectError: true,
			errorMsg:    "invalid state",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.issue.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIssueStateIsValid(t *testing.T) {
	assert.True(t, StateOpen.IsValid())
	assert.True(t, StateClosed.IsValid())
	assert.True(t, StateMerged.IsValid())
	assert.False(t, IssueState("open").IsValid(), "states are upper case in gh exports")
	assert.False(t, IssueState("").IsValid())
}

func TestIssueJSONRoundTripMatchesExportShape(t *testing.T) {
	// Shape taken from a real `gh issue list --json` export.
	raw := `{
		"number": 101,
		"title": "feat(reports): add dashboard",
		"body": "Acceptance criteria:\n- [ ] renders",
		"state": "OPEN",
		"labels": [{"name": "type/feat", "color": "00ff00"}],
		"assignees": [{"login": "octocat"}],
		"milestone": {"title": "M1: Foundation"},
		"createdAt": "2025-03-01T10:00:00Z",
		"updatedAt": "2025-03-02T10:00:00Z",
		"url": "https://github.com/acme/app/issues/101"
	}`

	var issue Issue
	require.NoError(t, json.Unmarshal([]byte(raw), &issue))

	assert.Equal(t, 101, issue.Number)
	assert.Equal(t, StateOpen, issue.State)
	assert.Equal(t, []string{"type/feat"}, issue.LabelNames())
	assert.Equal(t, "M1: Foundation", issue.MilestoneTitle())
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), issue.CreatedAt)
	assert.NoError(t, issue.Validate())
}

func TestMilestoneTitleNil(t *testing.T) {
	issue := Issue{Number: 1, Title: "t", State: StateOpen}
	assert.Equal(t, "", issue.MilestoneTitle())
}

func TestTitleType(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"feat(auth): add login", "feat"},
		{"fix: broken build", "fix"},
		{"docs(readme): typo", "docs"},
		{"Add login page", "unknown"},
		{"feature: not a conventional type", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleType(tt.title), "title %q", tt.title)
	}
}

func TestTitleArea(t *testing.T) {
	assert.Equal(t, "auth", TitleArea("feat(auth): add login"))
	assert.Equal(t, "unknown", TitleArea("fix: broken build"))
	assert.Equal(t, "unknown", TitleArea("plain title"))
}

func TestHasConventionalTitle(t *testing.T) {
	assert.True(t, HasConventionalTitle("chore(deps): bump"))
	assert.False(t, HasConventionalTitle("bump deps"))
}
