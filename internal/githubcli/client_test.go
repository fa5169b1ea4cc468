package githubcli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditworks/triage/internal/types"
)

type fakeRunner struct {
	calls  [][]string
	stdout string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, f.err
}

func TestListIssues(t *testing.T) {
	runner := &fakeRunner{stdout: `[
		{"number": 5, "title": "feat: thing", "state": "OPEN",
		 "labels": [{"name": "type/feat"}],
		 "milestone": {"title": "M1"},
		 "url": "https://github.com/acme/app/issues/5"}
	]`}
	c := NewClient(runner, "acme/app", nil)

	issues, err := c.ListIssues(context.Background())
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 5, issues[0].Number)
	assert.Equal(t, types.StateOpen, issues[0].State)
	assert.Equal(t, "M1", issues[0].MilestoneTitle())

	require.Len(t, runner.calls, 1)
	call := strings.Join(runner.calls[0], " ")
	assert.Contains(t, call, "gh issue list")
	assert.Contains(t, call, "--state all")
	assert.Contains(t, call, "--limit 1000")
	assert.Contains(t, call, "--repo acme/app")
	assert.Contains(t, call, "--json "+issueFields)
}

func TestListIssuesNoRepoFlagWhenUnset(t *testing.T) {
	runner := &fakeRunner{stdout: `[]`}
	c := NewClient(runner, "", nil)

	_, err := c.ListIssues(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, strings.Join(runner.calls[0], " "), "--repo")
}

func TestListIssuesRunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("gh: not logged in")}
	c := NewClient(runner, "acme/app", nil)

	_, err := c.ListIssues(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list issues")
}

func TestListIssuesBadJSON(t *testing.T) {
	runner := &fakeRunner{stdout: "not json"}
	c := NewClient(runner, "acme/app", nil)

	_, err := c.ListIssues(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse issue list")
}

func TestListPullRequests(t *testing.T) {
	runner := &fakeRunner{stdout: `[{"number": 8, "title": "fix: x", "state": "MERGED"}]`}
	c := NewClient(runner, "acme/app", nil)

	prs, err := c.ListPullRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, 8, prs[0].Number)
}

func TestEditIssueBuildsFlags(t *testing.T) {
	runner := &fakeRunner{}
	c := NewClient(runner, "acme/app", nil)

	err := c.EditIssue(context.Background(), 12, EditOptions{
		Title:     "feat(api): better title",
		AddLabels: []string{"type/feat", "priority/P2"},
		Milestone: "M2",
	})
	require.NoError(t, err)

	call := strings.Join(runner.calls[0], " ")
	assert.Contains(t, call, "issue edit 12")
	assert.Contains(t, call, "--title feat(api): better title")
	assert.Contains(t, call, "--add-label type/feat")
	assert.Contains(t, call, "--add-label priority/P2")
	assert.Contains(t, call, "--milestone M2")
	assert.NotContains(t, call, "--body")
}

func TestCloseIssueWithComment(t *testing.T) {
	runner := &fakeRunner{}
	c := NewClient(runner, "acme/app", nil)

	require.NoError(t, c.CloseIssue(context.Background(), 9, "Duplicate of #5"))
	call := strings.Join(runner.calls[0], " ")
	assert.Contains(t, call, "issue close 9")
	assert.Contains(t, call, "--comment Duplicate of #5")
}

func TestAddComment(t *testing.T) {
	runner := &fakeRunner{}
	c := NewClient(runner, "acme/app", nil)

	require.NoError(t, c.AddComment(context.Background(), 3, "triage notes"))
	assert.Contains(t, strings.Join(runner.calls[0], " "), "issue comment 3 --body triage notes")
}

func TestMutationErrorWrapsIssueNumber(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	c := NewClient(runner, "acme/app", nil)

	err := c.EditIssue(context.Background(), 44, EditOptions{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#44")
}
