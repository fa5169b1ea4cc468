// Package githubcli reads and edits issues through the gh CLI.
//
// gh is shelled out to rather than talking to the REST API directly: it
// handles auth, pagination, and enterprise hosts, and the audit already
// assumes a repo where gh is configured. Reads are unthrottled; mutations
// go through a rate limiter because a fix plan can touch a hundred issues
// in one run and tripping GitHub's secondary rate limits aborts the batch.
package githubcli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/auditworks/triage/internal/types"
)

// issueFields is what gh is asked to export for every issue.
const issueFields = "number,title,body,state,labels,assignees,milestone,createdAt,updatedAt,url"

// prFields is the pull request export field list.
const prFields = "number,title,state,mergedAt,baseRefName,headRefName,labels,url"

// maxListLimit caps how many items a single list call requests.
const maxListLimit = 1000

// Client wraps gh for one repository.
type Client struct {
	runner  CommandRunner
	repo    string // owner/name; empty means the repo of the working directory
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a gh client. Mutations are limited to two per second,
// which keeps long fix batches under GitHub's abuse thresholds.
func NewClient(runner CommandRunner, repo string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		runner:  runner,
		repo:    repo,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		logger:  logger,
	}
}

// ListIssues fetches every issue, open and closed, as JSON.
func (c *Client) ListIssues(ctx context.Context) ([]*types.Issue, error) {
	args := c.withRepo("issue", "list",
		"--state", "all",
		"--limit", strconv.Itoa(maxListLimit),
		"--json", issueFields)

	out, err := c.runner.Run(ctx, "gh", args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	var issues []*types.Issue
	if err := json.Unmarshal([]byte(out), &issues); err != nil {
		return nil, fmt.Errorf("parse issue list: %w", err)
	}

	c.logger.Info("fetched issues", zap.Int("count", len(issues)), zap.String("repo", c.repo))
	return issues, nil
}

// ListPullRequests fetches every pull request, open and closed.
func (c *Client) ListPullRequests(ctx context.Context) ([]*types.PullRequest, error) {
	args := c.withRepo("pr", "list",
		"--state", "all",
		"--limit", strconv.Itoa(maxListLimit),
		"--json", prFields)

	out, err := c.runner.Run(ctx, "gh", args...)
	if err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}

	var prs []*types.PullRequest
	if err := json.Unmarshal([]byte(out), &prs); err != nil {
		return nil, fmt.Errorf("parse pull request list: %w", err)
	}
	return prs, nil
}

// EditOptions describes a single issue edit. Zero-value fields are left
// untouched.
type EditOptions struct {
	Title        string
	Body         string
	AddLabels    []string
	RemoveLabels []string
	Milestone    string
}

// EditIssue applies the edit through gh issue edit.
func (c *Client) EditIssue(ctx context.Context, number int, opts EditOptions) error {
	args := c.withRepo("issue", "edit", strconv.Itoa(number))
	if opts.Title != "" {
		args = append(args, "--title", opts.Title)
	}
	if opts.Body != "" {
		args = append(args, "--body", opts.Body)
	}
	for _, l := range opts.AddLabels {
		args = append(args, "--add-label", l)
	}
	for _, l := range opts.RemoveLabels {
		args = append(args, "--remove-label", l)
	}
	if opts.Milestone != "" {
		args = append(args, "--milestone", opts.Milestone)
	}

	if err := c.mutate(ctx, args); err != nil {
		return fmt.Errorf("edit issue #%d: %w", number, err)
	}
	c.logger.Info("edited issue", zap.Int("issue", number))
	return nil
}

// CloseIssue closes an issue, optionally leaving a closing comment.
func (c *Client) CloseIssue(ctx context.Context, number int, comment string) error {
	args := c.withRepo("issue", "close", strconv.Itoa(number))
	if comment != "" {
		args = append(args, "--comment", comment)
	}

	if err := c.mutate(ctx, args); err != nil {
		return fmt.Errorf("close issue #%d: %w", number, err)
	}
	c.logger.Info("closed issue", zap.Int("issue", number))
	return nil
}

// AddComment posts a comment on an issue.
func (c *Client) AddComment(ctx context.Context, number int, body string) error {
	args := c.withRepo("issue", "comment", strconv.Itoa(number), "--body", body)

	if err := c.mutate(ctx, args); err != nil {
		return fmt.Errorf("comment on issue #%d: %w", number, err)
	}
	return nil
}

func (c *Client) mutate(ctx context.Context, args []string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.runner.Run(ctx, "gh", args...)
	return err
}

func (c *Client) withRepo(args ...string) []string {
	if c.repo == "" {
		return args
	}
	return append(args, "--repo", c.repo)
}
