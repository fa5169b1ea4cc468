package types

import (
	"fmt"
	"regexp"
	"time"
)

// Issue represents a tracker issue as exported by `gh issue list --json`.
// The field set matches the JSON export shape exactly so that an export file
// and a live CLI fetch are interchangeable inputs.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	State     IssueState `json:"state"`
	Labels    []Label    `json:"labels"`
	Assignees []Assignee `json:"assignees,omitempty"`
	Milestone *Milestone `json:"milestone,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	URL       string     `json:"url"`
}

// Validate checks if the issue has valid field values
func (i *Issue) Validate() error {
	if i.Number <= 0 {
		return fmt.Errorf("number must be positive (got %d)", i.Number)
	}
	if len(i.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(i.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(i.Title))
	}
	if !i.State.IsValid() {
		return fmt.Errorf("invalid state: %s", i.State)
	}
	return nil
}

// IsOpen reports whether the issue is still open.
func (i *Issue) IsOpen() bool {
	return i.State == StateOpen
}

// LabelNames returns the flat list of label names on the issue.
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// MilestoneTitle returns the milestone title, or empty string when unset.
func (i *Issue) MilestoneTitle() string {
	if i.Milestone == nil {
		return ""
	}
	return i.Milestone.Title
}

// IssueState represents the lifecycle state of an issue or pull request.
// The GitHub CLI exports states in upper case.
type IssueState string

const (
	StateOpen   IssueState = "OPEN"
	StateClosed IssueState = "CLOSED"
	StateMerged IssueState = "MERGED" // Pull requests only
)

// IsValid checks if the state value is valid
func (s IssueState) IsValid() bool {
	switch s {
	case StateOpen, StateClosed, StateMerged:
		return true
	}
	return false
}

// Label represents a tag on an issue
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Assignee represents a user assigned to an issue
type Assignee struct {
	Login string `json:"login"`
}

// Milestone represents a tracker milestone
type Milestone struct {
	Title string     `json:"title"`
	DueOn *time.Time `json:"dueOn,omitempty"`
}

// PullRequest represents a pull request as exported by `gh pr list --json`.
type PullRequest struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	State       IssueState `json:"state"`
	Labels      []Label    `json:"labels"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	URL         string     `json:"url"`
	MergedAt    *time.Time `json:"mergedAt,omitempty"`
	BaseRefName string     `json:"baseRefName,omitempty"`
	HeadRefName string     `json:"headRefName,omitempty"`
}

// Conventional-commit title parsing. Titles like "feat(auth): add login"
// carry a type and an area (scope); both default to "unknown" when the
// title does not follow the convention.
var (
	conventionalTypeRe = regexp.MustCompile(`^(feat|fix|docs|test|refactor|chore|perf|style|ci)(\([^)]+\))?:`)
	conventionalAreaRe = regexp.MustCompile(`^[^(]+\(([^)]+)\):`)
)

// TitleType extracts the conventional-commit type from an issue title.
func TitleType(title string) string {
	if m := conventionalTypeRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return "unknown"
}

// TitleArea extracts the conventional-commit area (scope) from an issue title.
func TitleArea(title string) string {
	if m := conventionalAreaRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return "unknown"
}

// HasConventionalTitle reports whether a title follows the
// type(area): subject convention.
func HasConventionalTitle(title string) bool {
	return conventionalTypeRe.MatchString(title)
}
