// Package estimate infers effort estimates for issues.
//
// Estimates come from two sources, in order of preference:
//
//  1. Explicit: the issue body states an hour count ("Estimate: 6h",
//     "effort: 4 hours", "2-4h" ranges use the midpoint).
//  2. Inferred: a keyword heuristic over the title and body, adjusted for
//     task complexity, checkbox count, and the number of files mentioned.
//
// Inferred estimates are deliberately rough. They exist so that every issue
// gets an atomicity score and milestones get a total-hours column, not to
// replace human estimation; the audit reports flag inferred estimates and
// recommend making them explicit.
package estimate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Method describes how an estimate was obtained.
type Method string

const (
	// MethodExplicit means a single hour figure was found in the body.
	MethodExplicit Method = "explicit"
	// MethodExplicitRange means an hour range was found; the estimate is the midpoint.
	MethodExplicitRange Method = "explicit_range"
	// MethodInferred means the estimate came from the keyword heuristic.
	MethodInferred Method = "inferred"
)

// Estimate is an effort estimate in hours with its provenance.
type Estimate struct {
	Hours  float64 `json:"hours"`
	Method Method  `json:"method"`
}

// IsExplicit reports whether the estimate was stated in the issue rather
// than inferred.
func (e Estimate) IsExplicit() bool {
	return e.Method == MethodExplicit || e.Method == MethodExplicitRange
}

func (e Estimate) String() string {
	return fmt.Sprintf("%.1fh (%s)", e.Hours, e.Method)
}

const (
	// defaultBaseHours is the starting point for inferred estimates.
	defaultBaseHours = 5.0
	// maxInferredHours caps inferred estimates; anything larger is noise.
	maxInferredHours = 12.0
	// maxTaskHours caps the contribution of checkbox tasks.
	maxTaskHours = 4.0
)

// timeKeywords maps effort-signalling words to base hour estimates.
// When several match, the largest wins.
var timeKeywords = map[string]float64{
	"quick":         2,
	"simple":        2,
	"basic":         3,
	"configure":     3,
	"setup":         4,
	"add":           5,
	"implement":     6,
	"create":        6,
	"build":         8,
	"refactor":      8,
	"integrate":     8,
	"comprehensive": 10,
	"complex":       12,
}

// complexityMultipliers adjust the base estimate by task category.
// Only the first match (in this fixed order) applies.
var complexityMultipliers = []struct {
	indicator  string
	multiplier float64
}{
	{"test", 1.0},
	{"fix", 0.8},
	{"config", 0.7},
	{"docs", 0.5},
	{"refactor", 1.5},
	{"feature", 1.2},
	{"integration", 1.3},
}

var (
	// Ranges must be tried before single figures so "2-4h" does not
	// resolve to 4h.
	rangeHoursRe    = regexp.MustCompile(`(?i)(\d+)\s*-\s*(\d+)\s*(?:h\b|hours?|horas?)`)
	contextHoursRe  = regexp.MustCompile(`(?i)(?:estimat|time|duration|effort)[^\d]*?(\d+)\s*(?:h\b|hours?|horas?)`)
	bareHoursRe     = regexp.MustCompile(`(?i)(\d+)\s*(?:h\b|hours?|horas?)`)
	checkboxRe      = regexp.MustCompile(`[-*]\s*\[[ x]\]`)
	mentionedFileRe = regexp.MustCompile("`[\\w/.-]+\\.(?:go|ts|js|tsx|jsx|py|json|sql|ya?ml)`")
)

// FromIssue estimates effort in hours for an issue given its body and title.
func FromIssue(body, title string) Estimate {
	if est, ok := explicit(body); ok {
		return est
	}
	return inferred(body, title)
}

// explicit looks for a stated hour figure in the body.
func explicit(body string) (Estimate, bool) {
	if m := rangeHoursRe.FindStringSubmatch(body); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return Estimate{Hours: float64(lo+hi) / 2, Method: MethodExplicitRange}, true
	}
	if m := contextHoursRe.FindStringSubmatch(body); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return Estimate{Hours: float64(hours), Method: MethodExplicit}, true
	}
	if m := bareHoursRe.FindStringSubmatch(body); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return Estimate{Hours: float64(hours), Method: MethodExplicit}, true
	}
	return Estimate{}, false
}

// inferred derives an estimate from keyword heuristics.
func inferred(body, title string) Estimate {
	combined := strings.ToLower(title + " " + body)

	base := defaultBaseHours
	for keyword, hours := range timeKeywords {
		if strings.Contains(combined, keyword) && hours > base {
			base = hours
		}
	}

	for _, c := range complexityMultipliers {
		if strings.Contains(combined, c.indicator) {
			base *= c.multiplier
			break
		}
	}

	// Each checkbox task adds half an hour, capped.
	if tasks := len(checkboxRe.FindAllString(body, -1)); tasks > 0 {
		taskHours := float64(tasks) * 0.5
		if taskHours > maxTaskHours {
			taskHours = maxTaskHours
		}
		base += taskHours
	}

	// Many mentioned files suggest a wide change surface.
	if files := len(mentionedFileRe.FindAllString(body, -1)); files > 3 {
		base++
	}

	if base > maxInferredHours {
		base = maxInferredHours
	}

	// Round to one decimal place to keep reports tidy.
	return Estimate{Hours: roundTenth(base), Method: MethodInferred}
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// MentionsFiles reports whether the body references concrete source files
// in backticks. Used by the executability rubric.
func MentionsFiles(body string) bool {
	return mentionedFileRe.MatchString(body)
}
