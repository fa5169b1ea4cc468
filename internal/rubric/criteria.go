package rubric

import (
	"regexp"
	"strings"

	"github.com/auditworks/triage/internal/estimate"
	"github.com/auditworks/triage/internal/types"
)

// Issue bodies are matched against these patterns to detect the structural
// elements each criterion looks for. The Portuguese alternatives exist
// because the rubric is used on bilingual backlogs.
var (
	dependencyLangRe    = regexp.MustCompile(`(?i)(depend|block|requir)`)
	justificationRe     = regexp.MustCompile(`(?i)(because|reason|rationale|critical)`)
	objectivesRe        = regexp.MustCompile(`(?i)(objective|goal|purpose|objetivo)`)
	acceptanceRe        = regexp.MustCompile(`(?i)(acceptance criteria|critérios de aceitação|definition of done|\[x\])`)
	techDetailRe        = regexp.MustCompile("(?i)(```|technical|implementation|arquivos|files|módulos)")
	stepByStepRe        = regexp.MustCompile(`(?i)(\d+\.|step \d+|passo \d+)`)
	externalReferenceRe = regexp.MustCompile(`(?i)(https?://|ver issue|see #\d+)`)
	issueRefRe          = regexp.MustCompile(`#\d+`)
)

// AtomicityResult scores whether an issue is sized for a single sitting (2-8h).
type AtomicityResult struct {
	Score            int             `json:"score"`
	EstimatedHours   float64         `json:"estimated_hours"`
	EstimationMethod estimate.Method `json:"estimation_method"`
	IsAtomic         bool            `json:"is_atomic"`
	Recommendation   string          `json:"recommendation"`
}

// ScoreAtomicity checks that the issue fits the 2-8 hour window.
// Explicit estimates score higher than inferred ones at the same size:
// a stated 6h is a commitment, an inferred 6h is a guess.
func ScoreAtomicity(issue *types.Issue) AtomicityResult {
	est := estimate.FromIssue(issue.Body, issue.Title)
	atomic := est.Hours >= 2 && est.Hours <= 8

	var score int
	switch {
	case atomic && est.IsExplicit():
		score = 100
	case atomic:
		score = 80
	case est.Hours > 12:
		score = 40
	case est.Hours > 8:
		score = 60
	case est.IsExplicit():
		score = 80 // under 2h but stated
	default:
		score = 70 // under 2h, guessed
	}

	rec := "OK"
	if !atomic {
		if est.Hours > 8 {
			rec = "Decompose into smaller issues"
		} else {
			rec = "Add scope"
		}
	}

	return AtomicityResult{
		Score:            score,
		EstimatedHours:   est.Hours,
		EstimationMethod: est.Method,
		IsAtomic:         atomic,
		Recommendation:   rec,
	}
}

// PrioritizationResult scores the presence of priority signals.
type PrioritizationResult struct {
	Score            int    `json:"score"`
	HasPriorityLabel bool   `json:"has_priority_label"`
	HasDependencies  bool   `json:"has_dependencies"`
	HasJustification bool   `json:"has_justification"`
	Recommendation   string `json:"recommendation"`
}

// ScorePrioritization checks for a priority label, dependency language, and
// a stated justification. A milestone alone gives implicit ordering worth 40.
func ScorePrioritization(issue *types.Issue) PrioritizationResult {
	hasPriority := false
	for _, label := range issue.LabelNames() {
		if strings.HasPrefix(label, "priority/") || strings.HasPrefix(label, "priority:") {
			hasPriority = true
			break
		}
	}
	hasDeps := dependencyLangRe.MatchString(issue.Body)
	hasJustification := justificationRe.MatchString(issue.Body)

	var score int
	switch {
	case hasPriority && hasDeps && hasJustification:
		score = 100
	case hasPriority && hasDeps:
		score = 80
	case hasPriority:
		score = 60
	case issue.Milestone != nil:
		score = 40
	}

	rec := "OK"
	if score < 80 {
		rec = "Add dependencies and justification"
	}

	return PrioritizationResult{
		Score:            score,
		HasPriorityLabel: hasPriority,
		HasDependencies:  hasDeps,
		HasJustification: hasJustification,
		Recommendation:   rec,
	}
}

// CompletenessResult scores the presence of context, objectives, acceptance
// criteria, and technical detail.
type CompletenessResult struct {
	Score                 int    `json:"score"`
	HasContext            bool   `json:"has_context"`
	HasObjectives         bool   `json:"has_objectives"`
	HasAcceptanceCriteria bool   `json:"has_acceptance_criteria"`
	HasTechnicalDetails   bool   `json:"has_technical_details"`
	BodyLength            int    `json:"body_length"`
	Recommendation        string `json:"recommendation"`
}

// ScoreCompleteness checks whether the issue tells the full story: enough
// context, stated objectives, acceptance criteria, and technical specifics.
func ScoreCompleteness(issue *types.Issue) CompletenessResult {
	body := issue.Body
	hasContext := len(body) > 200
	hasObjectives := objectivesRe.MatchString(body)
	hasAC := acceptanceRe.MatchString(body)
	hasTech := techDetailRe.MatchString(body)

	var score int
	switch {
	case hasContext && hasObjectives && hasAC && hasTech:
		score = 100
	case hasObjectives && hasAC && hasTech:
		score = 80
	case hasAC && hasTech:
		score = 60
	case hasAC:
		score = 40
	case len(body) > 50:
		score = 20
	}

	rec := "OK"
	if score < 80 {
		rec = "Add technical specs and context"
	}

	return CompletenessResult{
		Score:                 score,
		HasContext:            hasContext,
		HasObjectives:         hasObjectives,
		HasAcceptanceCriteria: hasAC,
		HasTechnicalDetails:   hasTech,
		BodyLength:            len(body),
		Recommendation:        rec,
	}
}

// ExecutabilityResult scores whether a cold-start contributor could pick
// the issue up without further questions.
type ExecutabilityResult struct {
	Score           int    `json:"score"`
	HasFilePaths    bool   `json:"has_file_paths"`
	HasCodeExamples bool   `json:"has_code_examples"`
	HasStepByStep   bool   `json:"has_step_by_step"`
	HasReferences   bool   `json:"has_references"`
	ColdStartReady  bool   `json:"cold_start_ready"`
	Recommendation  string `json:"recommendation"`
}

// ScoreExecutability checks for file paths, code examples, and an
// implementation sequence.
func ScoreExecutability(issue *types.Issue) ExecutabilityResult {
	body := issue.Body
	hasFiles := estimate.MentionsFiles(body)
	hasCode := strings.Count(body, "```") >= 2
	hasSteps := stepByStepRe.MatchString(body)
	hasRefs := externalReferenceRe.MatchString(body)

	var score int
	switch {
	case hasFiles && hasCode && hasSteps:
		score = 100
	case hasFiles && (hasCode || hasSteps):
		score = 80
	case hasFiles || hasSteps:
		score = 60
	case hasRefs:
		score = 40
	}

	rec := "OK"
	if score < 80 {
		rec = "Add file paths and code examples"
	}

	return ExecutabilityResult{
		Score:           score,
		HasFilePaths:    hasFiles,
		HasCodeExamples: hasCode,
		HasStepByStep:   hasSteps,
		HasReferences:   hasRefs,
		ColdStartReady:  score >= 80,
		Recommendation:  rec,
	}
}

// TraceabilityResult scores milestone, dependency, and label coverage.
type TraceabilityResult struct {
	Score                 int      `json:"score"`
	HasMilestone          bool     `json:"has_milestone"`
	MilestoneTitle        string   `json:"milestone_title,omitempty"`
	HasDependenciesMapped bool     `json:"has_dependencies_mapped"`
	DependenciesFound     []string `json:"dependencies_found,omitempty"`
	HasSufficientLabels   bool     `json:"has_sufficient_labels"`
	LabelCount            int      `json:"label_count"`
	HasRoadmapReference   bool     `json:"has_roadmap_reference"`
	Recommendation        string   `json:"recommendation"`
}

// ScoreTraceability checks milestone assignment, issue cross-references,
// label coverage (at least 3), and roadmap linkage.
func ScoreTraceability(issue *types.Issue) TraceabilityResult {
	body := issue.Body
	lower := strings.ToLower(body)

	hasMilestone := issue.Milestone != nil
	refs := issueRefRe.FindAllString(body, -1)
	hasDeps := len(refs) > 0
	hasLabels := len(issue.Labels) >= 3
	hasRoadmap := strings.Contains(lower, "roadmap") || strings.Contains(lower, "milestone")

	var score int
	switch {
	case hasMilestone && hasDeps && hasLabels && hasRoadmap:
		score = 100
	case hasMilestone && hasDeps && hasLabels:
		score = 80
	case hasMilestone && hasLabels:
		score = 60
	case hasMilestone:
		score = 40
	case hasLabels:
		score = 20
	}

	rec := "OK"
	if score < 60 {
		rec = "Add milestone and map dependencies"
	}

	return TraceabilityResult{
		Score:                 score,
		HasMilestone:          hasMilestone,
		MilestoneTitle:        issue.MilestoneTitle(),
		HasDependenciesMapped: hasDeps,
		DependenciesFound:     refs,
		HasSufficientLabels:   hasLabels,
		LabelCount:            len(issue.Labels),
		HasRoadmapReference:   hasRoadmap,
		Recommendation:        rec,
	}
}
