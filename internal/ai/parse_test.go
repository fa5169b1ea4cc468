package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditworks/triage/internal/dedup"
	"github.com/auditworks/triage/internal/types"
)

func TestParseJSONPlain(t *testing.T) {
	v, err := parseJSON[dedup.Verdict](`{"is_duplicate": true, "confidence": 0.9, "reasoning": "same"}`)
	require.NoError(t, err)
	assert.True(t, v.IsDuplicate)
	assert.Equal(t, 0.9, v.Confidence)
}

func TestParseJSONFenced(t *testing.T) {
	text := "```json\n{\"is_duplicate\": false, \"confidence\": 0.4, \"reasoning\": \"different areas\"}\n```"
	v, err := parseJSON[dedup.Verdict](text)
	require.NoError(t, err)
	assert.False(t, v.IsDuplicate)
	assert.Equal(t, "different areas", v.Reasoning)
}

func TestParseJSONWithProse(t *testing.T) {
	text := "Here is my analysis:\n{\"is_duplicate\": true, \"confidence\": 1, \"reasoning\": \"identical\"}\nLet me know if you need more."
	v, err := parseJSON[dedup.Verdict](text)
	require.NoError(t, err)
	assert.True(t, v.IsDuplicate)
}

func TestParseJSONNoObject(t *testing.T) {
	_, err := parseJSON[dedup.Verdict]("I cannot determine this.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON object")
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := parseJSON[dedup.Verdict](`{"is_duplicate": "maybe"}`)
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefghij", 5))
}

func TestBuildDuplicatePromptIncludesBothIssues(t *testing.T) {
	a := &types.Issue{Number: 3, Title: "feat: add caching", Body: "cache reads", State: types.StateOpen}
	b := &types.Issue{Number: 9, Title: "feat: cache layer", Body: "add a cache", State: types.StateOpen}

	prompt := buildDuplicatePrompt(a, b)
	assert.Contains(t, prompt, "#3")
	assert.Contains(t, prompt, "#9")
	assert.Contains(t, prompt, "feat: add caching")
	assert.Contains(t, prompt, `"is_duplicate"`)
}

func TestBuildDuplicatePromptTruncatesLongBody(t *testing.T) {
	long := make([]byte, maxBodyChars+500)
	for i := range long {
		long[i] = 'x'
	}
	a := &types.Issue{Number: 1, Title: "t one long enough", Body: string(long), State: types.StateOpen}
	b := &types.Issue{Number: 2, Title: "t two long enough", Body: "short", State: types.StateOpen}

	prompt := buildDuplicatePrompt(a, b)
	assert.Contains(t, prompt, "[truncated]")
}
