package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseJSON unmarshals a model response into T, tolerating the common
// failure modes: markdown code fences around the JSON and prose before or
// after the object.
func parseJSON[T any](text string) (T, error) {
	var out T

	cleaned := stripFences(text)

	// Trim any prose surrounding the outermost object.
	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start == -1 || end == -1 || end < start {
		return out, fmt.Errorf("no JSON object in response")
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &out); err != nil {
		return out, fmt.Errorf("unmarshal response: %w", err)
	}
	return out, nil
}

// stripFences removes a ```json ... ``` (or bare ```) wrapper if present.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// truncate shortens a string for log and error messages.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
