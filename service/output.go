package service

import (
	"encoding/json"
	"strings"
)

// CleanAnalysisOutput normalizes the raw model output before persistence:
// markdown code fences are stripped, and if the remainder parses as JSON,
// any "Definition" keys are filtered out (definitions are supporting
// context, never citation keys). Output that is not valid JSON is kept
// as plain text.
func CleanAnalysisOutput(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.Replace(cleaned, "```json", "", 1)
	}
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.Replace(cleaned, "```", "", 1)
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:strings.LastIndex(cleaned, "```")]
	}
	cleaned = strings.TrimSpace(cleaned)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return cleaned
	}

	for key := range parsed {
		if strings.Contains(key, "Definition") {
			delete(parsed, key)
		}
	}

	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return cleaned
	}
	return string(out)
}
