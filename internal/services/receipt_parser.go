package services

import (
	"encoding/json"
	"regexp"
	"strings"
)

// jsonObjectPattern greedily spans from the first { to the last }. The
// model is instructed to emit a single JSON object, so surrounding prose
// is tolerated but nested extraction precision is not attempted.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSONObject locates and parses the JSON object inside a raw model
// reply. Two-stage strategy: regex span first, then the whole reply as
// JSON. Returns (nil, false) when neither parses; it never panics and the
// caller keeps the raw text for audit.
func ExtractJSONObject(raw string) (map[string]interface{}, bool) {
	if span := jsonObjectPattern.FindString(raw); span != "" {
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(span), &parsed); err == nil {
			return parsed, true
		}
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err == nil {
		return parsed, true
	}

	return nil, false
}
