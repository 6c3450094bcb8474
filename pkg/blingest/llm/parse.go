package llm

import "strings"

// stripFences tolerates a leading ``` fence, a leading "json" token, and
// a trailing fence around the model's JSON response (spec §4.5 step 2),
// mirroring the legacy extractor's own tolerant strip.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = text[3:]
		}
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "```"))
	}
	if strings.HasPrefix(text, "json") {
		text = strings.TrimSpace(text[len("json"):])
	}

	return text
}
