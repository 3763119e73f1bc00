package llm

import "strings"

// CleanJSON strips a markdown code fence wrapped around a JSON payload.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	switch {
	case strings.HasPrefix(clean, "```json"), strings.HasPrefix(clean, "```JSON"):
		clean = clean[len("```json"):]
	case strings.HasPrefix(clean, "```"):
		clean = strings.TrimPrefix(clean, "```")
	default:
		return clean
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSpace(clean)
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}
