package ai

import "strings"

// splitDraft separates a completion into title and body. The first
// non-empty line is the title; everything after it is the body.
func splitDraft(content string) (string, string) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	title := ""
	bodyStart := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		title = strings.Trim(trimmed, "\"# ")
		bodyStart = i + 1
		break
	}
	if title == "" {
		return "", ""
	}
	body := strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	return title, body
}
