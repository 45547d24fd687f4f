package gateway

import "strings"

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, and trims whitespace. Text without a fence is only trimmed.
func StripCodeFences(s string) string {
	clean := strings.TrimSpace(s)
	if !strings.HasPrefix(clean, "```") {
		return clean
	}

	body := strings.TrimPrefix(clean, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isFenceTag(strings.TrimSpace(body[:nl])) {
		body = body[nl+1:]
	} else if strings.HasPrefix(body, "json") {
		body = strings.TrimPrefix(body, "json")
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+') {
			return false
		}
	}
	return true
}
