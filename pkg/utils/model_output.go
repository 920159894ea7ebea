package utils

import "strings"

var chattyPrefixes = []string{
	"Here's the script:",
	"Here is the script:",
	"Here's the improved prompt:",
	"Here is the improved prompt:",
	"Improved prompt:",
	"Sure!",
}

// CleanModelOutput strips markdown fences and a leading chat preamble.
func CleanModelOutput(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```") {
		if nl := strings.IndexByte(response, '\n'); nl != -1 {
			response = response[nl+1:]
		} else {
			response = strings.TrimPrefix(response, "```")
		}
		response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	}

	for _, prefix := range chattyPrefixes {
		trimmed := strings.TrimSpace(response)
		if strings.HasPrefix(trimmed, prefix) {
			response = strings.TrimPrefix(trimmed, prefix)
			break
		}
	}
	return strings.TrimSpace(response)
}

// ExtractJSON returns the first balanced JSON object or array in response,
// or the cleaned response when none is found.
func ExtractJSON(response string) string {
	response = CleanModelOutput(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if end := findMatching(response, objStart, '{', '}'); end != -1 {
			return response[objStart : end+1]
		}
	} else if arrStart != -1 {
		if end := findMatching(response, arrStart, '[', ']'); end != -1 {
			return response[arrStart : end+1]
		}
	}
	return response
}

func findMatching(s string, start int, open, close byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
