package usecase

import "strings"

// ExtractKeywordBlock returns the location text following the first caption line that
// mentions one of keywords (case-insensitive substring match).
//
// Text after the first colon is used when the line has one. Following lines are absorbed
// until a blank line or a line starting with '#' or '@', so multi-line addresses survive.
func ExtractKeywordBlock(caption string, keywords []string) (string, bool) {
	lines := splitLines(caption)
	for i, line := range lines {
		if !containsKeyword(strings.ToLower(strings.TrimSpace(line)), keywords) {
			continue
		}

		block := strings.TrimSpace(line)
		if _, after, ok := strings.Cut(line, ":"); ok {
			block = strings.TrimSpace(after)
		}

		var continuation []string
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" || strings.HasPrefix(next, "#") || strings.HasPrefix(next, "@") {
				break
			}
			continuation = append(continuation, next)
		}
		if len(continuation) > 0 {
			block = strings.TrimSpace(block + " " + strings.Join(continuation, " "))
		}
		return block, block != ""
	}
	return "", false
}

func containsKeyword(line string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(line, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
