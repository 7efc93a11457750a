// Package sanitize strips formatting artifacts from backend output.
package sanitize

import (
	"regexp"
	"strings"
)

// fencedBlock matches the first triple-backtick block, with an optional shell tag.
var fencedBlock = regexp.MustCompile("```(?:shell|bash|sh|zsh)?[ \\t]*\\n?([\\s\\S]*?)```")

// Clean returns the bare command contained in raw backend text.
// The first fenced block wins when one is present; otherwise the whole text is used.
// Only outer whitespace is trimmed, so Clean(Clean(x)) == Clean(x).
func Clean(raw string) string {
	if match := fencedBlock.FindStringSubmatch(raw); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(raw)
}
