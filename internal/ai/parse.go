package ai

import (
	"strings"
)

// ParseTitleDescription extracts the TITLE:/DESCRIPTION: sections from
// a model response. Markdown code fences around the whole response are
// tolerated. Missing sections come back empty.
func ParseTitleDescription(response string) (title, description string) {
	var descLines []string
	inDescription := false

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "TITLE:"):
			title = strings.TrimSpace(strings.TrimPrefix(trimmed, "TITLE:"))
			inDescription = false
		case strings.HasPrefix(trimmed, "DESCRIPTION:"):
			inDescription = true
		case inDescription:
			if trimmed == "```" {
				continue
			}
			descLines = append(descLines, line)
		}
	}

	return title, strings.TrimSpace(strings.Join(descLines, "\n"))
}

// SanitizeBranchName turns a model suggestion into a valid git branch
// name: lowercase, hyphen-separated, no ref-illegal characters.
func SanitizeBranchName(name string) string {
	name = strings.TrimSpace(name)
	// Models sometimes wrap the answer in quotes or backticks
	name = strings.Trim(name, "`'\"")
	// Only the first line counts
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(name)

	var b strings.Builder
	lastHyphen := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '/', r == '.':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-./")
	const maxLen = 60
	if len(out) > maxLen {
		out = strings.Trim(out[:maxLen], "-./")
	}
	return out
}
