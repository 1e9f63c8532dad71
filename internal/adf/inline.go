package adf

import (
	"regexp"
	"strings"
)

var (
	linkPattern     = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	asteriskPattern = regexp.MustCompile(`\*+`)
)

// parseInline converts a line of markdown-ish text into inline spans. Jira
// does not accept raw markdown syntax inside text nodes, so bracketed links
// are reduced to their label, balanced **...** runs become strong-marked
// spans, and any leftover asterisk runs are stripped.
func parseInline(line string) []*Node {
	line = linkPattern.ReplaceAllString(line, "$1")

	segments := strings.Split(line, "**")

	// An even segment count means an unbalanced marker; give up on
	// emphasis and strip every asterisk instead.
	if len(segments)%2 == 0 {
		if plain := stripAsterisks(line); plain != "" {
			return []*Node{Text(plain)}
		}
		return []*Node{Text(line)}
	}

	var spans []*Node
	for i, seg := range segments {
		text := stripAsterisks(seg)
		if text == "" {
			continue
		}
		if i%2 == 1 {
			spans = append(spans, StrongText(text))
		} else {
			spans = append(spans, Text(text))
		}
	}

	if len(spans) == 0 {
		// Nothing survived sanitization; keep the line as-is so no input
		// line is silently dropped.
		return []*Node{Text(line)}
	}

	return spans
}

func stripAsterisks(s string) string {
	return asteriskPattern.ReplaceAllString(s, "")
}
