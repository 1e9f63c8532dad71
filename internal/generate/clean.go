package generate

import (
	"log/slog"
	"strings"
)

// metaPhrases open responses where the model narrated instead of answering.
var metaPhrases = []string{
	"here's the comment",
	"here is the comment",
	"the comment is",
	"i've generated",
	"i've created",
	"i've written",
	"generated comment",
	"here's what i",
	"let me write",
}

// naturalOpenings are the starts a real developer update uses. The cleaner
// scans forward for the first line containing one of these.
var naturalOpenings = []string{
	"hey team",
	"hi team",
	"done with",
	"just finished",
	"completed",
}

// CleanComment strips leading meta-commentary from generated ticket comments.
// When the text opens with a known meta phrase, lines are skipped until one
// containing a natural opening; if none is found the original text is
// returned unchanged with a warning.
func CleanComment(text string) string {
	if text == "" {
		return text
	}

	lower := strings.ToLower(text)
	var isMeta bool
	for _, phrase := range metaPhrases {
		if strings.HasPrefix(lower, phrase) {
			isMeta = true
			break
		}
	}
	if !isMeta {
		return text
	}

	slog.Warn("Detected meta-commentary in generated comment, attempting to clean")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lineLower := strings.ToLower(strings.TrimSpace(line))
		for _, opening := range naturalOpenings {
			if strings.Contains(lineLower, opening) {
				return strings.Join(lines[i:], "\n")
			}
		}
	}

	slog.Warn("Could not identify actual comment start, using original response")
	return text
}
