package adf

import (
	"regexp"
	"strings"
)

// tokenKind classifies a single input line.
type tokenKind int

const (
	tokenBlank tokenKind = iota
	tokenHeading
	tokenBulletItem
	tokenNumberedItem
	tokenParagraph
)

// blockToken is one lexed line. text holds the line content with the block
// marker removed.
type blockToken struct {
	kind tokenKind
	text string
}

var (
	// Two or more leading # characters followed by a space. A single # is
	// not treated as a heading and falls through to paragraph.
	headingPattern = regexp.MustCompile(`^##+\s+(.*)$`)
	bulletPattern  = regexp.MustCompile(`^[-*]\s+(.*)$`)
	numberPattern  = regexp.MustCompile(`^\d+\.\s+(.*)$`)
)

// lex splits input into block tokens, one per line, in input order.
func lex(input string) []blockToken {
	lines := strings.Split(input, "\n")
	tokens := make([]blockToken, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			tokens = append(tokens, blockToken{kind: tokenBlank})
		case headingPattern.MatchString(trimmed):
			m := headingPattern.FindStringSubmatch(trimmed)
			tokens = append(tokens, blockToken{kind: tokenHeading, text: m[1]})
		case bulletPattern.MatchString(trimmed):
			m := bulletPattern.FindStringSubmatch(trimmed)
			tokens = append(tokens, blockToken{kind: tokenBulletItem, text: m[1]})
		case numberPattern.MatchString(trimmed):
			m := numberPattern.FindStringSubmatch(trimmed)
			tokens = append(tokens, blockToken{kind: tokenNumberedItem, text: m[1]})
		default:
			tokens = append(tokens, blockToken{kind: tokenParagraph, text: trimmed})
		}
	}

	return tokens
}
