package commands

import (
	"fmt"
	"regexp"
	"strings"
)

// ticketKeyPattern matches Jira issue keys like PROJ-42.
var ticketKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)

// ParseTicketKey extracts and validates the ticket key argument. Lower-case
// input is accepted and normalized.
func ParseTicketKey(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("ticket key is required (e.g. PROJ-42)")
	}

	key := strings.ToUpper(strings.TrimSpace(args[0]))
	if !ticketKeyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid ticket key: %q", args[0])
	}
	return key, nil
}

// ParseFieldArgs parses repeated --field name=value flags into a map.
func ParseFieldArgs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid field %q, expected name=value", pair)
		}
		fields[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return fields, nil
}
