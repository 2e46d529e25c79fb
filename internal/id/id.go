package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewRecordID returns a fresh opaque record identifier.
func NewRecordID() string {
	return uuid.NewString()
}

// ParseGroupID validates a user-supplied group name and returns its
// canonical (trimmed, lowercased) form. Group IDs end up as JSON keys in
// the shared store, so whitespace and path separators are rejected.
func ParseGroupID(raw string) (string, error) {
	g := strings.ToLower(strings.TrimSpace(raw))
	if g == "" {
		return "", fmt.Errorf("group ID is empty")
	}
	for _, r := range g {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return "", fmt.Errorf("group ID %q contains invalid character %q", raw, r)
		}
	}
	return g, nil
}
