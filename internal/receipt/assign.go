package receipt

import (
	"strings"

	"github.com/splitrail/tripledger/internal/models"
)

// Suggest infers which participant a parsed label belongs to. It returns the
// ID of the first roster participant (in roster order) whose lowercased name
// (bare, or prefixed with "@" or "#") appears as a substring of the
// lowercased label, or "" when nobody matches.
//
// The match is substring, not whole-word; short or common names can
// over-match. Suggestions are reviewable before import.
func Suggest(label string, participants []models.Participant) string {
	lower := strings.ToLower(label)
	for _, p := range participants {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) ||
			strings.Contains(lower, "@"+name) ||
			strings.Contains(lower, "#"+name) {
			return p.ID
		}
	}
	return ""
}
