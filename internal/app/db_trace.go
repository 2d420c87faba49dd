package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses whitespace and truncates long statements
// so JSONB snapshot inserts do not bloat span attributes.
func formatDBQueryForTrace(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	if len(collapsed) <= maxTracedQueryLength {
		return collapsed
	}
	return collapsed[:maxTracedQueryLength] + "..."
}
