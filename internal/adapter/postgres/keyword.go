package postgres

import "strings"

// normalizeKeyword stores keywords in one canonical form so filtering and
// grouping are case-insensitive.
func normalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}
