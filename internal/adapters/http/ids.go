package http

import "strings"

// splitIDs parses an ampersand-joined id path segment ("a&b&c") into its
// parts, dropping empty segments. Ids containing a literal '&' cannot be
// transported this way; the id format (UUIDs) rules them out.
func splitIDs(segment string) []string {
	if segment == "" {
		return nil
	}
	parts := strings.Split(segment, "&")
	ids := parts[:0]
	for _, p := range parts {
		if p != "" {
			ids = append(ids, p)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
