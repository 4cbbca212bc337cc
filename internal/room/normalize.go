package room

import "strings"

// NormalizeID trims and uppercases a raw room identifier so "abc-123",
// "ABC-123 ", and " abc-123" all resolve to the same room.
func NormalizeID(raw string) ID {
	return ID(strings.ToUpper(strings.TrimSpace(raw)))
}

// NormalizeName lowercases and trims a display name into the stable key
// used for personalized boards and the personalization store.
func NormalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
