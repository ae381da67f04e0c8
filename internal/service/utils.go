package service

import (
	"strings"
	"time"
	"unicode/utf8"
)

// sanitizeUTF8 drops invalid UTF-8 bytes so PostgreSQL accepts the text.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// optionalString maps "" to nil.
func optionalString(s string) *string {
	s = sanitizeUTF8(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return &s
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
