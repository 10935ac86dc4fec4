package models

import "strings"

// encodeList stores a string list in a pipe-delimited column so single entries can be matched with LIKE.
func encodeList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(strings.ReplaceAll(value, "|", "/"))
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return ""
	}
	return "|" + strings.Join(cleaned, "|") + "|"
}

func decodeList(raw string) []string {
	raw = strings.Trim(raw, "|")
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, trimmed)
	}
	return values
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// EscapeLike escapes LIKE wildcards. Queries using it must declare ESCAPE '\'.
func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// ContainsPattern builds an escaped substring LIKE pattern.
func ContainsPattern(value string) string {
	return "%" + EscapeLike(value) + "%"
}

// ListPattern builds the escaped LIKE pattern matching one entry of an encoded list column.
// Entries are normalized the way encodeList stores them.
func ListPattern(value string) string {
	entry := strings.TrimSpace(strings.ReplaceAll(value, "|", "/"))
	return "%|" + EscapeLike(entry) + "|%"
}
