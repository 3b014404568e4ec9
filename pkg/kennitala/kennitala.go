// Package kennitala holds helpers for working with national identifiers.
package kennitala

import "strings"

// Clean strips separators and surrounding whitespace from a national id.
func Clean(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

// IsValid reports whether the id has the expected ten-digit shape.
func IsValid(id string) bool {
	cleaned := Clean(id)
	if len(cleaned) != 10 {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsCompany reports whether the id denotes a registered organization rather
// than a person. Organization ids encode the registration day offset by 40,
// so the leading day field falls in 41..71.
func IsCompany(id string) bool {
	cleaned := Clean(id)
	if !IsValid(cleaned) {
		return false
	}
	day := int(cleaned[0]-'0')*10 + int(cleaned[1]-'0')
	return day > 40 && day <= 71
}
