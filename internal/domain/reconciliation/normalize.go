// Package reconciliation cross-references locally tracked expedientes against
// the authoritative location spreadsheet. Everything here is pure: no I/O, no
// clock, no logging.
package reconciliation

import (
	"regexp"
	"strings"
	"unicode"
)

// leadingZerosAfterDash matches a dash followed by a run of zeros and at least one digit
var leadingZerosAfterDash = regexp.MustCompile(`-0+(\d+)`)

// NormalizeCaseNumber produces the comparison key for a case number.
//
// The first two characters are a fixed-width prefix (year or type code) and are
// dropped when the value is longer than two characters. Then the first run of
// zeros after a dash is collapsed ("-0123" -> "-123"). Both the spreadsheet and
// the local records must go through this function before comparing.
//
// The function is not idempotent: applying it twice strips the prefix twice.
func NormalizeCaseNumber(raw string) string {
	s := strings.TrimSpace(raw)
	if runes := []rune(s); len(runes) > 2 {
		s = string(runes[2:])
	}

	loc := leadingZerosAfterDash.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + "-" + s[loc[2]:loc[3]] + s[loc[1]:]
}

// TitleCase trims s and capitalizes the first letter of every
// whitespace-delimited word, lowering the rest. Inner whitespace is kept as is.
func TitleCase(s string) string {
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			upperNext = true
			b.WriteRune(r)
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// DepartmentKey is the comparison form of a department name
func DepartmentKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameDepartment reports whether two department names match (trimmed, case-insensitive)
func SameDepartment(a, b string) bool {
	return DepartmentKey(a) == DepartmentKey(b)
}

// cellValue returns the trimmed cell at idx, or "" when the row is short
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
