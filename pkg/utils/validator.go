package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	dniRegex     = regexp.MustCompile(`^\d{7,8}$`)
	controlRegex = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// NormalizeDNI strips the dots and spaces people type in a DNI ("30.111.222")
func NormalizeDNI(dni string) string {
	r := strings.NewReplacer(".", "", " ", "", "-", "")
	return r.Replace(strings.TrimSpace(dni))
}

// ValidateDNI validates an Argentine national identity number (7 or 8 digits)
func ValidateDNI(dni string) error {
	if !dniRegex.MatchString(NormalizeDNI(dni)) {
		return fmt.Errorf("DNI must have 7 or 8 digits: %s", dni)
	}
	return nil
}

// SanitizeString removes control characters and surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(controlRegex.ReplaceAllString(s, ""))
}
