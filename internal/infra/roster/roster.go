// Package roster answers whether a registration submission belongs to a known
// eligible student. The current implementation only checks the student number
// format; a faculty-roster-backed checker slots in behind the same port once
// the data sharing agreement lands.
package roster

import (
	"regexp"
	"strings"
)

var studentNumberPattern = regexp.MustCompile(`^\d{10}$`)

// FormatChecker validates the shape of the submitted identity without
// consulting an authoritative roster.
type FormatChecker struct{}

// NewFormatChecker constructs the format-only eligibility checker.
func NewFormatChecker() *FormatChecker {
	return &FormatChecker{}
}

// Validate reports whether the student number and name pass the format check.
// Both fields are required and the student number must be exactly ten decimal
// digits.
func (c *FormatChecker) Validate(studentNumber, fullName string) bool {
	if strings.TrimSpace(fullName) == "" {
		return false
	}
	return studentNumberPattern.MatchString(studentNumber)
}
