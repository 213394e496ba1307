package security

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrPasswordTooShort is returned when the candidate password is below the
// configured minimum length.
var ErrPasswordTooShort = errors.New("password too short")

const defaultMinPasswordLength = 8

// PasswordPolicy enforces credential strength at registration and reset.
// The policy intentionally checks length only; composition rules are a
// product decision that has not been made.
type PasswordPolicy struct {
	minLength int
}

// NewPasswordPolicy builds a policy with the default minimum length.
func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{minLength: defaultMinPasswordLength}
}

// WithMinLength overrides the minimum length when positive.
func (p *PasswordPolicy) WithMinLength(n int) *PasswordPolicy {
	if n > 0 {
		p.minLength = n
	}
	return p
}

// Validate reports whether the candidate satisfies the policy.
func (p *PasswordPolicy) Validate(password string) error {
	if utf8.RuneCountInString(password) < p.minLength {
		return fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, p.minLength)
	}
	return nil
}
