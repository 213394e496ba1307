package port

// EligibilityChecker decides whether a registration submission corresponds to
// a known eligible student. Implementations must be pure: no I/O beyond their
// own backing data, no side effects.
type EligibilityChecker interface {
	Validate(studentNumber, fullName string) bool
}
