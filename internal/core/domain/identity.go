package domain

import "time"

// UserStatus enumerates possible account states.
type UserStatus string

const (
	// UserStatusPending marks an account created at registration that has not
	// confirmed the one-time verification code yet.
	UserStatusPending UserStatus = "pending"
	// UserStatusActive marks a verified account. The transition is one-way.
	UserStatusActive UserStatus = "active"
)

// User mirrors the persisted representation in the users table. The student
// identity collected at registration lives in Profile, never here.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	PasswordAlgo string
	Status       UserStatus
	RegisteredAt time.Time
	VerifiedAt   *time.Time
}

// InstructionLanguage enumerates the languages of instruction offered at
// registration.
type InstructionLanguage string

const (
	LanguageEnglish InstructionLanguage = "English"
	LanguageTurkish InstructionLanguage = "Türkçe"
)

// UniversityIstanbulMed is the only faculty accepted at launch.
const UniversityIstanbulMed = "İstanbul Üniversitesi Tıp Fakültesi"

// Profile holds the student identity attached to a verified account,
// one-to-one with users. Immutable after creation.
type Profile struct {
	UserID        string
	FullName      string
	StudentNumber string
	University    string
	PhoneNumber   string
	Language      InstructionLanguage
	CreatedAt     time.Time
}

// ProfileFields carries the profile attributes collected at registration and
// staged until the account is verified.
type ProfileFields struct {
	FullName      string              `json:"full_name"`
	StudentNumber string              `json:"student_number"`
	University    string              `json:"university"`
	PhoneNumber   string              `json:"phone_number"`
	Language      InstructionLanguage `json:"language"`
}

// RegistrationSubmission is the transient registration input. It is validated
// and consumed, never persisted as-is.
type RegistrationSubmission struct {
	Email         string
	Password      string
	FullName      string
	PhoneNumber   string
	StudentNumber string
	University    string
	Language      InstructionLanguage
	TermsAccepted bool
}

// ProfileFields extracts the stageable profile attributes from a submission.
func (s RegistrationSubmission) ProfileFields() ProfileFields {
	return ProfileFields{
		FullName:      s.FullName,
		StudentNumber: s.StudentNumber,
		University:    s.University,
		PhoneNumber:   s.PhoneNumber,
		Language:      s.Language,
	}
}

// VerificationCode captures a one-time signup code (stored as a hash). The
// staged profile fields ride along so the profile can be created only after
// the account turns active.
type VerificationCode struct {
	ID        string
	UserID    string
	CodeHash  string
	Purpose   string
	Profile   ProfileFields
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// PasswordResetToken represents a single-use password reset token hash.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Session models a signed-in principal. Stored in Redis with a TTL matching
// ExpiresAt.
type Session struct {
	ID        string
	UserID    string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
