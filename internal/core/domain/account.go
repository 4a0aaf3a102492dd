package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrDuplicateAccount = errors.New("an account with this email already exists")
var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidCredential = errors.New("invalid email or password")
var ErrResetNotFound = errors.New("no pending reset code for this email")
var ErrResetExpired = errors.New("reset code has expired")
var ErrInvalidCode = errors.New("incorrect reset code")

// Account is a durable user record. The plaintext secret is never stored,
// only its digest.
type Account struct {
	Email            string    `json:"email" bson:"email"`
	CredentialDigest string    `json:"credential_digest" bson:"credential_digest"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// Valid reports whether a persisted record carries the required fields.
// Records failing this check are treated as absent on read.
func (a Account) Valid() bool {
	return a.Email != "" && a.CredentialDigest != ""
}

// Project returns the in-memory view of the account handed to callers.
// It never includes the credential digest.
func (a Account) Project() AuthenticatedUser {
	return AuthenticatedUser{Email: a.Email, CreatedAt: a.CreatedAt}
}

// ResetToken is a pending password-reset code, digested at rest. At most one
// live token exists per email; issuing a new one discards the old.
type ResetToken struct {
	Email      string    `json:"email" bson:"email"`
	CodeDigest string    `json:"code_digest" bson:"code_digest"`
	ExpiresAt  time.Time `json:"expires_at" bson:"expires_at"`
}

// Valid reports whether a persisted record carries the required fields.
func (t ResetToken) Valid() bool {
	return t.Email != "" && t.CodeDigest != "" && !t.ExpiresAt.IsZero()
}

// Expired reports whether the token's expiry is in the past.
func (t ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// AuthenticatedUser is the projection of an Account held in process memory
// while a session is active.
type AuthenticatedUser struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeEmail folds an email to its canonical lowercase form. All
// storage, comparison, and lookup happens on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}
