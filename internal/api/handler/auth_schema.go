package handler

import "github.com/spectra-labs/spectra-api/internal/core/domain"

type signUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetVerifyRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Code        string `json:"code"         validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required"`
}

type authResponse struct {
	Token string                    `json:"token"`
	User  *domain.AuthenticatedUser `json:"user"`
}

// resetCodeResponse carries the plaintext one-time code back to the caller.
// There is no out-of-band delivery channel; the client displays it.
type resetCodeResponse struct {
	Code string `json:"code"`
}

type sessionResponse struct {
	User            *domain.AuthenticatedUser `json:"user,omitempty"`
	IsAuthenticated bool                      `json:"is_authenticated"`
	Loading         bool                      `json:"loading"`
	LastError       string                    `json:"last_error,omitempty"`
}

type refreshResponse struct {
	Active bool `json:"active"`
}

type messageResponse struct {
	Message string `json:"message"`
}
