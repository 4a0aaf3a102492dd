package ports

import (
	"context"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

// AuthState is the observable snapshot the presentation layer renders.
type AuthState struct {
	User            *domain.AuthenticatedUser
	IsAuthenticated bool
	Loading         bool
	LastError       string
}

// AuthService is the authentication state machine. Every operation first
// clears the last recorded error; failures are recorded and re-signaled to
// the caller as one of the domain sentinel errors. No failure is fatal;
// each operation leaves the system in a well-defined state.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*domain.AuthenticatedUser, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthenticatedUser, error)
	SignOut(ctx context.Context)

	// RequestPasswordReset returns the plaintext one-time code. There is no
	// delivery channel; the caller is responsible for showing it.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	VerifyPasswordReset(ctx context.Context, email, code, newPassword string) (*domain.AuthenticatedUser, error)

	// RefreshSession re-resolves the durable session pointer. It never
	// fails; the boolean reports whether a valid session was established.
	RefreshSession(ctx context.Context) bool

	ClearError()
	State() AuthState
}
