package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
	"github.com/spectra-labs/spectra-api/internal/core/ports"
)

// resetCodeTTL is the fixed lifetime of a password-reset code.
const resetCodeTTL = 10 * time.Minute

// AuthService implements the authentication state machine over an injected
// record store. It holds the only in-memory copy of the authenticated user;
// the store owns all durable state.
type AuthService struct {
	store ports.RecordStore
	log   zerolog.Logger

	now     func() time.Time
	newCode func() string

	mu      sync.Mutex
	current *domain.AuthenticatedUser
	lastErr string
	loading bool
}

// Option customises an AuthService.
type Option func(*AuthService)

// WithClock overrides the time source. Used in tests to exercise expiry.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// WithCodeSource overrides the one-time-code generator. The default draws
// from math/rand/v2; callers wanting a cryptographic source inject one here.
func WithCodeSource(newCode func() string) Option {
	return func(s *AuthService) { s.newCode = newCode }
}

// NewAuthService returns an AuthService reading and writing through store.
// The service reports Loading until Bootstrap has run.
func NewAuthService(store ports.RecordStore, log zerolog.Logger, opts ...Option) *AuthService {
	s := &AuthService{
		store:   store,
		log:     log,
		now:     time.Now,
		newCode: NewResetCode,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap performs the initial session resolution at process start and
// clears the loading flag. Returns whether a session was restored.
func (s *AuthService) Bootstrap(ctx context.Context) bool {
	ok := s.resolve(ctx)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	s.log.Info().Bool("session_restored", ok).Msg("auth state resolved")
	return ok
}

// SignUp creates an account for a new email and signs it in.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.AuthenticatedUser, error) {
	s.ClearError()
	email = domain.NormalizeEmail(email)

	accounts := s.store.Accounts(ctx)
	if findAccount(accounts, email) != nil {
		return nil, s.fail(domain.ErrDuplicateAccount)
	}

	account := domain.Account{
		Email:            email,
		CredentialDigest: domain.Digest(password),
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.SaveAccounts(ctx, append(accounts, account)); err != nil {
		return nil, s.fail(fmt.Errorf("sign up: %w", err))
	}

	return s.establish(ctx, account)
}

// SignIn verifies credentials against the stored digest and signs in.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.AuthenticatedUser, error) {
	s.ClearError()
	email = domain.NormalizeEmail(email)

	account := findAccount(s.store.Accounts(ctx), email)
	if account == nil {
		return nil, s.fail(domain.ErrAccountNotFound)
	}
	if domain.Digest(password) != account.CredentialDigest {
		return nil, s.fail(domain.ErrInvalidCredential)
	}

	return s.establish(ctx, *account)
}

// SignOut clears the durable session pointer and the in-memory user. It is
// idempotent and cannot fail; a store error is logged and the in-memory
// state is cleared regardless.
func (s *AuthService) SignOut(ctx context.Context) {
	s.ClearError()

	if err := s.store.ClearSessionEmail(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear session pointer")
	}
	s.setCurrent(nil)
}

// RequestPasswordReset issues a fresh one-time code for an existing account,
// replacing any prior pending code for that email. The plaintext code is
// returned to the caller; only its digest is stored. Authentication state is
// unchanged.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	s.ClearError()
	email = domain.NormalizeEmail(email)

	if findAccount(s.store.Accounts(ctx), email) == nil {
		return "", s.fail(domain.ErrAccountNotFound)
	}

	code := s.newCode()
	token := domain.ResetToken{
		Email:      email,
		CodeDigest: domain.Digest(code),
		ExpiresAt:  s.now().UTC().Add(resetCodeTTL),
	}

	tokens := dropToken(s.store.ResetTokens(ctx), email)
	if err := s.store.SaveResetTokens(ctx, append(tokens, token)); err != nil {
		return "", s.fail(fmt.Errorf("request reset: %w", err))
	}

	s.log.Info().Str("email", email).Time("expires_at", token.ExpiresAt).Msg("reset code issued")
	return code, nil
}

// VerifyPasswordReset consumes a pending reset code, replaces the account's
// credential digest, and signs the account in. A wrong code leaves the token
// in place for retry; an expired token is purged.
func (s *AuthService) VerifyPasswordReset(ctx context.Context, email, code, newPassword string) (*domain.AuthenticatedUser, error) {
	s.ClearError()
	email = domain.NormalizeEmail(email)

	tokens := s.store.ResetTokens(ctx)
	token := findToken(tokens, email)
	if token == nil {
		return nil, s.fail(domain.ErrResetNotFound)
	}

	if token.Expired(s.now().UTC()) {
		if err := s.store.SaveResetTokens(ctx, dropToken(tokens, email)); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to purge expired reset token")
		}
		return nil, s.fail(domain.ErrResetExpired)
	}

	if domain.Digest(code) != token.CodeDigest {
		return nil, s.fail(domain.ErrInvalidCode)
	}

	accounts := s.store.Accounts(ctx)
	account := findAccount(accounts, email)
	if account == nil {
		return nil, s.fail(domain.ErrAccountNotFound)
	}

	account.CredentialDigest = domain.Digest(newPassword)
	if err := s.store.SaveAccounts(ctx, accounts); err != nil {
		return nil, s.fail(fmt.Errorf("verify reset: %w", err))
	}
	if err := s.store.SaveResetTokens(ctx, dropToken(tokens, email)); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to consume reset token")
	}

	return s.establish(ctx, *account)
}

// RefreshSession re-runs session resolution on demand.
func (s *AuthService) RefreshSession(ctx context.Context) bool {
	s.ClearError()
	return s.resolve(ctx)
}

// ClearError discards the last recorded error message.
func (s *AuthService) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

// State returns the observable snapshot for the presentation layer.
func (s *AuthService) State() ports.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := ports.AuthState{Loading: s.loading, LastError: s.lastErr}
	if s.current != nil {
		user := *s.current
		state.User = &user
		state.IsAuthenticated = true
	}
	return state
}

// resolve reads the session pointer and looks up the referenced account.
// A pointer referencing a missing account is cleared (self-healing) so a
// crash between collection writes cannot wedge the session.
func (s *AuthService) resolve(ctx context.Context) bool {
	email, ok := s.store.SessionEmail(ctx)
	if !ok {
		s.setCurrent(nil)
		return false
	}

	account := findAccount(s.store.Accounts(ctx), domain.NormalizeEmail(email))
	if account == nil {
		s.log.Warn().Str("email", email).Msg("session pointer references missing account, clearing")
		if err := s.store.ClearSessionEmail(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear dangling session pointer")
		}
		s.setCurrent(nil)
		return false
	}

	user := account.Project()
	s.setCurrent(&user)
	return true
}

// establish persists the session pointer and swaps in the account's
// projection as the current user.
func (s *AuthService) establish(ctx context.Context, account domain.Account) (*domain.AuthenticatedUser, error) {
	if err := s.store.SaveSessionEmail(ctx, account.Email); err != nil {
		return nil, s.fail(fmt.Errorf("save session: %w", err))
	}

	user := account.Project()
	s.setCurrent(&user)
	return &user, nil
}

// fail records the message for the presentation layer and re-signals the
// error to the immediate caller.
func (s *AuthService) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	return err
}

func (s *AuthService) setCurrent(user *domain.AuthenticatedUser) {
	s.mu.Lock()
	s.current = user
	s.mu.Unlock()
}

func findAccount(accounts []domain.Account, email string) *domain.Account {
	for i := range accounts {
		if accounts[i].Email == email {
			return &accounts[i]
		}
	}
	return nil
}

func findToken(tokens []domain.ResetToken, email string) *domain.ResetToken {
	for i := range tokens {
		if tokens[i].Email == email {
			return &tokens[i]
		}
	}
	return nil
}

func dropToken(tokens []domain.ResetToken, email string) []domain.ResetToken {
	kept := make([]domain.ResetToken, 0, len(tokens))
	for _, t := range tokens {
		if t.Email != email {
			kept = append(kept, t)
		}
	}
	return kept
}
