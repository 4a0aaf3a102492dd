package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

// memStore is an in-memory RecordStore for tests.
type memStore struct {
	accounts []domain.Account
	session  string
	tokens   []domain.ResetToken
}

func (m *memStore) Accounts(_ context.Context) []domain.Account {
	out := make([]domain.Account, len(m.accounts))
	copy(out, m.accounts)
	return out
}

func (m *memStore) SaveAccounts(_ context.Context, accounts []domain.Account) error {
	m.accounts = accounts
	return nil
}

func (m *memStore) SessionEmail(_ context.Context) (string, bool) {
	if m.session == "" {
		return "", false
	}
	return m.session, true
}

func (m *memStore) SaveSessionEmail(_ context.Context, email string) error {
	m.session = email
	return nil
}

func (m *memStore) ClearSessionEmail(_ context.Context) error {
	m.session = ""
	return nil
}

func (m *memStore) ResetTokens(_ context.Context) []domain.ResetToken {
	out := make([]domain.ResetToken, len(m.tokens))
	copy(out, m.tokens)
	return out
}

func (m *memStore) SaveResetTokens(_ context.Context, tokens []domain.ResetToken) error {
	m.tokens = tokens
	return nil
}

func newTestService(store *memStore, opts ...Option) *AuthService {
	svc := NewAuthService(store, zerolog.Nop(), opts...)
	svc.Bootstrap(context.Background())
	return svc
}

func TestAuthService_SignUp_Success(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	user, err := svc.SignUp(context.Background(), "user@test.com", "secret1")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user.Email != "user@test.com" {
		t.Fatalf("unexpected email: %s", user.Email)
	}

	state := svc.State()
	if !state.IsAuthenticated {
		t.Fatalf("expected authenticated state")
	}
	if state.LastError != "" {
		t.Fatalf("unexpected lastError: %s", state.LastError)
	}

	if len(store.accounts) != 1 {
		t.Fatalf("expected 1 stored account, got %d", len(store.accounts))
	}
	if store.accounts[0].CredentialDigest == "secret1" {
		t.Fatalf("plaintext password was stored")
	}
	if store.session != "user@test.com" {
		t.Fatalf("session pointer not set: %q", store.session)
	}
}

func TestAuthService_SignUp_NormalizesEmail(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	user, err := svc.SignUp(context.Background(), "Alice@Example.COM", "pw")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	if _, err := svc.SignUp(context.Background(), "a@b.com", "p"); err != nil {
		t.Fatalf("first SignUp failed: %v", err)
	}

	// Same email with different casing still collides.
	_, err := svc.SignUp(context.Background(), "A@B.COM", "other")
	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
	if len(store.accounts) != 1 {
		t.Fatalf("duplicate sign-up created a second account")
	}
	if svc.State().LastError == "" {
		t.Fatalf("expected lastError to be recorded")
	}
}

func TestAuthService_SignIn_CaseInsensitive(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	if _, err := svc.SignUp(context.Background(), "A@b.com", "p"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	svc.SignOut(context.Background())

	if _, err := svc.SignIn(context.Background(), "a@B.COM", "p"); err != nil {
		t.Fatalf("case-folded SignIn failed: %v", err)
	}
	if !svc.State().IsAuthenticated {
		t.Fatalf("expected authenticated state")
	}
}

func TestAuthService_SignIn_WrongPassword(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	_, _ = svc.SignUp(context.Background(), "u@t.com", "pw")
	svc.SignOut(context.Background())

	_, err := svc.SignIn(context.Background(), "u@t.com", "pwx")
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if svc.State().IsAuthenticated {
		t.Fatalf("failed sign-in must not authenticate")
	}
}

func TestAuthService_SignIn_AccountNotFound(t *testing.T) {
	svc := newTestService(&memStore{})

	_, err := svc.SignIn(context.Background(), "ghost@t.com", "pw")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAuthService_SignOut_Idempotent(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store)

	_, _ = svc.SignUp(context.Background(), "u@t.com", "pw")

	svc.SignOut(context.Background())
	if svc.State().IsAuthenticated {
		t.Fatalf("expected unauthenticated after sign-out")
	}
	if store.session != "" {
		t.Fatalf("session pointer not cleared")
	}

	// Second sign-out is a no-op success.
	svc.SignOut(context.Background())
	if svc.State().IsAuthenticated {
		t.Fatalf("expected unauthenticated after repeated sign-out")
	}
}

func TestAuthService_ResetFlow(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, WithCodeSource(func() string { return "042137" }))

	_, _ = svc.SignUp(context.Background(), "user@test.com", "secret1")
	svc.SignOut(context.Background())

	code, err := svc.RequestPasswordReset(context.Background(), "user@test.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if code != "042137" {
		t.Fatalf("unexpected code: %s", code)
	}
	if svc.State().IsAuthenticated {
		t.Fatalf("reset request must not change auth state")
	}
	if len(store.tokens) != 1 || store.tokens[0].CodeDigest == code {
		t.Fatalf("token missing or stored in plaintext: %+v", store.tokens)
	}

	user, err := svc.VerifyPasswordReset(context.Background(), "user@test.com", code, "secret2")
	if err != nil {
		t.Fatalf("VerifyPasswordReset failed: %v", err)
	}
	if user.Email != "user@test.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !svc.State().IsAuthenticated {
		t.Fatalf("expected authenticated after reset")
	}
	if len(store.tokens) != 0 {
		t.Fatalf("token not consumed")
	}

	// Old password is dead, new one works.
	svc.SignOut(context.Background())
	if _, err := svc.SignIn(context.Background(), "user@test.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "user@test.com", "secret2"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAuthService_Reset_SingleUse(t *testing.T) {
	svc := newTestService(&memStore{}, WithCodeSource(func() string { return "111111" }))

	_, _ = svc.SignUp(context.Background(), "u@t.com", "pw")
	code, _ := svc.RequestPasswordReset(context.Background(), "u@t.com")

	if _, err := svc.VerifyPasswordReset(context.Background(), "u@t.com", code, "pw2"); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	_, err := svc.VerifyPasswordReset(context.Background(), "u@t.com", code, "pw3")
	if !errors.Is(err, domain.ErrResetNotFound) {
		t.Fatalf("expected ErrResetNotFound on reuse, got %v", err)
	}
}

func TestAuthService_Reset_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &memStore{}
	svc := newTestService(store,
		WithClock(func() time.Time { return now }),
		WithCodeSource(func() string { return "222222" }),
	)

	_, _ = svc.SignUp(context.Background(), "u@t.com", "pw")
	code, _ := svc.RequestPasswordReset(context.Background(), "u@t.com")

	now = now.Add(10*time.Minute + time.Second)

	_, err := svc.VerifyPasswordReset(context.Background(), "u@t.com", code, "pw2")
	if !errors.Is(err, domain.ErrResetExpired) {
		t.Fatalf("expected ErrResetExpired, got %v", err)
	}
	if len(store.tokens) != 0 {
		t.Fatalf("expired token not purged")
	}

	// Token is gone, so a retry reports no pending reset.
	_, err = svc.VerifyPasswordReset(context.Background(), "u@t.com", code, "pw2")
	if !errors.Is(err, domain.ErrResetNotFound) {
		t.Fatalf("expected ErrResetNotFound after purge, got %v", err)
	}
}

func TestAuthService_Reset_WrongCodeRetry(t *testing.T) {
	store := &memStore{}
	svc := newTestService(store, WithCodeSource(func() string { return "333333" }))

	_, _ = svc.SignUp(context.Background(), "u@t.com", "pw")
	code, _ := svc.RequestPasswordReset(context.Background(), "u@t.com")

	_, err := svc.VerifyPasswordReset(context.Background(), "u@t.com", "000000", "pw2")
	if !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if len(store.tokens) != 1 {
		t.Fatalf("token must survive a wrong-code attempt")
	}

	if _, err := svc.VerifyPasswordReset(context.Background(), "u@t.com", code, "pw2"); err != nil {
		t.Fatalf("retry with correct code failed: %v", err)
	}
}

func TestAuthService_Reset_ReplacesPriorToken(t *testing.T) {
	codes := []string{"444444", "555555"}
	store := &memStore{}
	svc := newTestService(store, WithCodeSource(func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}))

	_, _ = svc.SignUp(context.Background(), "u@t.com", "pw")

	first, _ := svc.RequestPasswordReset(context.Background(), "u@t.com")
	second, _ := svc.RequestPasswordReset(context.Background(), "u@t.com")

	if len(store.tokens) != 1 {
		t.Fatalf("expected one live token per email, got %d", len(store.tokens))
	}
	if _, err := svc.VerifyPasswordReset(context.Background(), "u@t.com", first, "pw2"); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("discarded code should fail with ErrInvalidCode, got %v", err)
	}
	if _, err := svc.VerifyPasswordReset(context.Background(), "u@t.com", second, "pw2"); err != nil {
		t.Fatalf("fresh code rejected: %v", err)
	}
}

func TestAuthService_Reset_UnknownEmail(t *testing.T) {
	svc := newTestService(&memStore{})

	_, err := svc.RequestPasswordReset(context.Background(), "ghost@t.com")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAuthService_SessionSelfHeal(t *testing.T) {
	store := &memStore{session: "ghost@t.com"}
	svc := NewAuthService(store, zerolog.Nop())

	if svc.Bootstrap(context.Background()) {
		t.Fatalf("dangling session pointer must not resolve")
	}
	if store.session != "" {
		t.Fatalf("dangling session pointer not cleared")
	}
	if svc.State().IsAuthenticated {
		t.Fatalf("expected unauthenticated state")
	}

	if svc.RefreshSession(context.Background()) {
		t.Fatalf("refresh after self-heal must report no session")
	}
}

func TestAuthService_Bootstrap_RestoresSession(t *testing.T) {
	store := &memStore{
		accounts: []domain.Account{{
			Email:            "u@t.com",
			CredentialDigest: domain.Digest("pw"),
			CreatedAt:        time.Now().UTC(),
		}},
		session: "u@t.com",
	}
	svc := NewAuthService(store, zerolog.Nop())

	if !svc.State().Loading {
		t.Fatalf("expected loading before bootstrap")
	}
	if !svc.Bootstrap(context.Background()) {
		t.Fatalf("expected session restore")
	}

	state := svc.State()
	if state.Loading {
		t.Fatalf("loading flag not cleared")
	}
	if !state.IsAuthenticated || state.User.Email != "u@t.com" {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestAuthService_ClearError(t *testing.T) {
	svc := newTestService(&memStore{})

	_, _ = svc.SignIn(context.Background(), "ghost@t.com", "pw")
	if svc.State().LastError == "" {
		t.Fatalf("expected lastError after failure")
	}

	svc.ClearError()
	if svc.State().LastError != "" {
		t.Fatalf("lastError not cleared")
	}
}

func TestAuthService_OperationsClearPriorError(t *testing.T) {
	svc := newTestService(&memStore{})

	_, _ = svc.SignIn(context.Background(), "ghost@t.com", "pw")
	if _, err := svc.SignUp(context.Background(), "ghost@t.com", "pw"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if svc.State().LastError != "" {
		t.Fatalf("successful operation must clear prior error")
	}
}
