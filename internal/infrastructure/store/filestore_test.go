package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return fs, dir
}

func TestFileStore_AccountsRoundTrip(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	accounts := []domain.Account{
		{Email: "a@t.com", CredentialDigest: domain.Digest("pw1"), CreatedAt: time.Now().UTC().Truncate(time.Second)},
		{Email: "b@t.com", CredentialDigest: domain.Digest("pw2"), CreatedAt: time.Now().UTC().Truncate(time.Second)},
	}
	if err := fs.SaveAccounts(ctx, accounts); err != nil {
		t.Fatalf("SaveAccounts failed: %v", err)
	}

	got := fs.Accounts(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(got))
	}
	if got[0].Email != "a@t.com" || got[1].Email != "b@t.com" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if got[0].CredentialDigest != accounts[0].CredentialDigest {
		t.Fatalf("digest mangled on round trip")
	}
}

func TestFileStore_MissingCollectionsAreEmpty(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	if got := fs.Accounts(ctx); len(got) != 0 {
		t.Fatalf("expected no accounts, got %d", len(got))
	}
	if got := fs.ResetTokens(ctx); len(got) != 0 {
		t.Fatalf("expected no tokens, got %d", len(got))
	}
	if _, ok := fs.SessionEmail(ctx); ok {
		t.Fatalf("expected no session")
	}
}

func TestFileStore_CorruptCollectionIsEmpty(t *testing.T) {
	fs, dir := newTestFileStore(t)
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(dir, "accounts.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	// Corruption is swallowed, never surfaced as an error.
	if got := fs.Accounts(ctx); len(got) != 0 {
		t.Fatalf("expected empty on corruption, got %d records", len(got))
	}

	// A write recovers the collection.
	if err := fs.SaveAccounts(ctx, []domain.Account{{Email: "a@t.com", CredentialDigest: "d"}}); err != nil {
		t.Fatalf("SaveAccounts after corruption failed: %v", err)
	}
	if got := fs.Accounts(ctx); len(got) != 1 {
		t.Fatalf("expected 1 account after rewrite, got %d", len(got))
	}
}

func TestFileStore_InvalidRecordsSkipped(t *testing.T) {
	fs, dir := newTestFileStore(t)
	ctx := context.Background()

	env := accountsEnvelope{
		Version: schemaVersion,
		Records: []domain.Account{
			{Email: "good@t.com", CredentialDigest: "d"},
			{Email: "", CredentialDigest: "d"}, // missing email
		},
	}
	raw, _ := json.Marshal(env)
	if err := os.WriteFile(filepath.Join(dir, "accounts.json"), raw, 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	got := fs.Accounts(ctx)
	if len(got) != 1 || got[0].Email != "good@t.com" {
		t.Fatalf("expected only the valid record, got %+v", got)
	}
}

func TestFileStore_UnknownSchemaVersionIsEmpty(t *testing.T) {
	fs, dir := newTestFileStore(t)
	ctx := context.Background()

	raw, _ := json.Marshal(accountsEnvelope{Version: 99, Records: []domain.Account{{Email: "a@t.com", CredentialDigest: "d"}}})
	if err := os.WriteFile(filepath.Join(dir, "accounts.json"), raw, 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if got := fs.Accounts(ctx); len(got) != 0 {
		t.Fatalf("unknown version must read as empty, got %+v", got)
	}
}

func TestFileStore_SessionLifecycle(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	if err := fs.SaveSessionEmail(ctx, "u@t.com"); err != nil {
		t.Fatalf("SaveSessionEmail failed: %v", err)
	}
	email, ok := fs.SessionEmail(ctx)
	if !ok || email != "u@t.com" {
		t.Fatalf("unexpected session: %q %v", email, ok)
	}

	if err := fs.ClearSessionEmail(ctx); err != nil {
		t.Fatalf("ClearSessionEmail failed: %v", err)
	}
	if _, ok := fs.SessionEmail(ctx); ok {
		t.Fatalf("session not cleared")
	}

	// Clearing an absent session is a no-op success.
	if err := fs.ClearSessionEmail(ctx); err != nil {
		t.Fatalf("repeated clear failed: %v", err)
	}
}

func TestFileStore_SaveReplacesCollection(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	tokens := []domain.ResetToken{
		{Email: "a@t.com", CodeDigest: "d1", ExpiresAt: time.Now().Add(time.Minute)},
		{Email: "b@t.com", CodeDigest: "d2", ExpiresAt: time.Now().Add(time.Minute)},
	}
	if err := fs.SaveResetTokens(ctx, tokens); err != nil {
		t.Fatalf("SaveResetTokens failed: %v", err)
	}
	if err := fs.SaveResetTokens(ctx, tokens[:1]); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got := fs.ResetTokens(ctx)
	if len(got) != 1 || got[0].Email != "a@t.com" {
		t.Fatalf("write did not replace collection: %+v", got)
	}
}

func TestFileStore_Ping(t *testing.T) {
	fs, _ := newTestFileStore(t)
	if err := fs.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
