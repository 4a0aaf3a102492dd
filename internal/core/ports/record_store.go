package ports

import (
	"context"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

// RecordStore is the durable, device-scoped home of the three auth
// collections. Reads never fail the caller: a missing or corrupt value is
// logged by the implementation and surfaced as the empty state. Writes
// replace the whole collection; there are no partial or merge semantics,
// and no transactional guarantee across collections.
type RecordStore interface {
	Accounts(ctx context.Context) []domain.Account
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// SessionEmail returns the remembered account email, if any.
	SessionEmail(ctx context.Context) (string, bool)
	SaveSessionEmail(ctx context.Context, email string) error
	ClearSessionEmail(ctx context.Context) error

	ResetTokens(ctx context.Context) []domain.ResetToken
	SaveResetTokens(ctx context.Context, tokens []domain.ResetToken) error
}
