// Package store provides the durable record store backends for the auth
// core. All backends persist the same versioned JSON envelopes, so data
// written by one backend can be read by another. Reads are forgiving:
// missing or corrupt values are logged and treated as empty, never
// surfaced as errors to the caller.
package store

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

const schemaVersion = 1

// Collection names shared by every backend.
const (
	collAccounts = "accounts"
	collSession  = "session"
	collTokens   = "reset_tokens"
)

type accountsEnvelope struct {
	Version int              `json:"version"`
	Records []domain.Account `json:"records"`
}

type sessionEnvelope struct {
	Version int    `json:"version"`
	Email   string `json:"email"`
}

type tokensEnvelope struct {
	Version int                 `json:"version"`
	Records []domain.ResetToken `json:"records"`
}

func encodeAccounts(accounts []domain.Account) ([]byte, error) {
	return json.Marshal(accountsEnvelope{Version: schemaVersion, Records: accounts})
}

// decodeAccounts parses a persisted accounts envelope. Structural
// corruption yields an empty collection; individual records failing
// validation are skipped, both with a warning.
func decodeAccounts(raw []byte, log zerolog.Logger) []domain.Account {
	if len(raw) == 0 {
		return nil
	}

	var env accountsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn().Err(err).Str("collection", collAccounts).Msg("corrupt collection, treating as empty")
		return nil
	}
	if env.Version != schemaVersion {
		log.Warn().Int("version", env.Version).Str("collection", collAccounts).Msg("unknown schema version, treating as empty")
		return nil
	}

	records := make([]domain.Account, 0, len(env.Records))
	for _, a := range env.Records {
		if !a.Valid() {
			log.Warn().Str("collection", collAccounts).Msg("skipping invalid record")
			continue
		}
		records = append(records, a)
	}
	return records
}

func encodeSession(email string) ([]byte, error) {
	return json.Marshal(sessionEnvelope{Version: schemaVersion, Email: email})
}

func decodeSession(raw []byte, log zerolog.Logger) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var env sessionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn().Err(err).Str("collection", collSession).Msg("corrupt session pointer, treating as absent")
		return "", false
	}
	if env.Version != schemaVersion || env.Email == "" {
		return "", false
	}
	return env.Email, true
}

func encodeTokens(tokens []domain.ResetToken) ([]byte, error) {
	return json.Marshal(tokensEnvelope{Version: schemaVersion, Records: tokens})
}

func decodeTokens(raw []byte, log zerolog.Logger) []domain.ResetToken {
	if len(raw) == 0 {
		return nil
	}

	var env tokensEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn().Err(err).Str("collection", collTokens).Msg("corrupt collection, treating as empty")
		return nil
	}
	if env.Version != schemaVersion {
		log.Warn().Int("version", env.Version).Str("collection", collTokens).Msg("unknown schema version, treating as empty")
		return nil
	}

	records := make([]domain.ResetToken, 0, len(env.Records))
	for _, t := range env.Records {
		if !t.Valid() {
			log.Warn().Str("collection", collTokens).Msg("skipping invalid record")
			continue
		}
		records = append(records, t)
	}
	return records
}
