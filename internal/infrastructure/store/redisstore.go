package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

const keyPrefix = "spectra:auth:"

// RedisStore keeps each collection under a single key holding the same
// JSON envelope the file backend writes. A plain SET replaces the whole
// collection, matching the store's replace-on-write contract.
type RedisStore struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRedisStore(client *redis.Client, log zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

func (s *RedisStore) Accounts(ctx context.Context) []domain.Account {
	return decodeAccounts(s.read(ctx, collAccounts), s.log)
}

func (s *RedisStore) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	raw, err := encodeAccounts(accounts)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collAccounts, err)
	}
	return s.write(ctx, collAccounts, raw)
}

func (s *RedisStore) SessionEmail(ctx context.Context) (string, bool) {
	return decodeSession(s.read(ctx, collSession), s.log)
}

func (s *RedisStore) SaveSessionEmail(ctx context.Context, email string) error {
	raw, err := encodeSession(email)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collSession, err)
	}
	return s.write(ctx, collSession, raw)
}

func (s *RedisStore) ClearSessionEmail(ctx context.Context) error {
	if err := s.client.Del(ctx, keyPrefix+collSession).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", collSession, err)
	}
	return nil
}

func (s *RedisStore) ResetTokens(ctx context.Context) []domain.ResetToken {
	return decodeTokens(s.read(ctx, collTokens), s.log)
}

func (s *RedisStore) SaveResetTokens(ctx context.Context, tokens []domain.ResetToken) error {
	raw, err := encodeTokens(tokens)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collTokens, err)
	}
	return s.write(ctx, collTokens, raw)
}

// Ping validates connectivity for the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) read(ctx context.Context, name string) []byte {
	raw, err := s.client.Get(ctx, keyPrefix+name).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("collection", name).Msg("unreadable collection, treating as empty")
		}
		return nil
	}
	return raw
}

func (s *RedisStore) write(ctx context.Context, name string, raw []byte) error {
	if err := s.client.Set(ctx, keyPrefix+name, raw, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
