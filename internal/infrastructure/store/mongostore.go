package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

const recordsCollection = "auth_records"

// recordDoc is one persisted collection: the shared JSON envelope stored
// under a fixed _id. ReplaceOne with upsert gives the same replace-whole-
// collection semantics as the other backends.
type recordDoc struct {
	ID      string `bson:"_id"`
	Payload []byte `bson:"payload"`
}

// MongoStore keeps the three collections as three documents in a single
// MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

func NewMongoStore(db *mongo.Database, log zerolog.Logger) *MongoStore {
	return &MongoStore{coll: db.Collection(recordsCollection), log: log}
}

func (s *MongoStore) Accounts(ctx context.Context) []domain.Account {
	return decodeAccounts(s.read(ctx, collAccounts), s.log)
}

func (s *MongoStore) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	raw, err := encodeAccounts(accounts)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collAccounts, err)
	}
	return s.write(ctx, collAccounts, raw)
}

func (s *MongoStore) SessionEmail(ctx context.Context) (string, bool) {
	return decodeSession(s.read(ctx, collSession), s.log)
}

func (s *MongoStore) SaveSessionEmail(ctx context.Context, email string) error {
	raw, err := encodeSession(email)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collSession, err)
	}
	return s.write(ctx, collSession, raw)
}

func (s *MongoStore) ClearSessionEmail(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": collSession}); err != nil {
		return fmt.Errorf("clear %s: %w", collSession, err)
	}
	return nil
}

func (s *MongoStore) ResetTokens(ctx context.Context) []domain.ResetToken {
	return decodeTokens(s.read(ctx, collTokens), s.log)
}

func (s *MongoStore) SaveResetTokens(ctx context.Context, tokens []domain.ResetToken) error {
	raw, err := encodeTokens(tokens)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collTokens, err)
	}
	return s.write(ctx, collTokens, raw)
}

// Ping validates connectivity for the readiness probe.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func (s *MongoStore) read(ctx context.Context, name string) []byte {
	var doc recordDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.log.Warn().Err(err).Str("collection", name).Msg("unreadable collection, treating as empty")
		}
		return nil
	}
	return doc.Payload
}

func (s *MongoStore) write(ctx context.Context, name string, raw []byte) error {
	doc := recordDoc{ID: name, Payload: raw}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
