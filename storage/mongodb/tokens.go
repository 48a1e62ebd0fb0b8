package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/worklog/pkg/otp"
)

type tokenDocument struct {
	Email     string    `bson:"email"`
	Type      string    `bson:"type"`
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt"`
}

// TokenStore persists one-time verification codes. The code field holds
// ciphertext only; the TTL index on expiresAt sweeps stale rows, while the
// OTP store checks expiry explicitly at verification time.
type TokenStore struct {
	collection *mongo.Collection
}

// NewTokenStore creates the verification token storage adapter.
func NewTokenStore(db *mongo.Database) *TokenStore {
	return &TokenStore{collection: db.Collection(tokensCollection)}
}

func (s *TokenStore) DeleteTokens(ctx context.Context, email string, purpose otp.Purpose) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"email": email, "type": string(purpose)})
	if err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	return nil
}

func (s *TokenStore) CreateToken(ctx context.Context, token otp.Token) error {
	_, err := s.collection.InsertOne(ctx, tokenDocument{
		Email:     token.Email,
		Type:      string(token.Purpose),
		Token:     token.EncryptedCode,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (s *TokenStore) GetToken(ctx context.Context, email string, purpose otp.Purpose) (*otp.Token, error) {
	var doc tokenDocument
	err := s.collection.FindOne(ctx,
		bson.M{"email": email, "type": string(purpose)},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, otp.ErrCodeNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	return &otp.Token{
		Email:         doc.Email,
		Purpose:       otp.Purpose(doc.Type),
		EncryptedCode: doc.Token,
		ExpiresAt:     doc.ExpiresAt,
		CreatedAt:     doc.CreatedAt,
	}, nil
}

var _ otp.Storage = (*TokenStore)(nil)
