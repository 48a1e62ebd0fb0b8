package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/worklog/pkg/auth"
)

type accountDocument struct {
	UserID                string    `bson:"userId"`
	Provider              string    `bson:"provider"`
	ProviderAccountID     string    `bson:"providerAccountId"`
	EncryptedAccessToken  string    `bson:"encryptedAccessToken,omitempty"`
	EncryptedRefreshToken string    `bson:"encryptedRefreshToken,omitempty"`
	CreatedAt             time.Time `bson:"createdAt"`
}

// AccountStore persists federated account links, one per
// (provider, providerAccountId).
type AccountStore struct {
	collection *mongo.Collection
}

// NewAccountStore creates the federated account storage adapter.
func NewAccountStore(db *mongo.Database) *AccountStore {
	return &AccountStore{collection: db.Collection(accountsCollection)}
}

func (s *AccountStore) GetAccount(ctx context.Context, provider, providerAccountID string) (*auth.Account, error) {
	var doc accountDocument
	err := s.collection.FindOne(ctx, bson.M{
		"provider":          provider,
		"providerAccountId": providerAccountID,
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse account user id: %w", err)
	}
	return &auth.Account{
		UserID:                userID,
		Provider:              doc.Provider,
		ProviderAccountID:     doc.ProviderAccountID,
		EncryptedAccessToken:  doc.EncryptedAccessToken,
		EncryptedRefreshToken: doc.EncryptedRefreshToken,
		CreatedAt:             doc.CreatedAt,
	}, nil
}

func (s *AccountStore) LinkAccount(ctx context.Context, account *auth.Account) error {
	_, err := s.collection.InsertOne(ctx, accountDocument{
		UserID:                account.UserID.String(),
		Provider:              account.Provider,
		ProviderAccountID:     account.ProviderAccountID,
		EncryptedAccessToken:  account.EncryptedAccessToken,
		EncryptedRefreshToken: account.EncryptedRefreshToken,
		CreatedAt:             account.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *AccountStore) UpdateAccountTokens(ctx context.Context, provider, providerAccountID, encryptedAccess, encryptedRefresh string) error {
	set := bson.M{"encryptedAccessToken": encryptedAccess}
	// An empty refresh token means the provider did not rotate it; keep
	// the one already stored.
	if encryptedRefresh != "" {
		set["encryptedRefreshToken"] = encryptedRefresh
	}

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"provider": provider, "providerAccountId": providerAccountID},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("update account tokens: %w", err)
	}
	if result.MatchedCount == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}

var _ auth.AccountStorage = (*AccountStore)(nil)
