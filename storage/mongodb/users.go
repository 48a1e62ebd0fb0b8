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

type userDocument struct {
	ID                   string    `bson:"_id"`
	Email                string    `bson:"email"`
	Name                 string    `bson:"name,omitempty"`
	PasswordHash         []byte    `bson:"passwordHash,omitempty"`
	IsVerified           bool      `bson:"isVerified"`
	EncryptedAccessToken string    `bson:"encryptedAccessToken,omitempty"`
	CreatedAt            time.Time `bson:"createdAt"`
	UpdatedAt            time.Time `bson:"updatedAt"`
}

func toUserDocument(user *auth.User) userDocument {
	return userDocument{
		ID:                   user.ID.String(),
		Email:                user.Email,
		Name:                 user.Name,
		PasswordHash:         user.PasswordHash,
		IsVerified:           user.IsVerified,
		EncryptedAccessToken: user.EncryptedAccessToken,
		CreatedAt:            user.CreatedAt,
		UpdatedAt:            user.UpdatedAt,
	}
}

func (d userDocument) toUser() (*auth.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &auth.User{
		ID:                   id,
		Email:                d.Email,
		Name:                 d.Name,
		PasswordHash:         d.PasswordHash,
		IsVerified:           d.IsVerified,
		EncryptedAccessToken: d.EncryptedAccessToken,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}, nil
}

// UserStore persists user accounts.
type UserStore struct {
	collection *mongo.Collection
}

// NewUserStore creates the user storage adapter.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{collection: db.Collection(usersCollection)}
}

func (s *UserStore) CreateUser(ctx context.Context, user *auth.User) error {
	if _, err := s.collection.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyRegistered
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) UpdateUser(ctx context.Context, user *auth.User) error {
	user.UpdatedAt = time.Now()
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": user.ID.String()},
		bson.M{"$set": bson.M{
			"name":                 user.Name,
			"passwordHash":         user.PasswordHash,
			"isVerified":           user.IsVerified,
			"encryptedAccessToken": user.EncryptedAccessToken,
			"updatedAt":            user.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			"passwordHash": hash,
			"updatedAt":    time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if result.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*auth.User, error) {
	var doc userDocument
	if err := s.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser()
}

var _ auth.Storage = (*UserStore)(nil)
