package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/worklog/pkg/secrets"
	"github.com/dmitrymomot/worklog/pkg/session"
)

type sessionDocument struct {
	ID             string    `bson:"_id"`
	TokenDigest    string    `bson:"tokenDigest"`
	EncryptedToken string    `bson:"encryptedToken"`
	UserID         string    `bson:"userId"`
	Email          string    `bson:"email"`
	ExpiresAt      time.Time `bson:"expiresAt"`
	LastActivityAt time.Time `bson:"lastActivityAt"`
	CreatedAt      time.Time `bson:"createdAt"`
}

// SessionStore persists sessions with the bearer token sealed by the
// secrets codec. Lookup goes through a keyed digest of the token, so the
// plaintext token exists only in transit.
type SessionStore struct {
	collection *mongo.Collection
	codec      *secrets.Codec
}

// NewSessionStore creates the session storage adapter.
func NewSessionStore(db *mongo.Database, codec *secrets.Codec) *SessionStore {
	return &SessionStore{
		collection: db.Collection(sessionsCollection),
		codec:      codec,
	}
}

func (s *SessionStore) Create(ctx context.Context, sess *session.Session) error {
	encrypted, err := s.codec.Encrypt(sess.Token)
	if err != nil {
		return fmt.Errorf("seal session token: %w", err)
	}

	_, err = s.collection.InsertOne(ctx, sessionDocument{
		ID:             sess.ID.String(),
		TokenDigest:    s.codec.Digest(sess.Token),
		EncryptedToken: encrypted,
		UserID:         sess.UserID.String(),
		Email:          sess.Email,
		ExpiresAt:      sess.ExpiresAt,
		LastActivityAt: sess.LastActivityAt,
		CreatedAt:      sess.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*session.Session, error) {
	var doc sessionDocument
	err := s.collection.FindOne(ctx, bson.M{"tokenDigest": s.codec.Digest(token)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	// The sealed token must decrypt back to the presented one; a digest
	// match with a broken seal means the row cannot be trusted.
	stored, err := s.codec.Decrypt(doc.EncryptedToken)
	if err != nil || !secrets.Equal(stored, token) {
		return nil, session.ErrSessionNotFound
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse session user id: %w", err)
	}

	return &session.Session{
		ID:             id,
		Token:          token,
		UserID:         userID,
		Email:          doc.Email,
		ExpiresAt:      doc.ExpiresAt,
		LastActivityAt: doc.LastActivityAt,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

func (s *SessionStore) UpdateActivity(ctx context.Context, token string, lastActivity, expiresAt time.Time) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"tokenDigest": s.codec.Digest(token)},
		bson.M{"$set": bson.M{
			"lastActivityAt": lastActivity,
			"expiresAt":      expiresAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update session activity: %w", err)
	}
	if result.MatchedCount == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"tokenDigest": s.codec.Digest(token)}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteExpired(ctx context.Context) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": time.Now()}}); err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}

var _ session.Store = (*SessionStore)(nil)
