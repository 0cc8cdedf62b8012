package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/models"
)

type SessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) *SessionRepo {
	col := db.Collection(ColSessions)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "session_token", Value: 1}},
	})
	return &SessionRepo{col: col}
}

func (r *SessionRepo) Insert(ctx context.Context, s *models.Session) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

// Find returns the session only if it has not expired.
func (r *SessionRepo) Find(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.col.FindOne(ctx, bson.M{
		"session_token": token,
		"expires_at":    bson.M{"$gt": time.Now()},
	}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"session_token": token})
	return err
}

func (r *SessionRepo) DeleteForUser(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
