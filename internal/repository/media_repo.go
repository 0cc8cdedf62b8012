package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

type MediaRepo struct {
	col *mongo.Collection
}

func NewMediaRepo(db *mongo.Database) *MediaRepo {
	col := db.Collection(ColMedia)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &MediaRepo{col: col}
}

func (r *MediaRepo) Insert(ctx context.Context, m *models.Media) error {
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *MediaRepo) ListForUser(ctx context.Context, userID string, limit int64) ([]*models.Media, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Media
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
