package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

type ViewRepo struct {
	col *mongo.Collection
}

func NewViewRepo(db *mongo.Database) *ViewRepo {
	col := db.Collection(ColProfileViews)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "viewed_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &ViewRepo{col: col}
}

func (r *ViewRepo) Insert(ctx context.Context, v *models.ProfileView) error {
	_, err := r.col.InsertOne(ctx, v)
	return err
}

// ViewsSince returns who viewed the profile after the cutoff, newest first.
func (r *ViewRepo) ViewsSince(ctx context.Context, viewedID string, since time.Time, limit int64) ([]*models.ProfileView, error) {
	cur, err := r.col.Find(ctx, bson.M{
		"viewed_id":  viewedID,
		"created_at": bson.M{"$gte": since},
	}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.ProfileView
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ViewRepo) CountSince(ctx context.Context, viewedID string, since time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"viewed_id":  viewedID,
		"created_at": bson.M{"$gte": since},
	})
}
