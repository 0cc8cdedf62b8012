package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/models"
)

type ScheduleRepo struct {
	col *mongo.Collection
}

func NewScheduleRepo(db *mongo.Database) *ScheduleRepo {
	col := db.Collection(ColSchedules)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_date", Value: 1}},
	})
	return &ScheduleRepo{col: col}
}

func (r *ScheduleRepo) Insert(ctx context.Context, s *models.TravelSchedule) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *ScheduleRepo) Delete(ctx context.Context, scheduleID, userID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"schedule_id": scheduleID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepo) ListForUser(ctx context.Context, userID string, limit int64) ([]*models.TravelSchedule, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.TravelSchedule
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveOn returns schedules covering the given "YYYY-MM-DD" date for
// any of the users. Dates sort lexicographically, so range predicates
// work directly on the strings.
func (r *ScheduleRepo) ActiveOn(ctx context.Context, date string, userIDs []string) ([]*models.TravelSchedule, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{
		"user_id":    bson.M{"$in": userIDs},
		"start_date": bson.M{"$lte": date},
		"end_date":   bson.M{"$gte": date},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.TravelSchedule
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StartingWithin returns other users' located schedules beginning in
// the [from, to] date window.
func (r *ScheduleRepo) StartingWithin(ctx context.Context, excludeUserID, from, to string, limit int64) ([]*models.TravelSchedule, error) {
	cur, err := r.col.Find(ctx, bson.M{
		"user_id":    bson.M{"$ne": excludeUserID},
		"start_date": bson.M{"$gte": from, "$lte": to},
		"latitude":   bson.M{"$exists": true, "$ne": nil},
	}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.TravelSchedule
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
