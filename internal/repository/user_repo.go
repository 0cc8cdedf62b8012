package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/models"
)

type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	col := db.Collection(ColUsers)
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, _ = col.Indexes().CreateMany(context.Background(), idx)
	return &UserRepo{col: col}
}

func (r *UserRepo) Insert(ctx context.Context, u *models.User) error {
	_, err := r.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrConflict
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email, "password_hash": passwordHash}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindManyByIDs(ctx context.Context, userIDs []string) ([]*models.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Set applies a partial field update to one user.
func (r *UserRepo) Set(ctx context.Context, userID string, fields bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *UserRepo) IncSuperLikes(ctx context.Context, userID string, delta int) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID},
		bson.M{"$inc": bson.M{"super_likes_remaining": delta}})
	return err
}

func (r *UserRepo) PushPhoto(ctx context.Context, userID, url string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$push": bson.M{"photos": url}})
	return err
}

// PullPhoto removes url from the gallery, reporting whether anything
// matched.
func (r *UserRepo) PullPhoto(ctx context.Context, userID, url string) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$pull": bson.M{"photos": url}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// DiscoverFilter narrows the discovery feed.
type DiscoverFilter struct {
	ExcludeIDs  []string // current user plus everyone already acted on
	Professions []string
	MinAge      int
	MaxAge      int
	Skip        int64
	Limit       int64
}

// Discover returns onboarded candidates, boosted profiles first, then
// most recently active.
func (r *UserRepo) Discover(ctx context.Context, f DiscoverFilter) ([]*models.User, error) {
	match := bson.M{
		"user_id":             bson.M{"$nin": f.ExcludeIDs},
		"onboarding_complete": true,
	}
	if len(f.Professions) > 0 {
		match["profession"] = bson.M{"$in": f.Professions}
	}
	age := bson.M{}
	if f.MinAge > 0 {
		age["$gte"] = f.MinAge
	}
	if f.MaxAge > 0 {
		age["$lte"] = f.MaxAge
	}
	if len(age) > 0 {
		match["age"] = age
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"priority": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$boost_active", true}}, 1, 0}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "priority", Value: -1}, {Key: "last_active", Value: -1}}}},
		{{Key: "$skip", Value: f.Skip}},
		{{Key: "$limit", Value: f.Limit}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("discover aggregate: %w", err)
	}
	defer cur.Close(ctx)
	var out []*models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindWithLocation returns onboarded users with coordinates set,
// excluding one user. Used by the nearby map view; radius filtering
// happens in the caller.
func (r *UserRepo) FindWithLocation(ctx context.Context, excludeUserID string, limit int64) ([]*models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{
		"user_id":             bson.M{"$ne": excludeUserID},
		"onboarding_complete": true,
		"latitude":            bson.M{"$exists": true, "$ne": nil},
	}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetPresence mirrors a presence transition onto the user document.
// Implements realtime.PresenceMirror; callers treat failures as
// non-fatal.
func (r *UserRepo) SetPresence(ctx context.Context, userID string, online bool, at time.Time) error {
	fields := bson.M{"online": online}
	if !online {
		fields["last_active"] = at
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": fields})
	return err
}

// TouchActivity bumps last_active for an authenticated request.
func (r *UserRepo) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"last_active": at, "online": true}})
	return err
}
