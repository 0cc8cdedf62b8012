package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

var likeActions = bson.A{models.ActionLike, models.ActionSuperLike}

type MatchRepo struct {
	col    *mongo.Collection
	mutual *mongo.Collection
}

func NewMatchRepo(db *mongo.Database) *MatchRepo {
	col := db.Collection(ColMatches)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "target_user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &MatchRepo{col: col, mutual: db.Collection(ColMutualMatches)}
}

func (r *MatchRepo) Insert(ctx context.Context, m *models.Match) error {
	_, err := r.col.InsertOne(ctx, m)
	return err
}

// FindAction returns the recorded swipe from userID on targetID, nil
// when there is none.
func (r *MatchRepo) FindAction(ctx context.Context, userID, targetID string) (*models.Match, error) {
	var m models.Match
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "target_user_id": targetID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// HasLike reports whether userID has liked or super-liked targetID.
func (r *MatchRepo) HasLike(ctx context.Context, userID, targetID string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{
		"user_id":        userID,
		"target_user_id": targetID,
		"action":         bson.M{"$in": likeActions},
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AreMatched reports whether both users liked each other.
func (r *MatchRepo) AreMatched(ctx context.Context, userA, userB string) (bool, error) {
	mine, err := r.HasLike(ctx, userA, userB)
	if err != nil || !mine {
		return false, err
	}
	return r.HasLike(ctx, userB, userA)
}

// ActedTargets returns ids the user already swiped on, newest first.
func (r *MatchRepo) ActedTargets(ctx context.Context, userID string, limit int64) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit).
			SetProjection(bson.M{"target_user_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.Match
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.TargetUserID)
	}
	return out, nil
}

// LikedTargets returns ids the user liked or super-liked.
func (r *MatchRepo) LikedTargets(ctx context.Context, userID string) ([]string, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID, "action": bson.M{"$in": likeActions}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.Match
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.TargetUserID)
	}
	return out, nil
}

// LikesReceived returns every like/super-like aimed at the user.
func (r *MatchRepo) LikesReceived(ctx context.Context, userID string) ([]*models.Match, error) {
	cur, err := r.col.Find(ctx, bson.M{
		"target_user_id": userID,
		"action":         bson.M{"$in": likeActions},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Match
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LikesFromAny returns likes aimed back at the user from the given ids.
func (r *MatchRepo) LikesFromAny(ctx context.Context, fromIDs []string, targetID string) ([]*models.Match, error) {
	if len(fromIDs) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{
		"user_id":        bson.M{"$in": fromIDs},
		"target_user_id": targetID,
		"action":         bson.M{"$in": likeActions},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Match
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordMutual writes the mutual-match document for a sorted pair.
func (r *MatchRepo) RecordMutual(ctx context.Context, userA, userB string) error {
	users := []string{userA, userB}
	sort.Strings(users)
	_, err := r.mutual.InsertOne(ctx, models.MutualMatch{
		MatchID:   models.NewID("mm"),
		Users:     users,
		CreatedAt: time.Now().UTC(),
	})
	return err
}

// MutualPartners returns the ids matched with userID.
func (r *MatchRepo) MutualPartners(ctx context.Context, userID string) ([]string, error) {
	cur, err := r.mutual.Find(ctx, bson.M{"users": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []models.MutualMatch
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	var out []string
	for _, mm := range rows {
		for _, u := range mm.Users {
			if u != userID {
				out = append(out, u)
			}
		}
	}
	return out, nil
}
