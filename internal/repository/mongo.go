package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	ColUsers         = "users"
	ColSessions      = "user_sessions"
	ColMessages      = "messages"
	ColNotifications = "notifications"
	ColMatches       = "matches"
	ColMutualMatches = "mutual_matches"
	ColSchedules     = "schedules"
	ColMedia         = "media"
	ColProfileViews  = "profile_views"
)

// Connect establishes the mongo client and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client, nil
}
