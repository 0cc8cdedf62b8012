package models

import "time"

const (
	ActionLike      = "like"
	ActionSuperLike = "super_like"
	ActionPass      = "pass"
)

// Match records a single swipe action by one user on another.
type Match struct {
	MatchID      string    `bson:"match_id" json:"match_id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	TargetUserID string    `bson:"target_user_id" json:"target_user_id"`
	Action       string    `bson:"action" json:"action"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

func NewMatch(userID, targetUserID, action string) *Match {
	return &Match{
		MatchID:      NewID("match"),
		UserID:       userID,
		TargetUserID: targetUserID,
		Action:       action,
		CreatedAt:    time.Now().UTC(),
	}
}

// MutualMatch records that both sides liked each other. Users holds
// the sorted pair.
type MutualMatch struct {
	MatchID   string    `bson:"match_id" json:"match_id"`
	Users     []string  `bson:"users" json:"users"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ProfileView records one user viewing another's profile.
type ProfileView struct {
	ViewID    string    `bson:"view_id" json:"view_id"`
	ViewerID  string    `bson:"viewer_id" json:"viewer_id"`
	ViewedID  string    `bson:"viewed_id" json:"viewed_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
