package models

import "time"

const (
	NotifNewMessage  = "new_message"
	NotifNewMatch    = "new_match"
	NotifSuperLike   = "super_like"
	NotifProfileView = "profile_view"
	NotifTripOverlap = "trip_overlap"
)

type Notification struct {
	NotificationID string         `bson:"notification_id" json:"notification_id"`
	UserID         string         `bson:"user_id" json:"user_id"`
	Type           string         `bson:"type" json:"type"`
	Title          string         `bson:"title" json:"title"`
	Message        string         `bson:"message" json:"message"`
	Data           map[string]any `bson:"data" json:"data"`
	Read           bool           `bson:"read" json:"read"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
}

func NewNotification(userID, notifType, title, message string, data map[string]any) *Notification {
	if data == nil {
		data = map[string]any{}
	}
	return &Notification{
		NotificationID: NewID("notif"),
		UserID:         userID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		Data:           data,
		CreatedAt:      time.Now().UTC(),
	}
}
