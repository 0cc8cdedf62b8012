package models

import "time"

// TravelSchedule is one planned trip. Dates are "YYYY-MM-DD" strings,
// matching how clients submit and query them.
type TravelSchedule struct {
	ScheduleID    string    `bson:"schedule_id" json:"schedule_id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	Title         string    `bson:"title" json:"title"`
	Destination   string    `bson:"destination" json:"destination"`
	Latitude      *float64  `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     *float64  `bson:"longitude,omitempty" json:"longitude,omitempty"`
	StartDate     string    `bson:"start_date" json:"start_date"`
	EndDate       string    `bson:"end_date" json:"end_date"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	LookingToMeet bool      `bson:"looking_to_meet" json:"looking_to_meet"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`

	// Computed for API responses.
	Distance *float64 `bson:"-" json:"distance,omitempty"`
	User     *User    `bson:"-" json:"user,omitempty"`
}

func NewTravelSchedule(userID string) *TravelSchedule {
	return &TravelSchedule{
		ScheduleID:    NewID("sched"),
		UserID:        userID,
		LookingToMeet: true,
		CreatedAt:     time.Now().UTC(),
	}
}

// Media is a stored upload record for chat and profile media.
type Media struct {
	MediaID     string    `bson:"media_id" json:"media_id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Filename    string    `bson:"filename" json:"filename"`
	MediaType   string    `bson:"media_type" json:"media_type"`
	ContentType string    `bson:"content_type" json:"content_type"`
	Size        int       `bson:"size" json:"size"`
	URL         string    `bson:"url" json:"url"`
	Thumbnail   string    `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
