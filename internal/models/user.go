package models

import "time"

type Icebreaker struct {
	Prompt string `bson:"prompt" json:"prompt"`
	Answer string `bson:"answer" json:"answer"`
}

type SocialLinks struct {
	Twitter   string `bson:"twitter" json:"twitter"`
	Instagram string `bson:"instagram" json:"instagram"`
	Facebook  string `bson:"facebook" json:"facebook"`
	TikTok    string `bson:"tiktok" json:"tiktok"`
	Snapchat  string `bson:"snapchat" json:"snapchat"`
}

// NotificationSettings controls which events produce notifications for
// a user. DefaultNotificationSettings gives the values assumed when a
// user has never saved preferences.
type NotificationSettings struct {
	NewMatches    bool `bson:"new_matches" json:"new_matches"`
	NewMessages   bool `bson:"new_messages" json:"new_messages"`
	SuperLikes    bool `bson:"super_likes" json:"super_likes"`
	LikesReceived bool `bson:"likes_received" json:"likes_received"`
	ProfileViews  bool `bson:"profile_views" json:"profile_views"`
	Marketing     bool `bson:"marketing" json:"marketing"`
	Sound         bool `bson:"sound" json:"sound"`
	Vibration     bool `bson:"vibration" json:"vibration"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		NewMatches:    true,
		NewMessages:   true,
		SuperLikes:    true,
		LikesReceived: true,
		Sound:         true,
		Vibration:     true,
	}
}

type User struct {
	UserID               string                `bson:"user_id" json:"user_id"`
	Email                string                `bson:"email" json:"email"`
	Name                 string                `bson:"name" json:"name"`
	PasswordHash         string                `bson:"password_hash,omitempty" json:"-"`
	Picture              string                `bson:"picture,omitempty" json:"picture,omitempty"`
	Bio                  string                `bson:"bio,omitempty" json:"bio,omitempty"`
	Profession           string                `bson:"profession,omitempty" json:"profession,omitempty"`
	Location             string                `bson:"location,omitempty" json:"location,omitempty"`
	Latitude             *float64              `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude            *float64              `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Age                  int                   `bson:"age,omitempty" json:"age,omitempty"`
	Interests            []string              `bson:"interests" json:"interests"`
	Photos               []string              `bson:"photos" json:"photos"`
	ProfilePhoto         string                `bson:"profile_photo,omitempty" json:"profile_photo,omitempty"`
	OnboardingComplete   bool                  `bson:"onboarding_complete" json:"onboarding_complete"`
	Verified             bool                  `bson:"verified" json:"verified"`
	VerificationType     string                `bson:"verification_type,omitempty" json:"verification_type,omitempty"`
	Icebreakers          []Icebreaker          `bson:"icebreakers" json:"icebreakers"`
	SocialLinks          *SocialLinks          `bson:"social_links,omitempty" json:"social_links,omitempty"`
	NotificationSettings *NotificationSettings `bson:"notification_settings,omitempty" json:"notification_settings,omitempty"`
	BoostActive          bool                  `bson:"boost_active" json:"boost_active"`
	BoostExpires         *time.Time            `bson:"boost_expires,omitempty" json:"boost_expires,omitempty"`
	SuperLikesRemaining  int                   `bson:"super_likes_remaining" json:"super_likes_remaining"`
	Online               bool                  `bson:"online" json:"online"`
	LastActive           *time.Time            `bson:"last_active,omitempty" json:"last_active,omitempty"`
	CreatedAt            time.Time             `bson:"created_at" json:"created_at"`

	// Computed for API responses, never persisted.
	Distance    *float64 `bson:"-" json:"distance,omitempty"`
	HotTraveler bool     `bson:"-" json:"is_hot_traveler"`
	TravelingTo string   `bson:"-" json:"traveling_to,omitempty"`
	TripTitle   string   `bson:"-" json:"trip_title,omitempty"`
	TripEnds    string   `bson:"-" json:"trip_ends,omitempty"`
	IsSuperLike bool     `bson:"-" json:"is_super_like,omitempty"`
	LastMessage *Message `bson:"-" json:"last_message,omitempty"`
}

func NewUser(email, name string) *User {
	return &User{
		UserID:              NewID("user"),
		Email:               email,
		Name:                name,
		Interests:           []string{},
		Photos:              []string{},
		Icebreakers:         []Icebreaker{},
		SuperLikesRemaining: 3,
		Online:              true,
		CreatedAt:           time.Now().UTC(),
	}
}

type Session struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	SessionToken string    `bson:"session_token" json:"session_token"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
