package discovery

import (
	"context"
	"sort"
	"time"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

// ScheduleSource yields the travel schedules active on a date for a
// set of users.
type ScheduleSource interface {
	ActiveOn(ctx context.Context, date string, userIDs []string) ([]*models.TravelSchedule, error)
}

// TripInfo describes why a user counts as a hot traveler.
type TripInfo struct {
	TravelingTo string
	TripTitle   string
	TripEnds    string
}

// HotTravelers resolves hot-traveler status for a batch of users in a
// single schedule query. A user is a hot traveler while today falls
// inside one of their travel schedules; the earliest matching schedule
// wins when several overlap.
func HotTravelers(ctx context.Context, schedules ScheduleSource, userIDs []string) (map[string]TripInfo, error) {
	if len(userIDs) == 0 {
		return map[string]TripInfo{}, nil
	}
	today := time.Now().UTC().Format("2006-01-02")
	active, err := schedules.ActiveOn(ctx, today, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]TripInfo, len(active))
	for _, s := range active {
		if _, seen := out[s.UserID]; seen {
			continue
		}
		out[s.UserID] = TripInfo{
			TravelingTo: s.Destination,
			TripTitle:   s.Title,
			TripEnds:    s.EndDate,
		}
	}
	return out, nil
}

// Annotate stamps hot-traveler fields onto the users in place.
func Annotate(users []*models.User, trips map[string]TripInfo) {
	for _, u := range users {
		if trip, ok := trips[u.UserID]; ok {
			u.HotTraveler = true
			u.TravelingTo = trip.TravelingTo
			u.TripTitle = trip.TripTitle
			u.TripEnds = trip.TripEnds
		}
	}
}

// SortHotFirst keeps the feed order stable but floats hot travelers to
// the top.
func SortHotFirst(users []*models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].HotTraveler && !users[j].HotTraveler
	})
}

// SortHotFirstByDistance orders the map view: hot travelers first,
// then nearest.
func SortHotFirstByDistance(users []*models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].HotTraveler != users[j].HotTraveler {
			return users[i].HotTraveler
		}
		return dist(users[i]) < dist(users[j])
	})
}

func dist(u *models.User) float64 {
	if u.Distance == nil {
		return 999
	}
	return *u.Distance
}
