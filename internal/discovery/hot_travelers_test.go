package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

type memSchedules struct {
	schedules []*models.TravelSchedule
	calls     int
}

func (m *memSchedules) ActiveOn(_ context.Context, date string, userIDs []string) ([]*models.TravelSchedule, error) {
	m.calls++
	ids := map[string]bool{}
	for _, id := range userIDs {
		ids[id] = true
	}
	var out []*models.TravelSchedule
	for _, s := range m.schedules {
		if ids[s.UserID] && s.StartDate <= date && s.EndDate >= date {
			out = append(out, s)
		}
	}
	return out, nil
}

func sched(userID, dest, title string, startOffset, endOffset int) *models.TravelSchedule {
	day := 24 * time.Hour
	return &models.TravelSchedule{
		ScheduleID:  models.NewID("sched"),
		UserID:      userID,
		Title:       title,
		Destination: dest,
		StartDate:   time.Now().UTC().Add(time.Duration(startOffset) * day).Format("2006-01-02"),
		EndDate:     time.Now().UTC().Add(time.Duration(endOffset) * day).Format("2006-01-02"),
	}
}

func TestHotTravelersBatchesOneQuery(t *testing.T) {
	src := &memSchedules{schedules: []*models.TravelSchedule{
		sched("user_a", "Lisbon", "Work trip", -2, 3),
		sched("user_b", "Tokyo", "Vacation", 5, 10),
		sched("user_c", "Bali", "Surf trip", -1, 1),
	}}

	trips, err := HotTravelers(context.Background(), src, []string{"user_a", "user_b", "user_c", "user_d"})
	if err != nil {
		t.Fatalf("hot travelers: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected a single schedule query, got %d", src.calls)
	}
	if len(trips) != 2 {
		t.Fatalf("expected 2 hot travelers, got %d: %v", len(trips), trips)
	}
	if trips["user_a"].TravelingTo != "Lisbon" {
		t.Fatalf("user_a trip = %+v", trips["user_a"])
	}
	if _, ok := trips["user_b"]; ok {
		t.Fatal("future trip must not mark user_b hot")
	}
}

func TestHotTravelersFirstScheduleWins(t *testing.T) {
	src := &memSchedules{schedules: []*models.TravelSchedule{
		sched("user_a", "Lisbon", "First", -2, 3),
		sched("user_a", "Porto", "Second", -1, 4),
	}}

	trips, err := HotTravelers(context.Background(), src, []string{"user_a"})
	if err != nil {
		t.Fatalf("hot travelers: %v", err)
	}
	if trips["user_a"].TravelingTo != "Lisbon" {
		t.Fatalf("expected first overlapping schedule, got %+v", trips["user_a"])
	}
}

func TestAnnotateAndSortHotFirst(t *testing.T) {
	a := models.NewUser("a@example.com", "A")
	b := models.NewUser("b@example.com", "B")
	c := models.NewUser("c@example.com", "C")
	users := []*models.User{a, b, c}

	Annotate(users, map[string]TripInfo{
		c.UserID: {TravelingTo: "Bali", TripTitle: "Surf trip", TripEnds: "2026-09-10"},
	})
	if !c.HotTraveler || c.TravelingTo != "Bali" {
		t.Fatalf("annotation missing: %+v", c)
	}
	if a.HotTraveler || b.HotTraveler {
		t.Fatal("users without active trips must stay cold")
	}

	SortHotFirst(users)
	if users[0] != c {
		t.Fatal("hot traveler should sort first")
	}
	if users[1] != a || users[2] != b {
		t.Fatal("relative order of cold users must be stable")
	}
}

func TestSortHotFirstByDistance(t *testing.T) {
	near := models.NewUser("n@example.com", "Near")
	far := models.NewUser("f@example.com", "Far")
	hot := models.NewUser("h@example.com", "Hot")
	d1, d2 := 5.0, 40.0
	near.Distance = &d1
	far.Distance = &d2
	hot.HotTraveler = true

	users := []*models.User{far, near, hot}
	SortHotFirstByDistance(users)
	if users[0] != hot || users[1] != near || users[2] != far {
		t.Fatalf("unexpected order: %v %v %v", users[0].Name, users[1].Name, users[2].Name)
	}
}
