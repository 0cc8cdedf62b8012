package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

func testUser(name string, interests ...string) *models.User {
	u := models.NewUser(strings.ToLower(name)+"@example.com", name)
	u.Interests = interests
	u.Profession = "photographer"
	u.Age = 31
	return u
}

func TestGenerateBioStripsQuotes(t *testing.T) {
	gen := &MockGenerator{Response: `"Chasing sunsets and good coffee across five continents."`}
	svc := NewService(gen)

	bio, err := svc.GenerateBio(context.Background(), testUser("Alex Doe", "hiking"), "confident")
	if err != nil {
		t.Fatalf("generate bio: %v", err)
	}
	if strings.Contains(bio, `"`) {
		t.Fatalf("quotes not stripped: %q", bio)
	}
	if !strings.Contains(gen.LastPrompt, "confident") {
		t.Fatal("style not in prompt")
	}
}

func TestGenerateBioRejectsUnknownStyle(t *testing.T) {
	svc := NewService(&MockGenerator{Response: "x"})
	if _, err := svc.GenerateBio(context.Background(), testUser("Alex Doe"), "aggressive"); err == nil {
		t.Fatal("expected error for unknown style")
	}
}

func TestIceBreakersParsesNumberedLines(t *testing.T) {
	gen := &MockGenerator{Response: `Here are some openers:
1. Saw you love hiking, what's the best summit view you've had?
2. "A photographer who travels? What's in the camera bag?"
3. Coffee in Lisbon or tea in Kyoto?
4. Extra one that should be cut.`}
	svc := NewService(gen)

	got, err := svc.IceBreakers(context.Background(), testUser("A", "hiking"), testUser("B", "hiking"), 3)
	if err != nil {
		t.Fatalf("ice breakers: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 openers, got %d: %v", len(got), got)
	}
	if strings.HasPrefix(got[0], "1") {
		t.Fatalf("number prefix not stripped: %q", got[0])
	}
	if strings.Contains(got[1], `"`) {
		t.Fatalf("quotes not stripped: %q", got[1])
	}
}

func TestCompatibilityParsesStructuredResponse(t *testing.T) {
	gen := &MockGenerator{Response: `SCORE: 88
REASONS:
- Both love hiking
- Compatible professions
CONVERSATION_TOPICS:
- Favorite trails
- Camera gear`}
	svc := NewService(gen)

	got, err := svc.Compatibility(context.Background(), testUser("A", "hiking"), testUser("B", "hiking"))
	if err != nil {
		t.Fatalf("compatibility: %v", err)
	}
	if got.Score != 88 {
		t.Fatalf("score = %d, want 88", got.Score)
	}
	if len(got.Reasons) != 2 || len(got.ConversationTopics) != 2 {
		t.Fatalf("unexpected sections: %+v", got)
	}
}

func TestCompatibilityClampsAndDefaultsScore(t *testing.T) {
	svc := NewService(&MockGenerator{Response: "SCORE: 250\nREASONS:\n- something"})
	got, err := svc.Compatibility(context.Background(), testUser("A"), testUser("B"))
	if err != nil {
		t.Fatalf("compatibility: %v", err)
	}
	if got.Score != 100 {
		t.Fatalf("score should clamp to 100, got %d", got.Score)
	}

	svc = NewService(&MockGenerator{Response: "no structure at all"})
	got, err = svc.Compatibility(context.Background(), testUser("A"), testUser("B"))
	if err != nil {
		t.Fatalf("compatibility: %v", err)
	}
	if got.Score != 75 {
		t.Fatalf("unparseable response should default to 75, got %d", got.Score)
	}
}

func TestFirstMessageIncludesSharedInterests(t *testing.T) {
	gen := &MockGenerator{Response: `MESSAGE: "Trail runner meets trail runner, what are the odds?"
TALKING_POINTS:
- Favorite race distances
- Next travel destination
CONFIDENCE: 9
WHY_IT_WORKS: References a specific shared hobby.`}
	svc := NewService(gen)

	you := testUser("Alex Doe", "Running", "coffee")
	them := testUser("Sam Lee", "running", "books")
	got, err := svc.FirstMessage(context.Background(), you, them, "witty")
	if err != nil {
		t.Fatalf("first message: %v", err)
	}
	if got.Message == "" || strings.Contains(got.Message, `"`) {
		t.Fatalf("bad message: %q", got.Message)
	}
	if got.ConfidenceScore != 9 {
		t.Fatalf("confidence = %d, want 9", got.ConfidenceScore)
	}
	if got.TheirName != "Sam" {
		t.Fatalf("their name = %q, want Sam", got.TheirName)
	}
	if len(got.SharedInterests) != 1 || got.SharedInterests[0] != "running" {
		t.Fatalf("shared interests = %v", got.SharedInterests)
	}
}

func TestModelFailureSurfacesUpstreamError(t *testing.T) {
	svc := NewService(&MockGenerator{Err: errors.New("quota exceeded")})
	if _, err := svc.GenerateBio(context.Background(), testUser("A"), "playful"); err == nil {
		t.Fatal("expected upstream error")
	}
}
