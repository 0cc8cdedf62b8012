package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	maker := NewTokenMaker("test-secret", time.Hour)
	token, expires, err := maker.Issue("user_abc", "sess_123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) < 59*time.Minute {
		t.Fatalf("expiry too soon: %v", expires)
	}
	userID, jti, err := maker.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user_abc" || jti != "sess_123" {
		t.Fatalf("claims mismatch: %s %s", userID, jti)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenMaker("secret-a", time.Hour).Issue("user_abc", "sess_123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := NewTokenMaker("secret-b", time.Hour).Verify(token); err == nil {
		t.Fatal("expected verification failure for wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	maker := NewTokenMaker("test-secret", -time.Minute)
	token, _, err := maker.Issue("user_abc", "sess_123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := maker.Verify(token); err == nil {
		t.Fatal("expected verification failure for expired token")
	}
}

func TestHashPasswordIsDeterministic(t *testing.T) {
	a := HashPassword("hunter2")
	b := HashPassword("hunter2")
	if a != b {
		t.Fatal("same input must hash identically")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256 digest, got %d chars", len(a))
	}
	if HashPassword("hunter3") == a {
		t.Fatal("different inputs must not collide")
	}
}
