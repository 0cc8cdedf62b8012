package realtime

import "testing"

func TestConversationIDOrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"user_a", "user_b"},
		{"user_b", "user_a"},
		{"user_9f2c", "user_0a1b"},
		{"x", "x"},
	}
	for _, p := range pairs {
		if ConversationID(p[0], p[1]) != ConversationID(p[1], p[0]) {
			t.Fatalf("ConversationID(%q,%q) != ConversationID(%q,%q)", p[0], p[1], p[1], p[0])
		}
	}
	if got := ConversationID("user_b", "user_a"); got != "conv_user_a_user_b" {
		t.Fatalf("unexpected conversation id %q", got)
	}
}

func TestConversationIDDistinctPairs(t *testing.T) {
	seen := map[string][2]string{}
	pairs := [][2]string{
		{"user_a", "user_b"},
		{"user_a", "user_c"},
		{"user_b", "user_c"},
		{"user_aa", "user_bb"},
	}
	for _, p := range pairs {
		id := ConversationID(p[0], p[1])
		if prev, ok := seen[id]; ok {
			t.Fatalf("pairs %v and %v collided on %q", prev, p, id)
		}
		seen[id] = p
	}
}
