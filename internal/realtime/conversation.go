package realtime

// ConversationID derives the stable conversation key for a pair of
// users. The pair is sorted first, so the result does not depend on
// who sends first.
func ConversationID(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return "conv_" + userA + "_" + userB
}
