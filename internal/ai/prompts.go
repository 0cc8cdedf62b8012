package ai

import (
	"fmt"
	"strings"

	"github.com/aliasadad-hash/Journeyman/internal/models"
)

const bioSystemPrompt = `You are an expert dating profile writer for Journeyman, a premium dating app for travelers.
Write compelling, authentic bios that highlight the unique lifestyle of people who travel for work or adventure.
Keep bios between 100-200 characters. Be creative but genuine. Avoid cliches.
The bio should make the reader want to swipe right and start a conversation.`

const iceBreakerSystemPrompt = `You are a witty conversation expert for Journeyman, a dating app for travelers.
Generate creative, personalized ice breakers that reference shared interests or unique profile details.
Messages should be friendly, not too forward, and invite a response.
Keep each message under 100 characters. Be playful but respectful.`

const compatibilitySystemPrompt = `You are a compatibility analyst for Journeyman, a dating app for travelers.
Analyze two profiles and provide a compatibility score with reasoning.
Consider: shared interests, lifestyle compatibility (both travelers), profession compatibility,
location/travel patterns, and potential conversation topics.
Be realistic but optimistic. Travelers often connect well due to shared lifestyle understanding.`

const firstMessageSystemPrompt = `You are a dating conversation expert for Journeyman, a premium dating app for travelers.
Generate the PERFECT first message for a new match. The message should:
- Feel personal and reference specific details from their profile
- Be warm and inviting, not creepy or generic
- Be short (under 100 characters) but memorable
- Make them want to respond immediately
- Subtly acknowledge the shared traveler lifestyle
You'll also provide 2-3 follow-up talking points if they respond.`

func bioPrompt(u *models.User, style string) string {
	interests := strings.Join(u.Interests, ", ")
	if interests == "" {
		interests = "traveling, meeting new people"
	}
	profession := u.Profession
	if profession == "" {
		profession = "traveler"
	}
	age := ""
	if u.Age > 0 {
		age = fmt.Sprintf("Age: %d. ", u.Age)
	}
	return fmt.Sprintf(`Write a %s dating profile bio for:
Name: %s
Profession: %s
%sInterests: %s

The bio should feel authentic and showcase their adventurous traveler lifestyle.
Write ONLY the bio text, nothing else. No quotes around it.`, style, u.Name, profession, age, interests)
}

func iceBreakerPrompt(you, them *models.User, count int) string {
	yourInterests := strings.Join(you.Interests, ", ")
	if yourInterests == "" {
		yourInterests = "traveling"
	}
	theirInterests := strings.Join(them.Interests, ", ")
	if theirInterests == "" {
		theirInterests = "traveling"
	}
	bio := them.Bio
	if len(bio) > 100 {
		bio = bio[:100]
	}
	if bio == "" {
		bio = "Not provided"
	}
	return fmt.Sprintf(`Generate %d unique ice breaker messages to start a conversation with someone.

Their profile:
- Name: %s
- Profession: %s
- Interests: %s
- Bio: %s

Your interests: %s

Write %d different opening messages. Number them 1-%d.
Each should be short, engaging, and reference something from their profile or shared interests.
Do NOT use generic openers like "Hey" or "How are you".`,
		count, firstName(them.Name), them.Profession, theirInterests, bio, yourInterests, count, count)
}

func profileBlock(u *models.User, label string) string {
	interests := strings.Join(u.Interests, ", ")
	if interests == "" {
		interests = "Not specified"
	}
	bio := u.Bio
	if len(bio) > 150 {
		bio = bio[:150]
	}
	if bio == "" {
		bio = "Not provided"
	}
	return fmt.Sprintf(`%s:
- Profession: %s
- Interests: %s
- Bio: %s
- Location: %s
- Age: %d`, label, u.Profession, interests, bio, u.Location, u.Age)
}

func compatibilityPrompt(a, b *models.User) string {
	return fmt.Sprintf(`Analyze compatibility between these two users:

%s

%s

Provide your analysis in this EXACT format:
SCORE: [number 0-100]
REASONS:
- [reason 1]
- [reason 2]
- [reason 3]
CONVERSATION_TOPICS:
- [topic 1]
- [topic 2]`, profileBlock(a, "User 1"), profileBlock(b, "User 2"))
}

func firstMessagePrompt(you, them *models.User, tone string, shared []string) string {
	sharedStr := strings.Join(shared, ", ")
	if sharedStr == "" {
		sharedStr = "traveling lifestyle"
	}
	yourInterests := strings.Join(you.Interests, ", ")
	if yourInterests == "" {
		yourInterests = "traveling"
	}
	theirInterests := strings.Join(them.Interests, ", ")
	if theirInterests == "" {
		theirInterests = "traveling"
	}
	bio := them.Bio
	if len(bio) > 150 {
		bio = bio[:150]
	}
	return fmt.Sprintf(`Generate a %s first message for a new match on a dating app.

YOUR PROFILE:
- Name: %s
- Profession: %s
- Interests: %s

THEIR PROFILE:
- Name: %s
- Profession: %s
- Location: %s
- Bio: %s
- Interests: %s

SHARED INTERESTS: %s

Generate your response in this EXACT format:
MESSAGE: [your opening message - under 100 chars, reference something specific]
TALKING_POINTS:
- [follow-up topic 1 if they respond]
- [follow-up topic 2 if they respond]
CONFIDENCE: [1-10 how likely they'll respond based on compatibility]
WHY_IT_WORKS: [brief explanation of why this message is effective]`,
		tone, firstName(you.Name), you.Profession, yourInterests,
		firstName(them.Name), them.Profession, them.Location, bio, theirInterests, sharedStr)
}

func firstName(full string) string {
	if full == "" {
		return "them"
	}
	return strings.Fields(full)[0]
}
