package ai

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/models"
)

// BioStyles are the accepted bio generation styles.
var BioStyles = map[string]bool{
	"confident": true, "playful": true, "mysterious": true, "romantic": true,
}

// FirstMessageTones are the accepted first message tones.
var FirstMessageTones = map[string]bool{
	"friendly": true, "flirty": true, "witty": true, "sincere": true,
}

type Compatibility struct {
	Score              int      `json:"score"`
	Reasons            []string `json:"reasons"`
	ConversationTopics []string `json:"conversation_topics"`
}

type FirstMessage struct {
	Message         string   `json:"message"`
	TalkingPoints   []string `json:"talking_points"`
	ConfidenceScore int      `json:"confidence_score"`
	WhyItWorks      string   `json:"why_it_works"`
	TheirName       string   `json:"their_name"`
	SharedInterests []string `json:"shared_interests"`
}

// Service wraps the model behind dating-specific operations. All
// methods degrade with an upstream error when the model misbehaves,
// never a panic.
type Service struct {
	gen Generator
}

func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

func (s *Service) GenerateBio(ctx context.Context, user *models.User, style string) (string, error) {
	if !BioStyles[style] {
		return "", fmt.Errorf("%w: invalid bio style %q", apperr.ErrBadRequest, style)
	}
	out, err := s.gen.Generate(ctx, bioSystemPrompt, bioPrompt(user, style))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	return strings.Trim(strings.TrimSpace(out), `"'`), nil
}

func (s *Service) IceBreakers(ctx context.Context, you, them *models.User, count int) ([]string, error) {
	if count < 1 {
		count = 3
	}
	out, err := s.gen.Generate(ctx, iceBreakerSystemPrompt, iceBreakerPrompt(you, them, count))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	breakers := parseNumberedList(out)
	if len(breakers) > count {
		breakers = breakers[:count]
	}
	return breakers, nil
}

func (s *Service) Compatibility(ctx context.Context, a, b *models.User) (*Compatibility, error) {
	out, err := s.gen.Generate(ctx, compatibilitySystemPrompt, compatibilityPrompt(a, b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	return parseCompatibility(out), nil
}

func (s *Service) FirstMessage(ctx context.Context, you, them *models.User, tone string) (*FirstMessage, error) {
	if !FirstMessageTones[tone] {
		return nil, fmt.Errorf("%w: invalid tone %q", apperr.ErrBadRequest, tone)
	}
	shared := sharedInterests(you, them)
	out, err := s.gen.Generate(ctx, firstMessageSystemPrompt, firstMessagePrompt(you, them, tone, shared))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	msg := parseFirstMessage(out)
	msg.TheirName = firstName(them.Name)
	msg.SharedInterests = shared
	return msg, nil
}

func sharedInterests(a, b *models.User) []string {
	mine := map[string]bool{}
	for _, i := range a.Interests {
		mine[strings.ToLower(i)] = true
	}
	var shared []string
	for _, i := range b.Interests {
		if mine[strings.ToLower(i)] {
			shared = append(shared, strings.ToLower(i))
		}
	}
	return shared
}

// parseNumberedList extracts "1. text" style lines.
func parseNumberedList(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] < '0' || line[0] > '9' {
			continue
		}
		text := line
		if i := strings.Index(line, "."); i >= 0 {
			text = line[i+1:]
		} else if len(line) > 2 {
			text = line[2:]
		}
		text = strings.Trim(strings.TrimSpace(text), `"'`)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

func parseCompatibility(raw string) *Compatibility {
	result := &Compatibility{Score: 75}
	section := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SCORE:"):
			if n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "SCORE:")), 64); err == nil {
				result.Score = clamp(int(n), 0, 100)
			}
		case line == "REASONS:":
			section = "reasons"
		case line == "CONVERSATION_TOPICS:":
			section = "topics"
		case strings.HasPrefix(line, "-") && section != "":
			text := strings.TrimSpace(line[1:])
			if text == "" {
				continue
			}
			if section == "reasons" {
				result.Reasons = append(result.Reasons, text)
			} else {
				result.ConversationTopics = append(result.ConversationTopics, text)
			}
		}
	}
	return result
}

func parseFirstMessage(raw string) *FirstMessage {
	result := &FirstMessage{ConfidenceScore: 7}
	section := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "MESSAGE:"):
			result.Message = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "MESSAGE:")), `"'`)
		case line == "TALKING_POINTS:":
			section = "talking_points"
		case strings.HasPrefix(line, "CONFIDENCE:"):
			if n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:")), 64); err == nil {
				result.ConfidenceScore = clamp(int(n), 1, 10)
			}
		case strings.HasPrefix(line, "WHY_IT_WORKS:"):
			result.WhyItWorks = strings.TrimSpace(strings.TrimPrefix(line, "WHY_IT_WORKS:"))
		case strings.HasPrefix(line, "-") && section == "talking_points":
			if text := strings.TrimSpace(line[1:]); text != "" {
				result.TalkingPoints = append(result.TalkingPoints, text)
			}
		}
	}
	return result
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
