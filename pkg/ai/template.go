package ai

import (
	"context"
	"fmt"
	"strings"
)

// templateService is the deterministic fallback provider. It never does
// I/O and never fails, which makes it the floor every AI-dependent code
// path can stand on.
type templateService struct{}

func NewTemplateService() CompletionService {
	return &templateService{}
}

var followupTemplates = map[string]string{
	"friendly": "Hi %s,\n\nJust checking in on my earlier note about \"%s\". %s\n\nWould love to hear your thoughts when you get a chance.\n\nBest,",
	"formal":   "Dear %s,\n\nI am following up regarding \"%s\". %s\n\nI would appreciate an update at your earliest convenience.\n\nKind regards,",
	"direct":   "Hi %s,\n\nFollowing up on \"%s\". %s\n\nCould you reply by end of week?\n\nThanks,",
}

func (t *templateService) DraftFollowup(_ context.Context, req DraftRequest) (*Draft, error) {
	tone := req.Tone
	if _, ok := followupTemplates[tone]; !ok {
		tone = "friendly"
	}

	name := req.CounterpartName
	if name == "" {
		name = req.CounterpartEmail
	}
	reminder := ""
	if req.Summary != "" {
		reminder = "As a reminder: " + strings.TrimSpace(req.Summary)
	}

	return &Draft{
		Subject: "Re: " + req.Subject,
		Body:    fmt.Sprintf(followupTemplates[tone], name, req.Subject, reminder),
	}, nil
}

// ClassifyMessage scores each category by keyword hits in the subject
// and snippet. Subject hits count double. Ties break on category order.
func (t *templateService) ClassifyMessage(_ context.Context, subject, snippet string, categories []string) (string, error) {
	if len(categories) == 0 {
		return "", fmt.Errorf("no categories given")
	}

	subj := strings.ToLower(subject)
	body := strings.ToLower(snippet)

	best := categories[0]
	bestScore := 0
	for _, c := range categories {
		score := 0
		for _, word := range append([]string{c}, categoryKeywords[strings.ToLower(c)]...) {
			w := strings.ToLower(word)
			score += 2 * strings.Count(subj, w)
			score += strings.Count(body, w)
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, nil
}

var categoryKeywords = map[string][]string{
	"meetings":   {"meeting", "calendar", "invite", "schedule", "call", "zoom"},
	"finance":    {"invoice", "payment", "receipt", "budget", "expense"},
	"travel":     {"flight", "hotel", "itinerary", "booking", "trip"},
	"newsletter": {"unsubscribe", "digest", "weekly", "newsletter"},
	"urgent":     {"urgent", "asap", "deadline", "important", "reminder"},
}

func (t *templateService) SummarizeThread(_ context.Context, messages []string) (string, error) {
	if len(messages) == 0 {
		return "No messages in thread.", nil
	}

	var parts []string
	limit := 3
	if len(messages) < limit {
		limit = len(messages)
	}
	for _, m := range messages[:limit] {
		parts = append(parts, firstSentence(m))
	}
	return fmt.Sprintf("Thread with %d message(s). %s", len(messages), strings.Join(parts, " ")), nil
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, ".!?\n"); idx > 0 {
		s = s[:idx+1]
	}
	if len(s) > 140 {
		s = s[:140] + "..."
	}
	return strings.TrimSuffix(s, "\n")
}
