package workspace

import (
	"context"
	"time"

	"execassist-backend/pkg/logger"

	"go.uber.org/zap"
)

// BriefingItem is one unread message in the daily briefing.
type BriefingItem struct {
	MessageID string `json:"message_id"`
	From      string `json:"from"`
	Subject   string `json:"subject"`
	Snippet   string `json:"snippet"`
}

// Briefing is the morning digest: a summary of unread mail plus the
// day's calendar.
type Briefing struct {
	Summary  string         `json:"summary"`
	Messages []BriefingItem `json:"messages"`
	Events   []Event        `json:"events"`
}

// BuildBriefing assembles the digest. Calendar failure degrades to a
// mail-only briefing; individual unfetchable messages are skipped.
func (s *Service) BuildBriefing(ctx context.Context, accountID string, now time.Time) (*Briefing, error) {
	refs, err := s.ListMessages(ctx, accountID, "is:unread newer_than:1d", 15)
	if err != nil {
		return nil, err
	}
	messages := s.GetMessages(ctx, accountID, refs)

	items := make([]BriefingItem, 0, len(messages))
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		items = append(items, BriefingItem{
			MessageID: m.ID,
			From:      m.HeaderValue("From"),
			Subject:   m.HeaderValue("Subject"),
			Snippet:   m.Snippet,
		})
		texts = append(texts, m.HeaderValue("Subject")+": "+m.Snippet)
	}

	summary, err := s.ai.SummarizeThread(ctx, texts)
	if err != nil {
		// The fallback provider never errors, so this only happens when
		// no provider is wired at all.
		summary = ""
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	events, err := s.ListEvents(ctx, accountID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		logger.L.Warn("briefing calendar fetch failed", zap.Error(err))
		events = nil
	}

	return &Briefing{Summary: summary, Messages: items, Events: events}, nil
}
