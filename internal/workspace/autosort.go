package workspace

import (
	"context"

	"execassist-backend/pkg/logger"

	"go.uber.org/zap"
)

// SortRule maps a category name to the keywords the heuristic
// classifier falls back on.
type SortRule struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords,omitempty"`
}

// ItemResult is the per-message outcome of a bulk operation. One item
// failing never aborts the rest; the failure is reported here instead.
type ItemResult struct {
	MessageID string `json:"message_id"`
	Category  string `json:"category,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AutoSortMessages classifies recent unread messages and applies the
// matching category label to each. Classification uses the AI service,
// which degrades to keyword heuristics on its own.
func (s *Service) AutoSortMessages(ctx context.Context, accountID string, rules []SortRule, max int) ([]ItemResult, error) {
	if max <= 0 {
		max = 25
	}
	refs, err := s.ListMessages(ctx, accountID, "is:unread in:inbox", max)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(rules))
	for _, r := range rules {
		categories = append(categories, r.Category)
	}

	cache := NewLabelCache()
	results := make([]ItemResult, 0, len(refs))

	for _, ref := range refs {
		res := ItemResult{MessageID: ref.ID}

		msg, err := s.GetMessage(ctx, accountID, ref.ID)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		category, err := s.ai.ClassifyMessage(ctx, msg.HeaderValue("Subject"), msg.Snippet, categories)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		res.Category = category

		labelID, err := cache.EnsureLabel(ctx, s, accountID, category)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		if err := s.ModifyMessageLabels(ctx, accountID, ref.ID, []string{labelID}, nil); err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	logger.L.Info("auto-sort finished",
		zap.String("account_id", accountID),
		zap.Int("total", len(results)),
		zap.Int("failed", failed))
	return results, nil
}
