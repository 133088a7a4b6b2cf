package ai

import (
	"context"

	"execassist-backend/pkg/logger"

	"go.uber.org/zap"
)

// fallbackService tries the remote provider first and degrades to the
// deterministic template provider on any error. The template never
// fails, so neither does this wrapper.
type fallbackService struct {
	primary  CompletionService
	template CompletionService
}

func NewFallbackService(primary, template CompletionService) CompletionService {
	return &fallbackService{primary: primary, template: template}
}

func (f *fallbackService) DraftFollowup(ctx context.Context, req DraftRequest) (*Draft, error) {
	draft, err := f.primary.DraftFollowup(ctx, req)
	if err == nil {
		return draft, nil
	}
	logger.L.Warn("AI drafting failed, using template", zap.Error(err))
	return f.template.DraftFollowup(ctx, req)
}

func (f *fallbackService) ClassifyMessage(ctx context.Context, subject, snippet string, categories []string) (string, error) {
	category, err := f.primary.ClassifyMessage(ctx, subject, snippet, categories)
	if err == nil {
		return category, nil
	}
	logger.L.Warn("AI classification failed, using heuristic", zap.Error(err))
	return f.template.ClassifyMessage(ctx, subject, snippet, categories)
}

func (f *fallbackService) SummarizeThread(ctx context.Context, messages []string) (string, error) {
	summary, err := f.primary.SummarizeThread(ctx, messages)
	if err == nil {
		return summary, nil
	}
	logger.L.Warn("AI summarization failed, using extractive summary", zap.Error(err))
	return f.template.SummarizeThread(ctx, messages)
}
