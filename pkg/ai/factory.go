package ai

import (
	"execassist-backend/pkg/config"
	"execassist-backend/pkg/logger"
)

// NewCompletionService is the factory. Without an API key it returns the
// deterministic template provider directly; with one, the remote
// provider wrapped so any failure degrades to the template.
func NewCompletionService(cfg *config.Config) CompletionService {
	template := NewTemplateService()
	if cfg.OpenAIAPIKey == "" {
		logger.L.Info("no AI credential configured, using template provider")
		return template
	}
	return NewFallbackService(NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), template)
}
