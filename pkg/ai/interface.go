package ai

import "context"

// DraftRequest carries everything the drafter knows about a follow-up.
type DraftRequest struct {
	CounterpartName  string `json:"counterpart_name"`
	CounterpartEmail string `json:"counterpart_email"`
	Subject          string `json:"subject"`
	Summary          string `json:"summary"`
	Tone             string `json:"tone"` // friendly, formal, direct
}

// Draft is a generated follow-up message.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// CompletionService is the interface for AI drafting, classification and
// summarization. Implement this interface to add new providers.
// The factory guarantees a deterministic template provider always sits
// behind the remote one, so a missing or failing AI credential degrades
// quality but never blocks functionality.
type CompletionService interface {
	DraftFollowup(ctx context.Context, req DraftRequest) (*Draft, error)
	ClassifyMessage(ctx context.Context, subject, snippet string, categories []string) (string, error)
	SummarizeThread(ctx context.Context, messages []string) (string, error)
}
