package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// openaiService implements CompletionService against an OpenAI-compatible
// chat-completions endpoint.
type openaiService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAIService(apiKey, baseURL, model string) CompletionService {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openaiService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *openaiService) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	return result.Choices[0].Message.Content, nil
}

func (s *openaiService) DraftFollowup(ctx context.Context, req DraftRequest) (*Draft, error) {
	prompt := fmt.Sprintf(`Write a short follow-up email.
Recipient: %s <%s>
Original subject: %s
Context: %s
Tone: %s

Respond with JSON only: {"subject": "...", "body": "..."}`,
		req.CounterpartName, req.CounterpartEmail, req.Subject, req.Summary, req.Tone)

	content, err := s.complete(ctx, "You are an executive assistant drafting concise follow-up emails.", prompt, 400)
	if err != nil {
		return nil, err
	}

	var draft Draft
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &draft); err != nil || draft.Body == "" {
		// Model ignored the JSON instruction; use the raw text as body.
		draft = Draft{Subject: "Re: " + req.Subject, Body: content}
	}
	return &draft, nil
}

func (s *openaiService) ClassifyMessage(ctx context.Context, subject, snippet string, categories []string) (string, error) {
	prompt := fmt.Sprintf(`Classify this email into exactly one category.
Categories: %s
Subject: %s
Body: %s

Respond with the category name only.`, strings.Join(categories, ", "), subject, snippet)

	content, err := s.complete(ctx, "You classify emails for an executive assistant.", prompt, 20)
	if err != nil {
		return "", err
	}

	answer := strings.ToLower(strings.TrimSpace(content))
	for _, c := range categories {
		if strings.EqualFold(c, answer) {
			return c, nil
		}
	}
	return "", fmt.Errorf("classifier returned unknown category %q", answer)
}

func (s *openaiService) SummarizeThread(ctx context.Context, messages []string) (string, error) {
	prompt := "Summarize this email thread in at most three sentences:\n\n" + strings.Join(messages, "\n---\n")
	return s.complete(ctx, "You summarize email threads for a daily briefing.", prompt, 200)
}
