package workspace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Label is a Gmail label.
type Label struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	MessagesUnread int64  `json:"messagesUnread"`
}

// MessageRef is a lightweight message identifier from a list call.
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// Header is one RFC822 header of a message payload.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Message is a mail message with the parts the assistant uses.
type Message struct {
	ID           string `json:"id"`
	ThreadID     string `json:"threadId"`
	Snippet      string `json:"snippet"`
	LabelIDs     []string `json:"labelIds"`
	InternalDate string `json:"internalDate"`
	Payload      struct {
		Headers []Header `json:"headers"`
	} `json:"payload"`
}

// HeaderValue returns the named header or empty string.
func (m *Message) HeaderValue(name string) string {
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func (s *Service) ListLabels(ctx context.Context, accountID string) ([]Label, error) {
	raw, err := s.mail.Call(ctx, accountID, http.MethodGet, "users/me/labels", nil, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Labels []Label `json:"labels"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	return resp.Labels, nil
}

func (s *Service) CreateLabel(ctx context.Context, accountID, name string) (*Label, error) {
	raw, err := s.mail.Call(ctx, accountID, http.MethodPost, "users/me/labels", nil, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	var label Label
	if err := json.Unmarshal(raw, &label); err != nil {
		return nil, fmt.Errorf("parse created label: %w", err)
	}
	return &label, nil
}

func (s *Service) ListMessages(ctx context.Context, accountID, query string, maxResults int) ([]MessageRef, error) {
	q := url.Values{}
	q.Set("q", query)
	if maxResults > 0 {
		q.Set("maxResults", strconv.Itoa(maxResults))
	}
	raw, err := s.mail.Call(ctx, accountID, http.MethodGet, "users/me/messages", q, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Messages []MessageRef `json:"messages"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse message list: %w", err)
	}
	return resp.Messages, nil
}

func (s *Service) GetMessage(ctx context.Context, accountID, messageID string) (*Message, error) {
	q := url.Values{}
	q.Set("format", "metadata")
	q["metadataHeaders"] = []string{"From", "To", "Subject", "Date"}
	raw, err := s.mail.Call(ctx, accountID, http.MethodGet, "users/me/messages/"+messageID, q, nil)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	return &msg, nil
}

// GetMessages fetches several messages concurrently. Failures are
// skipped; ordering is newest first by internal date.
func (s *Service) GetMessages(ctx context.Context, accountID string, refs []MessageRef) []*Message {
	type result struct {
		msg *Message
		err error
	}

	results := make(chan result, len(refs))
	sem := make(chan struct{}, 5)

	for _, ref := range refs {
		go func(id string) {
			sem <- struct{}{}
			defer func() { <-sem }()
			msg, err := s.GetMessage(ctx, accountID, id)
			results <- result{msg, err}
		}(ref.ID)
	}

	messages := make([]*Message, 0, len(refs))
	for range refs {
		r := <-results
		if r.err == nil && r.msg != nil {
			messages = append(messages, r.msg)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].InternalDate > messages[j].InternalDate
	})
	return messages
}

func (s *Service) ModifyMessageLabels(ctx context.Context, accountID, messageID string, addLabelIDs, removeLabelIDs []string) error {
	body := map[string]any{}
	if len(addLabelIDs) > 0 {
		body["addLabelIds"] = addLabelIDs
	}
	if len(removeLabelIDs) > 0 {
		body["removeLabelIds"] = removeLabelIDs
	}
	_, err := s.mail.Call(ctx, accountID, http.MethodPost, "users/me/messages/"+messageID+"/modify", nil, body)
	return err
}

// SendMessage sends a plain-text email through the mail surface.
func (s *Service) SendMessage(ctx context.Context, accountID, to, subject, body string) (*MessageRef, error) {
	var msg strings.Builder
	msg.WriteString("To: " + to + "\r\n")
	encodedSubject := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(subject)))
	msg.WriteString("Subject: " + encodedSubject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	payload := map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(msg.String())),
	}
	raw, err := s.mail.Call(ctx, accountID, http.MethodPost, "users/me/messages/send", nil, payload)
	if err != nil {
		return nil, err
	}
	var ref MessageRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return nil, fmt.Errorf("parse send response: %w", err)
	}
	return &ref, nil
}

func (s *Service) ListThreadMessages(ctx context.Context, accountID, threadID string) ([]*Message, error) {
	raw, err := s.mail.Call(ctx, accountID, http.MethodGet, "users/me/threads/"+threadID, nil, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Messages []*Message `json:"messages"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse thread: %w", err)
	}
	return resp.Messages, nil
}
