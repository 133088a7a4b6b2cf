package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Document is a docs-surface document header.
type Document struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
}

func (s *Service) GetDocument(ctx context.Context, accountID, documentID string) (*Document, error) {
	raw, err := s.docs.Call(ctx, accountID, http.MethodGet, "documents/"+documentID, nil, nil)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}

func (s *Service) CreateDocument(ctx context.Context, accountID, title string) (*Document, error) {
	raw, err := s.docs.Call(ctx, accountID, http.MethodPost, "documents", nil, map[string]string{"title": title})
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse created document: %w", err)
	}
	return &doc, nil
}

// AppendDocumentText appends text at the end of the document body.
func (s *Service) AppendDocumentText(ctx context.Context, accountID, documentID, text string) error {
	body := map[string]any{
		"requests": []map[string]any{
			{
				"insertText": map[string]any{
					"endOfSegmentLocation": map[string]any{},
					"text":                 text,
				},
			},
		},
	}
	_, err := s.docs.Call(ctx, accountID, http.MethodPost, "documents/"+documentID+":batchUpdate", nil, body)
	return err
}
