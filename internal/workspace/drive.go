package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// File is file-storage metadata.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
	WebViewLink  string `json:"webViewLink"`
}

func (s *Service) ListFiles(ctx context.Context, accountID, query string, pageSize int) ([]File, error) {
	q := url.Values{}
	q.Set("q", query)
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	q.Set("fields", "files(id,name,mimeType,modifiedTime,webViewLink)")
	raw, err := s.drive.Call(ctx, accountID, http.MethodGet, "files", q, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Files []File `json:"files"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse file list: %w", err)
	}
	return resp.Files, nil
}

func (s *Service) GetFileMetadata(ctx context.Context, accountID, fileID string) (*File, error) {
	q := url.Values{}
	q.Set("fields", "id,name,mimeType,modifiedTime,webViewLink")
	raw, err := s.drive.Call(ctx, accountID, http.MethodGet, "files/"+fileID, q, nil)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse file metadata: %w", err)
	}
	return &f, nil
}
