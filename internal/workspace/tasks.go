package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TaskList is a task-list container on the tasks surface.
type TaskList struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// RemoteTask is one to-do item on the tasks surface.
type RemoteTask struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Notes  string `json:"notes,omitempty"`
	Due    string `json:"due,omitempty"`
	Status string `json:"status,omitempty"` // needsAction or completed
}

func (s *Service) ListTaskLists(ctx context.Context, accountID string) ([]TaskList, error) {
	raw, err := s.tasks.Call(ctx, accountID, http.MethodGet, "users/@me/lists", nil, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Items []TaskList `json:"items"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse task lists: %w", err)
	}
	return resp.Items, nil
}

func (s *Service) ListTasks(ctx context.Context, accountID, listID string, showCompleted bool) ([]RemoteTask, error) {
	q := url.Values{}
	if showCompleted {
		q.Set("showCompleted", "true")
	}
	raw, err := s.tasks.Call(ctx, accountID, http.MethodGet, "lists/"+listID+"/tasks", q, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Items []RemoteTask `json:"items"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	return resp.Items, nil
}

func (s *Service) InsertTask(ctx context.Context, accountID, listID, title, notes string, due *time.Time) (*RemoteTask, error) {
	task := RemoteTask{Title: title, Notes: notes}
	if due != nil {
		task.Due = due.Format(time.RFC3339)
	}
	raw, err := s.tasks.Call(ctx, accountID, http.MethodPost, "lists/"+listID+"/tasks", nil, &task)
	if err != nil {
		return nil, err
	}
	var created RemoteTask
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("parse created task: %w", err)
	}
	return &created, nil
}

func (s *Service) CompleteTask(ctx context.Context, accountID, listID, taskID string) error {
	_, err := s.tasks.Call(ctx, accountID, http.MethodPatch, "lists/"+listID+"/tasks/"+taskID, nil,
		map[string]string{"status": "completed"})
	return err
}
