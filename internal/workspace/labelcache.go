package workspace

import (
	"context"
	"strings"
)

// LabelCache is a request-scoped name→id lookup for mail labels. Build
// one per bulk operation and pass it by reference; it is not shared
// between requests and needs no locking.
type LabelCache struct {
	byName map[string]string
	loaded bool
}

func NewLabelCache() *LabelCache {
	return &LabelCache{byName: map[string]string{}}
}

func (c *LabelCache) load(ctx context.Context, s *Service, accountID string) error {
	if c.loaded {
		return nil
	}
	labels, err := s.ListLabels(ctx, accountID)
	if err != nil {
		return err
	}
	for _, l := range labels {
		c.byName[strings.ToLower(l.Name)] = l.ID
	}
	c.loaded = true
	return nil
}

// EnsureLabel returns the id of the named label, creating it on the
// mail surface if it does not exist yet.
func (c *LabelCache) EnsureLabel(ctx context.Context, s *Service, accountID, name string) (string, error) {
	if err := c.load(ctx, s, accountID); err != nil {
		return "", err
	}
	if id, ok := c.byName[strings.ToLower(name)]; ok {
		return id, nil
	}
	label, err := s.CreateLabel(ctx, accountID, name)
	if err != nil {
		return "", err
	}
	c.byName[strings.ToLower(name)] = label.ID
	return label.ID, nil
}
