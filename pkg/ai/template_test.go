package ai

import (
	"context"
	"errors"
	"testing"

	"execassist-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateDraftIsDeterministic(t *testing.T) {
	svc := NewTemplateService()
	req := DraftRequest{
		CounterpartName: "Alex",
		Subject:         "Q3 proposal",
		Summary:         "Waiting on the signed contract.",
		Tone:            "formal",
	}

	first, err := svc.DraftFollowup(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.DraftFollowup(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Re: Q3 proposal", first.Subject)
	assert.Contains(t, first.Body, "Dear Alex")
	assert.Contains(t, first.Body, "Waiting on the signed contract.")
}

func TestTemplateDraftUnknownToneFallsBackToFriendly(t *testing.T) {
	svc := NewTemplateService()

	draft, err := svc.DraftFollowup(context.Background(), DraftRequest{
		CounterpartEmail: "client@example.com",
		Subject:          "Invoice",
		Tone:             "aggressive",
	})
	require.NoError(t, err)
	assert.Contains(t, draft.Body, "Hi client@example.com")
	assert.Contains(t, draft.Body, "checking in")
}

func TestClassifyPrefersSubjectHits(t *testing.T) {
	svc := NewTemplateService()
	categories := []string{"finance", "meetings"}

	got, err := svc.ClassifyMessage(context.Background(),
		"Meeting invite for budget review",
		"please find the invoice attached, payment due soon",
		categories)
	require.NoError(t, err)
	// Two subject keywords at double weight outscore the body's
	// finance hits.
	assert.Equal(t, "meetings", got)
}

func TestClassifyDefaultsToFirstCategory(t *testing.T) {
	svc := NewTemplateService()

	got, err := svc.ClassifyMessage(context.Background(), "hello", "nothing matches here", []string{"travel", "finance"})
	require.NoError(t, err)
	assert.Equal(t, "travel", got)

	_, err = svc.ClassifyMessage(context.Background(), "hello", "x", nil)
	assert.Error(t, err)
}

func TestSummarizeThread(t *testing.T) {
	svc := NewTemplateService()

	summary, err := svc.SummarizeThread(context.Background(), []string{
		"Can we move the call to Thursday? I have a conflict.",
		"Thursday works for me. Same time?",
	})
	require.NoError(t, err)
	assert.Contains(t, summary, "2 message(s)")
	assert.Contains(t, summary, "Can we move the call to Thursday?")

	empty, err := svc.SummarizeThread(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "No messages in thread.", empty)
}

type failingService struct{}

func (f *failingService) DraftFollowup(ctx context.Context, req DraftRequest) (*Draft, error) {
	return nil, errors.New("provider down")
}

func (f *failingService) ClassifyMessage(ctx context.Context, subject, snippet string, categories []string) (string, error) {
	return "", errors.New("provider down")
}

func (f *failingService) SummarizeThread(ctx context.Context, messages []string) (string, error) {
	return "", errors.New("provider down")
}

func TestFallbackDegradesToTemplate(t *testing.T) {
	svc := NewFallbackService(&failingService{}, NewTemplateService())

	draft, err := svc.DraftFollowup(context.Background(), DraftRequest{
		CounterpartName: "Alex",
		Subject:         "Q3 proposal",
	})
	require.NoError(t, err, "a failing provider must never block drafting")
	assert.NotEmpty(t, draft.Body)

	category, err := svc.ClassifyMessage(context.Background(), "flight itinerary", "", []string{"finance", "travel"})
	require.NoError(t, err)
	assert.Equal(t, "travel", category)

	summary, err := svc.SummarizeThread(context.Background(), []string{"Short note."})
	require.NoError(t, err)
	assert.NotEmpty(t, summary)
}

func TestFactoryWithoutCredentialUsesTemplate(t *testing.T) {
	svc := NewCompletionService(&config.Config{})

	draft, err := svc.DraftFollowup(context.Background(), DraftRequest{Subject: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "Re: ping", draft.Subject)
}
