package surface

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"execassist-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	token      string
	refreshed  string
	refreshErr error

	accessCalls  int
	refreshCalls int
}

func (f *fakeTokens) AccessToken(ctx context.Context, accountID string) (string, error) {
	f.accessCalls++
	return f.token, nil
}

func (f *fakeTokens) RefreshAfterReject(ctx context.Context, accountID, rejected string) (string, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return f.refreshed, nil
}

func newTestGateway(t *testing.T, handler http.HandlerFunc, tokens TokenProvider) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGateway("mail", server.URL, []string{"GET", "POST", "DELETE"}, server.Client(), tokens)
}

func TestCallSuccessNoRetry(t *testing.T) {
	tokens := &fakeTokens{token: "tok-1"}
	var attempts int
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"ok":true}`))
	}, tokens)

	raw, err := gw.Call(context.Background(), "acct", "GET", "/users/me/labels", nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 0, tokens.refreshCalls)
}

func TestCallRefreshesOnceOn401(t *testing.T) {
	tokens := &fakeTokens{token: "stale", refreshed: "fresh"}
	var attempts int
	var bodies []string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"m1"}`))
	}, tokens)

	raw, err := gw.Call(context.Background(), "acct", "POST", "/messages", nil, map[string]string{"raw": "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"m1"}`, string(raw))
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, tokens.refreshCalls)
	// The retry must re-send the identical payload.
	assert.Equal(t, bodies[0], bodies[1])
}

func TestCallSecond401IsTerminal(t *testing.T) {
	tokens := &fakeTokens{token: "bad", refreshed: "still-bad"}
	var attempts int
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}, tokens)

	_, err := gw.Call(context.Background(), "acct", "GET", "/labels", nil, nil)
	require.Error(t, err)

	var remoteErr *apperror.RemoteAPIError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
	assert.Equal(t, "mail", remoteErr.Surface)
	// Exactly two attempts: the original and the single retry.
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, tokens.refreshCalls)
}

func TestCallRefreshFailureSurfacesOriginal401(t *testing.T) {
	tokens := &fakeTokens{token: "bad", refreshErr: apperror.ErrCredentialUnavailable}
	var attempts int
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}, tokens)

	_, err := gw.Call(context.Background(), "acct", "GET", "/labels", nil, nil)

	var remoteErr *apperror.RemoteAPIError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
	assert.Equal(t, 1, attempts)
}

func TestCallDisallowedVerbFailsBeforeIO(t *testing.T) {
	tokens := &fakeTokens{token: "tok"}
	var attempts int
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
	}, tokens)

	_, err := gw.Call(context.Background(), "acct", "PUT", "/labels", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 0, attempts)
	assert.Equal(t, 0, tokens.accessCalls)
}

func TestCallDeleteYieldsEmptyResult(t *testing.T) {
	tokens := &fakeTokens{token: "tok"}
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, tokens)

	raw, err := gw.Call(context.Background(), "acct", "DELETE", "/events/e1", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestCallNon2xxBecomesRemoteAPIError(t *testing.T) {
	tokens := &fakeTokens{token: "tok"}
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"rate limited"}`))
	}, tokens)

	_, err := gw.Call(context.Background(), "acct", "GET", "/labels", nil, nil)

	var remoteErr *apperror.RemoteAPIError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusForbidden, remoteErr.Status)
	assert.Contains(t, remoteErr.Body, "rate limited")
	assert.Equal(t, 0, tokens.refreshCalls)
}

func TestCallRepeatsArrayQueryKeys(t *testing.T) {
	tokens := &fakeTokens{token: "tok"}
	var got url.Values
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{}`))
	}, tokens)

	q := url.Values{}
	q.Add("metadataHeaders", "From")
	q.Add("metadataHeaders", "Subject")
	q.Set("format", "metadata")
	q.Set("empty", "")

	_, err := gw.Call(context.Background(), "acct", "GET", "/messages/m1", q, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"From", "Subject"}, got["metadataHeaders"])
	assert.Equal(t, "metadata", got.Get("format"))
	// Empty values are dropped, not sent as bare keys.
	_, present := got["empty"]
	assert.False(t, present)
}

func TestCallResultIsValidJSON(t *testing.T) {
	tokens := &fakeTokens{token: "tok"}
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"labels":[{"id":"L1","name":"Work"}]}`))
	}, tokens)

	raw, err := gw.Call(context.Background(), "acct", "GET", "/labels", nil, nil)
	require.NoError(t, err)

	var parsed struct {
		Labels []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	require.Len(t, parsed.Labels, 1)
	assert.Equal(t, "Work", parsed.Labels[0].Name)
}
