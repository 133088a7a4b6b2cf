package surface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"execassist-backend/pkg/apperror"
	"execassist-backend/pkg/logger"
	"execassist-backend/pkg/metrics"

	"go.uber.org/zap"
)

// TokenProvider supplies bearer tokens for an account. The token
// coordinator implements it.
type TokenProvider interface {
	AccessToken(ctx context.Context, accountID string) (string, error)
	RefreshAfterReject(ctx context.Context, accountID, rejected string) (string, error)
}

// Gateway executes logical operations against one remote surface. The
// refresh-on-401 protocol lives here and only here; every surface runs
// the identical algorithm.
type Gateway struct {
	surface string
	baseURL string
	verbs   map[string]bool
	client  *http.Client
	tokens  TokenProvider
}

func NewGateway(surfaceName, baseURL string, verbs []string, client *http.Client, tokens TokenProvider) *Gateway {
	allowed := make(map[string]bool, len(verbs))
	for _, v := range verbs {
		allowed[strings.ToUpper(v)] = true
	}
	return &Gateway{
		surface: surfaceName,
		baseURL: strings.TrimRight(baseURL, "/"),
		verbs:   allowed,
		client:  client,
		tokens:  tokens,
	}
}

// Surface returns the gateway's surface name.
func (g *Gateway) Surface() string { return g.surface }

// Call issues one logical operation:
//  1. obtain a usable token
//  2. build the signed request (bearer auth, JSON body, repeated keys
//     for array-valued query parameters)
//  3. on 401, refresh exactly once and re-issue the identical request
//  4. any other non-2xx fails with RemoteAPIError
//  5. 204 and DELETE yield an empty result
func (g *Gateway) Call(ctx context.Context, accountID, method, path string, query url.Values, body any) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	if !g.verbs[method] {
		return nil, fmt.Errorf("%s surface does not allow %s", g.surface, method)
	}

	token, err := g.tokens.AccessToken(ctx, accountID)
	if err != nil {
		metrics.SurfaceCalls.WithLabelValues(g.surface, "credential_error").Inc()
		return nil, fmt.Errorf("%s %s %s: %w", g.surface, method, path, err)
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request body: %w", g.surface, err)
		}
	}
	target := g.buildURL(path, query)

	status, respBody, err := g.execute(ctx, method, target, token, payload)
	if err != nil {
		return nil, fmt.Errorf("%s %s %s: %w", g.surface, method, path, err)
	}

	if status == http.StatusUnauthorized {
		// One refresh, one retry, strictly in that order. A second 401
		// means the grant itself is bad and retrying cannot help.
		newToken, refreshErr := g.tokens.RefreshAfterReject(ctx, accountID, token)
		if refreshErr != nil {
			if errors.Is(refreshErr, apperror.ErrCredentialUnavailable) {
				metrics.SurfaceCalls.WithLabelValues(g.surface, "remote_error").Inc()
				return nil, &apperror.RemoteAPIError{Surface: g.surface, Status: status, Body: string(respBody)}
			}
			metrics.SurfaceCalls.WithLabelValues(g.surface, "credential_error").Inc()
			return nil, fmt.Errorf("%s %s %s: %w", g.surface, method, path, refreshErr)
		}
		logger.L.Info("retrying after token refresh",
			zap.String("surface", g.surface),
			zap.String("path", path))
		status, respBody, err = g.execute(ctx, method, target, newToken, payload)
		if err != nil {
			return nil, fmt.Errorf("%s %s %s: %w", g.surface, method, path, err)
		}
		if status >= 200 && status < 300 {
			metrics.SurfaceCalls.WithLabelValues(g.surface, "retried_ok").Inc()
		}
	}

	if status < 200 || status >= 300 {
		metrics.SurfaceCalls.WithLabelValues(g.surface, "remote_error").Inc()
		return nil, &apperror.RemoteAPIError{Surface: g.surface, Status: status, Body: string(respBody)}
	}
	metrics.SurfaceCalls.WithLabelValues(g.surface, "ok").Inc()

	if status == http.StatusNoContent || method == http.MethodDelete {
		return nil, nil
	}
	return json.RawMessage(respBody), nil
}

func (g *Gateway) buildURL(path string, query url.Values) string {
	target := g.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		filtered := url.Values{}
		for k, vals := range query {
			for _, v := range vals {
				if v != "" {
					filtered.Add(k, v)
				}
			}
		}
		if enc := filtered.Encode(); enc != "" {
			target += "?" + enc
		}
	}
	return target
}

// execute performs a single HTTP attempt. The body is replayed from the
// serialized payload so the 401 retry re-issues an identical request.
func (g *Gateway) execute(ctx context.Context, method, target, token string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
