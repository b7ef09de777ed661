// Package client provides typed access to the representatives API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000/api"

const maxBodySize = 4 << 20

// Client groups the per-resource clients. Credential handling lives in the
// http.Client's transport (see internal/transport); Client itself is
// stateless.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger

	Auth        *AuthClient
	Children    *ChildClient
	Products    *ProductClient
	Invitations *InvitationClient
}

// New creates a Client. httpClient should carry an AuthorizedTransport.
func New(baseURL string, httpClient *http.Client, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
	c.Auth = &AuthClient{c: c}
	c.Children = &ChildClient{c: c}
	c.Products = &ProductClient{c: c}
	c.Invitations = &InvitationClient{c: c}
	return c
}

// request describes one API call.
type request struct {
	method string
	path   string
	body   io.Reader
	header http.Header
}

func jsonRequest(method, path string, in any) (request, error) {
	req := request{method: method, path: path}
	if in == nil {
		return req, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return req, fmt.Errorf("failed to marshal request: %w", err)
	}
	req.body = bytes.NewReader(data)
	req.header = http.Header{"Content-Type": []string{"application/json"}}
	return req, nil
}

func formRequest(method, path string, form url.Values) request {
	return request{
		method: method,
		path:   path,
		body:   strings.NewReader(form.Encode()),
		header: http.Header{"Content-Type": []string{"application/x-www-form-urlencoded"}},
	}
}

// do sends r and decodes a successful JSON body into out (skipped when out is
// nil). Every failure is returned as *Error.
func (c *Client) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return NewTransientError(fmt.Errorf("failed to create request: %w", err))
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return NewTransientError(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return NewTransientError(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := NewStatusError(resp.StatusCode, body)
		c.logger.WithFields(logrus.Fields{
			"method": r.method,
			"path":   r.path,
			"status": resp.StatusCode,
			"kind":   apiErr.Kind.String(),
		}).Debug("API call rejected")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewUnexpectedError(resp.StatusCode, fmt.Errorf("failed to unmarshal response: %w", err))
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	r, err := jsonRequest(method, path, in)
	if err != nil {
		// Nothing was sent, so this is not a classified API error.
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return c.do(ctx, r, out)
}
