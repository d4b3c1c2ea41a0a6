package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const apiBasePath = "/rest/api/3"

// Config holds Jira REST API connection settings.
type Config struct {
	BaseURL  string        // e.g. https://example.atlassian.net
	Username string        // account email for basic auth
	APIToken string
	Timeout  time.Duration
}

// Client is a thin Jira Cloud REST v3 client covering the calls the
// quote pipeline needs: attachments, comments, transitions, assignee
// and user search.
type Client struct {
	baseURL    string
	username   string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Jira client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// issueURL builds {base}/rest/api/3/issue/{key}{suffix}.
func (c *Client) issueURL(issueKey, suffix string) string {
	return c.baseURL + apiBasePath + "/issue/" + issueKey + suffix
}

// newRequest builds an authenticated JSON request.
func (c *Client) newRequest(ctx context.Context, method, url string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes the request and decodes a JSON response into out when the
// status is one of accept. Non-accepted statuses return an error with
// the response text.
func (c *Client) do(req *http.Request, out interface{}, accept ...int) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("jira request failed: %w", err)
	}
	defer resp.Body.Close()

	accepted := false
	for _, code := range accept {
		if resp.StatusCode == code {
			accepted = true
			break
		}
	}
	if !accepted {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("Jira API returned unexpected status",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", text))
		return fmt.Errorf("jira %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode jira response: %w", err)
	}
	return nil
}
