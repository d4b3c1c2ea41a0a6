package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrTemplateNotFound means the template page has no attachment with
// the configured filename.
var ErrTemplateNotFound = errors.New("template not found among page attachments")

// Config holds Confluence wiki API connection settings.
type Config struct {
	BaseURL      string // e.g. https://example.atlassian.net/wiki
	APIToken     string
	PageID       string // page whose attachments hold the template
	TemplateName string // exact attachment title to select
	Timeout      time.Duration
}

// Client fetches the quote template from a Confluence page's
// attachments.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Confluence client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type attachmentListing struct {
	Results []struct {
		Title string `json:"title"`
		Links struct {
			Download string `json:"download"`
		} `json:"_links"`
	} `json:"results"`
}

// FetchTemplate lists the page's attachments, selects the one whose
// title exactly matches the configured template filename, and downloads
// its content.
func (c *Client) FetchTemplate(ctx context.Context) ([]byte, error) {
	listURL := fmt.Sprintf("%s/rest/api/content/%s/child/attachment", c.cfg.BaseURL, c.cfg.PageID)

	var listing attachmentListing
	if err := c.getJSON(ctx, listURL, &listing); err != nil {
		return nil, fmt.Errorf("list template attachments: %w", err)
	}

	downloadPath := ""
	for _, att := range listing.Results {
		if att.Title == c.cfg.TemplateName {
			downloadPath = att.Links.Download
			break
		}
	}
	if downloadPath == "" {
		c.logger.Error("Template missing from page attachments",
			zap.String("page_id", c.cfg.PageID),
			zap.String("template", c.cfg.TemplateName))
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, c.cfg.TemplateName)
	}

	content, err := c.download(ctx, c.cfg.BaseURL+downloadPath)
	if err != nil {
		return nil, fmt.Errorf("download template: %w", err)
	}

	c.logger.Info("Fetched quote template",
		zap.String("template", c.cfg.TemplateName),
		zap.Int("size_bytes", len(content)))
	return content, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode confluence response: %w", err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confluence request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		c.logger.Error("Confluence API returned unexpected status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", text))
		return nil, fmt.Errorf("confluence GET %s: status %d", url, resp.StatusCode)
	}
	return resp, nil
}
