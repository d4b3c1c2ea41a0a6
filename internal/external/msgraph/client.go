package msgraph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Defaults for the Microsoft identity platform and Graph API.
const (
	DefaultScope     = "https://graph.microsoft.com/.default"
	defaultGraphBase = "https://graph.microsoft.com"
	defaultLoginBase = "https://login.microsoftonline.com"
)

// ErrNotAuthorized means Upload was called before Authorize obtained an
// access token for this request.
var ErrNotAuthorized = errors.New("no access token; call Authorize first")

// Config holds Graph drive upload settings. TokenURL and GraphBaseURL
// are overridable for tests and sovereign clouds; blank means the
// public-cloud defaults.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SiteID       string
	Folder       string // drive folder receiving the artifacts
	Scope        string
	TokenURL     string
	GraphBaseURL string
	Timeout      time.Duration
}

// DriveClient uploads quote artifacts to a SharePoint site drive via
// the Graph API. Tokens are acquired per request (client-credentials
// grant) and not cached across requests. One client is shared across
// concurrent webhook requests, so the token field is mutex-guarded.
type DriveClient struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.Mutex
	token string
}

// NewDriveClient creates a new Graph drive client.
func NewDriveClient(cfg Config, logger *zap.Logger) *DriveClient {
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = fmt.Sprintf("%s/%s/oauth2/v2.0/token", defaultLoginBase, cfg.TenantID)
	}
	if cfg.GraphBaseURL == "" {
		cfg.GraphBaseURL = defaultGraphBase
	}
	cfg.GraphBaseURL = strings.TrimRight(cfg.GraphBaseURL, "/")
	return &DriveClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Authorize acquires an access token through the client-credentials
// grant and holds it for this request's uploads.
func (c *DriveClient) Authorize(ctx context.Context) error {
	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.cfg.TokenURL,
		Scopes:       []string{c.cfg.Scope},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := cc.Token(ctx)
	if err != nil {
		c.logger.Error("Failed to acquire Graph access token", zap.Error(err))
		return fmt.Errorf("acquire access token: %w", err)
	}

	c.mu.Lock()
	c.token = token.AccessToken
	c.mu.Unlock()
	return nil
}

func (c *DriveClient) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Upload PUTs the whole content to the configured site drive folder.
// Only a 201 Created response counts as success.
func (c *DriveClient) Upload(ctx context.Context, filename string, content []byte) error {
	token := c.accessToken()
	if token == "" {
		return ErrNotAuthorized
	}

	uploadURL := fmt.Sprintf("%s/v1.0/sites/%s/drive/root:/%s/%s:/content",
		c.cfg.GraphBaseURL, c.cfg.SiteID,
		url.PathEscape(c.cfg.Folder), url.PathEscape(filename))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("drive upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Error("Drive upload returned unexpected status",
			zap.String("filename", filename),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", text))
		return fmt.Errorf("drive upload of %s: status %d", filename, resp.StatusCode)
	}

	c.logger.Info("Uploaded artifact to drive",
		zap.String("filename", filename),
		zap.String("folder", c.cfg.Folder),
		zap.Int("size_bytes", len(content)))
	return nil
}
