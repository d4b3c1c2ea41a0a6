package jira

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"go.uber.org/zap"
)

// Attachment identifies a file attached to an issue.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// Link returns the direct download link for the attachment.
func (c *Client) Link(a Attachment) string {
	return c.baseURL + "/secure/attachment/" + a.ID + "/" + a.Filename
}

// AttachFile uploads content as an attachment on the issue and returns
// the created attachment metadata. The content type is set per artifact
// format, not a generic octet stream.
func (c *Client) AttachFile(ctx context.Context, issueKey, filename string, content []byte, mimeType string) (*Attachment, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write multipart content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.issueURL(issueKey, "/attachments"), &body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	// Jira rejects attachment posts without this header
	req.Header.Set("X-Atlassian-Token", "no-check")

	var created []Attachment
	if err := c.do(req, &created, http.StatusOK); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("jira returned no attachment metadata for %s", filename)
	}

	c.logger.Info("Attached file to issue",
		zap.String("issue_key", issueKey),
		zap.String("filename", filename),
		zap.String("attachment_id", created[0].ID))

	return &created[0], nil
}

// ListAttachments fetches the issue's current attachment list.
func (c *Client) ListAttachments(ctx context.Context, issueKey string) ([]Attachment, error) {
	req, err := c.newRequest(ctx, http.MethodGet,
		c.issueURL(issueKey, "?fields=attachment"), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Fields struct {
			Attachment []Attachment `json:"attachment"`
		} `json:"fields"`
	}
	if err := c.do(req, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return result.Fields.Attachment, nil
}
