package jira

import (
	"context"

	"github.com/hydrolab/quoteflow/internal/pipeline"
)

// Tracker adapts Client to the pipeline's issue-tracker port. The
// pipeline carries its own attachment type so the rest of the code
// never depends on Jira response shapes.
type Tracker struct {
	client *Client
}

// NewTracker wraps a Jira client for the pipeline.
func NewTracker(client *Client) *Tracker {
	return &Tracker{client: client}
}

func (t *Tracker) AttachFile(ctx context.Context, issueKey, filename string, content []byte, mimeType string) (pipeline.Attachment, error) {
	created, err := t.client.AttachFile(ctx, issueKey, filename, content, mimeType)
	if err != nil {
		return pipeline.Attachment{}, err
	}
	return pipeline.Attachment{ID: created.ID, Filename: created.Filename}, nil
}

func (t *Tracker) ListAttachments(ctx context.Context, issueKey string) ([]pipeline.Attachment, error) {
	listed, err := t.client.ListAttachments(ctx, issueKey)
	if err != nil {
		return nil, err
	}
	attachments := make([]pipeline.Attachment, 0, len(listed))
	for _, a := range listed {
		attachments = append(attachments, pipeline.Attachment{ID: a.ID, Filename: a.Filename})
	}
	return attachments, nil
}

func (t *Tracker) PostComment(ctx context.Context, issueKey, message string) error {
	return t.client.PostComment(ctx, issueKey, message)
}

func (t *Tracker) PostQuoteReadyComment(ctx context.Context, issueKey string, attachments []pipeline.Attachment) error {
	converted := make([]Attachment, 0, len(attachments))
	for _, a := range attachments {
		converted = append(converted, Attachment{ID: a.ID, Filename: a.Filename})
	}
	return t.client.PostQuoteReadyComment(ctx, issueKey, converted)
}

func (t *Tracker) TransitionByName(ctx context.Context, issueKey, name string) error {
	return t.client.TransitionByName(ctx, issueKey, name)
}

func (t *Tracker) FindAccountID(ctx context.Context, email string) (string, error) {
	return t.client.FindAccountID(ctx, email)
}

func (t *Tracker) AssignIssue(ctx context.Context, issueKey, accountID string) error {
	return t.client.AssignIssue(ctx, issueKey, accountID)
}

var _ pipeline.IssueTracker = (*Tracker)(nil)
