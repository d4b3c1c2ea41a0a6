package jira

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const quoteReadyIntro = "Your Quote has been successfully generated:"

// PostComment posts a plain one-paragraph comment on the issue.
func (c *Client) PostComment(ctx context.Context, issueKey, message string) error {
	body := map[string]interface{}{"body": newADFDoc(adfParagraph(message))}

	req, err := c.newRequest(ctx, http.MethodPost, c.issueURL(issueKey, "/comment"), body)
	if err != nil {
		return err
	}
	if err := c.do(req, nil, http.StatusOK, http.StatusCreated); err != nil {
		return err
	}

	c.logger.Info("Posted comment", zap.String("issue_key", issueKey))
	return nil
}

// PostQuoteReadyComment posts the generated-quote comment referencing
// every attachment by name with a direct download link.
func (c *Client) PostQuoteReadyComment(ctx context.Context, issueKey string, attachments []Attachment) error {
	content := []adfNode{adfParagraph(quoteReadyIntro)}
	for _, a := range attachments {
		content = append(content,
			adfLinkParagraph(fmt.Sprintf("%s - %s", a.Filename, a.ID), c.Link(a)))
	}
	body := map[string]interface{}{"body": newADFDoc(content...)}

	req, err := c.newRequest(ctx, http.MethodPost, c.issueURL(issueKey, "/comment"), body)
	if err != nil {
		return err
	}
	if err := c.do(req, nil, http.StatusOK, http.StatusCreated); err != nil {
		return err
	}

	c.logger.Info("Posted quote-ready comment",
		zap.String("issue_key", issueKey),
		zap.Int("attachments", len(attachments)))
	return nil
}
