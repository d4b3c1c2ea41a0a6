package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// FindAccountID resolves a user's accountId from their email via user
// search, taking the first match. Returns ErrUserNotFound when the
// search comes back empty.
func (c *Client) FindAccountID(ctx context.Context, email string) (string, error) {
	endpoint := c.baseURL + apiBasePath + "/user/search?query=" + url.QueryEscape(email)
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	var users []struct {
		AccountID string `json:"accountId"`
	}
	if err := c.do(req, &users, http.StatusOK); err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return users[0].AccountID, nil
}

// AssignIssue sets the issue's assignee by accountId.
func (c *Client) AssignIssue(ctx context.Context, issueKey, accountID string) error {
	body := map[string]string{"accountId": accountID}
	req, err := c.newRequest(ctx, http.MethodPut, c.issueURL(issueKey, "/assignee"), body)
	if err != nil {
		return err
	}
	if err := c.do(req, nil, http.StatusOK, http.StatusNoContent); err != nil {
		return err
	}

	c.logger.Info("Assigned issue",
		zap.String("issue_key", issueKey),
		zap.String("account_id", accountID))
	return nil
}
