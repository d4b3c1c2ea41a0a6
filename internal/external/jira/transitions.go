package jira

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Transition is one state change currently available on an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetTransitions lists the transitions available on the issue.
func (c *Client) GetTransitions(ctx context.Context, issueKey string) ([]Transition, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.issueURL(issueKey, "/transitions"), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := c.do(req, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return result.Transitions, nil
}

// TransitionByName resolves a transition by case-insensitive name and
// executes it. Returns ErrTransitionNotFound when the issue has no
// transition with that name.
func (c *Client) TransitionByName(ctx context.Context, issueKey, name string) error {
	transitions, err := c.GetTransitions(ctx, issueKey)
	if err != nil {
		return err
	}

	var id string
	for _, t := range transitions {
		if strings.EqualFold(t.Name, name) {
			id = t.ID
			break
		}
	}
	if id == "" {
		return fmt.Errorf("%w: %q on %s", ErrTransitionNotFound, name, issueKey)
	}

	body := map[string]interface{}{
		"transition": map[string]string{"id": id},
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.issueURL(issueKey, "/transitions"), body)
	if err != nil {
		return err
	}
	if err := c.do(req, nil, http.StatusOK, http.StatusNoContent); err != nil {
		return err
	}

	c.logger.Info("Transitioned issue",
		zap.String("issue_key", issueKey),
		zap.String("transition", name))
	return nil
}
