package pipeline

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	completedTransitionName = "Completed"
	reviewCommentMessage    = "Due to policy, quote needs to be reviewed"
)

// Router branches on the grand total: strictly above the threshold the
// quote is considered approved (summary comment + transition to
// Completed); at or below it the issue is flagged for manual review and
// reassigned. Every tracker failure in here is logged and skipped, the
// request itself never fails on routing.
type Router struct {
	tracker       IssueTracker
	threshold     decimal.Decimal
	reviewerEmail string
	logger        *zap.Logger
}

// NewRouter creates an approval router.
func NewRouter(tracker IssueTracker, threshold decimal.Decimal, reviewerEmail string, logger *zap.Logger) *Router {
	return &Router{
		tracker:       tracker,
		threshold:     threshold,
		reviewerEmail: reviewerEmail,
		logger:        logger,
	}
}

// Route applies the approval rules. attached is the attachment metadata
// captured when the artifacts were attached; passing it here avoids
// racing a re-query against attachment durability.
func (r *Router) Route(ctx context.Context, issueKey string, total decimal.Decimal, attached []Attachment) {
	if total.GreaterThan(r.threshold) {
		r.logger.Info("Quote exceeds approval threshold, completing issue",
			zap.String("issue_key", issueKey),
			zap.String("total", total.StringFixed(2)))
		r.approve(ctx, issueKey, attached)
		return
	}

	r.logger.Info("Quote within review threshold, flagging for manual review",
		zap.String("issue_key", issueKey),
		zap.String("total", total.StringFixed(2)))
	r.flagForReview(ctx, issueKey)
}

// approve posts the summary comment linking the artifacts and moves the
// issue to Completed.
func (r *Router) approve(ctx context.Context, issueKey string, attached []Attachment) {
	if len(attached) == 0 {
		// Nothing was captured at attach time; fall back to asking the
		// issue for its current list.
		fetched, err := r.tracker.ListAttachments(ctx, issueKey)
		if err != nil {
			r.logger.Error("Failed to fetch issue attachments",
				zap.String("issue_key", issueKey),
				zap.Error(err))
			return
		}
		attached = fetched
	}

	if len(attached) == 0 {
		r.logger.Warn("No attachments on issue, skipping approval comment and transition",
			zap.String("issue_key", issueKey))
		return
	}

	if err := r.tracker.PostQuoteReadyComment(ctx, issueKey, attached); err != nil {
		r.logger.Error("Failed to post quote-ready comment",
			zap.String("issue_key", issueKey),
			zap.Error(err))
	}

	if err := r.tracker.TransitionByName(ctx, issueKey, completedTransitionName); err != nil {
		r.logger.Error("Failed to transition issue to completed",
			zap.String("issue_key", issueKey),
			zap.Error(err))
	}
}

// flagForReview posts the review comment and reassigns the issue to the
// configured reviewer. A reviewer lookup with no match skips the
// reassignment; assigning a null account would silently unassign the
// issue.
func (r *Router) flagForReview(ctx context.Context, issueKey string) {
	if err := r.tracker.PostComment(ctx, issueKey, reviewCommentMessage); err != nil {
		r.logger.Error("Failed to post review comment",
			zap.String("issue_key", issueKey),
			zap.Error(err))
	}

	accountID, err := r.tracker.FindAccountID(ctx, r.reviewerEmail)
	if err != nil {
		r.logger.Error("Reviewer lookup failed, skipping reassignment",
			zap.String("issue_key", issueKey),
			zap.String("reviewer_email", r.reviewerEmail),
			zap.Error(err))
		return
	}

	if err := r.tracker.AssignIssue(ctx, issueKey, accountID); err != nil {
		r.logger.Error("Failed to reassign issue to reviewer",
			zap.String("issue_key", issueKey),
			zap.Error(err))
	}
}
