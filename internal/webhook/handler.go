package webhook

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hydrolab/quoteflow/internal/pipeline"
	"github.com/hydrolab/quoteflow/internal/quote"
)

// Handler handles Jira automation webhook requests.
type Handler struct {
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(p *pipeline.Pipeline, logger *zap.Logger) *Handler {
	return &Handler{
		pipeline: p,
		logger:   logger,
	}
}

// IssueEvent is the payload posted by the Jira automation rule. The
// issue object is kept loose; field presence varies per request and the
// quote extractor decides what each field means.
type IssueEvent struct {
	Issue map[string]interface{} `json:"issue"`
}

// Greeting answers the root path with a plain-text liveness banner.
func Greeting(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the JIRA Webhook Receiver")
}

// Handle processes one quote request end to end and reports the result
// in the response. The caller is a fire-and-forget automation rule, so
// the request is processed synchronously; there is no retry channel to
// hand a queued failure back to.
func (h *Handler) Handle(c *gin.Context) {
	mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || mediaType != "application/json" {
		h.logger.Warn("Rejected webhook with unsupported content type",
			zap.String("content_type", c.GetHeader("Content-Type")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content-Type must be application/json"})
		return
	}

	var event IssueEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Error("Failed to parse webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	req := quote.NewRequest(event.Issue)
	h.logger.Info("Received quote request",
		zap.String("issue_key", req.IssueKey()),
		zap.String("client", req.ClientName()))

	if err := h.pipeline.Run(c.Request.Context(), req); err != nil {
		var stage *pipeline.StageError
		if errors.As(err, &stage) {
			h.logger.Error("Quote pipeline failed",
				zap.String("issue_key", req.IssueKey()),
				zap.String("stage", string(stage.Stage)),
				zap.Error(stage.Err))
		} else {
			h.logger.Error("Quote pipeline failed",
				zap.String("issue_key", req.IssueKey()),
				zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quote generated for " + req.IssueKey()})
}
