package pipeline

import (
	"context"
	"time"

	"github.com/hydrolab/quoteflow/internal/document"
	"github.com/hydrolab/quoteflow/internal/quote"
)

// Attachment identifies a file attached to the originating issue.
type Attachment struct {
	ID       string
	Filename string
}

// Artifact is one generated quote file ready for publishing.
type Artifact struct {
	Filename string
	Content  []byte
	MIMEType string
}

// TemplateSource fetches the quote document template.
type TemplateSource interface {
	FetchTemplate(ctx context.Context) ([]byte, error)
}

// ArtifactStore uploads generated artifacts to cloud storage. Authorize
// obtains the credentials for the current request; token acquisition
// runs ahead of any document work so a dead store aborts early.
type ArtifactStore interface {
	Authorize(ctx context.Context) error
	Upload(ctx context.Context, filename string, content []byte) error
}

// Converter turns the rendered native-format file into the portable
// artifact and returns its path.
type Converter interface {
	Convert(ctx context.Context, docxPath string) (string, error)
}

// Renderer fills the template with request fields and the quote table.
type Renderer interface {
	Render(template []byte, req *quote.Request, table *quote.Table, today time.Time) (*document.Rendered, error)
}

// IssueTracker covers the issue-tracker calls the pipeline makes.
type IssueTracker interface {
	AttachFile(ctx context.Context, issueKey, filename string, content []byte, mimeType string) (Attachment, error)
	ListAttachments(ctx context.Context, issueKey string) ([]Attachment, error)
	PostComment(ctx context.Context, issueKey, message string) error
	PostQuoteReadyComment(ctx context.Context, issueKey string, attachments []Attachment) error
	TransitionByName(ctx context.Context, issueKey, name string) error
	FindAccountID(ctx context.Context, email string) (string, error)
	AssignIssue(ctx context.Context, issueKey, accountID string) error
}
