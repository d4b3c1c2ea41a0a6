package pipeline

import (
	"context"

	"go.uber.org/zap"
)

// MIME types for the two artifact formats.
const (
	MIMETypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypePDF  = "application/pdf"
)

// Publisher uploads artifacts to cloud storage and attaches them to the
// originating issue. The artifacts are independent: one may publish
// while the other fails, and no failure here aborts the request. An
// artifact is only attached to the issue after its storage upload
// succeeded.
type Publisher struct {
	store   ArtifactStore
	tracker IssueTracker
	logger  *zap.Logger
}

// NewPublisher creates a new artifact publisher.
func NewPublisher(store ArtifactStore, tracker IssueTracker, logger *zap.Logger) *Publisher {
	return &Publisher{store: store, tracker: tracker, logger: logger}
}

// Publish uploads and attaches each artifact, returning the attachment
// metadata for every successful attach call. The approval router uses
// these directly instead of re-querying the issue.
func (p *Publisher) Publish(ctx context.Context, issueKey string, artifacts ...Artifact) []Attachment {
	var attached []Attachment
	for _, artifact := range artifacts {
		if err := p.store.Upload(ctx, artifact.Filename, artifact.Content); err != nil {
			p.logger.Error("Artifact upload failed, skipping issue attachment",
				zap.String("issue_key", issueKey),
				zap.String("filename", artifact.Filename),
				zap.Error(err))
			continue
		}

		att, err := p.tracker.AttachFile(ctx, issueKey, artifact.Filename, artifact.Content, artifact.MIMEType)
		if err != nil {
			p.logger.Error("Failed to attach artifact to issue",
				zap.String("issue_key", issueKey),
				zap.String("filename", artifact.Filename),
				zap.Error(err))
			continue
		}
		attached = append(attached, att)
	}

	p.logger.Info("Published artifacts",
		zap.String("issue_key", issueKey),
		zap.Int("requested", len(artifacts)),
		zap.Int("attached", len(attached)))
	return attached
}
