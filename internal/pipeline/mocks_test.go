package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hydrolab/quoteflow/internal/document"
	"github.com/hydrolab/quoteflow/internal/quote"
)

var (
	errNoTransition = errors.New("no transition with that name")
	errNoUser       = errors.New("no user matched the search")
)

type mockTemplates struct{ mock.Mock }

func (m *mockTemplates) FetchTemplate(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Authorize(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Upload(ctx context.Context, filename string, content []byte) error {
	return m.Called(ctx, filename, content).Error(0)
}

type mockTracker struct{ mock.Mock }

func (m *mockTracker) AttachFile(ctx context.Context, issueKey, filename string, content []byte, mimeType string) (Attachment, error) {
	args := m.Called(ctx, issueKey, filename, content, mimeType)
	return args.Get(0).(Attachment), args.Error(1)
}

func (m *mockTracker) ListAttachments(ctx context.Context, issueKey string) ([]Attachment, error) {
	args := m.Called(ctx, issueKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Attachment), args.Error(1)
}

func (m *mockTracker) PostComment(ctx context.Context, issueKey, message string) error {
	return m.Called(ctx, issueKey, message).Error(0)
}

func (m *mockTracker) PostQuoteReadyComment(ctx context.Context, issueKey string, attachments []Attachment) error {
	return m.Called(ctx, issueKey, attachments).Error(0)
}

func (m *mockTracker) TransitionByName(ctx context.Context, issueKey, name string) error {
	return m.Called(ctx, issueKey, name).Error(0)
}

func (m *mockTracker) FindAccountID(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockTracker) AssignIssue(ctx context.Context, issueKey, accountID string) error {
	return m.Called(ctx, issueKey, accountID).Error(0)
}

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) Render(template []byte, req *quote.Request, table *quote.Table, today time.Time) (*document.Rendered, error) {
	args := m.Called(template, req, table, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Rendered), args.Error(1)
}

// converterFunc adapts a function to the Converter port.
type converterFunc func(ctx context.Context, docxPath string) (string, error)

func (f converterFunc) Convert(ctx context.Context, docxPath string) (string, error) {
	return f(ctx, docxPath)
}
