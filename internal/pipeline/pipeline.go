package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hydrolab/quoteflow/internal/quote"
)

// Pipeline runs one quote request end to end: extract line items, price
// the table, render the template, convert to pdf, publish artifacts and
// route the issue for approval. Each request is handled synchronously
// start to finish; stage failures before publishing abort the request,
// failures after it degrade (see Publisher and Router).
type Pipeline struct {
	extractor *quote.Extractor
	builder   *quote.Builder
	templates TemplateSource
	renderer  Renderer
	converter Converter
	store     ArtifactStore
	publisher *Publisher
	router    *Router
	workDir   string
	now       func() time.Time
	logger    *zap.Logger
}

// Deps wires a Pipeline.
type Deps struct {
	Extractor *quote.Extractor
	Builder   *quote.Builder
	Templates TemplateSource
	Renderer  Renderer
	Converter Converter
	Store     ArtifactStore
	Tracker   IssueTracker
	Router    *Router
	WorkDir   string           // parent dir for per-request temp dirs; "" means the OS default
	Now       func() time.Time // injectable clock; nil means time.Now
	Logger    *zap.Logger
}

// New creates a quote pipeline.
func New(deps Deps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		extractor: deps.Extractor,
		builder:   deps.Builder,
		templates: deps.Templates,
		renderer:  deps.Renderer,
		converter: deps.Converter,
		store:     deps.Store,
		publisher: NewPublisher(deps.Store, deps.Tracker, deps.Logger),
		router:    deps.Router,
		workDir:   deps.WorkDir,
		now:       now,
		logger:    deps.Logger,
	}
}

// Run processes one quote request. The returned error, when non-nil, is
// a *StageError identifying the failed stage.
func (p *Pipeline) Run(ctx context.Context, req *quote.Request) error {
	issueKey := req.IssueKey()
	p.logger.Info("Processing quote request",
		zap.String("issue_key", issueKey),
		zap.String("client", req.ClientName()))

	items, err := p.extractor.Extract(req)
	if err != nil {
		return stageErr(StageExtract, err)
	}

	table, err := p.builder.Build(items, req)
	if err != nil {
		return stageErr(StagePricing, err)
	}

	template, err := p.templates.FetchTemplate(ctx)
	if err != nil {
		return stageErr(StageTemplate, err)
	}

	// Acquire storage credentials before any document work so a dead
	// store fails the request early.
	if err := p.store.Authorize(ctx); err != nil {
		return stageErr(StageAuth, err)
	}

	rendered, err := p.renderer.Render(template, req, table, p.now())
	if err != nil {
		return stageErr(StageRender, err)
	}

	base := req.BaseFilename()
	docxName := base + ".docx"
	pdfName := base + ".pdf"

	dir, err := os.MkdirTemp(p.workDir, "quote-")
	if err != nil {
		return stageErr(StageConvert, fmt.Errorf("create work dir: %w", err))
	}
	// Artifacts exist from here on; remove them no matter how the
	// upload attempts go.
	defer os.RemoveAll(dir)

	docxPath := filepath.Join(dir, docxName)
	if err := os.WriteFile(docxPath, rendered.Content, 0644); err != nil {
		return stageErr(StageConvert, fmt.Errorf("write docx: %w", err))
	}

	pdfPath, err := p.converter.Convert(ctx, docxPath)
	if err != nil {
		return stageErr(StageConvert, err)
	}
	pdfContent, err := os.ReadFile(pdfPath)
	if err != nil {
		return stageErr(StageConvert, fmt.Errorf("read pdf: %w", err))
	}

	attached := p.publisher.Publish(ctx, issueKey,
		Artifact{Filename: docxName, Content: rendered.Content, MIMEType: MIMETypeDocx},
		Artifact{Filename: pdfName, Content: pdfContent, MIMEType: MIMETypePDF},
	)

	p.router.Route(ctx, issueKey, table.GrandTotal, attached)

	p.logger.Info("Quote request processed",
		zap.String("issue_key", issueKey),
		zap.String("grand_total", table.GrandTotal.StringFixed(2)),
		zap.Bool("table_inlined", rendered.TableInlined))
	return nil
}
