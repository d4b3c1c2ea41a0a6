package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/hydrolab/quoteflow/internal/quote"
)

// itemsMarker marks where the quote table is inlined in the template.
const itemsMarker = "{{items}}"

const mainDocumentPart = "word/document.xml"

// Rendered is the outcome of filling a template.
type Rendered struct {
	Content []byte
	// TableInlined is false when the {{items}} marker was missing and
	// the table was appended at the end instead. The template contract
	// was violated; the document is still usable.
	TableInlined bool
}

// Renderer fills docx templates: placeholder tokens are substituted in
// the body, table cells, headers and footers, and the quote table is
// inlined at the {{items}} marker.
//
// A docx is a zip of WordprocessingML parts; the renderer edits those
// parts directly rather than going through a wrapper library, the same
// way the table cosmetics (shading, border removal) require raw OOXML
// anyway.
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a new template renderer.
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render substitutes placeholders and inlines the quote table, returning
// the rendered docx bytes.
func (r *Renderer) Render(template []byte, req *quote.Request, table *quote.Table, today time.Time) (*Rendered, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidTemplate, f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidTemplate, f.Name, err)
		}
		parts[f.Name] = data
	}

	if _, ok := parts[mainDocumentPart]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidTemplate, mainDocumentPart)
	}

	values := placeholderValues(req, today)
	inlined := false

	for name, data := range parts {
		if !isTextPart(name) {
			continue
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidTemplate, name, err)
		}

		substitutePlaceholders(doc, values)

		if name == mainDocumentPart {
			inlined, err = r.inlineTable(doc, table)
			if err != nil {
				return nil, err
			}
			if !inlined {
				r.logger.Warn("items marker not found in template, table appended at end of document",
					zap.String("issue_key", req.IssueKey()))
			}
		}

		out, err := doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", name, err)
		}
		parts[name] = out
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
		if _, err := w.Write(parts[f.Name]); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}

	return &Rendered{Content: buf.Bytes(), TableInlined: inlined}, nil
}

// isTextPart reports whether a zip entry carries substitutable text:
// the main document plus header and footer parts.
func isTextPart(name string) bool {
	if name == mainDocumentPart {
		return true
	}
	if !strings.HasSuffix(name, ".xml") {
		return false
	}
	return strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")
}

// placeholderValues maps the recognized tokens to request fields. Only
// clientName has a non-empty fallback; everything else defaults blank.
func placeholderValues(req *quote.Request, today time.Time) map[string]string {
	clientName := req.ClientName()
	if clientName == "" {
		clientName = "Unknown Client"
	}
	return map[string]string{
		"clientName":      clientName,
		"pocName":         req.Field(quote.FieldPOCName),
		"title":           req.Field(quote.FieldTitle),
		"clientCode":      req.Field(quote.FieldClientCode),
		"today_date":      today.Format("2006-01-02"),
		"issue_Key":       req.IssueKey(),
		"shippingAddress": req.Field(quote.FieldShippingAddress),
		"address":         req.Field(quote.FieldAddress),
	}
}

// substitutePlaceholders rewrites every paragraph containing a
// recognized token. Text is joined across runs first so tokens split by
// run boundaries are still found; unrecognized tokens are left alone.
func substitutePlaceholders(doc *etree.Document, values map[string]string) {
	for _, p := range doc.FindElements("//w:p") {
		texts := p.FindElements(".//w:t")
		if len(texts) == 0 {
			continue
		}
		joined := joinText(texts)
		if !strings.Contains(joined, "{{") {
			continue
		}

		replaced := joined
		for token, value := range values {
			replaced = strings.ReplaceAll(replaced, "{{"+token+"}}", value)
		}
		if replaced == joined {
			continue
		}

		setParagraphText(texts, replaced)
	}
}

func joinText(texts []*etree.Element) string {
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(t.Text())
	}
	return b.String()
}

// setParagraphText collapses the paragraph's runs into the first one.
// Run-level formatting boundaries inside the paragraph are lost, which
// matches how the source templates use single-format placeholder lines.
func setParagraphText(texts []*etree.Element, s string) {
	texts[0].SetText(s)
	texts[0].CreateAttr("xml:space", "preserve")
	for _, t := range texts[1:] {
		t.SetText("")
	}
}

// inlineTable clears the paragraph holding the items marker and inserts
// the quote table right after it. Without a marker the table goes at the
// end of the body after a page break; returns false in that case.
func (r *Renderer) inlineTable(doc *etree.Document, table *quote.Table) (bool, error) {
	tbl := buildTableElement(table)

	for _, p := range doc.FindElements("//w:body/w:p") {
		texts := p.FindElements(".//w:t")
		if !strings.Contains(joinText(texts), itemsMarker) {
			continue
		}
		for _, t := range texts {
			t.SetText("")
		}
		parent := p.Parent()
		parent.InsertChildAt(p.Index()+1, tbl)
		return true, nil
	}

	body := doc.FindElement("//w:body")
	if body == nil {
		return false, ErrMalformedDocument
	}

	// Keep the section properties last; Word expects sectPr to close
	// the body.
	if sectPr := body.SelectElement("w:sectPr"); sectPr != nil {
		at := sectPr.Index()
		body.InsertChildAt(at, pageBreakParagraph())
		body.InsertChildAt(sectPr.Index(), tbl)
	} else {
		body.AddChild(pageBreakParagraph())
		body.AddChild(tbl)
	}
	return false, nil
}
