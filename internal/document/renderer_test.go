package document

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hydrolab/quoteflow/internal/quote"
)

const docPrefix = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docSuffix = `<w:sectPr/></w:body></w:document>`

func para(runs ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, r := range runs {
		b.WriteString("<w:r><w:t>" + r + "</w:t></w:r>")
	}
	b.WriteString("</w:p>")
	return b.String()
}

// makeDocx builds a minimal docx archive from part name to content.
func makeDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readPart(t *testing.T, docx []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func sampleTable() *quote.Table {
	return &quote.Table{
		Rows: []quote.Row{
			{
				ItemNumber:  "100",
				Description: "Widget",
				Quantity:    decimal.RequireFromString("30"),
				Unit:        "EA",
				UnitPrice:   decimal.RequireFromString("10.00"),
				Total:       decimal.RequireFromString("300.00"),
			},
		},
		GrandTotal: decimal.RequireFromString("4500.00"),
	}
}

func sampleRequest() *quote.Request {
	return quote.NewRequest(map[string]interface{}{
		"clientName": "Acme",
		"clientCode": "AC-7",
		"key":        "Q-1",
		"pocName":    "Jordan Olsen",
	})
}

func renderDay() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func TestRenderer_SubstitutesPlaceholders(t *testing.T) {
	template := makeDocx(t, map[string]string{
		"word/document.xml": docPrefix +
			para("Quote for {{clientName}} ({{clientCode}})") +
			para("Prepared {{today_date}} by {{pocName}}") +
			para("{{items}}") +
			docSuffix,
	})

	rendered, err := NewRenderer(zap.NewNop()).Render(template, sampleRequest(), sampleTable(), renderDay())
	require.NoError(t, err)

	doc := readPart(t, rendered.Content, "word/document.xml")
	assert.Contains(t, doc, "Quote for Acme (AC-7)")
	assert.Contains(t, doc, "Prepared 2026-08-30 by Jordan Olsen")
	assert.NotContains(t, doc, "{{clientName}}")
	assert.NotContains(t, doc, "{{items}}")
}

func TestRenderer_TokenSplitAcrossRuns(t *testing.T) {
	template := makeDocx(t, map[string]string{
		"word/document.xml": docPrefix +
			para("Quote for {{client", "Name}}") +
			para("{{items}}") +
			docSuffix,
	})

	rendered, err := NewRenderer(zap.NewNop()).Render(template, sampleRequest(), sampleTable(), renderDay())
	require.NoError(t, err)

	doc := readPart(t, rendered.Content, "word/document.xml")
	assert.Contains(t, doc, "Quote for Acme")
}

func TestRenderer_UnrecognizedTokenLeftAlone(t *testing.T) {
	template := makeDocx(t, map[string]string{
		"word/document.xml": docPrefix +
			para("{{clientName}} {{somethingElse}}") +
			para("{{items}}") +
			docSuffix,
	})

	rendered, err := NewRenderer(zap.NewNop()).Render(template, sampleRequest(), sampleTable(), renderDay())
	require.NoError(t, err)

	doc := readPart(t, rendered.Content, "word/document.xml")
	assert.Contains(t, doc, "{{somethingElse}}")
}

func TestRenderer_ClientNameFallback(t *testing.T) {
	template := makeDocx(t, map[string]string{
		"word/document.xml": docPrefix +
			para("For {{clientName}}, POC: {{pocName}}.") +
			para("{{items}}") +
			docSuffix,
	})

	req := quote.NewRequest(map[string]interface{}{"key": "Q-2"})
	rendered, err := NewRenderer(zap.NewNop()).Render(template, req, sampleTable(), renderDay())
	require.NoError(t, err)

	doc := readPart(t, rendered.Content, "word/document.xml")
	assert.Contains(t, doc, "For Unknown Client, POC: .")
}

func TestRenderer_InlinesTableAtMarker(t *testing.T) {
	template := makeDocx(t, map[string]string{
		"word/document.xml": docPrefix +
			para("Line items:") +
			para("{{items}}") +
			para("Thank you.") +
			docSuffix,
	})

	rendered, err := NewRenderer(zap.NewNop()).Render(template, sampleRequest(), sampleTable(), renderDay())
	require.NoError(t, err)
	assert.True(t, rendered.TableInlined)

	doc := readPart(t, rendered.Content, "word/document.xml")
	assert.Contains(t, doc, "<w:tbl>")
	assert.Contains(t, doc, "Item#")
	assert.Contains(t, doc, "Widget")
	assert.Contains(t, doc, "$4,500.00")
	// table lands between the marker paragraph and the closing text
	assert.Less(t, strings.Index(doc, "Line items:"), strings.Index(doc, "<w:tbl>"))
	assert.Less(t, strings.Index(doc, "<w:tbl>"), strings.Index(doc, "Thank you."))
	// header shading and borderless total row cosmetics
	assert.Contains(t, doc, `w:fill="2887DD"`)
	assert.Contains(t, doc, `w:val="nil"`)
}

func TestRenderer_MissingMarkerAppendsTable(t *testing.T) {
	template := makeDocx(t, map[string]string{
		"word/document.xml": docPrefix +
			para("No marker here for {{clientName}}.") +
			docSuffix,
	})

	rendered, err := NewRenderer(zap.NewNop()).Render(template, sampleRequest(), sampleTable(), renderDay())
	require.NoError(t, err)
	assert.False(t, rendered.TableInlined)

	doc := readPart(t, rendered.Content, "word/document.xml")
	assert.Contains(t, doc, "<w:tbl>")
	assert.Contains(t, doc, `<w:br w:type="page"/>`)
	// sectPr stays last
	assert.Less(t, strings.Index(doc, "<w:tbl>"), strings.Index(doc, "<w:sectPr"))
}

func TestRenderer_HeaderPartsSubstituted(t *testing.T) {
	template := makeDocx(t, map[string]string{
		"word/document.xml": docPrefix + para("{{items}}") + docSuffix,
		"word/header1.xml": `<?xml version="1.0"?>` +
			`<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			para("Issue {{issue_Key}}") + `</w:hdr>`,
	})

	rendered, err := NewRenderer(zap.NewNop()).Render(template, sampleRequest(), sampleTable(), renderDay())
	require.NoError(t, err)

	hdr := readPart(t, rendered.Content, "word/header1.xml")
	assert.Contains(t, hdr, "Issue Q-1")
}

func TestRenderer_RejectsNonDocx(t *testing.T) {
	_, err := NewRenderer(zap.NewNop()).Render([]byte("not a zip"), sampleRequest(), sampleTable(), renderDay())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestRenderer_RequiresDocumentPart(t *testing.T) {
	template := makeDocx(t, map[string]string{"word/other.xml": "<x/>"})
	_, err := NewRenderer(zap.NewNop()).Render(template, sampleRequest(), sampleTable(), renderDay())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}
