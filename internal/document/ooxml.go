package document

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/hydrolab/quoteflow/internal/quote"
)

// Column widths in twentieths of a point. The description column is
// wider than the rest (10 cm vs 4 cm).
const (
	colWidthTwips     = 2268
	descColWidthTwips = 5670

	headerFillColor = "2887DD"
	headerFontColor = "FFFFFF"
	headerFontSize  = "24" // half-points, 12 pt
)

var cellBorderSides = []string{"top", "left", "bottom", "right"}

// buildTableElement converts the assembled quote table into a w:tbl
// element: header row, one row per line, and a borderless total row.
func buildTableElement(table *quote.Table) *etree.Element {
	tbl := etree.NewElement("w:tbl")

	tblPr := tbl.CreateElement("w:tblPr")
	style := tblPr.CreateElement("w:tblStyle")
	style.CreateAttr("w:val", "TableGrid")
	width := tblPr.CreateElement("w:tblW")
	width.CreateAttr("w:w", "0")
	width.CreateAttr("w:type", "auto")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b := borders.CreateElement("w:" + side)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
		b.CreateAttr("w:color", "auto")
	}

	grid := tbl.CreateElement("w:tblGrid")
	for i := 0; i < len(quote.Header()); i++ {
		col := grid.CreateElement("w:gridCol")
		col.CreateAttr("w:w", columnWidth(i))
	}

	tbl.AddChild(headerRow())
	for _, row := range table.Rows {
		tbl.AddChild(bodyRow(row))
	}
	tbl.AddChild(totalRow(table))

	return tbl
}

func columnWidth(col int) string {
	if quote.Header()[col] == "Description" {
		return strconv.Itoa(descColWidthTwips)
	}
	return strconv.Itoa(colWidthTwips)
}

func headerRow() *etree.Element {
	tr := etree.NewElement("w:tr")
	for i, title := range quote.Header() {
		tc := cell(columnWidth(i), title)
		tcPr := tc.SelectElement("w:tcPr")
		shd := tcPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", headerFillColor)

		run := tc.FindElement(".//w:r")
		rPr := etree.NewElement("w:rPr")
		rPr.CreateElement("w:b")
		color := rPr.CreateElement("w:color")
		color.CreateAttr("w:val", headerFontColor)
		sz := rPr.CreateElement("w:sz")
		sz.CreateAttr("w:val", headerFontSize)
		run.InsertChildAt(0, rPr)

		tr.AddChild(tc)
	}
	return tr
}

func bodyRow(row quote.Row) *etree.Element {
	texts := [6]string{
		row.ItemNumber,
		row.Description,
		quote.FormatQuantity(row.Quantity),
		row.Unit,
		quote.FormatMoney(row.UnitPrice),
		quote.FormatMoney(row.Total),
	}

	tr := etree.NewElement("w:tr")
	for i, text := range texts {
		tr.AddChild(cell(columnWidth(i), text))
	}
	return tr
}

// totalRow writes the grand total into the last column with a "Total"
// label beside it. Cell borders are suppressed on this row.
func totalRow(table *quote.Table) *etree.Element {
	texts := [6]string{}
	texts[4] = "Total"
	texts[5] = quote.FormatMoney(table.GrandTotal)

	tr := etree.NewElement("w:tr")
	for i, text := range texts {
		tc := cell(columnWidth(i), text)
		tcPr := tc.SelectElement("w:tcPr")
		tcBorders := tcPr.CreateElement("w:tcBorders")
		for _, side := range cellBorderSides {
			b := tcBorders.CreateElement("w:" + side)
			b.CreateAttr("w:val", "nil")
		}
		tr.AddChild(tc)
	}
	return tr
}

// cell builds a vertically and horizontally centered table cell holding
// a single run of text.
func cell(width, text string) *etree.Element {
	tc := etree.NewElement("w:tc")

	tcPr := tc.CreateElement("w:tcPr")
	tcW := tcPr.CreateElement("w:tcW")
	tcW.CreateAttr("w:w", width)
	tcW.CreateAttr("w:type", "dxa")
	vAlign := tcPr.CreateElement("w:vAlign")
	vAlign.CreateAttr("w:val", "center")

	p := tc.CreateElement("w:p")
	pPr := p.CreateElement("w:pPr")
	jc := pPr.CreateElement("w:jc")
	jc.CreateAttr("w:val", "center")

	r := p.CreateElement("w:r")
	t := r.CreateElement("w:t")
	t.SetText(text)

	return tc
}

// pageBreakParagraph builds a paragraph holding a hard page break.
func pageBreakParagraph() *etree.Element {
	p := etree.NewElement("w:p")
	br := p.CreateElement("w:r").CreateElement("w:br")
	br.CreateAttr("w:type", "page")
	return p
}
