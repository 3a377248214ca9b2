// Package pdf renders processed documents to A4 PDFs with Maroto v2.
//
// Page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: fund name              │  document label + version │
//	│  ─────────────────────────────────────────────────────────  │
//	│  (preview banner)                                            │
//	│  TITLE / SUBTITLE                                            │
//	│  SECTIONS: title, body, optional table                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: footer text + QR with the document reference        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	mentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

var _ ports.PDFRenderer = (*MarotoRenderer)(nil)

var (
	colorPrimary = &props.Color{Red: 22, Green: 46, Blue: 96}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 190, Green: 30, Blue: 45}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const fallbackFamily = "helvetica"

// Fonts paths of a UTF-8 TrueType family. Hangul needs one; without it the built-in
// Latin font is used.
type Fonts struct {
	Family  string
	Regular string
	Bold    string
}

// MarotoRenderer implements ports.PDFRenderer.
type MarotoRenderer struct {
	family string
	custom []*mentity.CustomFont
}

// NewMarotoRenderer loads the configured fonts once.
func NewMarotoRenderer(fonts Fonts) (*MarotoRenderer, error) {
	if fonts.Regular == "" {
		return &MarotoRenderer{family: fallbackFamily}, nil
	}
	family := fonts.Family
	if family == "" {
		family = "document"
	}
	bold := fonts.Bold
	if bold == "" {
		bold = fonts.Regular
	}
	custom, err := repository.New().
		AddUTF8Font(family, fontstyle.Normal, fonts.Regular).
		AddUTF8Font(family, fontstyle.Bold, bold).
		Load()
	if err != nil {
		return nil, fmt.Errorf("pdf: load fonts: %w", err)
	}
	return &MarotoRenderer{family: family, custom: custom}, nil
}

// Render lays out content and returns the PDF bytes.
func (r *MarotoRenderer) Render(ctx context.Context, content entity.ProcessedContent, meta ports.RenderMeta) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: r.family, Size: 10}).
		WithTitle(content.Title, true).
		WithAuthor(meta.FundName, true)
	if len(r.custom) > 0 {
		b = b.WithCustomFonts(r.custom)
	}
	if !meta.GeneratedAt.IsZero() {
		b = b.WithCreationDate(meta.GeneratedAt)
	}
	m := maroto.New(b.Build())

	m.AddRows(headerRow(meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if meta.Preview {
		m.AddRows(previewRow())
	}
	m.AddRows(titleRows(content)...)
	for _, s := range content.Sections {
		m.AddRows(sectionRows(s)...)
	}
	m.AddRows(line.NewRow(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(content.Footer, meta))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(meta ports.RenderMeta) core.Row {
	version := "미리보기"
	if !meta.Preview {
		version = fmt.Sprintf("v%d", meta.VersionNumber)
	}
	return row.New(14).Add(
		col.New(8).Add(
			text.New(meta.FundName, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New(meta.DocumentType.Label(), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
			text.New(version, props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 8,
			}),
		),
	)
}

func previewRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("미리보기 문서입니다. 저장되지 않았으며 법적 효력이 없습니다.", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorAlert, Top: 3,
		}),
	))
}

func titleRows(c entity.ProcessedContent) []core.Row {
	rows := []core.Row{
		row.New(14).Add(col.New(12).Add(
			text.New(c.Title, props.Text{Style: fontstyle.Bold, Size: 16, Align: align.Center, Top: 4}),
		)),
	}
	if c.Subtitle != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(c.Subtitle, props.Text{Size: 10, Align: align.Center, Color: colorGray, Top: 1}),
		)))
	}
	return append(rows, row.New(4))
}

func sectionRows(s entity.ProcessedSection) []core.Row {
	var rows []core.Row
	if s.Title != "" {
		rows = append(rows, row.New(9).Add(col.New(12).Add(
			text.New(s.Title, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 3}),
		)))
	}
	for _, para := range paragraphs(s.Body) {
		rows = append(rows, row.New().Add(col.New(12).Add(
			text.New(para, props.Text{Size: 10, Top: 1, Bottom: 1, Align: align.Left}),
		)))
	}
	if len(s.Columns) > 0 {
		rows = append(rows, tableRows(s.Columns, s.Rows)...)
	}
	return append(rows, row.New(3))
}

// tableRows splits the 12-column grid across the table columns; the first column absorbs
// the remainder.
func tableRows(columns []string, data [][]string) []core.Row {
	widths := columnWidths(len(columns))
	cells := func(values []string, header bool) []core.Col {
		out := make([]core.Col, 0, len(widths))
		for i, w := range widths {
			v := ""
			if i < len(values) {
				v = values[i]
			}
			p := props.Text{Size: 8, Align: align.Center, Top: 1.5, Left: 0.5, Right: 0.5}
			if header {
				p.Style = fontstyle.Bold
				p.Color = colorWhite
			}
			out = append(out, col.New(w).Add(text.New(v, p)))
		}
		return out
	}

	header := row.New(8).Add(cells(columns, true)...).
		WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	rows := []core.Row{header}
	for i, r := range data {
		dr := row.New(7).Add(cells(r, false)...)
		if i%2 == 1 {
			dr = dr.WithStyle(&props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 242, Blue: 247}})
		}
		rows = append(rows, dr)
	}
	if len(data) == 0 {
		rows = append(rows, row.New(7).Add(col.New(12).Add(
			text.New("-", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 1.5}),
		)))
	}
	return rows
}

func columnWidths(n int) []int {
	if n <= 0 {
		return nil
	}
	if n > 12 {
		n = 12
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = 12 / n
	}
	widths[0] += 12 % n
	return widths
}

func footerRow(footer string, meta ports.RenderMeta) core.Row {
	ref := fmt.Sprintf("%s/%s/v%d", meta.FundName, meta.DocumentType, meta.VersionNumber)
	if meta.Preview {
		ref = fmt.Sprintf("%s/%s/preview", meta.FundName, meta.DocumentType)
	}
	generated := ""
	if !meta.GeneratedAt.IsZero() {
		generated = "생성일시: " + meta.GeneratedAt.Format("2006-01-02 15:04")
	}
	return row.New(28).Add(
		col.New(9).Add(
			text.New(footer, props.Text{Size: 8, Color: colorGray, Top: 3}),
			text.New(generated, props.Text{Size: 7, Color: colorGray, Top: 20}),
		),
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 85, Center: true})),
	)
}

// paragraphs splits a body on blank lines; single newlines stay inside the paragraph.
func paragraphs(body string) []string {
	body = strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	if body == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
