package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

func sampleContent() entity.ProcessedContent {
	return entity.ProcessedContent{
		Title:    "Member List",
		Subtitle: "Propeller Fund I",
		Sections: []entity.ProcessedSection{
			{ID: "intro", Title: "Article 1", Body: "First paragraph.\n\nSecond paragraph."},
			{
				ID:      "members",
				Columns: []string{"No", "Name", "Units", "Amount"},
				Rows:    [][]string{{"1", "Hong", "10", "10,000,000"}, {"2", "Kim", "5", "5,000,000"}},
			},
		},
		Footer: "Issued by the fund manager",
	}
}

func TestMarotoRenderer_Render(t *testing.T) {
	r, err := NewMarotoRenderer(Fonts{})
	require.NoError(t, err)

	out, err := r.Render(context.Background(), sampleContent(), ports.RenderMeta{
		DocumentType:  entity.DocumentMemberList,
		FundName:      "Propeller Fund I",
		VersionNumber: 3,
		GeneratedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestMarotoRenderer_PreviewAndEmptyTable(t *testing.T) {
	r, err := NewMarotoRenderer(Fonts{})
	require.NoError(t, err)

	c := sampleContent()
	c.Sections[1].Rows = nil
	out, err := r.Render(context.Background(), c, ports.RenderMeta{
		DocumentType: entity.DocumentMemberList,
		FundName:     "Propeller Fund I",
		Preview:      true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestMarotoRenderer_CanceledContext(t *testing.T) {
	r, err := NewMarotoRenderer(Fonts{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, sampleContent(), ports.RenderMeta{DocumentType: entity.DocumentLPA})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMissingFontFileFails(t *testing.T) {
	_, err := NewMarotoRenderer(Fonts{Regular: "/nonexistent/font.ttf"})
	assert.Error(t, err)
}

func TestColumnWidths(t *testing.T) {
	assert.Equal(t, []int{3, 3, 3, 3}, columnWidths(4))
	assert.Equal(t, []int{2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, columnWidths(11))
	assert.Equal(t, []int{4, 2, 2, 2, 2}, columnWidths(5))
	assert.Nil(t, columnWidths(0))
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"a\nb", "c"}, paragraphs("a\nb\r\n\r\nc\n"))
	assert.Nil(t, paragraphs("  "))
}
