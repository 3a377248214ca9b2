package ports

import (
	"context"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// RenderMeta document attributes printed around the processed content.
type RenderMeta struct {
	DocumentType  entity.DocumentType
	FundName      string
	VersionNumber int // 0 for previews
	Preview       bool
	GeneratedAt   time.Time
}

// PDFRenderer renders processed document content to PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, content entity.ProcessedContent, meta RenderMeta) ([]byte, error)
}
