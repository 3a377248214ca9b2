package documents

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/document"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
)

// DuplicateDetector decides whether generating a document would reproduce the latest version.
type DuplicateDetector struct {
	docs repository.DocumentRepository
}

// NewDuplicateDetector builds a detector over the document repository.
func NewDuplicateDetector(docs repository.DocumentRepository) *DuplicateDetector {
	return &DuplicateDetector{docs: docs}
}

// IsDuplicate reports whether c and tmpl match the latest active version of the scope after
// normalisation. Template versions are numbered per scope, so the template identity is
// compared along with its version. The latest version is returned when one exists.
func (d *DuplicateDetector) IsDuplicate(
	ctx context.Context,
	fundID string,
	docType entity.DocumentType,
	c *document.Context,
	tmpl *entity.Template,
) (bool, *entity.GeneratedDocument, error) {
	latest, err := d.docs.GetLatest(ctx, fundID, docType)
	if err != nil {
		return false, nil, fmt.Errorf("load latest version: %w", err)
	}
	if latest == nil {
		return false, nil, nil
	}
	if !sameTemplate(latest, tmpl) {
		return false, latest, nil
	}
	cur, err := document.NormalizeContext(c)
	if err != nil {
		return false, latest, err
	}
	prev, err := document.Normalize(latest.GenerationContext)
	if err != nil {
		return false, latest, fmt.Errorf("normalise stored context of %s: %w", latest.ID, err)
	}
	return bytes.Equal(cur, prev), latest, nil
}

// sameTemplate reports whether doc was rendered from tmpl. A nil TemplateID means a bundled
// default.
func sameTemplate(doc *entity.GeneratedDocument, tmpl *entity.Template) bool {
	if doc.TemplateVersion != tmpl.Version {
		return false
	}
	id := templateID(tmpl)
	if doc.TemplateID == nil || id == nil {
		return doc.TemplateID == nil && id == nil
	}
	return *doc.TemplateID == *id
}
