package documents

import (
	"context"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/document"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// DiffResult the changes between two versions of processed content.
type DiffResult struct {
	From    *entity.GeneratedDocument
	To      *entity.GeneratedDocument
	Changes []document.Change
}

// CompareVersions diffs the processed content of two versions. Comparing a version with
// itself yields no changes.
func (s *VersionStore) CompareVersions(ctx context.Context, fromID, toID string) (*DiffResult, error) {
	from, err := s.Get(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to := from
	if toID != fromID {
		if to, err = s.Get(ctx, toID); err != nil {
			return nil, err
		}
	}
	res := &DiffResult{From: from, To: to, Changes: []document.Change{}}
	if from.ID == to.ID {
		return res, nil
	}
	changes, err := document.Compare(from.ProcessedContent, to.ProcessedContent)
	if err != nil {
		return nil, err
	}
	if changes != nil {
		res.Changes = changes
	}
	return res, nil
}
