package documents

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

// TemplateUseCase management of stored templates.
type TemplateUseCase struct {
	brand    string
	repo     repository.TemplateRepository
	funds    repository.FundRepository
	resolver *TemplateResolver
	log      *logger.Logger
	now      func() time.Time
}

// NewTemplateUseCase builds the template use case.
func NewTemplateUseCase(brand string, repo repository.TemplateRepository, funds repository.FundRepository, resolver *TemplateResolver, log *logger.Logger) *TemplateUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TemplateUseCase{brand: brand, repo: repo, funds: funds, resolver: resolver, log: log.Component("templates"), now: time.Now}
}

// Create stores a new inactive template. Without an explicit version the next patch version
// of the scope is used, starting at 1.0.0.
func (uc *TemplateUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	docType := entity.DocumentType(in.DocumentType)
	fundID := in.FundID
	if fundID != nil && *fundID == "" {
		fundID = nil
	}
	if fundID != nil {
		fund, err := uc.funds.GetByID(ctx, uc.brand, *fundID)
		if err != nil {
			return nil, err
		}
		if fund == nil {
			return nil, domain.NotFound("fund %s not found", *fundID)
		}
	}
	versions, err := uc.repo.Versions(ctx, docType, fundID)
	if err != nil {
		return nil, fmt.Errorf("list template versions: %w", err)
	}
	version := in.Version
	if version == "" {
		version = NextVersion(versions)
	} else {
		for _, v := range versions {
			if v == version {
				return nil, domain.Conflict("template version %s already exists", version)
			}
		}
	}
	t := &entity.Template{
		ID:           uuid.New().String(),
		DocumentType: docType,
		Version:      version,
		Content:      in.Content,
		FundID:       fundID,
		CreatedBy:    actor.ProfileID,
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	uc.log.Info().Str("template_id", t.ID).Str("document_type", string(docType)).Str("version", version).Msg("template created")
	return ToTemplateResponse(t), nil
}

// Activate makes a template the active one of its scope. System admins only.
func (uc *TemplateUseCase) Activate(ctx context.Context, actor entity.Actor, id string) (*dto.TemplateResponse, error) {
	if !actor.SystemAdmin {
		return nil, domain.Forbidden("only system admins can activate templates")
	}
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("template %s not found", id)
	}
	if !t.IsActive {
		if err := uc.repo.Activate(ctx, id); err != nil {
			return nil, fmt.Errorf("activate template: %w", err)
		}
		t.IsActive = true
		uc.log.Info().Str("template_id", id).Str("document_type", string(t.DocumentType)).Str("version", t.Version).Msg("template activated")
	}
	return ToTemplateResponse(t), nil
}

// Get returns a stored template.
func (uc *TemplateUseCase) Get(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("template %s not found", id)
	}
	return ToTemplateResponse(t), nil
}

// List lists stored templates.
func (uc *TemplateUseCase) List(ctx context.Context, in dto.TemplateListRequest) ([]dto.TemplateResponse, error) {
	f := repository.TemplateFilter{GlobalOnly: in.GlobalOnly}
	if in.DocumentType != "" {
		f.DocumentType = entity.DocumentType(in.DocumentType)
		if !f.DocumentType.Valid() {
			return nil, domain.Validation("unknown document type %q", in.DocumentType)
		}
	}
	if in.FundID != "" {
		f.FundID = &in.FundID
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TemplateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *ToTemplateResponse(t))
	}
	return out, nil
}

// Active returns the template a document would be generated from right now.
func (uc *TemplateUseCase) Active(ctx context.Context, docType entity.DocumentType, fundID string) (*dto.TemplateResponse, error) {
	var scope *string
	if fundID != "" {
		scope = &fundID
	}
	t, err := uc.resolver.Resolve(ctx, docType, scope)
	if err != nil {
		return nil, err
	}
	return ToTemplateResponse(t), nil
}

// NextVersion returns the patch successor of the highest semantic version in versions, or
// 1.0.0. Non-semantic versions are ignored.
func NextVersion(versions []string) string {
	var best [3]int
	found := false
	for _, v := range versions {
		p, ok := parseSemver(v)
		if !ok {
			continue
		}
		if !found || less(best, p) {
			best, found = p, true
		}
	}
	if !found {
		return "1.0.0"
	}
	return fmt.Sprintf("%d.%d.%d", best[0], best[1], best[2]+1)
}

func parseSemver(v string) ([3]int, bool) {
	var out [3]int
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

func less(a, b [3]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// ToTemplateResponse maps a template to its API form.
func ToTemplateResponse(t *entity.Template) *dto.TemplateResponse {
	out := &dto.TemplateResponse{
		ID:           t.ID,
		DocumentType: string(t.DocumentType),
		Version:      t.Version,
		FundID:       t.FundID,
		IsActive:     t.IsActive,
		Bundled:      t.IsBundled(),
		Content:      t.Content,
		CreatedBy:    t.CreatedBy,
	}
	if !t.CreatedAt.IsZero() {
		c := t.CreatedAt
		out.CreatedAt = &c
	}
	return out
}
