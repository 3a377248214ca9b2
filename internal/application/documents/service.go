package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/document"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/repository"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

// GenerateOptions options of Service.Generate.
type GenerateOptions struct {
	Force bool // skip the duplicate check
}

// PDFFile a rendered or stored PDF ready to be served.
type PDFFile struct {
	Name string
	Data []byte
}

// Service document use cases exposed to the HTTP layer.
type Service struct {
	brand     string
	funds     repository.FundRepository
	resolver  *TemplateResolver
	builder   *ContextBuilder
	detector  *DuplicateDetector
	store     *VersionStore
	renderer  ports.PDFRenderer
	notifier  Notifier
	signedTTL time.Duration
	log       *logger.Logger
}

// Deps collaborators of Service.
type Deps struct {
	Brand     string
	Funds     repository.FundRepository
	Resolver  *TemplateResolver
	Builder   *ContextBuilder
	Detector  *DuplicateDetector
	Store     *VersionStore
	Renderer  ports.PDFRenderer
	Notifier  Notifier // optional
	SignedTTL time.Duration
	Log       *logger.Logger
}

// NewService builds the document service.
func NewService(d Deps) *Service {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.SignedTTL <= 0 {
		d.SignedTTL = 15 * time.Minute
	}
	return &Service{
		brand:     d.Brand,
		funds:     d.Funds,
		resolver:  d.Resolver,
		builder:   d.Builder,
		detector:  d.Detector,
		store:     d.Store,
		renderer:  d.Renderer,
		notifier:  d.Notifier,
		signedTTL: d.SignedTTL,
		log:       d.Log.Component("documents"),
	}
}

// Generate creates a new version of a document unless it would duplicate the latest one, in
// which case the latest version is returned with Duplicate set.
func (s *Service) Generate(ctx context.Context, actor entity.Actor, fundID string, docType entity.DocumentType, opts GenerateOptions) (*dto.GenerateResponse, error) {
	tmpl, err := s.resolver.Resolve(ctx, docType, &fundID)
	if err != nil {
		return nil, err
	}
	c, fund, err := s.builder.Build(ctx, docType, fundID, BuildOptions{GeneratedBy: actor.ProfileID})
	if err != nil {
		return nil, err
	}
	if !opts.Force {
		dup, latest, err := s.detector.IsDuplicate(ctx, fundID, docType, c, tmpl)
		if err != nil {
			return nil, err
		}
		if dup {
			s.log.Debug().Str("fund_id", fundID).Str("document_type", string(docType)).
				Int("version", latest.VersionNumber).Msg("generation skipped, nothing changed")
			return &dto.GenerateResponse{Duplicate: true, Document: ToDocumentResponse(latest, latest.ID, false)}, nil
		}
	}

	processed, pdf, err := s.render(ctx, tmpl, c, fund, docType, false)
	if err != nil {
		return nil, err
	}
	ctxJSON, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal context: %w", err)
	}
	procJSON, err := json.Marshal(processed)
	if err != nil {
		return nil, fmt.Errorf("marshal processed content: %w", err)
	}
	tmplID := templateID(tmpl)
	doc, err := s.store.CreateVersion(ctx, fundID, docType, NewVersion{
		Context:         ctxJSON,
		Processed:       procJSON,
		TemplateID:      tmplID,
		TemplateVersion: tmpl.Version,
		PDF:             pdf,
		CreatedBy:       actor.ProfileID,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.DocumentGenerated(fund, doc)
	return &dto.GenerateResponse{Document: ToDocumentResponse(doc, doc.ID, false)}, nil
}

// Preview renders a document without persisting anything.
func (s *Service) Preview(ctx context.Context, actor entity.Actor, fundID string, docType entity.DocumentType) (*PDFFile, error) {
	tmpl, err := s.resolver.Resolve(ctx, docType, &fundID)
	if err != nil {
		return nil, err
	}
	c, fund, err := s.builder.Build(ctx, docType, fundID, BuildOptions{IsPreview: true, GeneratedBy: actor.ProfileID})
	if err != nil {
		return nil, err
	}
	_, pdf, err := s.render(ctx, tmpl, c, fund, docType, true)
	if err != nil {
		return nil, err
	}
	return &PDFFile{Name: fileName(fund, docType, 0), Data: pdf}, nil
}

func (s *Service) render(
	ctx context.Context,
	tmpl *entity.Template,
	c *document.Context,
	fund *entity.Fund,
	docType entity.DocumentType,
	preview bool,
) (entity.ProcessedContent, []byte, error) {
	values, err := c.Values()
	if err != nil {
		return entity.ProcessedContent{}, nil, err
	}
	processed := document.Process(tmpl.Content, values)
	pdf, err := s.renderer.Render(ctx, processed, ports.RenderMeta{
		DocumentType: docType,
		FundName:     fund.Name,
		Preview:      preview,
		GeneratedAt:  c.GeneratedAt,
	})
	if err != nil {
		return entity.ProcessedContent{}, nil, fmt.Errorf("render %s: %w", docType, err)
	}
	return processed, pdf, nil
}

// ListVersions lists every version of a document of a fund, newest first.
func (s *Service) ListVersions(ctx context.Context, fundID string, docType entity.DocumentType) (*dto.DocumentListResponse, error) {
	if err := s.checkScope(ctx, fundID, docType); err != nil {
		return nil, err
	}
	docs, err := s.store.ListVersions(ctx, fundID, docType)
	if err != nil {
		return nil, err
	}
	latestID := latestOf(docs)
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, ToDocumentResponse(d, latestID, false))
	}
	return &dto.DocumentListResponse{Items: items}, nil
}

// Latest returns the latest version of a document of a fund.
func (s *Service) Latest(ctx context.Context, fundID string, docType entity.DocumentType) (*dto.DocumentResponse, error) {
	doc, err := s.latest(ctx, fundID, docType)
	if err != nil {
		return nil, err
	}
	out := ToDocumentResponse(doc, doc.ID, false)
	return &out, nil
}

// LatestPDF returns the PDF of the latest version of a document of a fund.
func (s *Service) LatestPDF(ctx context.Context, fundID string, docType entity.DocumentType) (*PDFFile, error) {
	doc, err := s.latest(ctx, fundID, docType)
	if err != nil {
		return nil, err
	}
	return s.pdf(ctx, doc.ID)
}

func (s *Service) latest(ctx context.Context, fundID string, docType entity.DocumentType) (*entity.GeneratedDocument, error) {
	if err := s.checkScope(ctx, fundID, docType); err != nil {
		return nil, err
	}
	doc, err := s.store.GetLatest(ctx, fundID, docType)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.NotFound("no %s has been generated for this fund", docType)
	}
	return doc, nil
}

// Get returns one version with its context and processed content.
func (s *Service) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	latest, err := s.store.GetLatest(ctx, doc.FundID, doc.DocumentType)
	if err != nil {
		return nil, err
	}
	out := ToDocumentResponse(doc, idOf(latest), true)
	return &out, nil
}

// PDF returns the stored PDF of a version.
func (s *Service) PDF(ctx context.Context, id string) (*PDFFile, error) {
	return s.pdf(ctx, id)
}

func (s *Service) pdf(ctx context.Context, id string) (*PDFFile, error) {
	data, doc, err := s.store.Download(ctx, id)
	if err != nil {
		return nil, err
	}
	fund, err := s.funds.GetByID(ctx, s.brand, doc.FundID)
	if err != nil {
		return nil, err
	}
	return &PDFFile{Name: fileName(fund, doc.DocumentType, doc.VersionNumber), Data: data}, nil
}

// SignedURL returns a time limited download link of a version.
func (s *Service) SignedURL(ctx context.Context, id string) (*dto.SignedURLResponse, error) {
	url, exp, err := s.store.SignedURL(ctx, id, s.signedTTL)
	if err != nil {
		return nil, err
	}
	return &dto.SignedURLResponse{URL: url, ExpiresAt: exp}, nil
}

// Delete removes a version according to the delete semantics of its type.
func (s *Service) Delete(ctx context.Context, actor entity.Actor, id string) error {
	doc, err := s.store.DeleteVersion(ctx, id)
	if err != nil {
		return err
	}
	s.log.Info().Str("document_id", id).Str("fund_id", doc.FundID).
		Str("document_type", string(doc.DocumentType)).Int("version", doc.VersionNumber).
		Bool("soft", doc.DocumentType.SoftDelete()).Str("by", actor.ProfileID).
		Msg("document version deleted")
	return nil
}

// Compare diffs two versions.
func (s *Service) Compare(ctx context.Context, fromID, toID string) (*dto.DiffResponse, error) {
	if fromID == "" || toID == "" {
		return nil, domain.Validation("both from and to are required")
	}
	res, err := s.store.CompareVersions(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	return &dto.DiffResponse{
		From:    ToDocumentResponse(res.From, "", false),
		To:      ToDocumentResponse(res.To, "", false),
		Changes: res.Changes,
	}, nil
}

func (s *Service) checkScope(ctx context.Context, fundID string, docType entity.DocumentType) error {
	if !docType.Valid() {
		return domain.Validation("unknown document type %q", docType)
	}
	fund, err := s.funds.GetByID(ctx, s.brand, fundID)
	if err != nil {
		return err
	}
	if fund == nil {
		return domain.NotFound("fund %s not found", fundID)
	}
	return nil
}

// ToDocumentResponse maps a version to its API form. latestID marks the latest version;
// detail includes the stored context and content.
func ToDocumentResponse(d *entity.GeneratedDocument, latestID string, detail bool) dto.DocumentResponse {
	out := dto.DocumentResponse{
		ID:              d.ID,
		FundID:          d.FundID,
		DocumentType:    string(d.DocumentType),
		VersionNumber:   d.VersionNumber,
		TemplateID:      d.TemplateID,
		TemplateVersion: d.TemplateVersion,
		IsActive:        d.IsActive,
		IsLatest:        latestID != "" && d.ID == latestID,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
	}
	if detail {
		out.GenerationContext = d.GenerationContext
		out.ProcessedContent = d.ProcessedContent
	}
	return out
}

// latestOf returns the id of the active version with the highest number.
func latestOf(docs []*entity.GeneratedDocument) string {
	var best *entity.GeneratedDocument
	for _, d := range docs {
		if d.IsActive && (best == nil || d.VersionNumber > best.VersionNumber) {
			best = d
		}
	}
	return idOf(best)
}

func idOf(d *entity.GeneratedDocument) string {
	if d == nil {
		return ""
	}
	return d.ID
}

func templateID(t *entity.Template) *string {
	if t.IsBundled() {
		return nil
	}
	id := t.ID
	return &id
}

func fileName(fund *entity.Fund, docType entity.DocumentType, version int) string {
	name := string(docType)
	if fund != nil {
		if fund.Abbreviation != "" {
			name = fund.Abbreviation + "_" + name
		} else {
			name = fund.Name + "_" + name
		}
	}
	if version > 0 {
		return fmt.Sprintf("%s_v%d.pdf", name, version)
	}
	return name + "_preview.pdf"
}
