package http

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/documents"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// DocumentHandler serves document generation, versions and downloads.
type DocumentHandler struct {
	svc *documents.Service
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(svc *documents.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// Generate godoc
// @Summary      Generate a document version
// @Description  Returns 201 with the new version, or 200 with duplicate=true and the latest
// @Description  version when nothing changed. force=true always creates a version.
// @Tags         admin-documents
// @Security     Bearer
// @Produce      json
// @Param        fundId  path   string  true   "Fund ID"
// @Param        type    path   string  true   "lpa | personal_info_consent | member_list"
// @Param        force   query  bool    false  "Skip the duplicate check"
// @Success      201  {object}  dto.GenerateResponse
// @Success      200  {object}  dto.GenerateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/funds/{fundId}/documents/{type}/generate [post]
func (h *DocumentHandler) Generate(c *fiber.Ctx) error {
	docType, err := docTypeParam(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Generate(c.UserContext(), GetActor(c), c.Params("fundId"), docType,
		documents.GenerateOptions{Force: c.QueryBool("force", false)})
	if err != nil {
		return err
	}
	if out.Duplicate {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Preview godoc
// @Summary      Preview a document
// @Description  Renders the current data with a preview banner. Nothing is stored.
// @Tags         admin-documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        fundId  path  string  true  "Fund ID"
// @Param        type    path  string  true  "Document type"
// @Success      200  {file}  binary
// @Router       /api/admin/funds/{fundId}/documents/{type}/preview [get]
func (h *DocumentHandler) Preview(c *fiber.Ctx) error {
	docType, err := docTypeParam(c)
	if err != nil {
		return err
	}
	f, err := h.svc.Preview(c.UserContext(), GetActor(c), c.Params("fundId"), docType)
	if err != nil {
		return err
	}
	return sendPDF(c, f, "inline")
}

// Versions godoc
// @Summary      List document versions
// @Tags         admin-documents
// @Security     Bearer
// @Produce      json
// @Param        fundId  path  string  true  "Fund ID"
// @Param        type    path  string  true  "Document type"
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/admin/funds/{fundId}/documents/{type}/versions [get]
func (h *DocumentHandler) Versions(c *fiber.Ctx) error {
	docType, err := docTypeParam(c)
	if err != nil {
		return err
	}
	out, err := h.svc.ListVersions(c.UserContext(), c.Params("fundId"), docType)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Latest godoc
// @Summary      Latest document version
// @Tags         admin-documents
// @Security     Bearer
// @Produce      json
// @Param        fundId  path  string  true  "Fund ID"
// @Param        type    path  string  true  "Document type"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/funds/{fundId}/documents/{type}/latest [get]
func (h *DocumentHandler) Latest(c *fiber.Ctx) error {
	docType, err := docTypeParam(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Latest(c.UserContext(), c.Params("fundId"), docType)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LatestPDF godoc
// @Summary      Download the latest document
// @Description  Available to members of the fund.
// @Tags         funds
// @Security     Bearer
// @Produce      application/pdf
// @Param        fundId  path  string  true  "Fund ID"
// @Param        type    path  string  true  "Document type"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/funds/{fundId}/documents/{type}/latest [get]
func (h *DocumentHandler) LatestPDF(c *fiber.Ctx) error {
	docType, err := docTypeParam(c)
	if err != nil {
		return err
	}
	f, err := h.svc.LatestPDF(c.UserContext(), c.Params("fundId"), docType)
	if err != nil {
		return err
	}
	return sendPDF(c, f, "attachment")
}

// Compare godoc
// @Summary      Compare two versions
// @Tags         admin-documents
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Older document ID"
// @Param        to    query  string  true  "Newer document ID"
// @Success      200  {object}  dto.DiffResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/documents/compare [get]
func (h *DocumentHandler) Compare(c *fiber.Ctx) error {
	out, err := h.svc.Compare(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get a version
// @Description  Includes the generation context and the processed content.
// @Tags         admin-documents
// @Security     Bearer
// @Produce      json
// @Param        documentId  path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/documents/{documentId} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), c.Params("documentId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Download a version
// @Tags         admin-documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        documentId   path   string  true   "Document ID"
// @Param        disposition  query  string  false  "inline | attachment"  default(attachment)
// @Success      200  {file}  binary
// @Router       /api/admin/documents/{documentId}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	disposition := c.Query("disposition", "attachment")
	if disposition != "inline" && disposition != "attachment" {
		return domain.Validation("disposition must be inline or attachment")
	}
	f, err := h.svc.PDF(c.UserContext(), c.Params("documentId"))
	if err != nil {
		return err
	}
	return sendPDF(c, f, disposition)
}

// SignedURL godoc
// @Summary      Signed download link
// @Tags         admin-documents
// @Security     Bearer
// @Produce      json
// @Param        documentId  path  string  true  "Document ID"
// @Success      200  {object}  dto.SignedURLResponse
// @Router       /api/admin/documents/{documentId}/url [get]
func (h *DocumentHandler) SignedURL(c *fiber.Ctx) error {
	out, err := h.svc.SignedURL(c.UserContext(), c.Params("documentId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete a version
// @Description  member_list versions are deactivated; other types are removed unless they are
// @Description  the latest version.
// @Tags         admin-documents
// @Security     Bearer
// @Param        documentId  path  string  true  "Document ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/documents/{documentId} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), GetActor(c), c.Params("documentId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func docTypeParam(c *fiber.Ctx) (entity.DocumentType, error) {
	t := entity.DocumentType(c.Params("type"))
	if !t.Valid() {
		return "", domain.Validation("unknown document type %q", c.Params("type"))
	}
	return t, nil
}

// sendPDF writes f with a Content-Disposition that keeps non-ASCII file names intact.
func sendPDF(c *fiber.Ctx, f *documents.PDFFile, disposition string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, contentDisposition(disposition, f.Name))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(f.Data)
}

func contentDisposition(disposition, name string) string {
	ascii := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		ascii = append(ascii, r)
	}
	return fmt.Sprintf(`%s; filename="%s"; filename*=UTF-8''%s`, disposition, string(ascii), url.PathEscape(name))
}
