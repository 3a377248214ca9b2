package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/documents"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// TemplateHandler serves template versions.
type TemplateHandler struct {
	uc *documents.TemplateUseCase
}

// NewTemplateHandler builds the handler.
func NewTemplateHandler(uc *documents.TemplateUseCase) *TemplateHandler {
	return &TemplateHandler{uc: uc}
}

// List godoc
// @Summary      List templates
// @Tags         admin-templates
// @Security     Bearer
// @Produce      json
// @Param        type     query  string  false  "Document type"
// @Param        fund_id  query  string  false  "Fund-specific templates of this fund"
// @Param        global   query  bool    false  "Global templates only"
// @Success      200  {array}  dto.TemplateResponse
// @Router       /api/admin/templates [get]
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	var in dto.TemplateListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Create a template version
// @Description  The new version starts inactive. version defaults to the next patch in scope.
// @Tags         admin-templates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTemplateRequest  true  "Template"
// @Success      201  {object}  dto.TemplateResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/templates [post]
func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Active godoc
// @Summary      Template in effect
// @Description  Fund template first, then the global one, then the bundled default.
// @Tags         admin-templates
// @Security     Bearer
// @Produce      json
// @Param        type     query  string  true   "Document type"
// @Param        fund_id  query  string  false  "Fund ID"
// @Success      200  {object}  dto.TemplateResponse
// @Router       /api/admin/templates/active [get]
func (h *TemplateHandler) Active(c *fiber.Ctx) error {
	out, err := h.uc.Active(c.UserContext(), entity.DocumentType(c.Query("type")), c.Query("fund_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get template
// @Tags         admin-templates
// @Security     Bearer
// @Produce      json
// @Param        templateId  path  string  true  "Template ID"
// @Success      200  {object}  dto.TemplateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/templates/{templateId} [get]
func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("templateId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Activate godoc
// @Summary      Activate template
// @Description  System administrators only. Deactivates the previous template of the scope.
// @Tags         admin-templates
// @Security     Bearer
// @Produce      json
// @Param        templateId  path  string  true  "Template ID"
// @Success      200  {object}  dto.TemplateResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/templates/{templateId}/activate [post]
func (h *TemplateHandler) Activate(c *fiber.Ctx) error {
	out, err := h.uc.Activate(c.UserContext(), GetActor(c), c.Params("templateId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
