package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/usecase"
)

// FundHandler serves fund administration and the member-facing fund views.
type FundHandler struct {
	uc *usecase.FundUseCase
}

// NewFundHandler builds the handler.
func NewFundHandler(uc *usecase.FundUseCase) *FundHandler {
	return &FundHandler{uc: uc}
}

// Create godoc
// @Summary      Create fund
// @Tags         admin-funds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateFundRequest  true  "Fund"
// @Success      201   {object}  dto.FundResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/funds [post]
func (h *FundHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Update fund
// @Description  Only the fields present in the body change. Any status value is accepted.
// @Tags         admin-funds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        fundId  path      string                 true  "Fund ID"
// @Param        body    body      dto.UpdateFundRequest  true  "Changes"
// @Success      200     {object}  dto.FundResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/admin/funds/{fundId} [put]
func (h *FundHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("fundId"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get fund
// @Tags         admin-funds
// @Security     Bearer
// @Produce      json
// @Param        fundId  path      string  true  "Fund ID"
// @Success      200     {object}  dto.FundResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/admin/funds/{fundId} [get]
func (h *FundHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("fundId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List funds
// @Tags         admin-funds
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "Status filter"
// @Param        limit   query     int     false  "Limit"   default(20)
// @Param        offset  query     int     false  "Offset"  default(0)
// @Success      200     {object}  dto.FundListResponse
// @Router       /api/admin/funds [get]
func (h *FundHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(err)
	}
	out, err := h.uc.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete fund
// @Description  System administrators only. Refused while the fund has active members.
// @Tags         admin-funds
// @Security     Bearer
// @Param        fundId  path  string  true  "Fund ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/funds/{fundId} [delete]
func (h *FundHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("fundId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMine godoc
// @Summary      My funds
// @Description  Funds where the caller holds an active membership, with the caller's units.
// @Tags         funds
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MyFundResponse
// @Router       /api/funds [get]
func (h *FundHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetActor(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetMine godoc
// @Summary      Fund detail for a member
// @Tags         funds
// @Security     Bearer
// @Produce      json
// @Param        fundId  path      string  true  "Fund ID"
// @Success      200     {object}  dto.MyFundResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/funds/{fundId} [get]
func (h *FundHandler) GetMine(c *fiber.Ctx) error {
	out, err := h.uc.GetMine(c.UserContext(), GetActor(c), c.Params("fundId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
