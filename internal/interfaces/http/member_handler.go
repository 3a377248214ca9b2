package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/usecase"
)

// MemberHandler serves fund membership administration.
type MemberHandler struct {
	uc *usecase.MemberUseCase
}

// NewMemberHandler builds the handler.
func NewMemberHandler(uc *usecase.MemberUseCase) *MemberHandler {
	return &MemberHandler{uc: uc}
}

// List godoc
// @Summary      List fund members
// @Tags         admin-members
// @Security     Bearer
// @Produce      json
// @Param        fundId           path   string  true   "Fund ID"
// @Param        include_deleted  query  bool    false  "Include soft-deleted memberships"
// @Success      200  {object}  dto.MemberListResponse
// @Router       /api/admin/funds/{fundId}/members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("fundId"), c.QueryBool("include_deleted", false))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Add member
// @Tags         admin-members
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        fundId  path  string                true  "Fund ID"
// @Param        body    body  dto.AddMemberRequest  true  "Membership"
// @Success      201  {object}  dto.MemberResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/funds/{fundId}/members [post]
func (h *MemberHandler) Add(c *fiber.Ctx) error {
	var in dto.AddMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.Add(c.UserContext(), GetActor(c), c.Params("fundId"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Update member units
// @Tags         admin-members
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        fundId    path  string                   true  "Fund ID"
// @Param        memberId  path  string                   true  "Member ID"
// @Param        body      body  dto.UpdateMemberRequest  true  "Changes"
// @Success      200  {object}  dto.MemberResponse
// @Router       /api/admin/funds/{fundId}/members/{memberId} [put]
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("fundId"), c.Params("memberId"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Remove member
// @Description  type=soft (default) marks the membership deleted; type=hard removes the row and is
// @Description  limited to system administrators.
// @Tags         admin-members
// @Security     Bearer
// @Param        fundId    path   string  true   "Fund ID"
// @Param        memberId  path   string  true   "Member ID"
// @Param        type      query  string  false  "soft | hard"  default(soft)
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/funds/{fundId}/members/{memberId} [delete]
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	mode := c.Query("type", dto.DeleteSoft)
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("fundId"), c.Params("memberId"), mode); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
