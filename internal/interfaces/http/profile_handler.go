package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/auth"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/usecase"
)

// ProfileHandler serves profile administration and /me.
type ProfileHandler struct {
	uc     *usecase.ProfileUseCase
	authUC *auth.AuthUseCase
}

// NewProfileHandler builds the handler.
func NewProfileHandler(uc *usecase.ProfileUseCase, authUC *auth.AuthUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc, authUC: authUC}
}

// Me godoc
// @Summary      Caller's profile
// @Description  Links a survey profile with the same e-mail on first sign-in.
// @Tags         me
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	out, err := h.authUC.Me(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Search profiles
// @Tags         admin-profiles
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Name or e-mail"
// @Param        role    query  string  false  "USER | ADMIN"
// @Param        limit   query  int     false  "Limit"   default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProfileListResponse
// @Router       /api/admin/profiles [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	var in dto.ProfileListRequest
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
// @Summary      Create profile
// @Tags         admin-profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProfileRequest  true  "Profile"
// @Success      201  {object}  dto.ProfileResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/profiles [post]
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Get profile
// @Tags         admin-profiles
// @Security     Bearer
// @Produce      json
// @Param        profileId  path  string  true  "Profile ID"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/profiles/{profileId} [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("profileId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update profile
// @Tags         admin-profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        profileId  path  string                    true  "Profile ID"
// @Param        body       body  dto.UpdateProfileRequest  true  "Changes"
// @Success      200  {object}  dto.ProfileResponse
// @Router       /api/admin/profiles/{profileId} [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("profileId"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
