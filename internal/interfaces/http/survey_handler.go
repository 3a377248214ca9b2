package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/dto"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/usecase"
)

// SurveyHandler serves the public onboarding survey.
type SurveyHandler struct {
	uc *usecase.SurveyUseCase
}

// NewSurveyHandler builds the handler.
func NewSurveyHandler(uc *usecase.SurveyUseCase) *SurveyHandler {
	return &SurveyHandler{uc: uc}
}

// Submit godoc
// @Summary      Submit investment survey
// @Description  Public. Creates or updates the applicant's profile and membership.
// @Tags         survey
// @Accept       json
// @Produce      json
// @Param        fundId  path  string             true  "Fund ID"
// @Param        body    body  dto.SurveyRequest  true  "Answers"
// @Success      200  {object}  dto.SurveyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/funds/{fundId}/survey [post]
func (h *SurveyHandler) Submit(c *fiber.Ctx) error {
	var in dto.SurveyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(err)
	}
	out, err := h.uc.Submit(c.UserContext(), c.Params("fundId"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
