package handlers

import (
	"errors"

	"financer/internal/dto"
	"financer/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SuggestionHandler struct {
	suggestionService *service.SuggestionService
	logger            *zap.Logger
}

func NewSuggestionHandler(suggestionService *service.SuggestionService, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
		logger:            logger,
	}
}

// GetSuggestions godoc
// @Summary AI spending suggestions
// @Description Ask the configured LLM for ways to cut spending, based on the caller's statistics
// @Tags suggestions
// @Produce json
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Security Bearer
// @Success 200 {object} dto.SuggestionsResponse
// @Router /api/v1/suggestions [get]
func (h *SuggestionHandler) GetSuggestions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	start, err := parseDateQuery(c, "startDate")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid startDate")
	}
	end, err := parseDateQuery(c, "endDate")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid endDate")
	}

	suggestions, err := h.suggestionService.Suggest(c.Context(), userID, start, end)
	if err != nil {
		if errors.Is(err, service.ErrNoSuggestions) {
			return c.JSON(dto.SuggestionsResponse{
				Suggestions: []dto.SpendingSuggestion{},
				Message:     service.ErrNoSuggestions.Error(),
			})
		}
		return err
	}

	return c.JSON(dto.SuggestionsResponse{Suggestions: suggestions})
}
