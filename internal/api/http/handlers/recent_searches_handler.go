package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-search/internal/api/dto"
	"github.com/spec-kit/ticket-search/internal/service"
)

// RecentSearchesHandler exposes the recent-search history.
type RecentSearchesHandler struct {
	history *service.HistoryService
}

// NewRecentSearchesHandler constructs handler.
func NewRecentSearchesHandler(history *service.HistoryService) *RecentSearchesHandler {
	return &RecentSearchesHandler{history: history}
}

// List GET /recent-searches.
func (h *RecentSearchesHandler) List(c *fiber.Ctx) error {
	entries, err := h.history.Recent(c.UserContext(), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.RecentSearchesResponse{Data: entries})
}

// Clear DELETE /recent-searches.
func (h *RecentSearchesHandler) Clear(c *fiber.Ctx) error {
	if err := h.history.Clear(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
