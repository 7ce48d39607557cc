package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/ticket-search/internal/api/dto"
	"github.com/spec-kit/ticket-search/internal/domain"
	"github.com/spec-kit/ticket-search/internal/service"
	apperrors "github.com/spec-kit/ticket-search/pkg/util"
)

// TicketsHandler serves search and ticket detail endpoints.
type TicketsHandler struct {
	service *service.SearchService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(searchService *service.SearchService) *TicketsHandler {
	return &TicketsHandler{service: searchService}
}

// Search GET /search.
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	params, err := parseSearchQuery(c)
	if err != nil {
		return err
	}
	resp, err := h.service.Search(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSearchResponse(resp))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("ticket id must be a positive integer", map[string]any{"id": c.Params("id")})
	}
	detail, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketDetail(detail))
}

// parseSearchQuery copies every value out of the request buffer: the params
// outlive the handler through the search_performed event.
func parseSearchQuery(c *fiber.Ctx) (domain.SearchParams, error) {
	params := domain.SearchParams{
		Keyword:   utils.CopyString(c.Query("q")),
		Status:    utils.CopyString(c.Query("status")),
		SortBy:    utils.CopyString(c.Query("sort_by")),
		SortOrder: utils.CopyString(c.Query("sort_order")),
	}
	if strings.TrimSpace(params.Keyword) == "" {
		return params, apperrors.NewValidationError("q required", nil)
	}
	if raw := c.Query("search_content"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return params, apperrors.NewValidationError("search_content must be a boolean", map[string]any{"search_content": raw})
		}
		params.SearchContent = parsed
	}
	return params, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
