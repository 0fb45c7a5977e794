package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snowpro-school/schedule-service/internal/service"
)

type blockRequest struct {
	Name       string `json:"name"`
	BlockType  string `json:"block_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	DayOfWeek  *int   `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	ResourceID *int64 `json:"resource_id"`
	Reason     string `json:"reason"`
}

func (r *blockRequest) toInput() (*service.BlockInput, error) {
	in := &service.BlockInput{
		Name:       r.Name,
		BlockType:  r.BlockType,
		DayOfWeek:  r.DayOfWeek,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		ResourceID: r.ResourceID,
		Reason:     r.Reason,
	}

	if r.StartDate != "" {
		d, err := parseDate(r.StartDate)
		if err != nil {
			return nil, err
		}
		in.StartDate = &d
	}
	if r.EndDate != "" {
		d, err := parseDate(r.EndDate)
		if err != nil {
			return nil, err
		}
		in.EndDate = &d
	}

	return in, nil
}

type exceptionRequest struct {
	BlockID    int64  `json:"block_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	ResourceID int64  `json:"resource_id"`
}

// ListBlocks — GET /api/schedule-blocks
func (h *Handler) ListBlocks(c echo.Context) error {
	blocks, err := h.blocks.List(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, blocks)
}

// CreateBlock — POST /api/schedule-blocks
func (h *Handler) CreateBlock(c echo.Context) error {
	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	in, err := req.toInput()
	if err != nil {
		return badRequest(c, "даты ожидаются в формате YYYY-MM-DD")
	}

	block, err := h.blocks.Create(c.Request().Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, block)
}

// UpdateBlock — PUT /api/schedule-blocks/:id
func (h *Handler) UpdateBlock(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	in, err := req.toInput()
	if err != nil {
		return badRequest(c, "даты ожидаются в формате YYYY-MM-DD")
	}

	block, err := h.blocks.Update(c.Request().Context(), id, in)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, block)
}

// DeleteBlock — DELETE /api/schedule-blocks/:id
func (h *Handler) DeleteBlock(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	if err := h.blocks.Delete(c.Request().Context(), id); err != nil {
		return h.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleBlock — PATCH /api/schedule-blocks/:id/toggle
func (h *Handler) ToggleBlock(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	block, err := h.blocks.Toggle(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, block)
}

// CreateBlockException — POST /api/schedule-blocks/exceptions
func (h *Handler) CreateBlockException(c echo.Context) error {
	var req exceptionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(c, "поле date обязательно в формате YYYY-MM-DD")
	}

	exception, err := h.blocks.AddException(c.Request().Context(), req.BlockID, date, req.StartTime, req.ResourceID)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, exception)
}

// DeleteBlockException — DELETE /api/schedule-blocks/exception
func (h *Handler) DeleteBlockException(c echo.Context) error {
	var req exceptionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(c, "поле date обязательно в формате YYYY-MM-DD")
	}

	if err := h.blocks.RemoveException(c.Request().Context(), req.BlockID, date, req.StartTime, req.ResourceID); err != nil {
		return h.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ApplyAllBlocks — POST /api/schedule-blocks/apply-all
func (h *Handler) ApplyAllBlocks(c echo.Context) error {
	result, err := h.blocks.ApplyAll(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// CreateBlocksFromTemplate — POST /api/schedule-blocks/templates
func (h *Handler) CreateBlocksFromTemplate(c echo.Context) error {
	var req struct {
		Template string `json:"template"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	blocks, err := h.blocks.CreateFromTemplate(c.Request().Context(), req.Template)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, blocks)
}
