package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/snowpro-school/schedule-service/internal/service"
)

// ListTemplates — GET /api/recurring-templates
func (h *Handler) ListTemplates(c echo.Context) error {
	templates, err := h.templates.List(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, templates)
}

// CreateTemplate — POST /api/recurring-templates
func (h *Handler) CreateTemplate(c echo.Context) error {
	var in service.TemplateInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	template, err := h.templates.Create(c.Request().Context(), &in)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, template)
}

// UpdateTemplate — PUT /api/recurring-templates/:id
func (h *Handler) UpdateTemplate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	var in service.TemplateInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	template, err := h.templates.Update(c.Request().Context(), id, &in)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, template)
}

// DeleteTemplate — DELETE /api/recurring-templates/:id
// Каскад: будущие запланированные тренировки шаблона отменяются с возвратами
func (h *Handler) DeleteTemplate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	result, err := h.sessions.CancelTemplate(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// ToggleTemplate — PATCH /api/recurring-templates/:id/toggle
func (h *Handler) ToggleTemplate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	template, err := h.templates.Toggle(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, template)
}

// PreviewTemplate — GET /api/recurring-templates/:id/preview?month=YYYY-MM
func (h *Handler) PreviewTemplate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	target := time.Now()
	if raw := c.QueryParam("month"); raw != "" {
		target, err = time.Parse("2006-01", raw)
		if err != nil {
			return badRequest(c, "параметр month ожидается в формате YYYY-MM")
		}
	}

	preview, err := h.materializer.PreviewTemplate(c.Request().Context(), id, target)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, preview)
}

// ApplyCurrentMonth — POST /api/recurring-templates/apply-current-month
// Применяет шаблоны к уже сгенерированному горизонту слотов начиная с сегодня
func (h *Handler) ApplyCurrentMonth(c echo.Context) error {
	result, err := h.materializer.ApplyCurrentRange(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
