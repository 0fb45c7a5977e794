package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSchedule — GET /api/schedule?date=YYYY-MM-DD[&resource_id=]
// Слоты на дату с эффективным статусом (бронь/блокировка/свободно)
func (h *Handler) GetSchedule(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return badRequest(c, "параметр date обязателен в формате YYYY-MM-DD")
	}

	resourceID, err := optionalResourceID(c)
	if err != nil {
		return badRequest(c, "некорректный resource_id")
	}

	views, err := h.calendar.DaySchedule(c.Request().Context(), date, resourceID)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, views)
}

// GetWeekSchedule — GET /api/schedule/week?start=YYYY-MM-DD[&resource_id=]
func (h *Handler) GetWeekSchedule(c echo.Context) error {
	start, err := parseDate(c.QueryParam("start"))
	if err != nil {
		return badRequest(c, "параметр start обязателен в формате YYYY-MM-DD")
	}

	resourceID, err := optionalResourceID(c)
	if err != nil {
		return badRequest(c, "некорректный resource_id")
	}

	views, err := h.calendar.WeekSchedule(c.Request().Context(), start, resourceID)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, views)
}

// GetAdminSchedule — GET /api/schedule/admin?date=YYYY-MM-DD
// Сводный вид: тренировки даты, сгруппированные по тренажёрам
func (h *Handler) GetAdminSchedule(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return badRequest(c, "параметр date обязателен в формате YYYY-MM-DD")
	}

	views, err := h.sessions.AdminView(c.Request().Context(), date)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, views)
}

// GetResources — GET /api/resources
func (h *Handler) GetResources(c echo.Context) error {
	resources, err := h.calendar.Resources(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, resources)
}

// GetRates — GET /api/rates
func (h *Handler) GetRates(c echo.Context) error {
	rates, err := h.materializer.Rates(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, rates)
}
