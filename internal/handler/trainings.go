package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snowpro-school/schedule-service/internal/service"
)

type trainingRequest struct {
	ResourceID      int64   `json:"resource_id"`
	TrainerID       *int64  `json:"trainer_id"`
	GroupID         *int64  `json:"group_id"`
	SessionDate     string  `json:"session_date"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	IsGroup         bool    `json:"is_group"`
	MaxParticipants int     `json:"max_participants"`
	SkillLevel      string  `json:"skill_level"`
	Price           float64 `json:"price"`
}

func (r *trainingRequest) toInput() (*service.SessionInput, error) {
	date, err := parseDate(r.SessionDate)
	if err != nil {
		return nil, err
	}

	return &service.SessionInput{
		ResourceID:      r.ResourceID,
		TrainerID:       r.TrainerID,
		GroupID:         r.GroupID,
		Date:            date,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		IsGroup:         r.IsGroup,
		MaxParticipants: r.MaxParticipants,
		SkillLevel:      r.SkillLevel,
		Price:           r.Price,
	}, nil
}

// ListTrainings — GET /api/trainings?date=YYYY-MM-DD[&resource_id=]
func (h *Handler) ListTrainings(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return badRequest(c, "параметр date обязателен в формате YYYY-MM-DD")
	}

	resourceID, err := optionalResourceID(c)
	if err != nil {
		return badRequest(c, "некорректный resource_id")
	}

	sessions, err := h.sessions.ListByDate(c.Request().Context(), date, resourceID)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, sessions)
}

// CreateTraining — POST /api/trainings
func (h *Handler) CreateTraining(c echo.Context) error {
	var req trainingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	input, err := req.toInput()
	if err != nil {
		return badRequest(c, "session_date обязателен в формате YYYY-MM-DD")
	}

	session, err := h.sessions.Create(c.Request().Context(), input)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, session)
}

// UpdateTraining — PUT /api/trainings/:id
func (h *Handler) UpdateTraining(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	var req trainingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "некорректное тело запроса")
	}

	input, err := req.toInput()
	if err != nil {
		return badRequest(c, "session_date обязателен в формате YYYY-MM-DD")
	}

	session, err := h.sessions.Update(c.Request().Context(), id, input)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, session)
}

// DeleteTraining — DELETE /api/trainings/:id[?reason=]
// Мягкая отмена с возвратами подтверждённым участникам
func (h *Handler) DeleteTraining(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "некорректный id")
	}

	result, err := h.sessions.Cancel(c.Request().Context(), id, c.QueryParam("reason"))
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
