package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/service"
)

// writeError переводит типизированные ошибки сервисного слоя в HTTP-статусы.
// Неожиданные ошибки логируются и отдаются как обезличенный 500.
func (h *Handler) writeError(c echo.Context, err error) error {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": validation.Msg})
	}

	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, map[string]string{
			"error":         conflict.Msg,
			"conflict_with": conflict.ConflictWith,
		})
	}

	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "не найдено"})
	}

	h.logger.Error("request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "внутренняя ошибка"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
