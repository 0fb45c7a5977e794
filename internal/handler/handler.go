package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/service"
)

// Handler собирает HTTP-обработчики поверх сервисного слоя
type Handler struct {
	calendar     *service.CalendarService
	sessions     *service.SessionService
	templates    *service.TemplateService
	materializer *service.MaterializerService
	blocks       *service.BlockService
	wallets      *service.WalletService
	logger       *zap.Logger
}

func New(
	calendar *service.CalendarService,
	sessions *service.SessionService,
	templates *service.TemplateService,
	materializer *service.MaterializerService,
	blocks *service.BlockService,
	wallets *service.WalletService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		calendar:     calendar,
		sessions:     sessions,
		templates:    templates,
		materializer: materializer,
		blocks:       blocks,
		wallets:      wallets,
		logger:       logger,
	}
}

func parseID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// optionalResourceID читает необязательный query-параметр resource_id
func optionalResourceID(c echo.Context) (*int64, error) {
	raw := c.QueryParam("resource_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
