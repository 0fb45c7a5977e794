package router

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/snowpro-school/schedule-service/internal/handler"
)

// New собирает echo-приложение и регистрирует все маршруты
func New(h *handler.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/health", h.Health)

	api := e.Group("/api")

	api.GET("/resources", h.GetResources)
	api.GET("/rates", h.GetRates)

	api.GET("/schedule", h.GetSchedule)
	api.GET("/schedule/week", h.GetWeekSchedule)
	api.GET("/schedule/admin", h.GetAdminSchedule)

	api.GET("/trainings", h.ListTrainings)
	api.POST("/trainings", h.CreateTraining)
	api.PUT("/trainings/:id", h.UpdateTraining)
	api.DELETE("/trainings/:id", h.DeleteTraining)

	api.GET("/recurring-templates", h.ListTemplates)
	api.POST("/recurring-templates", h.CreateTemplate)
	api.PUT("/recurring-templates/:id", h.UpdateTemplate)
	api.DELETE("/recurring-templates/:id", h.DeleteTemplate)
	api.PATCH("/recurring-templates/:id/toggle", h.ToggleTemplate)
	api.GET("/recurring-templates/:id/preview", h.PreviewTemplate)
	api.POST("/recurring-templates/apply-current-month", h.ApplyCurrentMonth)

	api.GET("/schedule-blocks", h.ListBlocks)
	api.POST("/schedule-blocks", h.CreateBlock)
	api.PUT("/schedule-blocks/:id", h.UpdateBlock)
	api.DELETE("/schedule-blocks/:id", h.DeleteBlock)
	api.PATCH("/schedule-blocks/:id/toggle", h.ToggleBlock)
	api.POST("/schedule-blocks/templates", h.CreateBlocksFromTemplate)
	api.POST("/schedule-blocks/exceptions", h.CreateBlockException)
	api.DELETE("/schedule-blocks/exception", h.DeleteBlockException)
	api.POST("/schedule-blocks/apply-all", h.ApplyAllBlocks)

	api.GET("/wallets/:clientID", h.GetWallet)

	return e
}
