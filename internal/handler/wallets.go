package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetWallet — GET /api/wallets/:clientID
// Кошелёк клиента с журналом транзакций для сверки возвратов
func (h *Handler) GetWallet(c echo.Context) error {
	clientID, err := parseID(c, "clientID")
	if err != nil {
		return badRequest(c, "некорректный clientID")
	}

	view, err := h.wallets.GetByClient(c.Request().Context(), clientID)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, view)
}
