package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"canecycle/pkg/market"
)

type MarketCtrl struct{ client *market.Client }

func New(client *market.Client) *MarketCtrl { return &MarketCtrl{client} }

func (h *MarketCtrl) Latest(c echo.Context) error {
	p, err := h.client.Latest()
	if err != nil {
		if errors.Is(err, market.ErrNoBulletin) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "no price bulletin configured"})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, p)
}
