package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"canecycle/pkg/variety"
)

type VarietyCtrl struct{ catalog *variety.Catalog }

func New(catalog *variety.Catalog) *VarietyCtrl { return &VarietyCtrl{catalog} }

func (h *VarietyCtrl) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.All())
}
