package controllerImp

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"canecycle/entities"
	"canecycle/pkg/bloc/repository"
)

type BlocCtrl struct{ repo repository.BlocRepository }

func New(repo repository.BlocRepository) *BlocCtrl { return &BlocCtrl{repo} }

type createReq struct {
	Name         string  `json:"name"`
	AreaHectares float64 `json:"area_hectares"`
}

func (h *BlocCtrl) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	if req.AreaHectares <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "area_hectares must be greater than zero"})
	}
	b := &entities.Bloc{UserID: uid, Name: req.Name, AreaHectares: req.AreaHectares}
	if err := h.repo.Create(b); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BlocCtrl) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	id, _ := strconv.Atoi(c.Param("id"))
	b, err := h.repo.FindByID(uint(id), uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BlocCtrl) List(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	out, err := h.repo.List(uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
