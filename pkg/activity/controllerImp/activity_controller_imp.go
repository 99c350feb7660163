package controllerImp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"canecycle/entities"
	"canecycle/pkg/activity/repository"
	blocrepo "canecycle/pkg/bloc/repository"
	cyclerepo "canecycle/pkg/cycle/repository"
)

type ActivityCtrl struct {
	acts   repository.ActivityRepository
	cycles cyclerepo.CycleRepository
	blocs  blocrepo.BlocRepository
}

func New(ar repository.ActivityRepository, cr cyclerepo.CycleRepository, br blocrepo.BlocRepository) *ActivityCtrl {
	return &ActivityCtrl{acts: ar, cycles: cr, blocs: br}
}

type activityReq struct {
	Name          string   `json:"name"`
	Phase         string   `json:"phase"`
	Date          string   `json:"date"`
	EstimatedCost *float64 `json:"estimated_cost"`
	ActualCost    *float64 `json:"actual_cost"`
}

func (h *ActivityCtrl) Create(c echo.Context) error {
	cycle, ok := h.ownedCycle(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cycle not found"})
	}
	if cycle.Status == entities.CycleStatusClosed {
		return c.JSON(http.StatusConflict, map[string]string{"error": "cycle is closed; its activities are frozen"})
	}
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	a := &entities.Activity{
		CycleID:       cycle.CycleID,
		Name:          req.Name,
		Phase:         req.Phase,
		Date:          time.Now(),
		EstimatedCost: req.EstimatedCost,
		ActualCost:    req.ActualCost,
	}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		}
		a.Date = d
	}
	if err := h.acts.Save(a); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *ActivityCtrl) List(c echo.Context) error {
	cycle, ok := h.ownedCycle(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cycle not found"})
	}
	out, err := h.acts.FindByCycle(cycle.CycleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// Patch enters costs on an activity; the usual path is the actual cost
// once the work is done.
func (h *ActivityCtrl) Patch(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	a, err := h.acts.FindByID(uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "activity not found"})
	}
	cycle, ok := h.resolveCycle(c, a.CycleID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "activity not found"})
	}
	if cycle.Status == entities.CycleStatusClosed {
		return c.JSON(http.StatusConflict, map[string]string{"error": "cycle is closed; its activities are frozen"})
	}
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.Name != "" {
		a.Name = req.Name
	}
	if req.Phase != "" {
		a.Phase = req.Phase
	}
	if req.EstimatedCost != nil {
		a.EstimatedCost = req.EstimatedCost
	}
	if req.ActualCost != nil {
		a.ActualCost = req.ActualCost
	}
	if err := h.acts.Save(a); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, a)
}

func (h *ActivityCtrl) ownedCycle(c echo.Context, param string) (*entities.CropCycle, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil {
		return nil, false
	}
	return h.resolveCycle(c, uint(id))
}

func (h *ActivityCtrl) resolveCycle(c echo.Context, cycleID uint) (*entities.CropCycle, bool) {
	uid, _ := c.Get("uid").(string)
	cycle, err := h.cycles.FindByID(cycleID)
	if err != nil {
		return nil, false
	}
	if _, err := h.blocs.FindByID(cycle.BlocID, uid); err != nil {
		return nil, false
	}
	return cycle, true
}
