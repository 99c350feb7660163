package controllerImp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	blocrepo "canecycle/pkg/bloc/repository"
	"canecycle/pkg/cycle/repository"
	"canecycle/pkg/cycle/service"
	"canecycle/pkg/cycle/types"
	metrics "canecycle/pkg/metrics/service"
)

type CycleCtrl struct {
	svc     service.CycleService
	metrics metrics.MetricsService
	cycles  repository.CycleRepository
	blocs   blocrepo.BlocRepository
}

func New(svc service.CycleService, ms metrics.MetricsService, cr repository.CycleRepository, br blocrepo.BlocRepository) *CycleCtrl {
	return &CycleCtrl{svc: svc, metrics: ms, cycles: cr, blocs: br}
}

type createPlantationReq struct {
	SugarcaneVarietyID string  `json:"sugarcane_variety_id"`
	IntercropVarietyID string  `json:"intercrop_variety_id"`
	PlantingDate       string  `json:"planting_date"`
	PlannedHarvestDate string  `json:"planned_harvest_date"`
	ExpectedYieldTPH   float64 `json:"expected_yield_tph"`
}

type createRatoonReq struct {
	ParentCycleID      uint    `json:"parent_cycle_id"`
	RatoonPlantingDate string  `json:"ratoon_planting_date"`
	PlannedHarvestDate string  `json:"planned_harvest_date"`
	ExpectedYieldTPH   float64 `json:"expected_yield_tph"`
	IntercropVarietyID string  `json:"intercrop_variety_id"`
}

type updateCycleReq struct {
	PlannedHarvestDate *string  `json:"planned_harvest_date"`
	ExpectedYieldTPH   *float64 `json:"expected_yield_tph"`
	IntercropVarietyID *string  `json:"intercrop_variety_id"`
}

type closeCycleReq struct {
	ActualHarvestDate string `json:"actual_harvest_date"`
}

func (h *CycleCtrl) CreatePlantation(c echo.Context) error {
	blocID, ok := h.ownedBloc(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "bloc not found"})
	}
	var req createPlantationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	planting, ok1 := parseDate(req.PlantingDate)
	planned, ok2 := parseDate(req.PlannedHarvestDate)
	if !ok1 || !ok2 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "dates must be YYYY-MM-DD"})
	}
	cycle, err := h.svc.CreatePlantation(types.CreatePlantationRequest{
		BlocID:             blocID,
		SugarcaneVarietyID: req.SugarcaneVarietyID,
		IntercropVarietyID: req.IntercropVarietyID,
		PlantingDate:       planting,
		PlannedHarvestDate: planned,
		ExpectedYieldTPH:   req.ExpectedYieldTPH,
	})
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, cycle)
}

func (h *CycleCtrl) CreateRatoon(c echo.Context) error {
	blocID, ok := h.ownedBloc(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "bloc not found"})
	}
	var req createRatoonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	planting, ok1 := parseDate(req.RatoonPlantingDate)
	planned, ok2 := parseDate(req.PlannedHarvestDate)
	if !ok1 || !ok2 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "dates must be YYYY-MM-DD"})
	}
	cycle, err := h.svc.CreateRatoon(types.CreateRatoonRequest{
		BlocID:             blocID,
		ParentCycleID:      req.ParentCycleID,
		RatoonPlantingDate: planting,
		PlannedHarvestDate: planned,
		ExpectedYieldTPH:   req.ExpectedYieldTPH,
		IntercropVarietyID: req.IntercropVarietyID,
	})
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusCreated, cycle)
}

func (h *CycleCtrl) History(c echo.Context) error {
	blocID, ok := h.ownedBloc(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "bloc not found"})
	}
	out, err := h.svc.History(blocID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CycleCtrl) Active(c echo.Context) error {
	blocID, ok := h.ownedBloc(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "bloc not found"})
	}
	cycle, err := h.svc.Active(blocID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if cycle == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no active cycle"})
	}
	return c.JSON(http.StatusOK, cycle)
}

func (h *CycleCtrl) Update(c echo.Context) error {
	cycleID, ok := h.ownedCycle(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cycle not found"})
	}
	var req updateCycleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	patch := types.UpdateCycleRequest{
		ExpectedYieldTPH:   req.ExpectedYieldTPH,
		IntercropVarietyID: req.IntercropVarietyID,
	}
	if req.PlannedHarvestDate != nil {
		d, ok := parseDate(*req.PlannedHarvestDate)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "dates must be YYYY-MM-DD"})
		}
		patch.PlannedHarvestDate = &d
	}
	cycle, err := h.svc.Update(cycleID, patch)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, cycle)
}

func (h *CycleCtrl) Close(c echo.Context) error {
	cycleID, ok := h.ownedCycle(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cycle not found"})
	}
	var req closeCycleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.ActualHarvestDate == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "actual_harvest_date is required"})
	}
	harvest, ok := parseDate(req.ActualHarvestDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "actual_harvest_date must be YYYY-MM-DD"})
	}
	cycle, err := h.svc.Close(cycleID, harvest)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, cycle)
}

func (h *CycleCtrl) ClosureValidation(c echo.Context) error {
	cycleID, ok := h.ownedCycle(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cycle not found"})
	}
	var candidate time.Time
	if q := c.QueryParam("date"); q != "" {
		d, ok := parseDate(q)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		}
		candidate = d
	}
	v, err := h.svc.ValidateForClosure(cycleID, candidate)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CycleCtrl) Totals(c echo.Context) error {
	cycleID, ok := h.ownedCycle(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cycle not found"})
	}
	totals, err := h.metrics.Snapshot(cycleID)
	if err != nil {
		return renderError(c, err)
	}
	if totals == nil {
		// No activities or observations yet; the UI renders TBC.
		return c.JSON(http.StatusOK, map[string]string{"status": "tbc"})
	}
	return c.JSON(http.StatusOK, totals)
}

// ownedBloc resolves :id as a bloc owned by the request user.
func (h *CycleCtrl) ownedBloc(c echo.Context) (uint, bool) {
	uid, _ := c.Get("uid").(string)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, false
	}
	if _, err := h.blocs.FindByID(uint(id), uid); err != nil {
		return 0, false
	}
	return uint(id), true
}

// ownedCycle resolves :id as a cycle whose bloc is owned by the request user.
func (h *CycleCtrl) ownedCycle(c echo.Context) (uint, bool) {
	uid, _ := c.Get("uid").(string)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, false
	}
	cycle, err := h.cycles.FindByID(uint(id))
	if err != nil {
		return 0, false
	}
	if _, err := h.blocs.FindByID(cycle.BlocID, uid); err != nil {
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// renderError maps the engine error taxonomy onto HTTP statuses:
// ValidationError -> 422 with the complete violation list, StateError ->
// 409, not-found sentinels -> 404.
func renderError(c echo.Context, err error) error {
	if ve, ok := types.AsValidation(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":      "validation",
			"violations": ve.Violations,
		})
	}
	if se, ok := types.AsState(err); ok {
		return c.JSON(http.StatusConflict, map[string]string{"error": se.Reason})
	}
	if errors.Is(err, types.ErrCycleNotFound) || errors.Is(err, types.ErrBlocNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
