package controllerImp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"canecycle/entities"
	blocrepo "canecycle/pkg/bloc/repository"
	"canecycle/pkg/calc"
	cyclerepo "canecycle/pkg/cycle/repository"
	"canecycle/pkg/observation/repository"
)

type ObservationCtrl struct {
	obs    repository.ObservationRepository
	cycles cyclerepo.CycleRepository
	blocs  blocrepo.BlocRepository
}

func New(or repository.ObservationRepository, cr cyclerepo.CycleRepository, br blocrepo.BlocRepository) *ObservationCtrl {
	return &ObservationCtrl{obs: or, cycles: cr, blocs: br}
}

type observationReq struct {
	Category string `json:"category"`
	Date     string `json:"date"`

	TotalYieldTons    *float64 `json:"total_yield_tons"`
	YieldPerHectare   *float64 `json:"yield_per_hectare"`
	Revenue           *float64 `json:"revenue"`
	RevenuePerHectare *float64 `json:"revenue_per_hectare"`
	PricePerTonne     *float64 `json:"price_per_tonne"`

	BrixPct *float64 `json:"brix_pct"`
	CCSPct  *float64 `json:"ccs_pct"`
	Note    string   `json:"note"`

	// Edited names which of the five numeric fields the user changed, so
	// the dependent fields can be kept consistent. Empty stores as-is.
	Edited string `json:"edited"`
}

func (h *ObservationCtrl) Create(c echo.Context) error {
	cycle, bloc, ok := h.ownedCycle(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cycle not found"})
	}
	if cycle.Status == entities.CycleStatusClosed {
		return c.JSON(http.StatusConflict, map[string]string{"error": "cycle is closed; its observations are frozen"})
	}
	var req observationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.Category != entities.ObsCategorySugarcaneYield && req.Category != entities.ObsCategoryIntercropYield {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "category must be sugarcane-yield-quality or intercrop-yield-quality"})
	}

	o := &entities.Observation{
		CycleID:  cycle.CycleID,
		Category: req.Category,
		Date:     time.Now(),
		BrixPct:  req.BrixPct,
		CCSPct:   req.CCSPct,
		Note:     req.Note,
	}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		}
		o.Date = d
	}
	applyRecord(o, syncRecord(req, calc.Record{}, bloc.AreaHectares))

	if err := h.obs.Save(o); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *ObservationCtrl) List(c echo.Context) error {
	cycle, _, ok := h.ownedCycle(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cycle not found"})
	}
	out, err := h.obs.FindByCycle(cycle.CycleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ObservationCtrl) Patch(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	o, err := h.obs.FindByID(uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "observation not found"})
	}
	cycle, bloc, ok := h.resolveCycle(c, o.CycleID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "observation not found"})
	}
	if cycle.Status == entities.CycleStatusClosed {
		return c.JSON(http.StatusConflict, map[string]string{"error": "cycle is closed; its observations are frozen"})
	}
	var req observationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.Edited == "" {
		req.Edited = c.QueryParam("edited")
	}

	current := calc.Record{
		TotalYieldTons:    o.TotalYieldTons,
		YieldPerHectare:   o.YieldPerHectare,
		Revenue:           o.Revenue,
		RevenuePerHectare: o.RevenuePerHectare,
		PricePerTonne:     o.PricePerTonne,
	}
	applyRecord(o, syncRecord(req, current, bloc.AreaHectares))

	if req.BrixPct != nil {
		o.BrixPct = req.BrixPct
	}
	if req.CCSPct != nil {
		o.CCSPct = req.CCSPct
	}
	if req.Note != "" {
		o.Note = req.Note
	}
	if err := h.obs.Save(o); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, o)
}

// Delete removes an observation on explicit user request only.
func (h *ObservationCtrl) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad id"})
	}
	o, err := h.obs.FindByID(uint(id))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "observation not found"})
	}
	cycle, _, ok := h.resolveCycle(c, o.CycleID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "observation not found"})
	}
	if cycle.Status == entities.CycleStatusClosed {
		return c.JSON(http.StatusConflict, map[string]string{"error": "cycle is closed; its observations are frozen"})
	}
	if err := h.obs.Delete(uint(id)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// syncRecord overlays the request's supplied fields onto the current
// record and, when an edited field is named, recomputes the dependents.
func syncRecord(req observationReq, current calc.Record, area float64) calc.Record {
	if req.TotalYieldTons != nil {
		current.TotalYieldTons = req.TotalYieldTons
	}
	if req.YieldPerHectare != nil {
		current.YieldPerHectare = req.YieldPerHectare
	}
	if req.Revenue != nil {
		current.Revenue = req.Revenue
	}
	if req.RevenuePerHectare != nil {
		current.RevenuePerHectare = req.RevenuePerHectare
	}
	if req.PricePerTonne != nil {
		current.PricePerTonne = req.PricePerTonne
	}
	if req.Edited == "" {
		return current
	}
	return calc.Recalculate(current, area, calc.Field(req.Edited))
}

func applyRecord(o *entities.Observation, rec calc.Record) {
	o.TotalYieldTons = rec.TotalYieldTons
	o.YieldPerHectare = rec.YieldPerHectare
	o.Revenue = rec.Revenue
	o.RevenuePerHectare = rec.RevenuePerHectare
	o.PricePerTonne = rec.PricePerTonne
}

func (h *ObservationCtrl) ownedCycle(c echo.Context, param string) (*entities.CropCycle, *entities.Bloc, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil {
		return nil, nil, false
	}
	return h.resolveCycle(c, uint(id))
}

func (h *ObservationCtrl) resolveCycle(c echo.Context, cycleID uint) (*entities.CropCycle, *entities.Bloc, bool) {
	uid, _ := c.Get("uid").(string)
	cycle, err := h.cycles.FindByID(cycleID)
	if err != nil {
		return nil, nil, false
	}
	bloc, err := h.blocs.FindByID(cycle.BlocID, uid)
	if err != nil {
		return nil, nil, false
	}
	return cycle, bloc, true
}
