package serviceImp

import (
	"fmt"
	"sync"
	"time"

	"canecycle/entities"
	actrepo "canecycle/pkg/activity/repository"
	blocrepo "canecycle/pkg/bloc/repository"
	"canecycle/pkg/cycle/closure"
	"canecycle/pkg/cycle/repository"
	"canecycle/pkg/cycle/service"
	"canecycle/pkg/cycle/types"
	"canecycle/pkg/growth"
	metrics "canecycle/pkg/metrics/service"
	obsrepo "canecycle/pkg/observation/repository"
	"canecycle/pkg/variety"
)

type CycleSvc struct {
	cycles  repository.CycleRepository
	blocs   blocrepo.BlocRepository
	acts    actrepo.ActivityRepository
	obs     obsrepo.ObservationRepository
	metrics metrics.MetricsService
	stages  *growth.Stages
	catalog *variety.Catalog // optional; nil skips variety lookups

	mu    sync.Mutex
	locks map[uint]*sync.Mutex // per-bloc critical sections
}

func New(
	cr repository.CycleRepository,
	br blocrepo.BlocRepository,
	ar actrepo.ActivityRepository,
	or obsrepo.ObservationRepository,
	ms metrics.MetricsService,
	stages *growth.Stages,
	catalog *variety.Catalog,
) service.CycleService {
	if stages == nil {
		stages = growth.Defaults()
	}
	return &CycleSvc{
		cycles: cr, blocs: br, acts: ar, obs: or,
		metrics: ms, stages: stages, catalog: catalog,
		locks: map[uint]*sync.Mutex{},
	}
}

// blocLock returns the mutex guarding one bloc's check-then-act sequences.
func (s *CycleSvc) blocLock(blocID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[blocID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[blocID] = l
	}
	return l
}

func (s *CycleSvc) CreatePlantation(req types.CreatePlantationRequest) (*entities.CropCycle, error) {
	if _, err := s.blocs.Get(req.BlocID); err != nil {
		return nil, err
	}

	var violations []string
	if req.SugarcaneVarietyID == "" {
		violations = append(violations, "sugarcane variety is required")
	} else if s.catalog != nil && !s.catalog.HasSugarcane(req.SugarcaneVarietyID) {
		violations = append(violations, fmt.Sprintf("unknown sugarcane variety %q", req.SugarcaneVarietyID))
	}
	if req.ExpectedYieldTPH <= 0 {
		violations = append(violations, "expected yield must be greater than zero")
	}
	if req.PlannedHarvestDate.IsZero() {
		violations = append(violations, "planned harvest date is required")
	}
	if req.PlantingDate.IsZero() {
		violations = append(violations, "planting date is required")
	}
	intercrop := normalizeIntercrop(req.IntercropVarietyID)
	if intercrop != entities.IntercropNone && s.catalog != nil && !s.catalog.HasIntercrop(intercrop) {
		violations = append(violations, fmt.Sprintf("unknown intercrop variety %q", intercrop))
	}
	if err := types.NewValidationError(violations); err != nil {
		return nil, err
	}

	lock := s.blocLock(req.BlocID)
	lock.Lock()
	defer lock.Unlock()

	active, err := s.cycles.FindActive(req.BlocID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, &types.StateError{Reason: fmt.Sprintf("bloc %d already has an active cycle (%d)", req.BlocID, active.CycleID)}
	}
	latest, err := s.cycles.Latest(req.BlocID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		return nil, &types.StateError{Reason: "bloc already has a cycle history; chain a ratoon off the latest closed cycle"}
	}

	planting := req.PlantingDate
	c := &entities.CropCycle{
		BlocID:             req.BlocID,
		Type:               entities.CycleTypePlantation,
		Status:             entities.CycleStatusActive,
		CycleNumber:        1,
		SugarcaneVarietyID: req.SugarcaneVarietyID,
		IntercropVarietyID: intercrop,
		PlantingDate:       &planting,
		PlannedHarvestDate: req.PlannedHarvestDate,
		ExpectedYieldTPH:   req.ExpectedYieldTPH,
	}
	s.applyGrowthStage(c, time.Now())
	if err := s.cycles.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CycleSvc) CreateRatoon(req types.CreateRatoonRequest) (*entities.CropCycle, error) {
	if _, err := s.blocs.Get(req.BlocID); err != nil {
		return nil, err
	}

	var violations []string
	if req.ExpectedYieldTPH <= 0 {
		violations = append(violations, "expected yield must be greater than zero")
	}
	if req.PlannedHarvestDate.IsZero() {
		violations = append(violations, "planned harvest date is required")
	}
	if req.RatoonPlantingDate.IsZero() {
		violations = append(violations, "ratoon planting date is required")
	}
	intercrop := normalizeIntercrop(req.IntercropVarietyID)
	if intercrop != entities.IntercropNone && s.catalog != nil && !s.catalog.HasIntercrop(intercrop) {
		violations = append(violations, fmt.Sprintf("unknown intercrop variety %q", intercrop))
	}
	if err := types.NewValidationError(violations); err != nil {
		return nil, err
	}

	lock := s.blocLock(req.BlocID)
	lock.Lock()
	defer lock.Unlock()

	parent, err := s.cycles.FindByID(req.ParentCycleID)
	if err != nil {
		return nil, &types.StateError{Reason: fmt.Sprintf("parent cycle %d not found", req.ParentCycleID)}
	}
	if parent.BlocID != req.BlocID {
		return nil, &types.StateError{Reason: "parent cycle belongs to a different bloc"}
	}
	if parent.Status != entities.CycleStatusClosed {
		return nil, &types.StateError{Reason: "parent cycle must be closed before starting a ratoon"}
	}
	// Ratoons chain off the immediately preceding cycle, plantation or
	// prior ratoon alike.
	latest, err := s.cycles.Latest(req.BlocID)
	if err != nil {
		return nil, err
	}
	if latest == nil || latest.CycleID != parent.CycleID {
		return nil, &types.StateError{Reason: "parent must be the bloc's most recent cycle"}
	}
	active, err := s.cycles.FindActive(req.BlocID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, &types.StateError{Reason: fmt.Sprintf("bloc %d already has an active cycle (%d)", req.BlocID, active.CycleID)}
	}

	parentID := parent.CycleID
	planting := req.RatoonPlantingDate
	c := &entities.CropCycle{
		BlocID:             req.BlocID,
		ParentCycleID:      &parentID,
		Type:               entities.CycleTypeRatoon,
		Status:             entities.CycleStatusActive,
		CycleNumber:        parent.CycleNumber + 1,
		SugarcaneVarietyID: parent.SugarcaneVarietyID, // inherited, immutable for ratoons
		IntercropVarietyID: intercrop,
		RatoonPlantingDate: &planting,
		PlannedHarvestDate: req.PlannedHarvestDate,
		ExpectedYieldTPH:   req.ExpectedYieldTPH,
	}
	s.applyGrowthStage(c, time.Now())
	if err := s.cycles.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CycleSvc) Update(cycleID uint, req types.UpdateCycleRequest) (*entities.CropCycle, error) {
	c, err := s.cycles.FindByID(cycleID)
	if err != nil {
		return nil, err
	}

	lock := s.blocLock(c.BlocID)
	lock.Lock()
	defer lock.Unlock()

	c, err = s.cycles.FindByID(cycleID)
	if err != nil {
		return nil, err
	}
	if c.Status == entities.CycleStatusClosed {
		return nil, &types.StateError{Reason: fmt.Sprintf("cycle %d is closed and can no longer be edited", cycleID)}
	}

	var violations []string
	if req.ExpectedYieldTPH != nil {
		if *req.ExpectedYieldTPH <= 0 {
			violations = append(violations, "expected yield must be greater than zero")
		} else {
			c.ExpectedYieldTPH = *req.ExpectedYieldTPH
		}
	}
	if req.PlannedHarvestDate != nil {
		if req.PlannedHarvestDate.IsZero() {
			violations = append(violations, "planned harvest date is required")
		} else {
			c.PlannedHarvestDate = *req.PlannedHarvestDate
		}
	}
	if req.IntercropVarietyID != nil {
		ic := normalizeIntercrop(*req.IntercropVarietyID)
		if ic != entities.IntercropNone && s.catalog != nil && !s.catalog.HasIntercrop(ic) {
			violations = append(violations, fmt.Sprintf("unknown intercrop variety %q", ic))
		} else {
			c.IntercropVarietyID = ic
		}
	}
	if err := types.NewValidationError(violations); err != nil {
		return nil, err
	}

	if err := s.cycles.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CycleSvc) Close(cycleID uint, actualHarvest time.Time) (*entities.CropCycle, error) {
	c, err := s.cycles.FindByID(cycleID)
	if err != nil {
		return nil, err
	}

	lock := s.blocLock(c.BlocID)
	lock.Lock()
	defer lock.Unlock()

	c, err = s.cycles.FindByID(cycleID)
	if err != nil {
		return nil, err
	}
	if c.Status == entities.CycleStatusClosed {
		return nil, &types.StateError{Reason: fmt.Sprintf("cycle %d is already closed", cycleID)}
	}

	validation, err := s.validate(c, actualHarvest)
	if err != nil {
		return nil, err
	}
	if !validation.Eligible {
		// Nothing is persisted; the caller gets the full gap list.
		return nil, &types.ValidationError{Violations: validation.MissingRequirements}
	}

	totals, err := s.metrics.GetAuthoritativeTotals(cycleID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c.Status = entities.CycleStatusClosed
	c.ActualHarvestDate = &actualHarvest
	c.ClosedAt = &now
	if totals != nil {
		// Freeze the snapshot so the closed cycle keeps its figures even
		// when activities/observations are edited later.
		c.EstimatedTotalCost = &totals.EstimatedTotalCost
		c.ActualTotalCost = &totals.ActualTotalCost
		c.TotalRevenue = &totals.TotalRevenue
		c.SugarcaneYieldTPH = &totals.SugarcaneYieldTPH
		c.IntercropYieldTPH = &totals.IntercropYieldTPH
		c.NetProfit = &totals.NetProfit
		c.ProfitPerHectare = &totals.ProfitPerHectare
		c.ProfitMarginPct = totals.ProfitMarginPct
	}
	if err := s.cycles.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CycleSvc) ValidateForClosure(cycleID uint, candidateHarvest time.Time) (*types.ClosureValidation, error) {
	c, err := s.cycles.FindByID(cycleID)
	if err != nil {
		return nil, err
	}
	if candidateHarvest.IsZero() {
		candidateHarvest = c.PlannedHarvestDate
	}
	return s.validate(c, candidateHarvest)
}

func (s *CycleSvc) validate(c *entities.CropCycle, candidateHarvest time.Time) (*types.ClosureValidation, error) {
	activities, err := s.acts.FindByCycle(c.CycleID)
	if err != nil {
		return nil, err
	}
	observations, err := s.obs.FindByCycle(c.CycleID)
	if err != nil {
		return nil, err
	}
	v := closure.Validate(c, activities, observations, candidateHarvest)
	return &v, nil
}

func (s *CycleSvc) Active(blocID uint) (*entities.CropCycle, error) {
	return s.cycles.FindActive(blocID)
}

func (s *CycleSvc) History(blocID uint) ([]entities.CropCycle, error) {
	return s.cycles.FindByBloc(blocID)
}

// RefreshGrowthStages recomputes days-since-planting and the growth stage
// for every active cycle.
func (s *CycleSvc) RefreshGrowthStages() error {
	active, err := s.cycles.FindAllActive()
	if err != nil {
		return err
	}
	now := time.Now()
	for i := range active {
		c := &active[i]
		prevStage, prevDays := c.GrowthStage, c.DaysSincePlanting
		s.applyGrowthStage(c, now)
		if c.GrowthStage == prevStage && c.DaysSincePlanting == prevDays {
			continue
		}
		if err := s.cycles.Save(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *CycleSvc) applyGrowthStage(c *entities.CropCycle, now time.Time) {
	start := c.StartDate()
	if start == nil {
		return
	}
	c.DaysSincePlanting = growth.DaysSince(*start, now)
	c.GrowthStage = s.stages.StageFor(c.DaysSincePlanting)
}

func normalizeIntercrop(id string) string {
	if id == "" {
		return entities.IntercropNone
	}
	return id
}
