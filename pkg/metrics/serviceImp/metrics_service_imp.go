package serviceImp

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	actrepo "canecycle/pkg/activity/repository"
	blocrepo "canecycle/pkg/bloc/repository"
	cyclerepo "canecycle/pkg/cycle/repository"
	"canecycle/pkg/cycle/types"
	"canecycle/pkg/metrics/service"
	obsrepo "canecycle/pkg/observation/repository"

	"canecycle/entities"
)

type MetricsSvc struct {
	cycles cyclerepo.CycleRepository
	blocs  blocrepo.BlocRepository
	acts   actrepo.ActivityRepository
	obs    obsrepo.ObservationRepository

	mu    sync.RWMutex
	cache map[uint]*types.CycleTotals
}

func New(cr cyclerepo.CycleRepository, br blocrepo.BlocRepository, ar actrepo.ActivityRepository, or obsrepo.ObservationRepository) service.MetricsService {
	return &MetricsSvc{cycles: cr, blocs: br, acts: ar, obs: or, cache: map[uint]*types.CycleTotals{}}
}

func (s *MetricsSvc) GetAuthoritativeTotals(cycleID uint) (*types.CycleTotals, error) {
	cycle, err := s.cycles.FindByID(cycleID)
	if err != nil {
		return nil, err
	}
	bloc, err := s.blocs.Get(cycle.BlocID)
	if err != nil {
		return nil, err
	}
	activities, err := s.acts.FindByCycle(cycleID)
	if err != nil {
		return nil, err
	}
	observations, err := s.obs.FindByCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 && len(observations) == 0 {
		return nil, nil // no data yet: TBC, not an error
	}

	t := &types.CycleTotals{}
	for _, a := range activities {
		if a.EstimatedCost != nil {
			t.EstimatedTotalCost += *a.EstimatedCost
		}
		if a.ActualCost != nil {
			t.ActualTotalCost += *a.ActualCost
		}
	}
	for _, o := range observations {
		if o.Revenue != nil {
			t.TotalRevenue += *o.Revenue
		}
		tph := yieldPerHectare(&o, bloc.AreaHectares)
		switch o.Category {
		case entities.ObsCategorySugarcaneYield:
			t.SugarcaneYieldTPH += tph
		case entities.ObsCategoryIntercropYield:
			t.IntercropYieldTPH += tph
		}
	}
	t.NetProfit = t.TotalRevenue - t.ActualTotalCost
	if bloc.AreaHectares > 0 {
		t.ProfitPerHectare = t.NetProfit / bloc.AreaHectares
	}
	if t.TotalRevenue != 0 {
		m := t.NetProfit / t.TotalRevenue * 100
		t.ProfitMarginPct = &m
	}
	roundTotals(t)

	s.mu.Lock()
	s.cache[cycleID] = t
	s.mu.Unlock()
	return t, nil
}

func (s *MetricsSvc) Snapshot(cycleID uint) (*types.CycleTotals, error) {
	s.mu.RLock()
	t, ok := s.cache[cycleID]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}
	return s.GetAuthoritativeTotals(cycleID)
}

func (s *MetricsSvc) StartPolling(ctx context.Context, interval time.Duration) {
	go func() {
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				s.refreshActive()
			}
		}
	}()
}

func (s *MetricsSvc) refreshActive() {
	active, err := s.cycles.FindAllActive()
	if err != nil {
		log.Printf("[metrics] refresh: %v", err)
		return
	}
	for _, c := range active {
		if _, err := s.GetAuthoritativeTotals(c.CycleID); err != nil {
			log.Printf("[metrics] cycle %d: %v", c.CycleID, err)
		}
	}
}

// yieldPerHectare prefers the stored per-hectare figure and falls back to
// total/area.
func yieldPerHectare(o *entities.Observation, area float64) float64 {
	if o.YieldPerHectare != nil {
		return *o.YieldPerHectare
	}
	if o.TotalYieldTons != nil && area > 0 {
		return *o.TotalYieldTons / area
	}
	return 0
}

func roundTotals(t *types.CycleTotals) {
	t.EstimatedTotalCost = round2(t.EstimatedTotalCost)
	t.ActualTotalCost = round2(t.ActualTotalCost)
	t.TotalRevenue = round2(t.TotalRevenue)
	t.SugarcaneYieldTPH = round2(t.SugarcaneYieldTPH)
	t.IntercropYieldTPH = round2(t.IntercropYieldTPH)
	t.NetProfit = round2(t.NetProfit)
	t.ProfitPerHectare = round2(t.ProfitPerHectare)
	if t.ProfitMarginPct != nil {
		m := round2(*t.ProfitMarginPct)
		t.ProfitMarginPct = &m
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
