package serviceImp

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"canecycle/database"
	"canecycle/entities"
	actRepoImp "canecycle/pkg/activity/repositoryImp"
	blocRepoImp "canecycle/pkg/bloc/repositoryImp"
	cycleRepoImp "canecycle/pkg/cycle/repositoryImp"
	"canecycle/pkg/metrics/service"
	obsRepoImp "canecycle/pkg/observation/repositoryImp"
)

func newMetricsFixture(t *testing.T) (*gorm.DB, service.MetricsService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := New(cycleRepoImp.New(db), blocRepoImp.New(db), actRepoImp.New(db), obsRepoImp.New(db))
	return db, svc
}

func f(v float64) *float64 { return &v }

func seedCycle(t *testing.T, db *gorm.DB, area float64) *entities.CropCycle {
	t.Helper()
	b := &entities.Bloc{UserID: "U_TEST", Name: "B1", AreaHectares: area}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("create bloc: %v", err)
	}
	planting := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	c := &entities.CropCycle{
		BlocID:             b.BlocID,
		Type:               entities.CycleTypePlantation,
		Status:             entities.CycleStatusActive,
		CycleNumber:        1,
		SugarcaneVarietyID: "r570",
		IntercropVarietyID: entities.IntercropNone,
		PlantingDate:       &planting,
		PlannedHarvestDate: planting.AddDate(0, 11, 0),
		ExpectedYieldTPH:   85,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	return c
}

func TestTotalsAreTBCWithoutData(t *testing.T) {
	db, svc := newMetricsFixture(t)
	c := seedCycle(t, db, 10)

	totals, err := svc.GetAuthoritativeTotals(c.CycleID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals != nil {
		t.Fatalf("expected nil totals (TBC), got %+v", totals)
	}
}

func TestTotalsSumActivitiesAndObservations(t *testing.T) {
	db, svc := newMetricsFixture(t)
	c := seedCycle(t, db, 10)

	acts := []entities.Activity{
		{CycleID: c.CycleID, Name: "Planting", Phase: "planting", EstimatedCost: f(50000), ActualCost: f(52000)},
		{CycleID: c.CycleID, Name: "Fertilizer", Phase: "growth", EstimatedCost: f(20000), ActualCost: f(18000)},
	}
	for i := range acts {
		if err := db.Create(&acts[i]).Error; err != nil {
			t.Fatalf("create activity: %v", err)
		}
	}
	obs := []entities.Observation{
		{CycleID: c.CycleID, Category: entities.ObsCategorySugarcaneYield, TotalYieldTons: f(900), YieldPerHectare: f(90), Revenue: f(3200000)},
		{CycleID: c.CycleID, Category: entities.ObsCategoryIntercropYield, TotalYieldTons: f(20), Revenue: f(80000)},
	}
	for i := range obs {
		if err := db.Create(&obs[i]).Error; err != nil {
			t.Fatalf("create observation: %v", err)
		}
	}

	totals, err := svc.GetAuthoritativeTotals(c.CycleID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals == nil {
		t.Fatal("expected totals")
	}
	if totals.EstimatedTotalCost != 70000 || totals.ActualTotalCost != 70000 {
		t.Fatalf("costs = %v/%v, want 70000/70000", totals.EstimatedTotalCost, totals.ActualTotalCost)
	}
	if totals.TotalRevenue != 3280000 {
		t.Fatalf("revenue = %v, want 3280000", totals.TotalRevenue)
	}
	if totals.SugarcaneYieldTPH != 90 {
		t.Fatalf("sugarcane yield = %v, want 90 (stored per-hectare wins)", totals.SugarcaneYieldTPH)
	}
	// Intercrop observation has no per-hectare figure; fall back to total/area.
	if totals.IntercropYieldTPH != 2 {
		t.Fatalf("intercrop yield = %v, want 2", totals.IntercropYieldTPH)
	}
	if totals.NetProfit != 3210000 {
		t.Fatalf("net profit = %v, want 3210000", totals.NetProfit)
	}
	if totals.ProfitPerHectare != 321000 {
		t.Fatalf("profit/ha = %v, want 321000", totals.ProfitPerHectare)
	}
	if totals.ProfitMarginPct == nil || *totals.ProfitMarginPct != 97.87 {
		t.Fatalf("margin = %v, want 97.87", totals.ProfitMarginPct)
	}
}

func TestMarginNilAtZeroRevenue(t *testing.T) {
	db, svc := newMetricsFixture(t)
	c := seedCycle(t, db, 10)

	a := entities.Activity{CycleID: c.CycleID, Name: "Planting", ActualCost: f(52000)}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create activity: %v", err)
	}

	totals, err := svc.GetAuthoritativeTotals(c.CycleID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals == nil {
		t.Fatal("expected totals: costs alone are still data")
	}
	if totals.ProfitMarginPct != nil {
		t.Fatalf("margin should be undefined at zero revenue, got %v", *totals.ProfitMarginPct)
	}
	if totals.NetProfit != -52000 {
		t.Fatalf("net profit = %v, want -52000", totals.NetProfit)
	}
}

func TestSnapshotServesCachedTotals(t *testing.T) {
	db, svc := newMetricsFixture(t)
	c := seedCycle(t, db, 10)

	o := entities.Observation{CycleID: c.CycleID, Category: entities.ObsCategorySugarcaneYield, Revenue: f(100000)}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("create observation: %v", err)
	}
	if _, err := svc.GetAuthoritativeTotals(c.CycleID); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	// A later edit is not visible through the cached snapshot until the
	// next authoritative read.
	if err := db.Model(&o).Update("revenue", 200000).Error; err != nil {
		t.Fatalf("update observation: %v", err)
	}
	cached, err := svc.Snapshot(c.CycleID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if cached.TotalRevenue != 100000 {
		t.Fatalf("cached revenue = %v, want 100000", cached.TotalRevenue)
	}

	fresh, err := svc.GetAuthoritativeTotals(c.CycleID)
	if err != nil {
		t.Fatalf("fresh totals: %v", err)
	}
	if fresh.TotalRevenue != 200000 {
		t.Fatalf("fresh revenue = %v, want 200000", fresh.TotalRevenue)
	}
}
