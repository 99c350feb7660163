package calc

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func approx(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: got nil, want %v", name, want)
	}
	if math.Abs(*got-want) > 0.01 {
		t.Fatalf("%s: got %v, want %v", name, *got, want)
	}
}

func TestEditTotalYieldRecomputesPerHectare(t *testing.T) {
	rec := Recalculate(Record{TotalYieldTons: f(85)}, 10, FieldTotalYieldTons)
	approx(t, "yield_per_hectare", rec.YieldPerHectare, 8.5)
	if rec.Revenue != nil {
		t.Fatalf("revenue should stay unknown without a price, got %v", *rec.Revenue)
	}
}

func TestYieldRoundTrip(t *testing.T) {
	// Editing yield_per_hectare back to the equivalent value must not
	// drift total_yield_tons.
	rec := Record{TotalYieldTons: f(85)}
	rec = Recalculate(rec, 10, FieldTotalYieldTons)
	rec = Recalculate(rec, 10, FieldYieldPerHectare)
	approx(t, "total_yield_tons", rec.TotalYieldTons, 85)
}

func TestPriceDerivedFromRevenue(t *testing.T) {
	rec := Record{TotalYieldTons: f(100), Revenue: f(360000)}
	rec = Recalculate(rec, 20, FieldRevenue)
	approx(t, "price_per_tonne", rec.PricePerTonne, 3600.00)
	approx(t, "revenue_per_hectare", rec.RevenuePerHectare, 18000.00)
}

func TestEditPriceCascadesToRevenue(t *testing.T) {
	rec := Record{TotalYieldTons: f(100), PricePerTonne: f(4000)}
	rec = Recalculate(rec, 20, FieldPricePerTonne)
	approx(t, "revenue", rec.Revenue, 400000.00)
	approx(t, "revenue_per_hectare", rec.RevenuePerHectare, 20000.00)
}

func TestEditYieldWithKnownPriceCascades(t *testing.T) {
	rec := Record{PricePerTonne: f(3500)}
	rec.TotalYieldTons = f(90)
	rec = Recalculate(rec, 10, FieldTotalYieldTons)
	approx(t, "yield_per_hectare", rec.YieldPerHectare, 9)
	approx(t, "revenue", rec.Revenue, 315000)
	approx(t, "revenue_per_hectare", rec.RevenuePerHectare, 31500)
}

func TestEditRevenuePerHectare(t *testing.T) {
	rec := Record{TotalYieldTons: f(80), RevenuePerHectare: f(32000)}
	rec = Recalculate(rec, 10, FieldRevenuePerHectare)
	approx(t, "revenue", rec.Revenue, 320000)
	approx(t, "price_per_tonne", rec.PricePerTonne, 4000)
}

func TestZeroYieldLeavesPriceUnknown(t *testing.T) {
	rec := Record{TotalYieldTons: f(0), Revenue: f(1000)}
	rec = Recalculate(rec, 10, FieldRevenue)
	if rec.PricePerTonne != nil {
		t.Fatalf("price should be unknown when yield is zero, got %v", *rec.PricePerTonne)
	}
	approx(t, "revenue_per_hectare", rec.RevenuePerHectare, 100)
}

func TestRevenueEditClearsStalePrice(t *testing.T) {
	rec := Record{TotalYieldTons: f(0), PricePerTonne: f(4000), Revenue: f(1000)}
	rec = Recalculate(rec, 10, FieldRevenue)
	if rec.PricePerTonne != nil {
		t.Fatalf("price should reset to unknown when yield is zero, got %v", *rec.PricePerTonne)
	}
}

func TestRevenuePerHectareEditClearsStalePriceWithoutYield(t *testing.T) {
	rec := Record{PricePerTonne: f(4000), RevenuePerHectare: f(32000)}
	rec = Recalculate(rec, 10, FieldRevenuePerHectare)
	approx(t, "revenue", rec.Revenue, 320000)
	if rec.PricePerTonne != nil {
		t.Fatalf("price should reset to unknown without a yield, got %v", *rec.PricePerTonne)
	}
}

func TestUnknownDependencyStaysUnknown(t *testing.T) {
	rec := Recalculate(Record{PricePerTonne: f(4000)}, 10, FieldPricePerTonne)
	if rec.Revenue != nil || rec.RevenuePerHectare != nil {
		t.Fatal("revenue family should stay unknown without a yield")
	}
}

func TestNonPositiveAreaIsANoOp(t *testing.T) {
	in := Record{TotalYieldTons: f(85)}
	out := Recalculate(in, 0, FieldTotalYieldTons)
	if out.YieldPerHectare != nil {
		t.Fatal("no recalculation expected for area 0")
	}
}

func TestRoundingAtStorage(t *testing.T) {
	rec := Record{TotalYieldTons: f(3), Revenue: f(10)}
	rec = Recalculate(rec, 10, FieldRevenue)
	approx(t, "price_per_tonne", rec.PricePerTonne, 3.33)
}
