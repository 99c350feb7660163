package calc

import "math"

// Field names which of the five interdependent values the user edited.
type Field string

const (
	FieldTotalYieldTons    Field = "total_yield_tons"
	FieldYieldPerHectare   Field = "yield_per_hectare"
	FieldRevenue           Field = "revenue"
	FieldRevenuePerHectare Field = "revenue_per_hectare"
	FieldPricePerTonne     Field = "price_per_tonne"
)

// Record holds the five mutually consistent yield/revenue figures for one
// observation. A nil pointer is "unknown" — distinct from zero, and never
// silently coerced.
type Record struct {
	TotalYieldTons    *float64
	YieldPerHectare   *float64
	Revenue           *float64
	RevenuePerHectare *float64
	PricePerTonne     *float64
}

// Recalculate returns a copy of rec with the fields dependent on the edited
// one recomputed, so the record stays consistent with the algebra
//
//	yieldPerHectare   = totalYieldTons / areaHectares
//	revenuePerHectare = revenue / areaHectares
//	pricePerTonne     = revenue / totalYieldTons
//
// for a fixed areaHectares. The yield family and revenue family are tied
// through area; revenue and yield are tied through price. Outputs are
// rounded to 2 decimals at storage, not during intermediate steps, so
// repeated edits do not compound rounding error. A division by zero or by
// an unknown dependency leaves the dependent field nil.
//
// Recalculate is stateless and safe for concurrent use; the caller owns
// the read-modify-write of the returned record.
func Recalculate(rec Record, areaHectares float64, edited Field) Record {
	if areaHectares <= 0 {
		return rec
	}
	out := rec

	switch edited {
	case FieldTotalYieldTons:
		out.YieldPerHectare = divide(rec.TotalYieldTons, areaHectares)
		out.cascadeRevenueFromPrice()

	case FieldYieldPerHectare:
		out.TotalYieldTons = multiply(rec.YieldPerHectare, areaHectares)
		out.cascadeRevenueFromPrice()

	case FieldRevenue:
		out.RevenuePerHectare = divide(rec.Revenue, areaHectares)
		out.derivePrice()

	case FieldRevenuePerHectare:
		out.Revenue = multiply(rec.RevenuePerHectare, areaHectares)
		out.RevenuePerHectare = round2p(rec.RevenuePerHectare)
		out.derivePrice()

	case FieldPricePerTonne:
		out.PricePerTonne = round2p(rec.PricePerTonne)
		if rec.TotalYieldTons != nil && rec.PricePerTonne != nil {
			rev := *rec.TotalYieldTons * *rec.PricePerTonne
			out.Revenue = round2(rev)
			out.RevenuePerHectare = round2(rev / areaHectares)
		}
	}
	return out
}

// cascadeRevenueFromPrice recomputes the revenue family from the (already
// updated) yield and a known price.
func (r *Record) cascadeRevenueFromPrice() {
	r.TotalYieldTons = round2p(r.TotalYieldTons)
	r.YieldPerHectare = round2p(r.YieldPerHectare)
	if r.TotalYieldTons == nil || r.PricePerTonne == nil {
		return
	}
	rev := *r.TotalYieldTons * *r.PricePerTonne
	r.Revenue = round2(rev)
	if r.YieldPerHectare != nil {
		// revenue / area == price * yieldPerHectare; avoid re-dividing
		// the rounded revenue so both paths agree.
		r.RevenuePerHectare = round2(*r.YieldPerHectare * *r.PricePerTonne)
	}
}

// derivePrice recomputes price per tonne from the (already updated)
// revenue and a known, nonzero total yield. When the division is
// undefined the price goes back to unknown; keeping an old value would
// leave price and revenue/yield disagreeing.
func (r *Record) derivePrice() {
	r.Revenue = round2p(r.Revenue)
	r.RevenuePerHectare = round2p(r.RevenuePerHectare)
	if r.Revenue == nil || r.TotalYieldTons == nil || *r.TotalYieldTons == 0 {
		r.PricePerTonne = nil
		return
	}
	r.PricePerTonne = round2(*r.Revenue / *r.TotalYieldTons)
}

func divide(v *float64, by float64) *float64 {
	if v == nil || by == 0 {
		return nil
	}
	return round2(*v / by)
}

func multiply(v *float64, by float64) *float64 {
	if v == nil {
		return nil
	}
	return round2(*v * by)
}

func round2(v float64) *float64 {
	r := math.Round(v*100) / 100
	return &r
}

func round2p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return round2(*v)
}
