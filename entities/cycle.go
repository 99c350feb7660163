package entities

import "time"

const (
	CycleTypePlantation = "plantation"
	CycleTypeRatoon     = "ratoon"

	CycleStatusActive = "active"
	CycleStatusClosed = "closed"

	// IntercropNone marks a cycle with no intercrop planted.
	IntercropNone = "none"
)

// CropCycle is one planting-to-harvest cultivation period for a bloc.
// A bloc's cycles form a singly linked list through ParentCycleID:
// plantation (cycle 1) then one ratoon per regrowth. At most one cycle
// per bloc is active at a time.
type CropCycle struct {
	CycleID       uint   `gorm:"primaryKey" json:"cycle_id"`
	BlocID        uint   `json:"bloc_id" gorm:"index"`
	ParentCycleID *uint  `json:"parent_cycle_id,omitempty"`
	Type          string `json:"type"`   // plantation|ratoon
	Status        string `json:"status"` // active|closed
	CycleNumber   int    `json:"cycle_number"`

	SugarcaneVarietyID string `json:"sugarcane_variety_id"`
	IntercropVarietyID string `json:"intercrop_variety_id"` // "none" when absent

	PlantingDate       *time.Time `json:"planting_date,omitempty"`        // plantation only
	RatoonPlantingDate *time.Time `json:"ratoon_planting_date,omitempty"` // ratoon only
	PlannedHarvestDate time.Time  `json:"planned_harvest_date"`
	ActualHarvestDate  *time.Time `json:"actual_harvest_date,omitempty"` // set on closure

	ExpectedYieldTPH float64 `json:"expected_yield_tph"` // tons/ha

	GrowthStage       string `json:"growth_stage,omitempty"`
	DaysSincePlanting int    `json:"days_since_planting"`

	// Frozen from the metrics aggregator when the cycle is closed.
	EstimatedTotalCost *float64   `json:"estimated_total_cost,omitempty"`
	ActualTotalCost    *float64   `json:"actual_total_cost,omitempty"`
	TotalRevenue       *float64   `json:"total_revenue,omitempty"`
	SugarcaneYieldTPH  *float64   `json:"sugarcane_yield_tph,omitempty"`
	IntercropYieldTPH  *float64   `json:"intercrop_yield_tph,omitempty"`
	NetProfit          *float64   `json:"net_profit,omitempty"`
	ProfitPerHectare   *float64   `json:"profit_per_hectare,omitempty"`
	ProfitMarginPct    *float64   `json:"profit_margin_pct,omitempty"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartDate is the date growth is measured from: planting date for a
// plantation cycle, ratoon planting date for a ratoon cycle.
func (c *CropCycle) StartDate() *time.Time {
	if c.Type == CycleTypeRatoon {
		return c.RatoonPlantingDate
	}
	return c.PlantingDate
}

// HasIntercrop reports whether an intercrop variety is set on the cycle.
func (c *CropCycle) HasIntercrop() bool {
	return c.IntercropVarietyID != "" && c.IntercropVarietyID != IntercropNone
}
