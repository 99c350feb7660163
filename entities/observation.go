package entities

import "time"

const (
	ObsCategorySugarcaneYield = "sugarcane-yield-quality"
	ObsCategoryIntercropYield = "intercrop-yield-quality"
)

// Observation is a yield/quality record linked to one crop cycle. The five
// numeric fields are interdependent (tied through bloc area and price);
// a nil pointer is an explicit "unknown", distinct from zero.
type Observation struct {
	ObservationID uint      `gorm:"primaryKey" json:"observation_id"`
	CycleID       uint      `json:"cycle_id" gorm:"index"`
	Category      string    `json:"category"` // sugarcane-yield-quality|intercrop-yield-quality
	Date          time.Time `json:"date"`

	TotalYieldTons    *float64 `json:"total_yield_tons"`
	YieldPerHectare   *float64 `json:"yield_per_hectare"`
	Revenue           *float64 `json:"revenue"`
	RevenuePerHectare *float64 `json:"revenue_per_hectare"`
	PricePerTonne     *float64 `json:"price_per_tonne"`

	// Quality metrics are stored, never computed here.
	BrixPct *float64 `json:"brix_pct,omitempty"`
	CCSPct  *float64 `json:"ccs_pct,omitempty"`

	Note string `json:"note,omitempty"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
