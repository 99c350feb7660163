package entities

import "time"

// Activity is a work package linked to a crop cycle. Closure requires an
// actual cost on every activity, not just the planning estimate.
type Activity struct {
	ActivityID uint      `gorm:"primaryKey" json:"activity_id"`
	CycleID    uint      `json:"cycle_id" gorm:"index"`
	Name       string    `json:"name"`
	Phase      string    `json:"phase"` // land_preparation|planting|growth|maintenance|harvest|...
	Date       time.Time `json:"date"`

	EstimatedCost *float64 `json:"estimated_cost"`
	ActualCost    *float64 `json:"actual_cost"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActualCost reports whether the actual cost has been entered.
func (a *Activity) HasActualCost() bool { return a.ActualCost != nil }
