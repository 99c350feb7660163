package types

import (
	"errors"
	"strings"
	"time"
)

// CreatePlantationRequest starts a bloc's first cycle.
type CreatePlantationRequest struct {
	BlocID             uint
	SugarcaneVarietyID string
	IntercropVarietyID string // empty or "none" when no intercrop
	PlantingDate       time.Time
	PlannedHarvestDate time.Time
	ExpectedYieldTPH   float64
}

// CreateRatoonRequest chains a regrowth cycle off the bloc's latest
// closed cycle. The sugarcane variety is inherited from the parent.
type CreateRatoonRequest struct {
	BlocID             uint
	ParentCycleID      uint
	RatoonPlantingDate time.Time
	PlannedHarvestDate time.Time
	ExpectedYieldTPH   float64
	IntercropVarietyID string
}

// UpdateCycleRequest patches an active cycle. Nil fields are untouched.
type UpdateCycleRequest struct {
	PlannedHarvestDate *time.Time
	ExpectedYieldTPH   *float64
	IntercropVarietyID *string // may be set back to "none"
}

// ClosureValidation is the full verdict on whether a cycle may close.
// MissingRequirements always carries every unmet rule, never just the first.
type ClosureValidation struct {
	CycleID             uint     `json:"cycle_id"`
	Eligible            bool     `json:"eligible"`
	MissingRequirements []string `json:"missing_requirements"`
}

// CycleTotals are the authoritative aggregates over a cycle's linked
// activities and observations. ProfitMarginPct is nil when revenue is zero.
type CycleTotals struct {
	EstimatedTotalCost float64  `json:"estimated_total_cost"`
	ActualTotalCost    float64  `json:"actual_total_cost"`
	TotalRevenue       float64  `json:"total_revenue"`
	SugarcaneYieldTPH  float64  `json:"sugarcane_yield_tph"`
	IntercropYieldTPH  float64  `json:"intercrop_yield_tph"`
	NetProfit          float64  `json:"net_profit"`
	ProfitPerHectare   float64  `json:"profit_per_hectare"`
	ProfitMarginPct    *float64 `json:"profit_margin_pct,omitempty"`
}

// ValidationError carries the complete list of caller-correctable
// violations for one operation.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError returns nil when there are no violations.
func NewValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// StateError marks an operation attempted against an entity in the wrong
// lifecycle state (editing a closed cycle, second active cycle, ...).
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return e.Reason }

var ErrCycleNotFound = errors.New("crop cycle not found")
var ErrBlocNotFound = errors.New("bloc not found")

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsState unwraps err into a *StateError if it is one.
func AsState(err error) (*StateError, bool) {
	var se *StateError
	ok := errors.As(err, &se)
	return se, ok
}
