// Package closure decides whether a crop cycle has satisfied the mandatory
// data requirements for closing. Validate is a total function: it never
// errors and always reports every unmet rule, so a user fixing one gap
// sees the remaining ones on the next attempt.
package closure

import (
	"fmt"
	"time"

	"canecycle/entities"
	"canecycle/pkg/cycle/types"
)

// Validate checks cycle against its linked activities and observations.
// candidateHarvest is the actual harvest date the caller intends to close
// with; pass the planned date for a dry-run validation.
func Validate(
	cycle *entities.CropCycle,
	activities []entities.Activity,
	observations []entities.Observation,
	candidateHarvest time.Time,
) types.ClosureValidation {
	var missing []string

	for _, a := range activities {
		if !a.HasActualCost() {
			missing = append(missing, fmt.Sprintf("activity %q (%s): actual cost not entered", a.Name, a.Phase))
		}
	}

	if obs, ok := findComplete(observations, entities.ObsCategorySugarcaneYield); !ok {
		if obs == nil {
			missing = append(missing, "sugarcane yield/quality observation missing")
		} else {
			if obs.TotalYieldTons == nil {
				missing = append(missing, "sugarcane observation: total yield not entered")
			}
			if obs.Revenue == nil {
				missing = append(missing, "sugarcane observation: revenue not entered")
			}
		}
	}

	if cycle.HasIntercrop() {
		if obs, ok := findComplete(observations, entities.ObsCategoryIntercropYield); !ok {
			if obs == nil {
				missing = append(missing, "intercrop yield/revenue missing")
			} else {
				if obs.TotalYieldTons == nil {
					missing = append(missing, "intercrop observation: total yield not entered")
				}
				if obs.Revenue == nil {
					missing = append(missing, "intercrop observation: revenue not entered")
				}
			}
		}
	}

	if start := cycle.StartDate(); start != nil && candidateHarvest.Before(*start) {
		missing = append(missing, fmt.Sprintf(
			"actual harvest date %s is before planting date %s",
			candidateHarvest.Format("2006-01-02"), start.Format("2006-01-02")))
	}

	return types.ClosureValidation{
		CycleID:             cycle.CycleID,
		Eligible:            len(missing) == 0,
		MissingRequirements: missing,
	}
}

// findComplete returns the best observation of the category: a complete
// one (yield and revenue entered) when present, else the first partial
// one, else nil.
func findComplete(observations []entities.Observation, category string) (*entities.Observation, bool) {
	var partial *entities.Observation
	for i := range observations {
		o := &observations[i]
		if o.Category != category {
			continue
		}
		if o.TotalYieldTons != nil && o.Revenue != nil {
			return o, true
		}
		if partial == nil {
			partial = o
		}
	}
	return partial, false
}
