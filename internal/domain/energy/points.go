package energy

import "math"

// calculateBasePoints derives a task's point value from its priority and
// energy requirement.
//
// Each priority maps to an integer multiplier and each energy requirement
// to a fractional one; the result is their product rounded half-up. Inputs
// outside the lookup tables do not error: they silently fall back to the
// degraded defaults (priority -> 40, energy -> 1.0). That permissive policy
// is deliberate, so stored tasks with legacy or out-of-range values still
// score consistently.
func calculateBasePoints(priority, energyRequirement int, params *Params) int {
	priorityMult, ok := params.PriorityMultipliers[priority]
	if !ok {
		priorityMult = DegradedPriorityMultiplier
	}

	energyMult, ok := params.EnergyMultipliers[energyRequirement]
	if !ok {
		energyMult = DegradedEnergyMultiplier
	}

	return int(math.Round(float64(priorityMult) * energyMult))
}

// calculateBonusPoints returns the bonus awarded on top of the given base
// points when a task is completed at a perfectly matching energy level:
// BonusRate (25% by default) of the base, rounded half-up.
func calculateBonusPoints(points int, params *Params) int {
	return int(math.Round(float64(points) * params.BonusRate))
}
