// Package energy implements the energy matching and scoring engine: point
// derivation from priority and energy requirement, match scoring against a
// user's current energy level, completion bonuses, 30-day hourly pattern
// aggregation, and insight generation. Everything here is pure computation
// over plain records; persistence and transport live elsewhere.
package energy
