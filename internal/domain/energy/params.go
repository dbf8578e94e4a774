package energy

// Default multiplier tables and thresholds for the scoring engine. Values
// outside the lookup tables deliberately degrade to the defaults instead
// of erroring; see DegradedPriorityMultiplier / DegradedEnergyMultiplier.
const (
	// DegradedPriorityMultiplier applies when a priority is outside 1-5.
	DegradedPriorityMultiplier = 40

	// DegradedEnergyMultiplier applies when an energy requirement is
	// outside 1-5.
	DegradedEnergyMultiplier = 1.0

	// DefaultPriority and DefaultEnergyRequirement apply when a task is
	// created without explicit values.
	DefaultPriority          = 3
	DefaultEnergyRequirement = 3
)

// Params defines all configurable parameters for the energy scoring engine.
type Params struct {
	// Point derivation tables
	PriorityMultipliers map[int]int
	EnergyMultipliers   map[int]float64

	// BonusRate is the fraction of base points awarded when a task is
	// completed at an exactly matching energy level.
	BonusRate float64

	// Pattern derivation
	PeakHourThreshold float64 // per-hour mean at or above this is a peak hour
	LowHourThreshold  float64 // per-hour mean at or below this is a low hour
	MaxPatternHours   int     // cap on reported peak/low hours
	WindowDays        int     // trailing window for pattern derivation

	// DefaultAverageEnergy is reported when no logs exist in the window.
	DefaultAverageEnergy float64
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance. Zero values leave the corresponding default intact.
type ParamsConfig struct {
	BonusRate         float64
	PeakHourThreshold float64
	LowHourThreshold  float64
	MaxPatternHours   int
	WindowDays        int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		PriorityMultipliers: map[int]int{
			1: 10,
			2: 20,
			3: 40,
			4: 80,
			5: 150,
		},

		EnergyMultipliers: map[int]float64{
			1: 0.5,
			2: 0.75,
			3: 1.0,
			4: 1.25,
			5: 1.5,
		},

		BonusRate: 0.25,

		PeakHourThreshold: 4.0,
		LowHourThreshold:  2.0,
		MaxPatternHours:   3,
		WindowDays:        30,

		DefaultAverageEnergy: 3.0,
	}
}

// NewParams creates a new Params instance with custom configuration.
// The multiplier tables are not overridable: they define the product's
// point economy and changing them per-deployment would corrupt stored
// point totals.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.BonusRate > 0 {
		params.BonusRate = config.BonusRate
	}
	if config.PeakHourThreshold > 0 {
		params.PeakHourThreshold = config.PeakHourThreshold
	}
	if config.LowHourThreshold > 0 {
		params.LowHourThreshold = config.LowHourThreshold
	}
	if config.MaxPatternHours > 0 {
		params.MaxPatternHours = config.MaxPatternHours
	}
	if config.WindowDays > 0 {
		params.WindowDays = config.WindowDays
	}

	return params
}
