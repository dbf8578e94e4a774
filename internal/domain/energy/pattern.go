package energy

import (
	"sort"
	"time"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// HourStat is the per-hour aggregate over a user's energy logs: the UTC
// hour of day, the mean reported level for that hour, and how many logs
// contributed to it.
type HourStat struct {
	Hour  int     `json:"hour"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Pattern is a derived, never-persisted view of a user's energy rhythm
// over the trailing window: overall average plus up to three peak and
// three low hours. Hourly carries the raw aggregates for downstream
// insight generation.
type Pattern struct {
	AverageEnergy float64    `json:"average_energy"`
	PeakHours     []int      `json:"peak_hours"`
	LowHours      []int      `json:"low_hours"`
	Hourly        []HourStat `json:"hourly"`
}

// calculatePattern aggregates a user's energy logs into a Pattern.
//
// Logs outside the trailing window (WindowDays before now) are ignored, so
// callers may pass history unfiltered. With no logs in the window the
// default pattern is returned: average energy 3 and empty hour lists.
//
// Hours are grouped by the UTC hour of each log's LoggedAt. Peak hours are
// those with mean >= PeakHourThreshold, ordered by mean descending, capped
// at MaxPatternHours. Low hours are selected from the tail of the same
// descending ranking: of the hours with mean <= LowHourThreshold, the last
// MaxPatternHours entries are kept in ranking order. The tail selection is
// intentional and matches the product's reference behavior; it yields the
// lowest-scoring qualifying hours, listed higher-mean first.
func calculatePattern(logs []*domain.EnergyLog, now time.Time, params *Params) Pattern {
	cutoff := now.UTC().AddDate(0, 0, -params.WindowDays)

	var (
		sums   [24]int
		counts [24]int
		total  int
		n      int
	)

	for _, log := range logs {
		if log.LoggedAt.Before(cutoff) || log.LoggedAt.After(now) {
			continue
		}
		hour := log.LoggedAt.UTC().Hour()
		sums[hour] += log.EnergyLevel
		counts[hour]++
		total += log.EnergyLevel
		n++
	}

	if n == 0 {
		return Pattern{
			AverageEnergy: params.DefaultAverageEnergy,
			PeakHours:     []int{},
			LowHours:      []int{},
			Hourly:        []HourStat{},
		}
	}

	hourly := make([]HourStat, 0, 24)
	for hour := 0; hour < 24; hour++ {
		if counts[hour] == 0 {
			continue
		}
		hourly = append(hourly, HourStat{
			Hour:  hour,
			Mean:  float64(sums[hour]) / float64(counts[hour]),
			Count: counts[hour],
		})
	}

	// Rank hours by mean descending; ties keep natural hour order.
	ranked := make([]HourStat, len(hourly))
	copy(ranked, hourly)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Mean > ranked[j].Mean
	})

	peaks := []int{}
	for _, stat := range ranked {
		if stat.Mean >= params.PeakHourThreshold && len(peaks) < params.MaxPatternHours {
			peaks = append(peaks, stat.Hour)
		}
	}

	// Tail-of-descending selection for low hours.
	qualifying := []HourStat{}
	for _, stat := range ranked {
		if stat.Mean <= params.LowHourThreshold {
			qualifying = append(qualifying, stat)
		}
	}
	if len(qualifying) > params.MaxPatternHours {
		qualifying = qualifying[len(qualifying)-params.MaxPatternHours:]
	}
	lows := []int{}
	for _, stat := range qualifying {
		lows = append(lows, stat.Hour)
	}

	return Pattern{
		AverageEnergy: float64(total) / float64(n),
		PeakHours:     peaks,
		LowHours:      lows,
		Hourly:        hourly,
	}
}
