package progression

import (
	"time"
)

// MonthThreshold is the elapsed time after which a window is closed.
// It is measured in wall-clock time, not in calendar months.
const MonthThreshold = 30 * 24 * time.Hour

// ThresholdFromDays converts a configured number of days into a window threshold,
// falling back to MonthThreshold for non-positive values.
func ThresholdFromDays(days int) time.Duration {
	if days <= 0 {
		return MonthThreshold
	}
	return time.Duration(days) * 24 * time.Hour
}

// windowElapsed reports whether the window opened at from must be closed
// before folding a session performed at performedAt.
func windowElapsed(from, performedAt time.Time, threshold time.Duration) bool {
	return performedAt.Sub(from) >= threshold
}

// accumulator is the per-exercise running state of the window being built.
// It is owned by a single ProduceWindows run.
type accumulator struct {
	from    time.Time
	metrics map[string]*ExerciseMetrics
}

func newAccumulator(from time.Time) *accumulator {
	return &accumulator{
		from:    from,
		metrics: make(map[string]*ExerciseMetrics),
	}
}

func (a *accumulator) empty() bool {
	return len(a.metrics) == 0
}

func (a *accumulator) fold(ep ExercisePerformance) {
	m, ok := a.metrics[ep.Name]
	if !ok {
		// first sighting in this window only sets the baseline
		a.metrics[ep.Name] = &ExerciseMetrics{
			NewMaxReps:   ep.MaxReps,
			NewMaxWeight: ep.MaxWeight,
		}
		return
	}

	if repsDiff := ep.MaxReps - m.NewMaxReps; repsDiff > 0 {
		m.NewMaxReps = ep.MaxReps
		m.RepsProgressed += repsDiff
		m.ProgressionsInReps++
	} else {
		m.PlateauInReps++
	}

	if weightDiff := ep.MaxWeight - m.NewMaxWeight; weightDiff > 0 {
		m.NewMaxWeight = ep.MaxWeight
		m.WeightProgressed += weightDiff
		m.ProgressionsInWeight++
	} else {
		m.PlateauInWeight++
	}
}

// snapshot detaches the accumulated state into an immutable window.
func (a *accumulator) snapshot(to time.Time) MetricsWindow {
	metrics := make(map[string]ExerciseMetrics, len(a.metrics))
	for name, m := range a.metrics {
		metrics[name] = *m
	}
	return MetricsWindow{
		From:    a.from,
		To:      to,
		Metrics: metrics,
	}
}
