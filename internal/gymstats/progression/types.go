package progression

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ExercisePerformance is the best result for one exercise within one session.
type ExercisePerformance struct {
	Name      string  `json:"name"`
	MaxReps   int     `json:"max_reps"`
	MaxWeight float64 `json:"max_weight"`
}

func (ep ExercisePerformance) Validate() error {
	if ep.Name == "" {
		return errors.New("exercise name empty")
	}
	if ep.MaxReps < 0 {
		return fmt.Errorf("exercise %s: negative max reps: %d", ep.Name, ep.MaxReps)
	}
	if ep.MaxWeight < 0 {
		return fmt.Errorf("exercise %s: negative max weight: %f", ep.Name, ep.MaxWeight)
	}
	return nil
}

// Session is one recorded workout.
type Session struct {
	PerformedAt time.Time             `json:"performed_at"`
	Exercises   []ExercisePerformance `json:"exercises"`
}

func (s Session) Validate() error {
	if s.PerformedAt.IsZero() {
		return errors.New("session performed at time empty")
	}
	for _, ep := range s.Exercises {
		if err := ep.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Query selects the sessions to aggregate. Empty ExerciseNames means all exercises.
type Query struct {
	SessionStart  time.Time `json:"session_start"`
	SessionEnd    time.Time `json:"session_end"`
	ExerciseNames []string  `json:"exercise_names,omitempty"`
}

func (q Query) Validate() error {
	if q.SessionStart.After(q.SessionEnd) {
		return fmt.Errorf("%w: start %s, end %s",
			ErrInvalidRange, q.SessionStart.Format(time.RFC3339), q.SessionEnd.Format(time.RFC3339))
	}
	return nil
}

// InRange reports whether t falls into [SessionStart, SessionEnd], both inclusive.
func (q Query) InRange(t time.Time) bool {
	return !t.Before(q.SessionStart) && !t.After(q.SessionEnd)
}

// Includes reports whether the exercise passes the name filter.
func (q Query) Includes(exerciseName string) bool {
	if len(q.ExerciseNames) == 0 {
		return true
	}
	return slices.Contains(q.ExerciseNames, exerciseName)
}

// FilterExercises returns a copy of the session keeping only the exercises
// the query asks for. A session without matches keeps an empty list.
func (q Query) FilterExercises(s Session) Session {
	filtered := Session{
		PerformedAt: s.PerformedAt,
		Exercises:   make([]ExercisePerformance, 0, len(s.Exercises)),
	}
	for _, ep := range s.Exercises {
		if q.Includes(ep.Name) {
			filtered.Exercises = append(filtered.Exercises, ep)
		}
	}
	return filtered
}

// ExerciseMetrics holds the running progression state of one exercise in a window.
type ExerciseMetrics struct {
	NewMaxReps           int     `json:"new_max_reps"`
	NewMaxWeight         float64 `json:"new_max_weight"`
	RepsProgressed       int     `json:"reps_progressed"`
	WeightProgressed     float64 `json:"weight_progressed"`
	ProgressionsInReps   int     `json:"progressions_in_reps"`
	ProgressionsInWeight int     `json:"progressions_in_weight"`
	PlateauInReps        int     `json:"plateau_in_reps"`
	PlateauInWeight      int     `json:"plateau_in_weight"`
}

// MetricsWindow is the metrics snapshot for [From, To].
type MetricsWindow struct {
	From    time.Time                  `json:"from"`
	To      time.Time                  `json:"to"`
	Metrics map[string]ExerciseMetrics `json:"metrics"`
}

// Contains reports whether t is within the window bounds, both inclusive.
func (w MetricsWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}
